package pager

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dot5enko/columnar-result-pager/ops"
)

// PayloadEstimator keeps a bounded ring of sampled per-row byte sizes and
// extrapolates a total memory footprint. Purely advisory, the threshold
// logic never consults it.
type PayloadEstimator struct {
	samples []int64
	next    int
	filled  int
}

func NewPayloadEstimator(sampleRows int) *PayloadEstimator {
	if sampleRows <= 0 {
		sampleRows = 1
	}
	return &PayloadEstimator{
		samples: make([]int64, sampleRows),
	}
}

// Observe folds one row into the sample ring, overwriting the oldest once
// the ring is full.
func (p *PayloadEstimator) Observe(row []any) {
	p.samples[p.next] = rowFootprint(row)
	p.next = (p.next + 1) % len(p.samples)
	if p.filled < len(p.samples) {
		p.filled++
	}
}

func (p *PayloadEstimator) ObserveAll(rows [][]any) {
	for _, row := range rows {
		p.Observe(row)
	}
}

func (p *PayloadEstimator) SampleCount() int {
	return p.filled
}

func (p *PayloadEstimator) averageRow() int64 {
	if p.filled == 0 {
		return 0
	}

	var sum int64
	for _, s := range p.samples[:p.filled] {
		sum += s
	}
	return sum / int64(p.filled)
}

// Bounds reports the smallest and largest sampled row.
func (p *PayloadEstimator) Bounds() ops.Bounds[int64] {
	if p.filled == 0 {
		return ops.Bounds[int64]{}
	}
	return ops.GetMaxMin(p.samples[:p.filled])
}

// EstimateTotal extrapolates the sampled average over totalRows.
func (p *PayloadEstimator) EstimateTotal(totalRows int) uint64 {
	if totalRows <= 0 {
		return 0
	}
	return uint64(p.averageRow()) * uint64(totalRows)
}

func (p *PayloadEstimator) Human(totalRows int) string {
	return humanize.Bytes(p.EstimateTotal(totalRows))
}

// rowFootprint is the representative size function: variable-length cells
// count their bytes, scalars their storage width, nested values recurse.
func rowFootprint(row []any) int64 {
	var total int64
	for _, cell := range row {
		total += cellFootprint(cell)
	}
	return total
}

func cellFootprint(cell any) int64 {
	switch v := cell.(type) {
	case nil:
		return 1
	case string:
		return int64(len(v)) + 4
	case []byte:
		return int64(len(v)) + 4
	case bool:
		return 1
	case time.Time:
		return 16
	case []any:
		return rowFootprint(v)
	case map[string]any:
		var total int64
		for k, item := range v {
			total += int64(len(k)) + cellFootprint(item)
		}
		return total
	default:
		return 8
	}
}
