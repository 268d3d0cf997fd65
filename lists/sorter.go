// Package lists reorders and slices in-memory row sets. Rows are shared,
// never copied: sorting produces a new top-level slice over the same row
// values.
package lists

import (
	"math/big"
	"sort"

	"github.com/dot5enko/columnar-result-pager/ops"
	"github.com/dot5enko/columnar-result-pager/schema"
	"github.com/dot5enko/columnar-result-pager/vector"
)

// Sort orders rows by one column through cmp, stable so equal keys keep
// their arrival order. Null cells go last no matter the direction, the
// engine's default null placement. The input slice is left untouched.
func Sort(rows [][]any, column int, desc bool, cmp func(a, b any) int) [][]any {

	perm := make([]int, len(rows))
	for i := range perm {
		perm[i] = i
	}

	sort.SliceStable(perm, func(i, j int) bool {
		a := cellAt(rows[perm[i]], column)
		b := cellAt(rows[perm[j]], column)

		if a == nil || b == nil {
			// nulls last regardless of direction
			return a != nil && b == nil
		}

		c := cmp(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})

	sorted := make([][]any, len(rows))
	for i, idx := range perm {
		sorted[i] = rows[idx]
	}
	return sorted
}

func cellAt(row []any, column int) any {
	if column < 0 || column >= len(row) {
		return nil
	}
	return row[column]
}

// ComparatorFor picks the cell ordering for a column type. Most types go
// through the generic value comparator, the two exceptions carry their own
// semantics: wide integers may have materialized as base-10 strings, and
// intervals normalize months to thirty days before comparing.
func ComparatorFor(typ schema.TypeDescriptor) func(a, b any) int {
	switch typ.Id {
	case schema.HugeIntType:
		return compareWideInts
	case schema.IntervalType:
		return compareIntervals
	default:
		return ops.CompareValues
	}
}

func compareWideInts(a, b any) int {
	av, aOk := wideInt(a)
	bv, bOk := wideInt(b)
	if !aOk || !bOk {
		return ops.CompareValues(a, b)
	}
	return av.Cmp(bv)
}

func wideInt(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case int64:
		return big.NewInt(n), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	case string:
		b, isOk := new(big.Int).SetString(n, 10)
		return b, isOk
	default:
		return nil, false
	}
}

const microsPerDay = int64(24) * 3600 * 1000 * 1000

func compareIntervals(a, b any) int {
	av, aOk := a.(vector.Interval)
	bv, bOk := b.(vector.Interval)
	if !aOk || !bOk {
		return ops.CompareValues(a, b)
	}

	an := (int64(av.Months)*30+int64(av.Days))*microsPerDay + av.Micros
	bn := (int64(bv.Months)*30+int64(bv.Days))*microsPerDay + bv.Micros
	return ops.Compare(an, bn)
}
