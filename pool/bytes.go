// Package pool holds reusable buffers behind channel free lists. Get blocks
// when everything is handed out, which is the backpressure.
package pool

// Bytes is a fixed-count pool of equal-sized byte buffers carved out of one
// arena allocation.
type Bytes struct {
	buffers [][]byte
	free    chan uint16

	arena   []byte
	bufSize int
}

func NewBytes(n int, bufSize int) *Bytes {
	arena := make([]byte, n*bufSize)

	buffers := make([][]byte, n)
	for i := 0; i < n; i++ {
		start := i * bufSize
		end := start + bufSize
		buffers[i] = arena[start:end:end] // full slice expression
	}

	free := make(chan uint16, n)
	for i := 0; i < n; i++ {
		free <- uint16(i)
	}

	return &Bytes{
		arena:   arena,
		buffers: buffers,
		free:    free,
		bufSize: bufSize,
	}
}

// BufSize reports the capacity of each pooled buffer.
func (p *Bytes) BufSize() int {
	return p.bufSize
}

func (p *Bytes) Get() ([]byte, uint16) {
	id := <-p.free
	return p.buffers[id], id
}

func (p *Bytes) Return(id uint16) {
	p.free <- id
}
