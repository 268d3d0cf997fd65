package pool

// Ring is a fixed-count free list of reusable values. The caller resets a
// value after Get, the pool does not touch contents.
type Ring[T any] struct {
	items []T
	free  chan uint16
}

func NewRing[T any](n int) *Ring[T] {

	items := make([]T, n)

	free := make(chan uint16, n)
	for i := 0; i < n; i++ {
		free <- uint16(i)
	}

	return &Ring[T]{
		items: items,
		free:  free,
	}
}

func (p *Ring[T]) Get() (*T, uint16) {
	id := <-p.free
	return &p.items[id], id
}

func (p *Ring[T]) Return(id uint16) {
	p.free <- id
}
