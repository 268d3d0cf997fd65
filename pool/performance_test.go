package pool

import (
	"bytes"
	"testing"
)

const benchBufSize = 64 * 1024

func touch(buf []byte) {
	for i := 0; i < len(buf); i += 64 {
		buf[i]++
	}
}

func BenchmarkArenaBytes(b *testing.B) {
	p := NewBytes(128, benchBufSize)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf, idx := p.Get()
			touch(buf)
			p.Return(idx)
		}
	})
}

func BenchmarkRingBuffers(b *testing.B) {
	p := NewRing[bytes.Buffer](128)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf, idx := p.Get()
			buf.Reset()
			buf.WriteString("frame payload scratch")
			p.Return(idx)
		}
	})
}

func BenchmarkNoPool(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf := make([]byte, benchBufSize)
			touch(buf)
		}
	})
}

func TestBytesHandsOutDistinctBuffers(t *testing.T) {
	p := NewBytes(4, 16)

	a, aId := p.Get()
	b, bId := p.Get()
	if aId == bId {
		t.Fatalf("same buffer handed out twice")
	}

	a[0] = 1
	b[0] = 2
	if a[0] != 1 {
		t.Errorf("buffers share memory")
	}
	if len(a) != 16 || cap(a) != 16 {
		t.Errorf("buffer dims = %d/%d", len(a), cap(a))
	}

	p.Return(aId)
	p.Return(bId)

	// all four still reachable after returns
	seen := map[uint16]bool{}
	for i := 0; i < 4; i++ {
		_, id := p.Get()
		seen[id] = true
	}
	if len(seen) != 4 {
		t.Errorf("pool lost buffers: %d distinct", len(seen))
	}
}

func TestRingReusesValues(t *testing.T) {
	p := NewRing[bytes.Buffer](2)

	buf, id := p.Get()
	buf.WriteString("leftover")
	p.Return(id)

	var sawOld bool
	for i := 0; i < 2; i++ {
		got, gotId := p.Get()
		if got.Len() > 0 {
			sawOld = true
			got.Reset()
		}
		p.Return(gotId)
	}
	if !sawOld {
		t.Errorf("returned value was not reused")
	}
}
