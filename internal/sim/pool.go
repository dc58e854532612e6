package sim

import (
	"sync"

	"github.com/san-kum/protodisk/internal/dynamo"
)

// SnapshotPool recycles flat xyz float32 buffers for a fixed particle
// count.
type SnapshotPool struct {
	pool sync.Pool
	size int
}

func NewSnapshotPool(particles int) *SnapshotPool {
	size := 3 * particles
	return &SnapshotPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float32, 0, size)
			},
		},
	}
}

// Get returns an empty buffer with capacity for one snapshot.
func (p *SnapshotPool) Get() []float32 {
	return p.pool.Get().([]float32)[:0]
}

// Put returns buf to the pool. Buffers too small for a snapshot are dropped.
func (p *SnapshotPool) Put(buf []float32) {
	if cap(buf) >= p.size {
		p.pool.Put(buf[:0])
	}
}

// Capture copies the positions of v into a pooled buffer.
func (p *SnapshotPool) Capture(v dynamo.View) []float32 {
	return v.AppendPositions32(p.Get())
}
