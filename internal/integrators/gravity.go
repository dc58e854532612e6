package integrators

import (
	"math"

	"github.com/san-kum/protodisk/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMinChunk is the smallest index range worth handing to its own
// goroutine.
const DefaultMinChunk = 2048

// centralAccel returns the acceleration towards a point mass at the origin.
// It reports false for a particle exactly at the origin, where the force
// direction is undefined.
func centralAccel(p r3.Vec, gm float64) (r3.Vec, bool) {
	d2 := r3.Dot(p, p)
	if d2 == 0 {
		return r3.Vec{}, false
	}
	d := math.Sqrt(d2)
	return r3.Scale(-gm/(d2*d), p), true
}

// eachDiskChunk calls fn over contiguous chunks of the disk group.
func eachDiskChunk(s *dynamo.ParticleState, minChunk, workers int, fn func(start, end int)) {
	offset := s.ProtostarCount()
	if minChunk <= 0 {
		minChunk = DefaultMinChunk
	}
	dynamo.ParallelFor(s.DiskCount(), minChunk, workers, func(start, end int) {
		fn(offset+start, offset+end)
	})
}
