package dynamo

import (
	"sync/atomic"
	"testing"
)

func TestParallelFor_CoversRange(t *testing.T) {
	tests := []struct {
		name              string
		n, minChunk, work int
	}{
		{"serial small", 10, 64, 4},
		{"single worker", 1000, 10, 1},
		{"many workers", 1000, 10, 8},
		{"uneven", 1001, 7, 6},
		{"default workers", 5000, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			ParallelFor(tt.n, tt.minChunk, tt.work, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times, want 1", i, h)
				}
			}
		})
	}
}

func TestParallelFor_Empty(t *testing.T) {
	called := false
	ParallelFor(0, 1, 4, func(start, end int) { called = true })
	if called {
		t.Error("fn called for empty range")
	}
}
