package sim

import "github.com/san-kum/protodisk/internal/dynamo"

// Frame is a recorded snapshot of every particle position as flat xyz
// float32 triples.
type Frame struct {
	Step      int
	Time      float64
	Positions []float32
}

// Recorder is an Observer that keeps the most recent snapshots, one every
// Every ticks, in a bounded ring.
type Recorder struct {
	every    int
	capacity int
	pool     *SnapshotPool
	frames   []Frame
	head     int
}

func NewRecorder(particles, every, capacity int) *Recorder {
	if every < 1 {
		every = 1
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Recorder{
		every:    every,
		capacity: capacity,
		pool:     NewSnapshotPool(particles),
		frames:   make([]Frame, 0, capacity),
	}
}

func (r *Recorder) OnStep(v dynamo.View, step int, t float64) {
	if step%r.every != 0 {
		return
	}
	r.Capture(v, step, t)
}

// Capture records v regardless of the sampling interval.
func (r *Recorder) Capture(v dynamo.View, step int, t float64) {
	f := Frame{Step: step, Time: t, Positions: r.pool.Capture(v)}
	if len(r.frames) < r.capacity {
		r.frames = append(r.frames, f)
		return
	}
	r.pool.Put(r.frames[r.head].Positions)
	r.frames[r.head] = f
	r.head = (r.head + 1) % r.capacity
}

func (r *Recorder) Len() int { return len(r.frames) }

// Frame returns the i-th recorded frame, oldest first.
func (r *Recorder) Frame(i int) Frame {
	return r.frames[(r.head+i)%len(r.frames)]
}

// Frames returns the recorded frames oldest first. The position buffers
// are shared with the recorder and are reused once the ring wraps.
func (r *Recorder) Frames() []Frame {
	out := make([]Frame, len(r.frames))
	for i := range out {
		out[i] = r.Frame(i)
	}
	return out
}

func (r *Recorder) Latest() (Frame, bool) {
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.Frame(len(r.frames) - 1), true
}

func (r *Recorder) Reset() {
	for _, f := range r.frames {
		r.pool.Put(f.Positions)
	}
	r.frames = r.frames[:0]
	r.head = 0
}
