package sim

import (
	"testing"

	"github.com/san-kum/protodisk/internal/dynamo"
)

func TestSnapshotPool(t *testing.T) {
	pool := NewSnapshotPool(4)

	buf := pool.Get()
	if len(buf) != 0 || cap(buf) < 12 {
		t.Fatalf("Get() len=%d cap=%d, want 0/>=12", len(buf), cap(buf))
	}

	s := testState()
	snap := pool.Capture(s.View())
	if len(snap) != 12 {
		t.Fatalf("Capture() len = %d, want 12", len(snap))
	}
	if snap[3] != 50 {
		t.Errorf("snap[3] = %v, want 50", snap[3])
	}

	pool.Put(snap)
	pool.Put(make([]float32, 2))
	if got := pool.Get(); len(got) != 0 {
		t.Errorf("recycled buffer len = %d, want 0", len(got))
	}
}

func TestRecorder_Every(t *testing.T) {
	st, err := New(testState(), dynamo.DefaultParams(), &countingIntegrator{})
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecorder(4, 5, 10)
	st.AddObserver(rec)

	for i := 0; i < 23; i++ {
		st.Tick()
	}

	if rec.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", rec.Len())
	}
	for i, want := range []int{5, 10, 15, 20} {
		if got := rec.Frame(i).Step; got != want {
			t.Errorf("Frame(%d).Step = %d, want %d", i, got, want)
		}
	}
}

func TestRecorder_RingKeepsNewest(t *testing.T) {
	s := testState()
	rec := NewRecorder(s.Len(), 1, 3)

	for step := 1; step <= 7; step++ {
		s.Pos[1].X = float64(step)
		rec.OnStep(s.View(), step, float64(step)*0.1)
	}

	frames := rec.Frames()
	if len(frames) != 3 {
		t.Fatalf("len(Frames()) = %d, want 3", len(frames))
	}
	for i, want := range []int{5, 6, 7} {
		if frames[i].Step != want {
			t.Errorf("frames[%d].Step = %d, want %d", i, frames[i].Step, want)
		}
		if frames[i].Positions[3] != float32(want) {
			t.Errorf("frames[%d] x = %v, want %d", i, frames[i].Positions[3], want)
		}
	}

	latest, ok := rec.Latest()
	if !ok || latest.Step != 7 {
		t.Errorf("Latest() = %d, %v, want 7, true", latest.Step, ok)
	}

	rec.Reset()
	if _, ok := rec.Latest(); ok || rec.Len() != 0 {
		t.Error("Reset() did not clear frames")
	}
}
