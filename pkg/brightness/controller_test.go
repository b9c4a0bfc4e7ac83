package brightness

import (
	"errors"
	"testing"
	"time"
)

// fakeBackend records applied levels.
type fakeBackend struct {
	levels []int
	err    error
}

func (f *fakeBackend) set(percent int) error {
	if f.err != nil {
		return f.err
	}
	f.levels = append(f.levels, percent)
	return nil
}

func (f *fakeBackend) get() (int, error) {
	if len(f.levels) == 0 {
		return 100, nil
	}
	return f.levels[len(f.levels)-1], nil
}

func newTestController(fb *fakeBackend) *Controller {
	return &Controller{backend: fb, current: 100}
}

func TestSet_Clamps(t *testing.T) {
	fb := &fakeBackend{}
	c := newTestController(fb)

	cases := []struct{ in, want int }{
		{-10, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{150, 100},
	}
	for _, tc := range cases {
		if !c.Set(tc.in) {
			t.Fatalf("Set(%d) failed", tc.in)
		}
		if got := fb.levels[len(fb.levels)-1]; got != tc.want {
			t.Errorf("Set(%d) applied %d, want %d", tc.in, got, tc.want)
		}
		if c.Current() != tc.want {
			t.Errorf("Current after Set(%d) = %d, want %d", tc.in, c.Current(), tc.want)
		}
	}
}

func TestSet_FailureReturnsFalse(t *testing.T) {
	fb := &fakeBackend{err: errors.New("device busy")}
	c := newTestController(fb)

	if c.Set(50) {
		t.Error("Set should return false when the backend fails")
	}
	if c.Current() != 100 {
		t.Errorf("Current changed on failure: %d", c.Current())
	}
}

func TestFade_EndsAtTarget(t *testing.T) {
	fb := &fakeBackend{}
	c := newTestController(fb)

	if !c.Fade(20, 10*time.Millisecond, 4) {
		t.Fatal("Fade failed")
	}
	if got := fb.levels[len(fb.levels)-1]; got != 20 {
		t.Errorf("final level = %d, want 20", got)
	}
	if len(fb.levels) < 4 {
		t.Errorf("fade applied %d steps, want >= 4", len(fb.levels))
	}
	// Monotonically non-increasing from 100 down to 20.
	prev := 101
	for _, l := range fb.levels {
		if l > prev {
			t.Errorf("fade stepped upward: %v", fb.levels)
			break
		}
		prev = l
	}
}
