package gesture

import (
	"time"

	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

type sample struct {
	pos  vec.Vector2D
	time time.Time
}

// velocityTracker keeps a short trailing window of position samples and
// derives velocity and acceleration by finite differences over the whole
// window. Averaging across the window damps the jitter a two-sample
// derivative would amplify.
type velocityTracker struct {
	window  time.Duration
	samples []sample
}

func newVelocityTracker(window time.Duration) *velocityTracker {
	if window <= 0 {
		window = 100 * time.Millisecond
	}
	return &velocityTracker{window: window}
}

func (t *velocityTracker) add(pos vec.Vector2D, at time.Time) {
	t.samples = append(t.samples, sample{pos: pos, time: at})
	t.trim(at)
}

func (t *velocityTracker) trim(now time.Time) {
	cutoff := now.Add(-t.window)
	i := 0
	for i < len(t.samples)-1 && t.samples[i].time.Before(cutoff) {
		i++
	}
	t.samples = t.samples[i:]
}

func (t *velocityTracker) reset() {
	t.samples = t.samples[:0]
}

// velocity returns displacement over the window in units per second. With
// fewer than two samples (or a degenerate zero-duration window) it returns
// zero rather than dividing by zero.
func (t *velocityTracker) velocity() vec.Vector2D {
	n := len(t.samples)
	if n < 2 {
		return vec.Vector2D{}
	}
	first, last := t.samples[0], t.samples[n-1]
	dt := last.time.Sub(first.time).Seconds()
	if dt <= 0 {
		return vec.Vector2D{}
	}
	return last.pos.Sub(first.pos).Scale(1 / dt)
}

// acceleration compares the mean velocity of the window's older half with
// its newer half.
func (t *velocityTracker) acceleration() vec.Vector2D {
	n := len(t.samples)
	if n < 3 {
		return vec.Vector2D{}
	}
	mid := n / 2
	v1 := spanVelocity(t.samples[:mid+1])
	v2 := spanVelocity(t.samples[mid:])
	dt := t.samples[n-1].time.Sub(t.samples[0].time).Seconds() / 2
	if dt <= 0 {
		return vec.Vector2D{}
	}
	return v2.Sub(v1).Scale(1 / dt)
}

func spanVelocity(s []sample) vec.Vector2D {
	if len(s) < 2 {
		return vec.Vector2D{}
	}
	dt := s[len(s)-1].time.Sub(s[0].time).Seconds()
	if dt <= 0 {
		return vec.Vector2D{}
	}
	return s[len(s)-1].pos.Sub(s[0].pos).Scale(1 / dt)
}
