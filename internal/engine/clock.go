package engine

import (
	"math/rand/v2"
	"time"

	"github.com/vedantwpatil/replaybot/internal/script"
)

// Clock is the engine's source of time. Sleep blocks the caller.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Draw returns a duration chosen uniformly from r, both bounds included.
// Inverted bounds are swapped rather than rejected; script and config
// loading already refuse Min > Max, so callers outside those paths are
// responsible for their own ranges.
func Draw(rng *rand.Rand, r script.DelayRange) time.Duration {
	lo, hi := r.Min, r.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	ms := uint64(lo) + rng.Uint64N(uint64(hi-lo)+1)
	return time.Duration(ms) * time.Millisecond
}

// drawBetween returns a duration chosen uniformly from [lo, hi]. Like Draw it
// swaps inverted bounds.
func drawBetween(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	return lo + time.Duration(rng.Int64N(int64(hi-lo)+1))
}
