// Package engine replays scripts: it turns events into input primitives and
// repeats whole passes until a runtime budget is spent.
package engine

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/kataras/golog"

	"github.com/vedantwpatil/replaybot/internal/input"
	"github.com/vedantwpatil/replaybot/internal/motion"
	"github.com/vedantwpatil/replaybot/internal/script"
)

const (
	DefaultResolution = 6400
	DefaultJitter     = 3
)

// DefaultKeyRepeat is the pause between repeated presses of one key action.
var DefaultKeyRepeat = script.DelayRange{Min: 40, Max: 120}

// Options tune an Executor. A Resolution below 1 selects the default. Jitter
// and KeyRepeat are taken as given, so zero disables them; use DefaultOptions
// as a starting point.
type Options struct {
	// Resolution is the number of curve segments per pointer move.
	Resolution int
	// Jitter is the maximum per-axis offset in pixels applied to targets.
	Jitter    uint32
	KeyRepeat script.DelayRange

	Registry *Registry
	Clock    Clock
	Logger   *golog.Logger
}

func DefaultOptions() Options {
	return Options{
		Resolution: DefaultResolution,
		Jitter:     DefaultJitter,
		KeyRepeat:  DefaultKeyRepeat,
	}
}

// Executor performs single events against an injector.
type Executor struct {
	injector input.Injector
	rng      *rand.Rand
	opts     Options
	clock    Clock
	logger   *golog.Logger
}

func NewExecutor(injector input.Injector, rng *rand.Rand, opts Options) *Executor {
	if opts.Resolution < 1 {
		opts.Resolution = DefaultResolution
	}
	x := &Executor{
		injector: injector,
		rng:      rng,
		opts:     opts,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
	if x.clock == nil {
		x.clock = SystemClock
	}
	if x.logger == nil {
		x.logger = golog.Default
	}
	return x
}

func (x *Executor) Injector() input.Injector { return x.injector }

// Execute performs ev and then waits its delay. The first failing primitive
// aborts the event.
func (x *Executor) Execute(ev script.Event) error {
	switch e := ev.(type) {
	case script.PointerAction:
		return x.pointer(e)
	case script.KeyAction:
		return x.key(e)
	default:
		return fmt.Errorf("event %q: unsupported event %T", ev.EventID(), ev)
	}
}

func (x *Executor) pointer(e script.PointerAction) error {
	target := x.Jitter(e.Target)

	if entry, ok := x.opts.Registry.Lookup(e.ID); ok {
		x.logger.Debugf("event %q: %s at %s", e.ID, entry.Name, target)
		if err := entry.Action(x, target); err != nil {
			return fmt.Errorf("event %q: %s at %s: %w", e.ID, entry.Name, target, err)
		}
	} else {
		x.logger.Debugf("event %q: click at %s", e.ID, target)
		if err := x.MoveTo(target); err != nil {
			return fmt.Errorf("event %q: %w", e.ID, err)
		}
		if err := x.injector.Click(input.ButtonLeft, nil); err != nil {
			return fmt.Errorf("event %q: click at %s: %w", e.ID, target, err)
		}
	}

	x.Pause(e.Delay)
	return nil
}

func (x *Executor) key(e script.KeyAction) error {
	x.logger.Debugf("event %q: press %q x%d", e.ID, e.Key.String(), e.Count)
	for i := uint32(0); i < e.Count; i++ {
		if i > 0 {
			x.Pause(x.opts.KeyRepeat)
		}
		if err := x.injector.PressKey(e.Key); err != nil {
			return fmt.Errorf("event %q: press %q (%d of %d): %w", e.ID, e.Key.String(), i+1, e.Count, err)
		}
	}
	x.Pause(e.Delay)
	return nil
}

// MoveTo glides the pointer from its current position to target along a
// randomized curve, one move primitive per sampled point.
func (x *Executor) MoveTo(target script.Point) error {
	from := x.injector.CurrentPosition()
	curve := motion.Build(toMotion(from), toMotion(target), x.rng)
	for _, p := range motion.Sample(curve, x.opts.Resolution) {
		sp := fromMotion(p)
		if err := x.injector.MovePointer(sp); err != nil {
			return fmt.Errorf("move to %s via %s: %w", target, sp, err)
		}
	}
	return nil
}

// Jitter offsets p by up to opts.Jitter pixels on each axis, clamped to the
// coordinate range.
func (x *Executor) Jitter(p script.Point) script.Point {
	j := int64(x.opts.Jitter)
	if j == 0 {
		return p
	}
	shift := func(v uint32) uint32 {
		n := int64(v) + x.rng.Int64N(2*j+1) - j
		return uint32(max(0, min(n, math.MaxUint32)))
	}
	return script.Point{X: shift(p.X), Y: shift(p.Y)}
}

// Pause blocks for a duration drawn from r.
func (x *Executor) Pause(r script.DelayRange) {
	x.clock.Sleep(Draw(x.rng, r))
}

func toMotion(p script.Point) motion.Point {
	return motion.Point{X: float64(p.X), Y: float64(p.Y)}
}

// fromMotion rounds to the nearest pixel. Control points may lie off screen,
// so negative values clamp to 0.
func fromMotion(p motion.Point) script.Point {
	round := func(v float64) uint32 {
		return uint32(max(0, min(math.Round(v), math.MaxUint32)))
	}
	return script.Point{X: round(p.X), Y: round(p.Y)}
}
