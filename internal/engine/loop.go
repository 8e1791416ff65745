package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kataras/golog"

	"github.com/vedantwpatil/replaybot/internal/script"
)

var ErrEmptyScript = errors.New("script has no events")

type State int

const (
	NotStarted State = iota
	Loading
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "not started"
	}
}

// Loader supplies the script for a run.
type Loader interface {
	Load(path string) (script.Script, error)
}

// EventExecutor performs one event, including its trailing delay.
type EventExecutor interface {
	Execute(ev script.Event) error
}

// Hook runs between passes. pass is the number of passes completed so far.
type Hook func(pass int) error

// Loop plays a script pass after pass until its budget is spent. The
// deadline is only checked between passes, so a run overshoots its budget by
// up to one pass and always plays at least one.
type Loop struct {
	loader Loader
	exec   EventExecutor
	clock  Clock
	logger *golog.Logger

	hook      Hook
	hookEvery int

	// StartDelay is waited once after loading, before the deadline is set.
	StartDelay time.Duration

	state  State
	passes int
}

func NewLoop(loader Loader, exec EventExecutor, clock Clock, logger *golog.Logger) *Loop {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = golog.Default
	}
	return &Loop{loader: loader, exec: exec, clock: clock, logger: logger}
}

// SetHook runs h after every n-th completed pass. n <= 0 or a nil h
// disables the hook.
func (l *Loop) SetHook(n int, h Hook) {
	l.hookEvery = n
	l.hook = h
}

func (l *Loop) State() State { return l.state }

// Passes returns the number of fully completed passes.
func (l *Loop) Passes() int { return l.passes }

// Run loads the script at path and plays it for budget.
func (l *Loop) Run(path string, budget time.Duration) error {
	l.state = Loading
	s, err := l.loader.Load(path)
	if err != nil {
		l.state = Failed
		return err
	}
	l.logger.Infof("loaded %d events from %s", len(s), path)

	if l.StartDelay > 0 {
		l.logger.Infof("starting in %s", l.StartDelay)
		l.clock.Sleep(l.StartDelay)
	}
	return l.Play(s, budget)
}

// Play replays s until budget has elapsed at a pass boundary. Any event or
// hook error ends the run at once.
func (l *Loop) Play(s script.Script, budget time.Duration) error {
	if len(s) == 0 {
		l.state = Failed
		return ErrEmptyScript
	}

	l.state = Running
	l.passes = 0
	deadline := l.clock.Now().Add(budget)

	for {
		started := l.clock.Now()
		for _, ev := range s {
			if err := l.exec.Execute(ev); err != nil {
				l.state = Failed
				return fmt.Errorf("pass %d: %w", l.passes+1, err)
			}
		}
		l.passes++
		l.logger.Infof("pass %d done in %s", l.passes, l.clock.Now().Sub(started).Round(time.Millisecond))

		if l.hook != nil && l.hookEvery > 0 && l.passes%l.hookEvery == 0 {
			if err := l.hook(l.passes); err != nil {
				l.state = Failed
				return fmt.Errorf("hook after pass %d: %w", l.passes, err)
			}
		}

		if !l.clock.Now().Before(deadline) {
			break
		}
	}

	l.state = Completed
	l.logger.Infof("run complete after %d passes", l.passes)
	return nil
}

// IdleHook returns a hook that takes a break of random length in [lo, hi].
func IdleHook(rng *rand.Rand, clock Clock, lo, hi time.Duration, logger *golog.Logger) Hook {
	return func(pass int) error {
		d := drawBetween(rng, lo, hi)
		logger.Infof("idling for %s after pass %d", d.Round(time.Millisecond), pass)
		clock.Sleep(d)
		return nil
	}
}
