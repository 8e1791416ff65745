package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/kataras/golog"

	"github.com/vedantwpatil/replaybot/internal/input"
	"github.com/vedantwpatil/replaybot/internal/script"
)

var errInjected = errors.New("injected failure")

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func quietLogger() *golog.Logger {
	return golog.New().SetOutput(io.Discard)
}

// journal records primitives and sleeps in the order they happen.
type journal struct {
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

// fakeClock advances only when slept on.
type fakeClock struct {
	now    time.Time
	log    *journal
	sleeps []time.Duration
}

func newFakeClock(log *journal) *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), log: log}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	if c.log != nil {
		c.log.add("sleep %s", d)
	}
}

// fakeInjector records every primitive. When failAt is positive the
// failAt-th fallible primitive returns errInjected.
type fakeInjector struct {
	pos       script.Point
	log       *journal
	moves     []script.Point
	clicks    []script.Point
	presses   []script.KeySpec
	calls     int
	succeeded int
	failAt    int
	clickAt   []time.Time
	now       func() time.Time
}

func (f *fakeInjector) primitive(format string, args ...any) error {
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		return &input.InjectorError{Op: fmt.Sprintf(format, args...), Err: errInjected}
	}
	f.succeeded++
	if f.log != nil {
		f.log.add(format, args...)
	}
	return nil
}

func (f *fakeInjector) CurrentPosition() script.Point { return f.pos }

func (f *fakeInjector) MovePointer(p script.Point) error {
	if err := f.primitive("move %s", p); err != nil {
		return err
	}
	f.pos = p
	f.moves = append(f.moves, p)
	return nil
}

func (f *fakeInjector) Click(b input.Button, held *input.Modifier) error {
	var err error
	if held != nil {
		err = f.primitive("click %s+%s %s", *held, b, f.pos)
	} else {
		err = f.primitive("click %s %s", b, f.pos)
	}
	if err != nil {
		return err
	}
	f.clicks = append(f.clicks, f.pos)
	if f.now != nil {
		f.clickAt = append(f.clickAt, f.now())
	}
	return nil
}

func (f *fakeInjector) KeyDown(m input.Modifier) error {
	return f.primitive("down %s", m)
}

func (f *fakeInjector) KeyUp(m input.Modifier) error {
	return f.primitive("up %s", m)
}

func (f *fakeInjector) PressKey(k script.KeySpec) error {
	if err := f.primitive("press %s", k); err != nil {
		return err
	}
	f.presses = append(f.presses, k)
	return nil
}

type staticLoader struct {
	s   script.Script
	err error
}

func (l staticLoader) Load(string) (script.Script, error) {
	return l.s, l.err
}
