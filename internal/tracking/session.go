package tracking

import (
	"fmt"
	"sync"
	"time"

	"github.com/vedantwpatil/replaybot/internal/script"
)

// Session accumulates recorded events. Hook callbacks run on the hook's
// goroutine, so all access is locked.
type Session struct {
	mu      sync.Mutex
	delay   script.DelayRange
	started time.Time
	events  script.Script
}

// NewSession starts an empty recording whose events all get delay.
func NewSession(delay script.DelayRange) *Session {
	return &Session{delay: delay, started: time.Now()}
}

// MarkPointer appends a pointer event at p.
func (s *Session) MarkPointer(p script.Point) script.PointerAction {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := script.PointerAction{
		ID:     fmt.Sprintf("click-%d", len(s.events)+1),
		Target: p,
		Delay:  s.delay,
	}
	s.events = append(s.events, ev)
	return ev
}

// MarkKey appends a single press of k, or bumps the count when the previous
// event pressed the same key.
func (s *Session) MarkKey(k script.KeySpec) script.KeyAction {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.events); n > 0 {
		if prev, ok := s.events[n-1].(script.KeyAction); ok && prev.Key == k {
			prev.Count++
			s.events[n-1] = prev
			return prev
		}
	}
	ev := script.KeyAction{
		ID:    fmt.Sprintf("key-%d", len(s.events)+1),
		Key:   k,
		Delay: s.delay,
		Count: 1,
	}
	s.events = append(s.events, ev)
	return ev
}

// Undo drops the last recorded event and reports whether there was one.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.events) == 0 {
		return false
	}
	s.events = s.events[:len(s.events)-1]
	return true
}

// Elapsed is the time since the session started.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.started)
}

// Script returns a copy of the events recorded so far.
func (s *Session) Script() script.Script {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(script.Script, len(s.events))
	copy(out, s.events)
	return out
}
