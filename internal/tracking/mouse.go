package tracking

import (
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/kataras/golog"
	hook "github.com/robotn/gohook"

	"github.com/vedantwpatil/replaybot/internal/script"
)

// Hotkeys used while recording.
const (
	MarkKey = ";"
	UndoKey = "backspace"
	StopKey = "esc"
)

// Capture selects what Listen records besides MarkKey presses.
type Capture struct {
	// Clicks records every left click at the pointer position.
	Clicks bool
	// Keys records every other key press as a keypress event.
	Keys bool
}

// Listen records into s until StopKey is pressed. MarkKey records the pointer
// position as a click event, UndoKey drops the last event.
func Listen(s *Session, c Capture, logger *golog.Logger) {
	hook.Register(hook.KeyDown, []string{MarkKey}, func(e hook.Event) {
		x, y := robotgo.Location()
		ev := s.MarkPointer(clampPoint(x, y))
		logger.Infof("recorded %s at %s", ev.ID, ev.Target)
	})

	hook.Register(hook.KeyDown, []string{UndoKey}, func(e hook.Event) {
		if s.Undo() {
			logger.Infof("dropped last event")
		}
	})

	if c.Clicks {
		hook.Register(hook.MouseDown, []string{}, func(e hook.Event) {
			if e.Button == hook.MouseMap["left"] || e.Button == 1 {
				ev := s.MarkPointer(clampPoint(int(e.X), int(e.Y)))
				logger.Infof("recorded %s at %s after %s", ev.ID, ev.Target, s.Elapsed().Round(time.Millisecond))
			}
		})
	}

	if c.Keys {
		names := keyNames(hook.Keycode)
		hook.Register(hook.KeyDown, []string{}, func(e hook.Event) {
			k, ok := recordable(names[e.Keycode])
			if !ok {
				return
			}
			ev := s.MarkKey(k)
			logger.Debugf("recorded %s: %q x%d", ev.ID, k.String(), ev.Count)
		})
	}

	hook.Register(hook.KeyDown, []string{StopKey}, func(e hook.Event) {
		logger.Infof("stop key pressed")
		hook.End()
	})

	evChan := hook.Start()
	logger.Infof("recording: %q marks the pointer, %q undoes, %q saves", MarkKey, UndoKey, StopKey)
	// Blocks until hook.End() is called.
	<-hook.Process(evChan)
}

// keyNames inverts a hook keycode table. Where several names share a code
// the shortest one wins, ties broken alphabetically.
func keyNames(codes map[string]uint16) map[uint16]string {
	names := make(map[uint16]string, len(codes))
	for name, code := range codes {
		prev, ok := names[code]
		if !ok || len(name) < len(prev) || (len(name) == len(prev) && name < prev) {
			names[code] = name
		}
	}
	return names
}

var modifierKeys = map[string]bool{
	"shift": true, "rshift": true, "lshift": true,
	"ctrl": true, "control": true, "lctrl": true, "rctrl": true,
	"alt": true, "ralt": true, "lalt": true,
	"cmd": true, "command": true, "rcmd": true, "lcmd": true,
}

// recordable turns a key name into a script key. Hotkeys, bare modifiers and
// unknown keys are not recorded.
func recordable(name string) (script.KeySpec, bool) {
	switch {
	case name == "", name == MarkKey, name == UndoKey, name == StopKey:
		return script.KeySpec{}, false
	case modifierKeys[name]:
		return script.KeySpec{}, false
	}
	k, err := script.ParseKeySpec(name)
	if err != nil {
		return script.KeySpec{}, false
	}
	return k, true
}

func clampPoint(x, y int) script.Point {
	return script.Point{X: uint32(max(0, x)), Y: uint32(max(0, y))}
}
