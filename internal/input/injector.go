// Package input delivers synthetic pointer and keyboard input to the host.
package input

import (
	"fmt"
	"strings"

	"github.com/vedantwpatil/replaybot/internal/script"
)

// Injector is the set of input primitives the replay engine drives. Every
// call has taken effect on the host by the time it returns.
type Injector interface {
	CurrentPosition() script.Point
	MovePointer(p script.Point) error
	Click(b Button, held *Modifier) error
	KeyDown(m Modifier) error
	KeyUp(m Modifier) error
	PressKey(k script.KeySpec) error
}

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "left"
	}
}

// Modifier is a key that can be held while clicking.
type Modifier string

const (
	Shift Modifier = "shift"
	Ctrl  Modifier = "ctrl"
	Alt   Modifier = "alt"
	Cmd   Modifier = "cmd"
)

// ParseModifier accepts the usual spellings of a modifier key.
func ParseModifier(s string) (Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shift":
		return Shift, nil
	case "ctrl", "control":
		return Ctrl, nil
	case "alt", "option":
		return Alt, nil
	case "cmd", "command", "meta", "super":
		return Cmd, nil
	default:
		return "", fmt.Errorf("unknown modifier %q", s)
	}
}

// InjectorError reports a failed primitive.
type InjectorError struct {
	Op  string
	Err error
}

func (e *InjectorError) Error() string {
	return fmt.Sprintf("input: %s: %v", e.Op, e.Err)
}

func (e *InjectorError) Unwrap() error { return e.Err }

func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &InjectorError{Op: op, Err: err}
}
