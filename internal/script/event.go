package script

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Point is an absolute screen coordinate.
type Point struct {
	X uint32
	Y uint32
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// DelayRange is a closed interval of milliseconds. Min <= Max.
type DelayRange struct {
	Min uint32
	Max uint32
}

// KeySpec names a key either by the character it types or by a symbolic
// name such as "shift" or "enter". Exactly one of Char and Name is set.
type KeySpec struct {
	Char rune
	Name string
}

// ParseKeySpec turns a script keycode into a KeySpec. A single character is
// kept as a character, anything longer is treated as a key name.
func ParseKeySpec(s string) (KeySpec, error) {
	switch n := utf8.RuneCountInString(s); {
	case n == 0:
		return KeySpec{}, fmt.Errorf("empty keycode")
	case n == 1:
		r, _ := utf8.DecodeRuneInString(s)
		return KeySpec{Char: r}, nil
	default:
		return KeySpec{Name: strings.ToLower(s)}, nil
	}
}

// IsChar reports whether the key is given as a character.
func (k KeySpec) IsChar() bool {
	return k.Name == ""
}

func (k KeySpec) String() string {
	if k.IsChar() {
		return string(k.Char)
	}
	return k.Name
}

// Event is one scripted action. The set of implementations is closed:
// PointerAction and KeyAction.
type Event interface {
	EventID() string
	isEvent()
}

// PointerAction moves the pointer to Target and clicks there.
type PointerAction struct {
	ID     string
	Target Point
	Delay  DelayRange
}

// KeyAction presses Key Count times.
type KeyAction struct {
	ID    string
	Key   KeySpec
	Delay DelayRange
	Count uint32
}

func (a PointerAction) EventID() string { return a.ID }
func (a KeyAction) EventID() string     { return a.ID }

func (PointerAction) isEvent() {}
func (KeyAction) isEvent()     {}

// Script is the ordered list of events played in one pass.
type Script []Event

// Targets returns the declared target of every pointer action in order.
func (s Script) Targets() []Point {
	var out []Point
	for _, ev := range s {
		if p, ok := ev.(PointerAction); ok {
			out = append(out, p.Target)
		}
	}
	return out
}
