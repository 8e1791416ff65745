package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-vgo/robotgo"

	"github.com/vedantwpatil/replaybot/internal/script"
)

// Robot injects input directly through robotgo.
type Robot struct{}

// NewRobot returns a robotgo backed injector. robotgo's built-in pauses
// after each primitive are disabled; the engine owns all timing.
func NewRobot() *Robot {
	robotgo.MouseSleep = 0
	robotgo.KeySleep = 0
	return &Robot{}
}

func (r *Robot) CurrentPosition() script.Point {
	x, y := robotgo.Location()
	return clampPoint(x, y)
}

func (r *Robot) MovePointer(p script.Point) error {
	robotgo.Move(int(p.X), int(p.Y))
	return nil
}

func (r *Robot) Click(b Button, held *Modifier) error {
	if held != nil {
		if err := r.KeyDown(*held); err != nil {
			return err
		}
	}
	robotgo.Click(robotButton(b), false)
	if held != nil {
		return r.KeyUp(*held)
	}
	return nil
}

func (r *Robot) KeyDown(m Modifier) error {
	return opError(fmt.Sprintf("key down %s", m), robotgo.KeyToggle(string(m), "down"))
}

func (r *Robot) KeyUp(m Modifier) error {
	return opError(fmt.Sprintf("key up %s", m), robotgo.KeyToggle(string(m), "up"))
}

// PressKey taps a named key or an ASCII character, and types any other
// character as a unicode codepoint.
func (r *Robot) PressKey(k script.KeySpec) error {
	unicodeRune, err := checkRobotKey(k)
	if err != nil {
		return opError(fmt.Sprintf("press %q", k.String()), err)
	}
	if unicodeRune {
		robotgo.UnicodeType(uint32(k.Char))
		return nil
	}
	return opError(fmt.Sprintf("press %q", k.String()), robotgo.KeyTap(k.String()))
}

// ErrUnknownKey is returned for key names the backend cannot press.
var ErrUnknownKey = errors.New("unknown key")

// robotKeys are the names robotgo's KeyTap resolves. Any other multi-byte
// name resolves to no key at all and KeyTap reports success.
var robotKeys = map[string]bool{}

func init() {
	for _, name := range strings.Fields(`
		alt audio_forward audio_mute audio_next audio_pause audio_play
		audio_prev audio_random audio_repeat audio_rewind audio_stop
		audio_vol_down audio_vol_up backspace capslock cmd command control
		ctrl delete down end enter esc escape f1 f2 f3 f4 f5 f6 f7 f8 f9 f10
		f11 f12 f13 f14 f15 f16 f17 f18 f19 f20 f21 f22 f23 f24 home insert
		lalt lcmd lctrl left lights_kbd_down lights_kbd_toggle lights_kbd_up
		lights_mon_down lights_mon_up lshift menu num* num+ num- num. num/
		num0 num1 num2 num3 num4 num5 num6 num7 num8 num9 num_clear num_enter
		num_equal num_lock numpad_0 numpad_1 numpad_2 numpad_3 numpad_4
		numpad_5 numpad_6 numpad_7 numpad_8 numpad_9 numpad_lock pagedown
		pageup print printscreen ralt rcmd rctrl right right_shift rshift
		shift space tab up`) {
		robotKeys[name] = true
	}
}

// checkRobotKey reports whether k must be typed as a unicode codepoint
// rather than tapped, and rejects names robotgo does not know.
func checkRobotKey(k script.KeySpec) (bool, error) {
	if k.IsChar() {
		return k.Char > unicode.MaxASCII, nil
	}
	if !robotKeys[k.Name] {
		return false, fmt.Errorf("%w %q", ErrUnknownKey, k.Name)
	}
	return false, nil
}

// robotgo calls the middle button "center".
func robotButton(b Button) string {
	if b == ButtonMiddle {
		return "center"
	}
	return b.String()
}

func clampPoint(x, y int) script.Point {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return script.Point{X: uint32(x), Y: uint32(y)}
}
