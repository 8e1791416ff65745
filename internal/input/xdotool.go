package input

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kataras/golog"

	"github.com/vedantwpatil/replaybot/internal/script"
)

// xdotool keysym names for the symbolic keys scripts commonly use.
var xdotoolKeys = map[string]string{
	"enter":     "Return",
	"return":    "Return",
	"esc":       "Escape",
	"escape":    "Escape",
	"space":     "space",
	"tab":       "Tab",
	"backspace": "BackSpace",
	"delete":    "Delete",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"home":      "Home",
	"end":       "End",
	"pageup":    "Prior",
	"pagedown":  "Next",
}

// Xdotool injects input by running the xdotool utility once per primitive.
// Each call spawns a process, so pair it with a low motion resolution.
type Xdotool struct {
	bin    string
	run    func(bin string, args ...string) ([]byte, error)
	logger *golog.Logger
	last   script.Point
}

// NewXdotool returns an injector that shells out to bin, "xdotool" when empty.
func NewXdotool(bin string, logger *golog.Logger) *Xdotool {
	if bin == "" {
		bin = "xdotool"
	}
	return &Xdotool{bin: bin, run: runCommand, logger: logger}
}

func runCommand(bin string, args ...string) ([]byte, error) {
	cmd := exec.Command(bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w, output: %s", bin, strings.Join(args, " "), err, bytes.TrimSpace(out))
	}
	return out, nil
}

// CurrentPosition asks xdotool for the pointer location. When that fails the
// last position this injector moved to is returned instead.
func (x *Xdotool) CurrentPosition() script.Point {
	out, err := x.run(x.bin, "getmouselocation", "--shell")
	if err != nil {
		x.logger.Warnf("pointer location unavailable, using last known %s: %v", x.last, err)
		return x.last
	}
	p, err := parseMouseLocation(out)
	if err != nil {
		x.logger.Warnf("pointer location unparseable, using last known %s: %v", x.last, err)
		return x.last
	}
	x.last = p
	return p
}

func (x *Xdotool) MovePointer(p script.Point) error {
	_, err := x.run(x.bin, "mousemove", strconv.FormatUint(uint64(p.X), 10), strconv.FormatUint(uint64(p.Y), 10))
	if err != nil {
		return opError(fmt.Sprintf("move to %s", p), err)
	}
	x.last = p
	return nil
}

func (x *Xdotool) Click(b Button, held *Modifier) error {
	if held != nil {
		if err := x.KeyDown(*held); err != nil {
			return err
		}
	}
	if _, err := x.run(x.bin, "click", xdotoolButton(b)); err != nil {
		return opError(fmt.Sprintf("click %s", b), err)
	}
	if held != nil {
		return x.KeyUp(*held)
	}
	return nil
}

func (x *Xdotool) KeyDown(m Modifier) error {
	_, err := x.run(x.bin, "keydown", xdotoolModifier(m))
	return opError(fmt.Sprintf("key down %s", m), err)
}

func (x *Xdotool) KeyUp(m Modifier) error {
	_, err := x.run(x.bin, "keyup", xdotoolModifier(m))
	return opError(fmt.Sprintf("key up %s", m), err)
}

// PressKey types characters literally and sends named keys as keysyms.
func (x *Xdotool) PressKey(k script.KeySpec) error {
	var err error
	if k.IsChar() {
		_, err = x.run(x.bin, "type", "--delay", "0", "--", string(k.Char))
	} else {
		_, err = x.run(x.bin, "key", xdotoolKeysym(k.Name))
	}
	return opError(fmt.Sprintf("press %q", k.String()), err)
}

func xdotoolButton(b Button) string {
	switch b {
	case ButtonRight:
		return "3"
	case ButtonMiddle:
		return "2"
	default:
		return "1"
	}
}

func xdotoolModifier(m Modifier) string {
	switch m {
	case Cmd:
		return "super"
	default:
		return string(m)
	}
}

func xdotoolKeysym(name string) string {
	if sym, ok := xdotoolKeys[name]; ok {
		return sym
	}
	return name
}

// parseMouseLocation reads the X= and Y= lines of `getmouselocation --shell`.
func parseMouseLocation(out []byte) (script.Point, error) {
	var p script.Point
	var seenX, seenY bool
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, val, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		switch key {
		case "X":
			p.X, seenX = clampPoint(n, 0).X, true
		case "Y":
			p.Y, seenY = clampPoint(0, n).Y, true
		}
	}
	if !seenX || !seenY {
		return script.Point{}, errors.New("missing X or Y in xdotool output")
	}
	return p, nil
}
