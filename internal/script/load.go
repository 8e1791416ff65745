package script

import (
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	typeMouse    = "mouse"
	typeKeypress = "keypress"
)

var (
	ErrUnknownType  = errors.New("unknown event type")
	ErrMissingField = errors.New("missing required field")
	ErrInvalidRange = errors.New("invalid delay range")
	ErrInvalidCount = errors.New("count must be at least 1")
)

// LoadError reports why a script could not be loaded. Index is the position
// of the offending record, or -1 when the failure is not tied to a record.
type LoadError struct {
	Path  string
	Index int
	Err   error
}

func (e *LoadError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("load script %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load script %s: event %d: %v", e.Path, e.Index, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// record is the on-disk shape of both event kinds. Pointer fields let the
// decoder tell a missing field from a zero value.
type record struct {
	Type     *string    `json:"type"`
	ID       *string    `json:"id"`
	Pos      *[2]uint32 `json:"pos,omitempty"`
	Keycode  *string    `json:"keycode,omitempty"`
	DelayRng *[2]uint32 `json:"delay_rng"`
	Count    *uint32    `json:"count,omitempty"`
}

// FileLoader reads scripts from the filesystem.
type FileLoader struct{}

// Load implements the loop's script source.
func (FileLoader) Load(path string) (Script, error) {
	return Load(path)
}

// Load reads and validates the script at path.
func Load(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Index: -1, Err: err}
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Index: -1, Err: err}
	}
	return s, nil
}

// Decode parses a script from r. Errors are *LoadError without a path.
func Decode(r io.Reader) (Script, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, &LoadError{Index: -1, Err: fmt.Errorf("parse: %w", err)}
	}

	s := make(Script, 0, len(records))
	for i, rec := range records {
		ev, err := rec.event()
		if err != nil {
			return nil, &LoadError{Index: i, Err: err}
		}
		s = append(s, ev)
	}
	return s, nil
}

func (r record) event() (Event, error) {
	if r.Type == nil {
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	}
	if r.ID == nil {
		return nil, fmt.Errorf("%w: id", ErrMissingField)
	}
	if r.DelayRng == nil {
		return nil, fmt.Errorf("%w: delay_rng", ErrMissingField)
	}
	delay := DelayRange{Min: r.DelayRng[0], Max: r.DelayRng[1]}
	if delay.Min > delay.Max {
		return nil, fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, delay.Min, delay.Max)
	}

	switch *r.Type {
	case typeMouse:
		if r.Pos == nil {
			return nil, fmt.Errorf("%w: pos", ErrMissingField)
		}
		return PointerAction{
			ID:     *r.ID,
			Target: Point{X: r.Pos[0], Y: r.Pos[1]},
			Delay:  delay,
		}, nil
	case typeKeypress:
		if r.Keycode == nil {
			return nil, fmt.Errorf("%w: keycode", ErrMissingField)
		}
		if r.Count == nil {
			return nil, fmt.Errorf("%w: count", ErrMissingField)
		}
		if *r.Count < 1 {
			return nil, ErrInvalidCount
		}
		key, err := ParseKeySpec(*r.Keycode)
		if err != nil {
			return nil, err
		}
		return KeyAction{
			ID:    *r.ID,
			Key:   key,
			Delay: delay,
			Count: *r.Count,
		}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, *r.Type)
	}
}
