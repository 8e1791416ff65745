package script

import (
	"fmt"
	"io"
	"os"
)

// Save writes s to path in the format Load reads.
func Save(path string, s Script) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create script %s: %w", path, err)
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		return fmt.Errorf("write script %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes s as an indented JSON array.
func Encode(w io.Writer, s Script) error {
	records := make([]record, 0, len(s))
	for _, ev := range s {
		records = append(records, toRecord(ev))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func toRecord(ev Event) record {
	var (
		kind  string
		id    = ev.EventID()
		delay [2]uint32
		rec   record
	)
	switch e := ev.(type) {
	case PointerAction:
		kind = typeMouse
		pos := [2]uint32{e.Target.X, e.Target.Y}
		delay = [2]uint32{e.Delay.Min, e.Delay.Max}
		rec.Pos = &pos
	case KeyAction:
		kind = typeKeypress
		key := e.Key.String()
		count := e.Count
		delay = [2]uint32{e.Delay.Min, e.Delay.Max}
		rec.Keycode = &key
		rec.Count = &count
	}
	rec.Type = &kind
	rec.ID = &id
	rec.DelayRng = &delay
	return rec
}
