package tracking

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantwpatil/replaybot/internal/script"
)

func TestSessionMarks(t *testing.T) {
	delay := script.DelayRange{Min: 600, Max: 1200}
	s := NewSession(delay)

	s.MarkPointer(script.Point{X: 925, Y: 308})
	s.MarkKey(script.KeySpec{Char: '1'})
	s.MarkKey(script.KeySpec{Char: '1'})
	s.MarkKey(script.KeySpec{Name: "space"})
	s.MarkPointer(script.Point{X: 1, Y: 2})

	assert.Equal(t, script.Script{
		script.PointerAction{ID: "click-1", Target: script.Point{X: 925, Y: 308}, Delay: delay},
		script.KeyAction{ID: "key-2", Key: script.KeySpec{Char: '1'}, Delay: delay, Count: 2},
		script.KeyAction{ID: "key-3", Key: script.KeySpec{Name: "space"}, Delay: delay, Count: 1},
		script.PointerAction{ID: "click-4", Target: script.Point{X: 1, Y: 2}, Delay: delay},
	}, s.Script())
}

func TestSessionUndo(t *testing.T) {
	s := NewSession(script.DelayRange{})
	assert.False(t, s.Undo())

	s.MarkPointer(script.Point{X: 1, Y: 1})
	s.MarkPointer(script.Point{X: 2, Y: 2})
	require.True(t, s.Undo())

	got := s.Script()
	require.Len(t, got, 1)
	assert.Equal(t, "click-1", got[0].EventID())
}

func TestSessionScriptIsACopy(t *testing.T) {
	s := NewSession(script.DelayRange{})
	s.MarkPointer(script.Point{X: 1, Y: 1})

	got := s.Script()
	got[0] = script.PointerAction{ID: "changed"}
	assert.Equal(t, "click-1", s.Script()[0].EventID())
}

func TestSessionConcurrentMarks(t *testing.T) {
	s := NewSession(script.DelayRange{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.MarkPointer(script.Point{X: 3, Y: 4})
		}()
	}
	wg.Wait()
	assert.Len(t, s.Script(), 50)
}

func TestClampPoint(t *testing.T) {
	assert.Equal(t, script.Point{X: 0, Y: 5}, clampPoint(-4, 5))
}

func TestKeyNamesPrefersShortestAlias(t *testing.T) {
	codes := map[string]uint16{"ctrl": 29, "control": 29, "cmd": 3675, "command": 3675, "rcmd": 3675, "enter": 28, "a": 30}
	names := keyNames(codes)
	assert.Equal(t, map[uint16]string{29: "ctrl", 3675: "cmd", 28: "enter", 30: "a"}, names)
}

func TestRecordable(t *testing.T) {
	tests := []struct {
		name string
		want script.KeySpec
		ok   bool
	}{
		{"a", script.KeySpec{Char: 'a'}, true},
		{"1", script.KeySpec{Char: '1'}, true},
		{"enter", script.KeySpec{Name: "enter"}, true},
		{"f5", script.KeySpec{Name: "f5"}, true},
		{MarkKey, script.KeySpec{}, false},
		{UndoKey, script.KeySpec{}, false},
		{StopKey, script.KeySpec{}, false},
		{"shift", script.KeySpec{}, false},
		{"control", script.KeySpec{}, false},
		{"", script.KeySpec{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := recordable(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordedKeysBecomeKeypressEvents(t *testing.T) {
	delay := script.DelayRange{Min: 600, Max: 1200}
	s := NewSession(delay)
	names := keyNames(map[string]uint16{"a": 30, "shift": 42, "enter": 28, ";": 39})

	s.MarkPointer(script.Point{X: 5, Y: 6})
	for _, code := range []uint16{30, 30, 42, 39, 28} {
		if k, ok := recordable(names[code]); ok {
			s.MarkKey(k)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, script.Encode(&buf, s.Script()))
	decoded, err := script.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, script.Script{
		script.PointerAction{ID: "click-1", Target: script.Point{X: 5, Y: 6}, Delay: delay},
		script.KeyAction{ID: "key-2", Key: script.KeySpec{Char: 'a'}, Delay: delay, Count: 2},
		script.KeyAction{ID: "key-3", Key: script.KeySpec{Name: "enter"}, Delay: delay, Count: 1},
	}, decoded)
}
