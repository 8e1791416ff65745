package engine

import (
	"fmt"
	"strings"

	"github.com/vedantwpatil/replaybot/internal/input"
	"github.com/vedantwpatil/replaybot/internal/script"
)

// Action replaces the plain click of a pointer event. target is the event's
// jittered target.
type Action func(x *Executor, target script.Point) error

// Entry binds an event ID predicate to a composite action.
type Entry struct {
	Name   string
	Match  func(id string) bool
	Action Action
}

// Registry maps event IDs to composite actions. The first matching entry wins.
type Registry struct {
	entries []Entry
}

func NewRegistry(entries ...Entry) *Registry {
	return &Registry{entries: entries}
}

func (r *Registry) Register(e Entry) {
	r.entries = append(r.entries, e)
}

// Lookup returns the first entry whose predicate accepts id.
func (r *Registry) Lookup(id string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	for _, e := range r.entries {
		if e.Match(id) {
			return e, true
		}
	}
	return Entry{}, false
}

func Prefix(p string) func(string) bool {
	return func(id string) bool { return strings.HasPrefix(id, p) }
}

func Contains(s string) func(string) bool {
	return func(id string) bool { return strings.Contains(id, s) }
}

// Grid describes a block of evenly spaced cells, such as an inventory.
type Grid struct {
	Columns  int
	Rows     int
	StepX    uint32
	StepY    uint32
	Modifier input.Modifier
	// Gap is the pause between two cells.
	Gap script.DelayRange
}

// Cells lists the cell positions row by row, starting at origin.
func (g Grid) Cells(origin script.Point) []script.Point {
	cells := make([]script.Point, 0, g.Columns*g.Rows)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Columns; col++ {
			cells = append(cells, script.Point{
				X: origin.X + uint32(col)*g.StepX,
				Y: origin.Y + uint32(row)*g.StepY,
			})
		}
	}
	return cells
}

// ClearInventory visits every cell of g, origin at the event target, and
// clicks it while holding g.Modifier. A process killed mid-action can leave
// the modifier held.
func ClearInventory(g Grid) Action {
	return func(x *Executor, target script.Point) error {
		mod := g.Modifier
		cells := g.Cells(target)
		for i, cell := range cells {
			if i > 0 {
				x.Pause(g.Gap)
				cell = x.Jitter(cell)
			}
			if err := x.MoveTo(cell); err != nil {
				return fmt.Errorf("cell %d: %w", i, err)
			}
			if err := x.Injector().Click(input.ButtonLeft, &mod); err != nil {
				return fmt.Errorf("cell %d: %s-click at %s: %w", i, mod, cell, err)
			}
		}
		return nil
	}
}

// InventoryEntry registers ClearInventory for IDs containing match.
func InventoryEntry(match string, g Grid) Entry {
	return Entry{Name: "clear-inventory", Match: Contains(match), Action: ClearInventory(g)}
}
