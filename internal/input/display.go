package input

import (
	"image"

	"github.com/kbinani/screenshot"

	"github.com/vedantwpatil/replaybot/internal/script"
)

// DisplayBounds returns the smallest rectangle covering every active display.
// It is empty when no display is attached.
func DisplayBounds() image.Rectangle {
	var bounds image.Rectangle
	for i := 0; i < screenshot.NumActiveDisplays(); i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}
	return bounds
}

// OutOfBounds lists the targets that fall outside bounds.
func OutOfBounds(targets []script.Point, bounds image.Rectangle) []script.Point {
	var out []script.Point
	for _, t := range targets {
		if !image.Pt(int(t.X), int(t.Y)).In(bounds) {
			out = append(out, t)
		}
	}
	return out
}
