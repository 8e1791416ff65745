package input

import (
	"github.com/kataras/golog"

	"github.com/vedantwpatil/replaybot/internal/script"
)

// DryRun logs primitives instead of performing them. Moves are logged only
// at debug level since a single pointer action issues thousands of them.
type DryRun struct {
	logger *golog.Logger
	pos    script.Point
	moves  int
}

func NewDryRun(start script.Point, logger *golog.Logger) *DryRun {
	return &DryRun{logger: logger, pos: start}
}

func (d *DryRun) CurrentPosition() script.Point {
	return d.pos
}

func (d *DryRun) MovePointer(p script.Point) error {
	d.pos = p
	d.moves++
	return nil
}

func (d *DryRun) Click(b Button, held *Modifier) error {
	if held != nil {
		d.logger.Infof("click %s with %s at %s after %d moves", b, *held, d.pos, d.moves)
	} else {
		d.logger.Infof("click %s at %s after %d moves", b, d.pos, d.moves)
	}
	d.moves = 0
	return nil
}

func (d *DryRun) KeyDown(m Modifier) error {
	d.logger.Debugf("key down %s", m)
	return nil
}

func (d *DryRun) KeyUp(m Modifier) error {
	d.logger.Debugf("key up %s", m)
	return nil
}

func (d *DryRun) PressKey(k script.KeySpec) error {
	d.logger.Infof("press %q", k.String())
	return nil
}
