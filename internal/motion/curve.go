// Package motion generates human-looking pointer paths as randomized cubic
// Bezier curves.
package motion

import (
	"math"
	"math/rand/v2"
)

const (
	// deviationScale is the maximum control point offset as a fraction of
	// the travel distance.
	deviationScale = 30.0 / 50.0

	ctrl1MinOffset = 0.5
	ctrl1MaxOffset = 1.0
	ctrl2MinOffset = 0.3
	ctrl2MaxOffset = 0.8

	// Angle perturbations, radians.
	ctrl1Spread = 0.8
	ctrl2Spread = 0.5
)

// Point is a position in screen space.
type Point struct {
	X float64
	Y float64
}

// Curve is a cubic Bezier from Start to End.
type Curve struct {
	Start Point
	Ctrl1 Point
	Ctrl2 Point
	End   Point
}

// Build returns a randomized curve from start to end. The first control
// point leaves start near the straight-line bearing, the second approaches
// end from near it, both at distances proportional to the travel distance.
func Build(start, end Point, rng *rand.Rand) Curve {
	dx := end.X - start.X
	dy := end.Y - start.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return Curve{Start: start, Ctrl1: start, Ctrl2: start, End: end}
	}

	maxDev := dist * deviationScale
	off1 := uniform(rng, ctrl1MinOffset*maxDev, ctrl1MaxOffset*maxDev)
	off2 := uniform(rng, ctrl2MinOffset*maxDev, ctrl2MaxOffset*maxDev)

	bearing := math.Atan2(dy, dx)
	a1 := bearing + uniform(rng, -ctrl1Spread, ctrl1Spread)
	a2 := bearing + uniform(rng, -ctrl2Spread, ctrl2Spread)

	return Curve{
		Start: start,
		Ctrl1: Point{X: start.X + off1*math.Cos(a1), Y: start.Y + off1*math.Sin(a1)},
		Ctrl2: Point{X: end.X - off2*math.Cos(a2), Y: end.Y - off2*math.Sin(a2)},
		End:   end,
	}
}

// Eval returns the point at parameter t in [0, 1].
func (c Curve) Eval(t float64) Point {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return Point{
		X: b0*c.Start.X + b1*c.Ctrl1.X + b2*c.Ctrl2.X + b3*c.End.X,
		Y: b0*c.Start.Y + b1*c.Ctrl1.Y + b2*c.Ctrl2.Y + b3*c.End.Y,
	}
}

// Sample evaluates c at resolution+1 evenly spaced parameters, t = k/resolution.
// The first and last points are exactly Start and End.
func Sample(c Curve, resolution int) []Point {
	if resolution < 1 {
		resolution = 1
	}
	pts := make([]Point, resolution+1)
	pts[0] = c.Start
	for k := 1; k < resolution; k++ {
		pts[k] = c.Eval(float64(k) / float64(resolution))
	}
	pts[resolution] = c.End
	return pts
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
