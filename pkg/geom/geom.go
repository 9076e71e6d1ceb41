// Package geom provides the 2-D geometry primitives shared by the pose
// and chart engines.
package geom

import "math"

// Point is a position in surface pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Angle returns the signed angle at vertex b between the vectors b->a
// and b->c, in degrees in the range (-180, 180].
func Angle(a, b, c Point) float64 {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y

	cross := v1x*v2y - v1y*v2x
	dot := v1x*v2x + v1y*v2y

	return math.Atan2(cross, dot) * 180 / math.Pi
}

// Lerp linearly interpolates between a and b. t is clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	t = Clamp01(t)
	return a + (b-a)*t
}

// SmoothPoint blends a new reading into the previous one with weight
// alpha on the new reading (exponential smoothing).
func SmoothPoint(prev, next Point, alpha float64) Point {
	return Point{
		X: prev.X*(1-alpha) + next.X*alpha,
		Y: prev.Y*(1-alpha) + next.Y*alpha,
	}
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
