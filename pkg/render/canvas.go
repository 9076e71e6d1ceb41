// Package render abstracts the 2-D drawing surface the visualization
// engines paint onto. Production rendering goes through a gocv Mat
// surface; tests use the operation-recording canvas.
package render

import "image/color"

// Point is a drawing coordinate in surface pixels.
type Point struct {
	X float64
	Y float64
}

// Canvas is the injected drawing capability. Implementations own a
// fixed-dimension pixel surface; the engines never create one.
type Canvas interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// Clear fills the whole surface with a color.
	Clear(c color.RGBA)

	// Line draws a stroked segment.
	Line(from, to Point, c color.RGBA, thickness int)

	// Circle draws a stroked circle.
	Circle(center Point, radius float64, c color.RGBA, thickness int)

	// FillCircle draws a filled circle.
	FillCircle(center Point, radius float64, c color.RGBA)

	// Rect draws a stroked axis-aligned rectangle.
	Rect(x, y, w, h float64, c color.RGBA, thickness int)

	// FillRect draws a filled axis-aligned rectangle.
	FillRect(x, y, w, h float64, c color.RGBA)

	// FillPoly fills a closed polygon.
	FillPoly(pts []Point, c color.RGBA)

	// Polyline strokes an open path through the points.
	Polyline(pts []Point, c color.RGBA, thickness int)

	// Text draws a string with its baseline-left origin at p.
	Text(s string, p Point, scale float64, c color.RGBA)
}

// LerpColor interpolates between two colors. t is clamped to [0, 1].
func LerpColor(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}

// Fade blends a color toward the background by the given opacity.
// Opacity 1 returns the color itself, 0 returns the background. The
// surface has no alpha channel so fading markers is done in color
// space.
func Fade(bg, c color.RGBA, opacity float64) color.RGBA {
	return LerpColor(bg, c, opacity)
}
