package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Surface is a gocv-backed canvas drawing into an 8-bit BGR Mat.
// It is owned by exactly one engine instance and is not safe for
// concurrent use. Close releases the underlying Mat.
type Surface struct {
	mat    gocv.Mat
	width  int
	height int
}

// NewSurface allocates a drawing surface of the given pixel dimensions.
func NewSurface(width, height int) *Surface {
	return &Surface{
		mat:    gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3),
		width:  width,
		height: height,
	}
}

// Close releases the underlying Mat.
func (s *Surface) Close() error {
	return s.mat.Close()
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Clear fills the surface with a color.
func (s *Surface) Clear(c color.RGBA) {
	gocv.Rectangle(&s.mat, image.Rect(0, 0, s.width, s.height), c, -1)
}

// Line draws a stroked segment.
func (s *Surface) Line(from, to Point, c color.RGBA, thickness int) {
	gocv.Line(&s.mat, pt(from), pt(to), c, thickness)
}

// Circle draws a stroked circle.
func (s *Surface) Circle(center Point, radius float64, c color.RGBA, thickness int) {
	gocv.Circle(&s.mat, pt(center), int(radius), c, thickness)
}

// FillCircle draws a filled circle.
func (s *Surface) FillCircle(center Point, radius float64, c color.RGBA) {
	gocv.Circle(&s.mat, pt(center), int(radius), c, -1)
}

// Rect draws a stroked rectangle.
func (s *Surface) Rect(x, y, w, h float64, c color.RGBA, thickness int) {
	gocv.Rectangle(&s.mat, image.Rect(int(x), int(y), int(x+w), int(y+h)), c, thickness)
}

// FillRect draws a filled rectangle.
func (s *Surface) FillRect(x, y, w, h float64, c color.RGBA) {
	gocv.Rectangle(&s.mat, image.Rect(int(x), int(y), int(x+w), int(y+h)), c, -1)
}

// FillPoly fills a closed polygon.
func (s *Surface) FillPoly(pts []Point, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{toImagePoints(pts)})
	defer pv.Close()
	gocv.FillPoly(&s.mat, pv, c)
}

// Polyline strokes an open path through the points.
func (s *Surface) Polyline(pts []Point, c color.RGBA, thickness int) {
	if len(pts) < 2 {
		return
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{toImagePoints(pts)})
	defer pv.Close()
	gocv.Polylines(&s.mat, pv, false, c, thickness)
}

// Text draws a string with its baseline-left origin at p.
func (s *Surface) Text(str string, p Point, scale float64, c color.RGBA) {
	gocv.PutText(&s.mat, str, pt(p), gocv.FontHersheySimplex, scale, c, 1)
}

// EncodeJPEG encodes the current surface contents as a JPEG image for
// broadcast to dashboard clients.
func (s *Surface) EncodeJPEG() ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, s.mat)
	if err != nil {
		return nil, fmt.Errorf("encode surface: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func pt(p Point) image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

func toImagePoints(pts []Point) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = pt(p)
	}
	return out
}
