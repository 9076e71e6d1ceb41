package render

import "image/color"

// Op is one recorded drawing call.
type Op struct {
	Kind  string // "clear", "line", "circle", "fill_circle", ...
	Pts   []Point
	Color color.RGBA
	Text  string
}

// Recorder is a canvas that records drawing calls instead of
// rasterizing them. It backs renderer tests without an OpenCV runtime.
type Recorder struct {
	W   int
	H   int
	Ops []Op
}

// NewRecorder creates a recording canvas of the given dimensions.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

// Count returns the number of recorded ops of a kind.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns all recorded text strings in draw order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear(c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "clear", Color: c})
}

func (r *Recorder) Line(from, to Point, c color.RGBA, thickness int) {
	r.Ops = append(r.Ops, Op{Kind: "line", Pts: []Point{from, to}, Color: c})
}

func (r *Recorder) Circle(center Point, radius float64, c color.RGBA, thickness int) {
	r.Ops = append(r.Ops, Op{Kind: "circle", Pts: []Point{center}, Color: c})
}

func (r *Recorder) FillCircle(center Point, radius float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fill_circle", Pts: []Point{center}, Color: c})
}

func (r *Recorder) Rect(x, y, w, h float64, c color.RGBA, thickness int) {
	r.Ops = append(r.Ops, Op{Kind: "rect", Pts: []Point{{x, y}, {x + w, y + h}}, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fill_rect", Pts: []Point{{x, y}, {x + w, y + h}}, Color: c})
}

func (r *Recorder) FillPoly(pts []Point, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fill_poly", Pts: pts, Color: c})
}

func (r *Recorder) Polyline(pts []Point, c color.RGBA, thickness int) {
	r.Ops = append(r.Ops, Op{Kind: "polyline", Pts: pts, Color: c})
}

func (r *Recorder) Text(s string, p Point, scale float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "text", Pts: []Point{p}, Color: c, Text: s})
}
