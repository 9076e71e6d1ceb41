package chart

import (
	"fmt"
	"image/color"
	"time"

	"github.com/blazeintel/go-overlay/pkg/render"
)

// MarkerPulse is how long an event marker pulses after its timestamp.
const MarkerPulse = 2000 * time.Millisecond

// Pressure tier thresholds.
const (
	tierModerate = 0.3
	tierHigh     = 0.5
	tierExtreme  = 0.7
)

// Palette colors.
var (
	colorBackground   = color.RGBA{10, 14, 23, 255}
	colorGrid         = color.RGBA{32, 40, 56, 255}
	colorCurve        = color.RGBA{56, 189, 248, 255}
	colorMarker       = color.RGBA{250, 204, 21, 255}
	colorPressureLow  = color.RGBA{34, 94, 120, 255}
	colorPressureHigh = color.RGBA{220, 38, 38, 255}

	tierColors = map[string]color.RGBA{
		"LOW":      {74, 222, 128, 255},
		"MODERATE": {250, 204, 21, 255},
		"HIGH":     {251, 146, 60, 255},
		"EXTREME":  {239, 68, 68, 255},
	}
)

// MarkerOpacity returns the pulse opacity for a marker of the given
// age: linear decay from 1 at age 0 to exactly 0 at the pulse window.
func MarkerOpacity(age time.Duration) float64 {
	if age >= MarkerPulse {
		return 0
	}
	op := 1 - float64(age)/float64(MarkerPulse)
	if op < 0 {
		return 0
	}
	if op > 1 {
		// Clock skew can put a point's timestamp in the future
		return 1
	}
	return op
}

// PressureTier classifies a pressure value into its display label and
// color: LOW < 0.3 <= MODERATE < 0.5 <= HIGH < 0.7 <= EXTREME.
func PressureTier(p float64) (string, color.RGBA) {
	switch {
	case p < tierModerate:
		return "LOW", tierColors["LOW"]
	case p < tierHigh:
		return "MODERATE", tierColors["MODERATE"]
	case p < tierExtreme:
		return "HIGH", tierColors["HIGH"]
	default:
		return "EXTREME", tierColors["EXTREME"]
	}
}

// Renderer draws the win-probability stream onto a canvas. It holds no
// state of its own beyond the buffer it reads.
type Renderer struct {
	buf *Buffer
	now func() time.Time
}

// NewRenderer creates a renderer over the given buffer.
func NewRenderer(buf *Buffer) *Renderer {
	return &Renderer{buf: buf, now: time.Now}
}

// Render draws one chart frame. With an empty buffer only the grid and
// background are drawn; every data layer needs a defined time domain.
func (r *Renderer) Render(c render.Canvas) {
	w, h := c.Size()
	fw, fh := float64(w), float64(h)

	c.Clear(colorBackground)
	r.drawGrid(c, fw, fh)

	minT, maxT, ok := r.buf.Domain()
	if !ok {
		return
	}

	pts := r.buf.Points()
	span := maxT.Sub(minT)

	xAt := func(t time.Time) float64 {
		if span <= 0 {
			return fw / 2
		}
		return float64(t.Sub(minT)) / float64(span) * fw
	}
	yAt := func(v float64) float64 {
		return fh - v*fh
	}

	r.drawPressureArea(c, pts, xAt, fh)
	r.drawCurve(c, pts, xAt, yAt)
	r.drawMarkers(c, pts, xAt, yAt)
	r.drawReadout(c, fw)
}

func (r *Renderer) drawGrid(c render.Canvas, fw, fh float64) {
	const rows, cols = 4, 6
	for i := 1; i < rows; i++ {
		y := fh * float64(i) / rows
		c.Line(render.Point{X: 0, Y: y}, render.Point{X: fw, Y: y}, colorGrid, 1)
	}
	for i := 1; i < cols; i++ {
		x := fw * float64(i) / cols
		c.Line(render.Point{X: x, Y: 0}, render.Point{X: x, Y: fh}, colorGrid, 1)
	}
}

// drawPressureArea fills one quad per segment whose height encodes the
// interpolated pressure, colored along the low-to-high gradient. Each
// quad takes the single color at its midpoint pressure rather than a
// true per-pixel vertical gradient; the surface has no gradient fill,
// so the gradient is approximated across segments instead of within
// them.
func (r *Renderer) drawPressureArea(c render.Canvas, pts []Point, xAt func(time.Time) float64, fh float64) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		mid := (a.Pressure + b.Pressure) / 2
		col := render.LerpColor(colorPressureLow, colorPressureHigh, mid)
		c.FillPoly([]render.Point{
			{X: xAt(a.T), Y: fh},
			{X: xAt(a.T), Y: fh - a.Pressure*fh},
			{X: xAt(b.T), Y: fh - b.Pressure*fh},
			{X: xAt(b.T), Y: fh},
		}, col)
	}
}

// drawCurve strokes the win-probability line smoothed by quadratic
// midpoint interpolation, matching canvas quadraticCurveTo through
// segment midpoints.
func (r *Renderer) drawCurve(c render.Canvas, pts []Point, xAt func(time.Time) float64, yAt func(float64) float64) {
	if len(pts) < 2 {
		return
	}

	raw := make([]render.Point, len(pts))
	for i, p := range pts {
		raw[i] = render.Point{X: xAt(p.T), Y: yAt(p.WP)}
	}

	c.Polyline(smoothPath(raw, 8), colorCurve, 2)
}

// smoothPath samples a quadratic Bezier per segment, using each raw
// point as the control and the neighboring midpoints as endpoints.
func smoothPath(raw []render.Point, samples int) []render.Point {
	if len(raw) < 3 {
		return raw
	}

	out := []render.Point{raw[0]}
	prev := raw[0]
	for i := 1; i < len(raw)-1; i++ {
		ctrl := raw[i]
		end := render.Point{X: (raw[i].X + raw[i+1].X) / 2, Y: (raw[i].Y + raw[i+1].Y) / 2}
		for s := 1; s <= samples; s++ {
			t := float64(s) / float64(samples)
			u := 1 - t
			out = append(out, render.Point{
				X: u*u*prev.X + 2*u*t*ctrl.X + t*t*end.X,
				Y: u*u*prev.Y + 2*u*t*ctrl.Y + t*t*end.Y,
			})
		}
		prev = end
	}
	out = append(out, raw[len(raw)-1])
	return out
}

// drawMarkers draws event markers: a static dot always, plus an
// expanding faded ring while the marker is inside its pulse window.
func (r *Renderer) drawMarkers(c render.Canvas, pts []Point, xAt func(time.Time) float64, yAt func(float64) float64) {
	now := r.now()
	for _, p := range pts {
		if p.Event == nil {
			continue
		}
		pos := render.Point{X: xAt(p.T), Y: yAt(p.WP)}
		c.FillCircle(pos, 4, colorMarker)

		age := now.Sub(p.T)
		op := MarkerOpacity(age)
		if op <= 0 {
			continue
		}
		// Ring expands as it fades
		radius := 4 + (1-op)*14
		ring := render.Fade(colorBackground, colorMarker, op)
		c.Circle(pos, radius, ring, 2)
	}
}

func (r *Renderer) drawReadout(c render.Canvas, fw float64) {
	latest, ok := r.buf.Latest()
	if !ok {
		return
	}

	tier, tierColor := PressureTier(latest.Pressure)

	x := fw - 150
	c.FillRect(x, 10, 140, 52, color.RGBA{17, 24, 39, 255})
	c.Rect(x, 10, 140, 52, colorGrid, 1)
	c.Text(fmt.Sprintf("WIN %3.0f%%", latest.WP*100), render.Point{X: x + 10, Y: 32}, 0.5, colorCurve)
	c.Text(tier, render.Point{X: x + 10, Y: 52}, 0.45, tierColor)
}
