package render

import (
	"image/color"
	"testing"
)

func TestLerpColor(t *testing.T) {
	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}

	mid := LerpColor(black, white, 0.5)
	if mid.R != 127 || mid.G != 127 || mid.B != 127 {
		t.Errorf("Expected mid gray, got %+v", mid)
	}

	if got := LerpColor(black, white, 0); got != black {
		t.Errorf("Expected endpoint a, got %+v", got)
	}
	if got := LerpColor(black, white, 1); got != white {
		t.Errorf("Expected endpoint b, got %+v", got)
	}
	if got := LerpColor(black, white, 2); got != white {
		t.Errorf("Expected clamp to endpoint b, got %+v", got)
	}
}

func TestFade_ZeroOpacityIsBackground(t *testing.T) {
	bg := color.RGBA{10, 20, 30, 255}
	c := color.RGBA{200, 100, 50, 255}

	if got := Fade(bg, c, 0); got != bg {
		t.Errorf("Expected background at opacity 0, got %+v", got)
	}
	if got := Fade(bg, c, 1); got != c {
		t.Errorf("Expected full color at opacity 1, got %+v", got)
	}
}

func TestRecorder_CountsOps(t *testing.T) {
	r := NewRecorder(100, 50)

	w, h := r.Size()
	if w != 100 || h != 50 {
		t.Fatalf("Expected 100x50, got %dx%d", w, h)
	}

	r.Clear(color.RGBA{})
	r.Line(Point{0, 0}, Point{10, 10}, color.RGBA{}, 1)
	r.Line(Point{0, 0}, Point{20, 20}, color.RGBA{}, 1)
	r.Text("hello", Point{5, 5}, 0.5, color.RGBA{})

	if r.Count("line") != 2 {
		t.Errorf("Expected 2 lines, got %d", r.Count("line"))
	}
	if got := r.Texts(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("Expected recorded text [hello], got %v", got)
	}
}
