package overlay

import (
	"math"
	"testing"

	"github.com/blazeintel/go-overlay/pkg/consent"
	"github.com/blazeintel/go-overlay/pkg/geom"
	"github.com/blazeintel/go-overlay/pkg/pose"
	"github.com/blazeintel/go-overlay/pkg/render"
)

func TestRender_AwaitingConsentDrawsOnlyNotice(t *testing.T) {
	o := New(640, 480, consent.NewMemStore(false))
	rec := render.NewRecorder(640, 480)

	o.Render(rec)

	if rec.Count("line") != 0 || rec.Count("fill_circle") != 0 {
		t.Error("Expected no skeleton drawing without consent")
	}
	if len(rec.Texts()) == 0 {
		t.Error("Expected the awaiting-consent notice")
	}
}

func TestRender_DrawsFullSkeleton(t *testing.T) {
	o := New(640, 480, consent.NewMemStore(true))
	o.Update(testFrame())

	rec := render.NewRecorder(640, 480)
	o.Render(rec)

	if got := rec.Count("line"); got != len(pose.Bones) {
		t.Errorf("Expected %d bone segments, got %d", len(pose.Bones), got)
	}
	// 16 joints; strained joints add a glow circle each
	if got := rec.Count("fill_circle"); got < pose.JointCount {
		t.Errorf("Expected at least %d joint circles, got %d", pose.JointCount, got)
	}
	if len(rec.Texts()) < 4 {
		t.Errorf("Expected the metrics panel lines, got %v", rec.Texts())
	}
}

func TestRender_SkipsLowConfidence(t *testing.T) {
	o := New(640, 480, consent.NewMemStore(true))

	f := testFrame()
	f[pose.LeftWrist].Confidence = 0.2 // at or below 0.3 is skipped
	o.Update(f)

	rec := render.NewRecorder(640, 480)
	o.Render(rec)

	// One joint gone, and the elbow-wrist segment with it
	if got := rec.Count("line"); got != len(pose.Bones)-1 {
		t.Errorf("Expected %d segments with one endpoint hidden, got %d", len(pose.Bones)-1, got)
	}
}

func TestRender_NoFrameYetDrawsBackdropOnly(t *testing.T) {
	o := New(640, 480, consent.NewMemStore(true))
	rec := render.NewRecorder(640, 480)

	o.Render(rec)

	if rec.Count("clear") != 1 {
		t.Errorf("Expected backdrop clear, got %d", rec.Count("clear"))
	}
	if rec.Count("line") != 0 {
		t.Error("Expected no skeleton before the first frame")
	}
}

func TestSegmentStrain_Range(t *testing.T) {
	// A vertical segment stands at 90 degrees to the horizontal
	// reference: zero strain.
	if s := segmentStrain(geom.Point{X: 0, Y: 0}, geom.Point{X: 0, Y: 100}); math.Abs(s) > 1e-9 {
		t.Errorf("Expected zero strain for vertical segment, got %v", s)
	}

	// A horizontal segment deviates fully: strain 1.
	if s := segmentStrain(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0}); math.Abs(s-1) > 1e-9 {
		t.Errorf("Expected strain 1 for horizontal segment, got %v", s)
	}
}

func TestRender_FatigueWarningAboveThreshold(t *testing.T) {
	o := New(640, 480, consent.NewMemStore(true))
	o.Update(testFrame())

	rec := render.NewRecorder(640, 480)
	drawFatigueGauge(rec, 0.9)

	found := false
	for _, s := range rec.Texts() {
		if s == "FATIGUE" {
			found = true
		}
	}
	if !found {
		t.Error("Expected fatigue warning text above 0.7")
	}

	rec = render.NewRecorder(640, 480)
	drawFatigueGauge(rec, 0.5)
	if len(rec.Texts()) != 0 {
		t.Error("Expected no warning below 0.7")
	}
}
