package overlay

import (
	"fmt"
	"image/color"
	"math"

	"github.com/blazeintel/go-overlay/pkg/geom"
	"github.com/blazeintel/go-overlay/pkg/metrics"
	"github.com/blazeintel/go-overlay/pkg/pose"
	"github.com/blazeintel/go-overlay/pkg/render"
)

// Joints and segments at or below this confidence are not drawn at all.
const confidenceCutoff = 0.3

// Segment strain above this renders in the alert color.
const strainAlert = 0.5

// Fatigue above this adds the warning text to the gauge.
const fatigueWarning = 0.7

// Joint-strain glow thresholds, degrees.
const (
	kneeStrainAngle  = 120
	elbowStrainAngle = 80
)

var (
	colorBackdrop = color.RGBA{8, 10, 18, 255}
	colorSkeleton = color.RGBA{56, 189, 248, 255}
	colorAlert    = color.RGBA{239, 68, 68, 255}
	colorJoint    = color.RGBA{226, 232, 240, 255}
	colorGlow     = color.RGBA{248, 113, 113, 255}
	colorPanel    = color.RGBA{17, 24, 39, 255}
	colorPanelTxt = color.RGBA{148, 163, 184, 255}
	colorGauge    = color.RGBA{251, 146, 60, 255}
	colorWarnTxt  = color.RGBA{250, 204, 21, 255}
)

// strainJoints maps drawable joints to the tracked angle that decides
// their glow.
var strainJoints = map[pose.Joint]metrics.TrackedJoint{
	pose.LeftKnee:   metrics.LeftKnee,
	pose.RightKnee:  metrics.RightKnee,
	pose.LeftElbow:  metrics.LeftElbow,
	pose.RightElbow: metrics.RightElbow,
}

// Render draws one overlay frame. Before consent it draws only the
// blocking awaiting-consent panel.
func (o *Overlay) Render(c render.Canvas) {
	o.mu.Lock()
	active := o.active
	frame := o.frame
	snap := o.engine.Snapshot()
	o.mu.Unlock()

	c.Clear(colorBackdrop)

	if !active {
		drawAwaitingConsent(c)
		return
	}
	if !frame.Complete() {
		// Nothing received yet this session
		return
	}

	drawBones(c, frame)
	drawJoints(c, frame, snap)
	drawMetricsPanel(c, snap)
	drawFatigueGauge(c, snap.Fatigue)
}

func drawAwaitingConsent(c render.Canvas) {
	w, h := c.Size()
	cx, cy := float64(w)/2, float64(h)/2
	c.Text("AWAITING BIOMETRIC CONSENT", render.Point{X: cx - 150, Y: cy}, 0.6, colorPanelTxt)
	c.Text("analysis paused", render.Point{X: cx - 60, Y: cy + 24}, 0.45, colorPanelTxt)
}

// segmentStrain scores a bone segment by the deviation of its angle
// from 90 degrees against a synthetic horizontal reference through the
// far endpoint. This is a heuristic load indicator carried over for
// output compatibility, not a validated biomechanical measure.
func segmentStrain(a, b geom.Point) float64 {
	ref := geom.Point{X: b.X + 50, Y: b.Y}
	angle := geom.Angle(a, b, ref)
	return math.Abs(math.Abs(angle)-90) / 90
}

func drawBones(c render.Canvas, frame pose.Frame) {
	for _, bone := range pose.Bones {
		a := frame[bone.From]
		b := frame[bone.To]
		if a.Confidence <= confidenceCutoff || b.Confidence <= confidenceCutoff {
			continue
		}

		col := colorSkeleton
		if segmentStrain(a.Point(), b.Point()) > strainAlert {
			col = colorAlert
		}
		c.Line(render.Point{X: a.X, Y: a.Y}, render.Point{X: b.X, Y: b.Y}, col, 2)
	}
}

// underStrain reports whether a joint's tracked angle is in its strain
// range: knees below 120 degrees, elbows below 80.
func underStrain(j pose.Joint, snap metrics.Snapshot) bool {
	tracked, ok := strainJoints[j]
	if !ok {
		return false
	}
	angle := snap.JointAngles[tracked]
	switch tracked {
	case metrics.LeftKnee, metrics.RightKnee:
		return angle < kneeStrainAngle
	default:
		return angle < elbowStrainAngle
	}
}

func drawJoints(c render.Canvas, frame pose.Frame, snap metrics.Snapshot) {
	for j := pose.Head; j <= pose.RightAnkle; j++ {
		kp := frame[j]
		if kp.Confidence <= confidenceCutoff {
			continue
		}

		pos := render.Point{X: kp.X, Y: kp.Y}
		radius := 3 + kp.Confidence*4

		if underStrain(j, snap) {
			c.FillCircle(pos, radius+4, colorGlow)
		}
		c.FillCircle(pos, radius, colorJoint)
	}
}

func drawMetricsPanel(c render.Canvas, snap metrics.Snapshot) {
	c.FillRect(10, 10, 170, 96, colorPanel)

	lines := []string{
		fmt.Sprintf("SPD %6.1f", snap.Speed),
		fmt.Sprintf("ACC %6.1f", snap.Acceleration),
		fmt.Sprintf("STRIDE %5.1f", snap.StrideLength),
		fmt.Sprintf("FLOW %4.0f%%", snap.FlowState*100),
	}
	for i, line := range lines {
		c.Text(line, render.Point{X: 20, Y: float64(30 + i*20)}, 0.45, colorPanelTxt)
	}
}

func drawFatigueGauge(c render.Canvas, fatigue float64) {
	w, h := c.Size()
	const gaugeW, margin = 14.0, 20.0
	gaugeH := float64(h) * 0.5
	x := float64(w) - margin - gaugeW
	y := (float64(h) - gaugeH) / 2

	c.Rect(x, y, gaugeW, gaugeH, colorPanelTxt, 1)

	// Fill grows upward with fatigue
	fill := gaugeH * geom.Clamp01(fatigue)
	c.FillRect(x, y+gaugeH-fill, gaugeW, fill, colorGauge)

	if fatigue > fatigueWarning {
		c.Text("FATIGUE", render.Point{X: x - 58, Y: y - 8}, 0.4, colorWarnTxt)
	}
}
