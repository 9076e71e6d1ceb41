// Package metrics derives biomechanical indicators from smoothed
// skeleton frames: linear speed, acceleration, stride length, joint
// angles, and the composite fatigue and flow-state scores.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/blazeintel/go-overlay/pkg/geom"
	"github.com/blazeintel/go-overlay/pkg/pose"
)

// TrackedJoint identifies one of the four joints the engine computes
// angles for.
type TrackedJoint string

const (
	LeftKnee   TrackedJoint = "leftKnee"
	RightKnee  TrackedJoint = "rightKnee"
	LeftElbow  TrackedJoint = "leftElbow"
	RightElbow TrackedJoint = "rightElbow"
)

// angleTriple is the (proximal, joint, distal) triple whose middle
// point carries the angle.
type angleTriple struct {
	proximal, joint, distal pose.Joint
}

var angleTriples = map[TrackedJoint]angleTriple{
	LeftKnee:   {pose.LeftHip, pose.LeftKnee, pose.LeftAnkle},
	RightKnee:  {pose.RightHip, pose.RightKnee, pose.RightAnkle},
	LeftElbow:  {pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist},
	RightElbow: {pose.RightShoulder, pose.RightElbow, pose.RightWrist},
}

// Optimal angle bands per tracked joint, in degrees. Each angle outside
// its band costs 0.1 efficiency.
var optimalBands = map[TrackedJoint][2]float64{
	LeftKnee:   {140, 160},
	RightKnee:  {140, 160},
	LeftElbow:  {90, 110},
	RightElbow: {90, 110},
}

const efficiencyPenalty = 0.1

// Snapshot is the engine's current output. It is mutated in place on
// every complete frame and retains its previous values otherwise.
type Snapshot struct {
	Speed        float64                  `json:"speed"`
	Acceleration float64                  `json:"acceleration"`
	StrideLength float64                  `json:"stride_length"`
	JointAngles  map[TrackedJoint]float64 `json:"joint_angles"`
	Fatigue      float64                  `json:"fatigue"`
	FlowState    float64                  `json:"flow_state"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.JointAngles = make(map[TrackedJoint]float64, len(s.JointAngles))
	for j, a := range s.JointAngles {
		out.JointAngles[j] = a
	}
	return out
}

// Config holds the engine's tunable parameters.
type Config struct {
	// CaptureRate is the assumed pose samples per time unit used to
	// scale displacement into velocity.
	CaptureRate float64

	// Width and Height are the surface dimensions used to normalize
	// positional variability.
	Width  float64
	Height float64

	// ConfidenceFloor excludes low-confidence joints from variability.
	ConfidenceFloor float64
}

// DefaultConfig returns the engine defaults for a 640x480 surface.
func DefaultConfig() Config {
	return Config{
		CaptureRate:     30,
		Width:           640,
		Height:          480,
		ConfidenceFloor: 0.5,
	}
}

// Engine consumes smoothed skeleton frames and maintains a metrics
// snapshot. It keeps only the previous hip position and speed as
// incremental state; everything else is recomputed from scratch.
type Engine struct {
	cfg Config

	snap Snapshot

	prevHip   geom.Point
	hasHip    bool
	prevSpeed float64
	hasSpeed  bool
}

// NewEngine creates an engine with zeroed metrics.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg: cfg,
		snap: Snapshot{
			JointAngles: map[TrackedJoint]float64{
				LeftKnee: 0, RightKnee: 0, LeftElbow: 0, RightElbow: 0,
			},
		},
	}
}

// Snapshot returns a copy of the current metrics.
func (e *Engine) Snapshot() Snapshot {
	return e.snap.Clone()
}

// Update recomputes the metrics from a smoothed frame. Incomplete
// frames are a silent no-op: the snapshot keeps its prior values.
func (e *Engine) Update(f pose.Frame) {
	if !f.Complete() {
		return
	}

	e.updateVelocity(f)
	e.updateStride(f)
	e.updateAngles(f)

	variability := e.variability(f)
	efficiency := e.efficiency()

	e.snap.Fatigue = geom.Clamp01(0.5*variability + 0.5*(1-efficiency))
	e.snap.FlowState = geom.Clamp01(stat.Mean([]float64{
		1 - variability,
		efficiency,
		1 - e.snap.Fatigue,
	}, nil))
}

func (e *Engine) updateVelocity(f pose.Frame) {
	hip := f[pose.Hip].Point()
	if !e.hasHip {
		// No prior hip position: no velocity on the very first frame
		e.prevHip = hip
		e.hasHip = true
		return
	}

	speed := geom.Distance(e.prevHip, hip) * e.cfg.CaptureRate
	if e.hasSpeed {
		e.snap.Acceleration = (speed - e.prevSpeed) * e.cfg.CaptureRate
	}
	e.snap.Speed = speed
	e.prevHip = hip
	e.prevSpeed = speed
	e.hasSpeed = true
}

func (e *Engine) updateStride(f pose.Frame) {
	e.snap.StrideLength = math.Abs(f[pose.LeftAnkle].X - f[pose.RightAnkle].X)
}

func (e *Engine) updateAngles(f pose.Frame) {
	for j, t := range angleTriples {
		a, okA := f.At(t.proximal)
		b, okB := f.At(t.joint)
		c, okC := f.At(t.distal)
		if !okA || !okB || !okC {
			e.snap.JointAngles[j] = 0
			continue
		}
		e.snap.JointAngles[j] = geom.Angle(a.Point(), b.Point(), c.Point())
	}
}

// variability is the mean normalized deviation from surface center over
// confident joints, spread across the full joint count. Low values mean
// a compact, consistent posture.
func (e *Engine) variability(f pose.Frame) float64 {
	cx, cy := e.cfg.Width/2, e.cfg.Height/2

	var sum float64
	for _, kp := range f[:pose.JointCount] {
		if kp.Confidence <= e.cfg.ConfidenceFloor {
			continue
		}
		sum += math.Abs(kp.X-cx)/e.cfg.Width + math.Abs(kp.Y-cy)/e.cfg.Height
	}
	return sum / pose.JointCount
}

// efficiency starts at 1.0 and loses a fixed penalty for every tracked
// angle outside its optimal band, floored at 0.
func (e *Engine) efficiency() float64 {
	eff := 1.0
	for j, band := range optimalBands {
		angle := e.snap.JointAngles[j]
		if angle < band[0] || angle > band[1] {
			eff -= efficiencyPenalty
		}
	}
	return math.Max(0, eff)
}
