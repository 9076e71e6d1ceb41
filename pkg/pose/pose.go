// Package pose defines the skeletal frame model shared by the overlay
// pipeline: keypoints, the fixed joint index mapping, and the bone
// topology used for rendering and angle computation.
package pose

import "github.com/blazeintel/go-overlay/pkg/geom"

// Joint identifies one tracked anatomical landmark. The numeric values
// are positional in every incoming frame and must never be renumbered:
// the angle triples and bone table below depend on them.
type Joint int

const (
	Head Joint = iota
	Neck
	Chest
	Hip
	LeftShoulder
	LeftElbow
	LeftWrist
	RightShoulder
	RightElbow
	RightWrist
	LeftHip
	LeftKnee
	LeftAnkle
	RightHip
	RightKnee
	RightAnkle
)

// JointCount is the number of keypoints in a complete frame.
const JointCount = 16

var jointNames = [JointCount]string{
	"head", "neck", "chest", "hip",
	"left_shoulder", "left_elbow", "left_wrist",
	"right_shoulder", "right_elbow", "right_wrist",
	"left_hip", "left_knee", "left_ankle",
	"right_hip", "right_knee", "right_ankle",
}

// String returns the wire name of the joint.
func (j Joint) String() string {
	if j < 0 || int(j) >= JointCount {
		return "unknown"
	}
	return jointNames[j]
}

// Keypoint is one landmark observation in surface pixel coordinates.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
}

// Point returns the keypoint position as a geometry point.
func (k Keypoint) Point() geom.Point {
	return geom.Point{X: k.X, Y: k.Y}
}

// Frame is one full skeleton sample: an ordered sequence of keypoints
// indexed by Joint. A frame shorter than JointCount is incomplete and
// must not drive a metrics update.
type Frame []Keypoint

// Complete reports whether the frame carries all 16 keypoints.
func (f Frame) Complete() bool {
	return len(f) >= JointCount
}

// At returns the keypoint for the given joint and whether it exists.
func (f Frame) At(j Joint) (Keypoint, bool) {
	if int(j) < 0 || int(j) >= len(f) {
		return Keypoint{}, false
	}
	return f[j], true
}

// Bone is one skeletal connection between two joints.
type Bone struct {
	From Joint
	To   Joint
}

// Bones is the fixed 15-segment skeletal topology.
var Bones = [15]Bone{
	{Head, Neck},
	{Neck, Chest},
	{Chest, Hip},
	{Neck, LeftShoulder},
	{LeftShoulder, LeftElbow},
	{LeftElbow, LeftWrist},
	{Neck, RightShoulder},
	{RightShoulder, RightElbow},
	{RightElbow, RightWrist},
	{Hip, LeftHip},
	{LeftHip, LeftKnee},
	{LeftKnee, LeftAnkle},
	{Hip, RightHip},
	{RightHip, RightKnee},
	{RightKnee, RightAnkle},
}
