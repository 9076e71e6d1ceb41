package pose

import "github.com/blazeintel/go-overlay/pkg/geom"

// SmoothingAlpha is the weight of the new reading when blending frames.
// 0.3 gives a time constant of roughly 2-3 frames at capture rate,
// enough to suppress estimator jitter without visibly lagging motion.
const SmoothingAlpha = 0.3

// Smoother blends each incoming frame with its predecessor to damp
// keypoint jitter. One smoother instance serves one overlay; it keeps
// the previous smoothed frame as its only state.
type Smoother struct {
	prev Frame
}

// NewSmoother creates a smoother with no history. The first frame
// passes through unsmoothed.
func NewSmoother() *Smoother {
	return &Smoother{}
}

// Smooth returns a new frame where each point is
// prev*(1-alpha) + raw*alpha componentwise. Confidence is the
// detector's own estimate and passes through unmodified.
func (s *Smoother) Smooth(raw Frame) Frame {
	if s.prev == nil || len(s.prev) != len(raw) {
		s.prev = append(Frame(nil), raw...)
		return s.prev
	}

	out := make(Frame, len(raw))
	for i, kp := range raw {
		p := geom.SmoothPoint(s.prev[i].Point(), kp.Point(), SmoothingAlpha)
		out[i] = Keypoint{X: p.X, Y: p.Y, Confidence: kp.Confidence}
	}
	s.prev = out
	return out
}

// Reset clears the history so the next frame passes through unsmoothed.
func (s *Smoother) Reset() {
	s.prev = nil
}
