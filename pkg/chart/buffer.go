// Package chart implements the scrolling win-probability stream: a
// rolling time-window buffer and a renderer drawing the pressure area,
// smoothed probability curve, and decaying event markers.
package chart

import (
	"sort"
	"time"
)

// DefaultWindow is how much history the buffer retains.
const DefaultWindow = 18 * time.Minute

// Event annotates a series point with a game moment worth marking.
type Event struct {
	Label string `json:"label"`
	Team  string `json:"team,omitempty"`
}

// Point is one win-probability sample paired with situational pressure.
type Point struct {
	T        time.Time `json:"t"`
	WP       float64   `json:"wp"`       // win probability, 0.0 to 1.0
	Pressure float64   `json:"pressure"` // situational pressure, 0.0 to 1.0
	Event    *Event    `json:"event,omitempty"`
}

// Buffer is an append-only, time-ordered point store with fixed-window
// eviction. It is owned by a single chart instance.
type Buffer struct {
	window time.Duration
	pts    []Point
	now    func() time.Time
}

// NewBuffer creates a buffer with the given retention window. A
// non-positive window falls back to the default.
func NewBuffer(window time.Duration) *Buffer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Buffer{window: window, now: time.Now}
}

// Append stores a point and evicts everything older than the retention
// window. Out-of-order arrivals are inserted by timestamp so the
// retained sequence stays time-ordered.
func (b *Buffer) Append(p Point) {
	n := len(b.pts)
	if n > 0 && p.T.Before(b.pts[n-1].T) {
		i := sort.Search(n, func(i int) bool { return b.pts[i].T.After(p.T) })
		b.pts = append(b.pts, Point{})
		copy(b.pts[i+1:], b.pts[i:])
		b.pts[i] = p
	} else {
		b.pts = append(b.pts, p)
	}

	cutoff := b.now().Add(-b.window)
	i := 0
	for i < len(b.pts) && b.pts[i].T.Before(cutoff) {
		i++
	}
	if i > 0 {
		b.pts = append(b.pts[:0], b.pts[i:]...)
	}
}

// Points returns the retained points in timestamp order. The slice is
// the buffer's own storage; callers must not mutate it.
func (b *Buffer) Points() []Point {
	return b.pts
}

// Len returns the number of retained points.
func (b *Buffer) Len() int {
	return len(b.pts)
}

// Latest returns the most recent point, if any.
func (b *Buffer) Latest() (Point, bool) {
	if len(b.pts) == 0 {
		return Point{}, false
	}
	return b.pts[len(b.pts)-1], true
}

// Domain returns the [min, max] timestamp extent of the retained set.
// ok is false for an empty buffer, in which case the renderer must
// skip all data-dependent layers.
func (b *Buffer) Domain() (min, max time.Time, ok bool) {
	if len(b.pts) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return b.pts[0].T, b.pts[len(b.pts)-1].T, true
}
