package chart

import (
	"math/rand"
	"testing"
	"time"
)

func TestBuffer_EvictionScenario(t *testing.T) {
	// Points at t=0, 5, 10 minutes; window 18 minutes; append at t=20
	// must evict the t=0 point only.
	base := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)
	b := NewBuffer(18 * time.Minute)

	for _, m := range []int{0, 5, 10} {
		tm := base.Add(time.Duration(m) * time.Minute)
		b.now = func() time.Time { return tm }
		b.Append(Point{T: tm, WP: 0.5, Pressure: 0.2})
	}
	if b.Len() != 3 {
		t.Fatalf("Expected 3 points before the final append, got %d", b.Len())
	}

	tm := base.Add(20 * time.Minute)
	b.now = func() time.Time { return tm }
	b.Append(Point{T: tm, WP: 0.6, Pressure: 0.3})

	if b.Len() != 3 {
		t.Fatalf("Expected 3 points after eviction, got %d", b.Len())
	}
	if got := b.Points()[0].T; got != base.Add(5*time.Minute) {
		t.Errorf("Expected oldest point at t=5min, got %v", got)
	}
}

func TestBuffer_WindowInvariant(t *testing.T) {
	// After every append all retained points satisfy t >= now - window
	// and timestamps are non-decreasing, for arbitrary append orders.
	rng := rand.New(rand.NewSource(1))
	base := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)
	window := 5 * time.Minute
	b := NewBuffer(window)

	now := base
	for i := 0; i < 500; i++ {
		now = now.Add(time.Duration(rng.Intn(30)) * time.Second)
		// Occasionally deliver a late point
		pt := now.Add(-time.Duration(rng.Intn(120)) * time.Second)
		b.now = func() time.Time { return now }
		b.Append(Point{T: pt, WP: rng.Float64(), Pressure: rng.Float64()})

		cutoff := now.Add(-window)
		prev := time.Time{}
		for _, p := range b.Points() {
			if p.T.Before(cutoff) {
				t.Fatalf("Append %d: retained point at %v older than cutoff %v", i, p.T, cutoff)
			}
			if p.T.Before(prev) {
				t.Fatalf("Append %d: timestamps out of order (%v after %v)", i, p.T, prev)
			}
			prev = p.T
		}
	}
}

func TestBuffer_EmptyDomainUndefined(t *testing.T) {
	b := NewBuffer(DefaultWindow)
	if _, _, ok := b.Domain(); ok {
		t.Error("Expected undefined domain for empty buffer")
	}
	if _, ok := b.Latest(); ok {
		t.Error("Expected no latest point for empty buffer")
	}
}

func TestBuffer_DomainTracksRetainedSet(t *testing.T) {
	base := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)
	b := NewBuffer(DefaultWindow)
	b.now = func() time.Time { return base.Add(2 * time.Minute) }

	b.Append(Point{T: base})
	b.Append(Point{T: base.Add(time.Minute)})
	b.Append(Point{T: base.Add(2 * time.Minute)})

	min, max, ok := b.Domain()
	if !ok {
		t.Fatal("Expected defined domain")
	}
	if min != base || max != base.Add(2*time.Minute) {
		t.Errorf("Expected domain [%v, %v], got [%v, %v]", base, base.Add(2*time.Minute), min, max)
	}
}
