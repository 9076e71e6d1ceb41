// Package overlay implements the consent-gated pose analytics overlay:
// keypoint smoothing, metric derivation, and skeleton rendering for one
// athlete feed.
package overlay

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blazeintel/go-overlay/pkg/consent"
	"github.com/blazeintel/go-overlay/pkg/metrics"
	"github.com/blazeintel/go-overlay/pkg/pose"
)

// Overlay owns one athlete's smoothing filter, metrics engine, and
// last smoothed frame. Consent gates every update and every rendered
// pixel: until granted the overlay computes nothing.
type Overlay struct {
	mu       sync.Mutex
	smoother *pose.Smoother
	engine   *metrics.Engine
	store    consent.Store
	active   bool
	frame    pose.Frame
}

// New creates an overlay for a surface of the given pixel dimensions.
// The consent store is read once here; if consent is absent the overlay
// starts in the blocking awaiting-consent state.
func New(width, height int, store consent.Store) *Overlay {
	cfg := metrics.DefaultConfig()
	cfg.Width = float64(width)
	cfg.Height = float64(height)

	return &Overlay{
		smoother: pose.NewSmoother(),
		engine:   metrics.NewEngine(cfg),
		store:    store,
		active:   store.Granted(),
	}
}

// Active reports whether consent has been granted and analysis runs.
func (o *Overlay) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// GrantConsent records the user's explicit consent and transitions the
// overlay to active analysis. The transition is irreversible for the
// session.
func (o *Overlay) GrantConsent() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active {
		return nil
	}
	if err := o.store.Grant(); err != nil {
		return err
	}
	o.active = true
	return nil
}

// Update is the single pose entry point: smooth the raw frame, derive
// metrics, retain the smoothed frame for rendering. Without consent, or
// with an incomplete frame, the previous state is left untouched.
func (o *Overlay) Update(raw pose.Frame) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active {
		return
	}
	if !raw.Complete() {
		return
	}

	smoothed := o.smoother.Smooth(raw)
	o.engine.Update(smoothed)
	o.frame = smoothed
}

// Metrics returns a copy of the current metrics snapshot.
func (o *Overlay) Metrics() metrics.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.Snapshot()
}

// Snapshot is the immutable export record for external consumption.
type Snapshot struct {
	ID             string           `json:"id"`
	Timestamp      time.Time        `json:"timestamp"`
	Metrics        metrics.Snapshot `json:"metrics"`
	ConsentGranted bool             `json:"consent_granted"`
}

// Export produces an export snapshot without side effects on the
// overlay's state.
func (o *Overlay) Export() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		ID:             uuid.NewString(),
		Timestamp:      time.Now(),
		Metrics:        o.engine.Snapshot(),
		ConsentGranted: o.active,
	}
}
