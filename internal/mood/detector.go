package mood

import (
	"sync"
	"time"

	"vibesense/internal/telemetry"
)

// Fusion weights per signal category. They sum to 1.
const (
	weightBehavioral = 0.25
	weightEngagement = 0.30
	weightTemporal   = 0.20
	weightContent    = 0.25
)

// confidenceFloor is added to the top-two probability margin before
// clamping; a perfectly ambiguous result still reports some baseline
// confidence in the neutral pick.
const (
	confidenceFloor = 0.3
	confidenceCap   = 0.95
)

// historyCap bounds the rolling analysis history.
const historyCap = 20

// SnapshotSource provides the derived telemetry snapshots the detector
// fuses. *telemetry.Tracker satisfies it.
type SnapshotSource interface {
	ScrollBehavior() telemetry.ScrollBehavior
	EngagementSignals() telemetry.EngagementSignals
	TemporalContext() telemetry.TemporalContext
	ContentPreferences() telemetry.ContentPreferences
}

// Detector fuses the four signal extractors into a mood estimate and
// keeps a capped rolling history of results. One detector serves one
// app session; construct a fresh one (or Reset) per logical session.
type Detector struct {
	mu     sync.Mutex
	source SnapshotSource
	now    func() time.Time

	// history is a ring: start is the oldest entry, count <= historyCap.
	history [historyCap]AnalysisResult
	start   int
	count   int
}

// NewDetector creates a detector reading from source.
func NewDetector(source SnapshotSource, opts ...DetectorOption) *Detector {
	d := &Detector{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithClock overrides the time source. Used by tests and replay.
func WithClock(now func() time.Time) DetectorOption {
	return func(d *Detector) {
		d.now = now
	}
}

// Analyze computes the current fused mood estimate and appends it to
// the rolling history. It never fails: degenerate signals produce a
// neutral estimate.
func (d *Detector) Analyze() AnalysisResult {
	scroll := d.source.ScrollBehavior()
	engage := d.source.EngagementSignals()
	temporal := d.source.TemporalContext()
	content := d.source.ContentPreferences()

	behavioralV := ExtractBehavioral(scroll)
	engagementV := ExtractEngagement(engage)
	temporalV := ExtractTemporal(temporal)
	contentV := ExtractContent(content)

	fused := behavioralV.Scale(weightBehavioral).
		AddVector(engagementV.Scale(weightEngagement)).
		AddVector(temporalV.Scale(weightTemporal)).
		AddVector(contentV.Scale(weightContent)).
		Normalize()

	primary, top1 := fused.Dominant()
	top2 := secondBest(fused, primary)

	confidence := (top1 - top2) + confidenceFloor
	if confidence < 0 {
		confidence = 0
	}
	if confidence > confidenceCap {
		confidence = confidenceCap
	}

	result := AnalysisResult{
		PrimaryMood:   primary,
		Probabilities: fused,
		Confidence:    confidence,
		Strength: SignalStrength{
			Behavioral: behavioralStrength(scroll.SessionDuration),
			Engagement: engagementStrength(engage.TotalInteractions),
			Temporal:   0.8,
			Content:    contentStrength(engage.PostsViewed),
		},
		Timestamp: d.now(),
	}

	d.mu.Lock()
	d.push(result)
	d.mu.Unlock()

	return result
}

// History returns a copy of the rolling analysis history, oldest
// first. The live ring is never exposed.
func (d *Detector) History() []AnalysisResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]AnalysisResult, d.count)
	for i := 0; i < d.count; i++ {
		out[i] = d.history[(d.start+i)%historyCap]
	}
	return out
}

// Reset clears the history for a new logical session.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.start = 0
	d.count = 0
}

// push appends to the ring, dropping the oldest entry when full.
func (d *Detector) push(r AnalysisResult) {
	if d.count < historyCap {
		d.history[(d.start+d.count)%historyCap] = r
		d.count++
		return
	}
	d.history[d.start] = r
	d.start = (d.start + 1) % historyCap
}

// secondBest returns the highest probability excluding the primary
// mood's slot.
func secondBest(v Vector, primary Mood) float64 {
	best := 0.0
	skipped := false
	for _, m := range Order {
		if m == primary && !skipped {
			skipped = true
			continue
		}
		if p := v.Get(m); p > best {
			best = p
		}
	}
	return best
}

// behavioralStrength steps with how long the session has run (ms).
func behavioralStrength(sessionDurationMs float64) float64 {
	switch {
	case sessionDurationMs < 30_000:
		return 0.3
	case sessionDurationMs < 120_000:
		return 0.6
	default:
		return 0.9
	}
}

// engagementStrength steps with total interaction count.
func engagementStrength(interactions int) float64 {
	switch {
	case interactions < 2:
		return 0.3
	case interactions < 5:
		return 0.6
	default:
		return 0.9
	}
}

// contentStrength is high once enough posts have been viewed to make
// the category mix meaningful.
func contentStrength(postsViewed int) float64 {
	if postsViewed > 5 {
		return 0.9
	}
	return 0.4
}
