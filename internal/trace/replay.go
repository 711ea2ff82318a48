package trace

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"vibesense/internal/guardian"
	"vibesense/internal/mood"
	"vibesense/internal/telemetry"
	"vibesense/internal/vibeprofile"
)

// suppressedInterval keeps the guardian's wall-clock timer from
// firing during replay. Snapshots are taken manually on the synthetic
// clock instead.
const suppressedInterval = 24 * time.Hour

// Result is the outcome of replaying a trace.
type Result struct {
	// Analysis is the final fused mood analysis.
	Analysis mood.AnalysisResult

	// History holds every analysis the detector retained, oldest
	// first.
	History []mood.AnalysisResult

	// MonitoringEnabled reports whether the account's profile allowed
	// the guardian to run. Health and Recap are zero when false.
	MonitoringEnabled bool

	Health guardian.HealthStatus
	Recap  guardian.Recap

	// Snapshots taken on the synthetic clock, oldest first.
	Snapshots []mood.AnalysisResult
}

// Replayer feeds a recorded trace through the full detection pipeline
// on a synthetic clock, so an hour-long session replays instantly and
// deterministically.
type Replayer struct {
	trace    *Trace
	logger   *zap.Logger
	interval time.Duration

	mu  sync.Mutex
	now time.Time
}

// ReplayOption configures a Replayer.
type ReplayOption func(*Replayer)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) ReplayOption {
	return func(r *Replayer) { r.logger = l }
}

// WithSnapshotInterval sets the synthetic-time spacing between
// guardian snapshots.
func WithSnapshotInterval(d time.Duration) ReplayOption {
	return func(r *Replayer) { r.interval = d }
}

// NewReplayer prepares a replay of the given trace.
func NewReplayer(t *Trace, opts ...ReplayOption) *Replayer {
	r := &Replayer{
		trace:    t,
		logger:   zap.NewNop(),
		interval: guardian.DefaultSnapshotInterval,
		now:      t.StartTime,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Replayer) clock() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now
}

func (r *Replayer) advance(to time.Time) {
	r.mu.Lock()
	if to.After(r.now) {
		r.now = to
	}
	r.mu.Unlock()
}

// Run replays every event in offset order and returns the final
// pipeline state. The context bounds the replay itself, not the
// recorded session.
func (r *Replayer) Run(ctx context.Context) (*Result, error) {
	profile := vibeprofile.Build(r.trace.AccountType, r.trace.InterestTags)

	tracker := telemetry.NewTracker(r.trace.Previous(), telemetry.WithClock(r.clock))
	detector := mood.NewDetector(tracker, mood.WithClock(r.clock))
	g := guardian.New(detector, profile,
		guardian.WithLogger(r.logger),
		guardian.WithClock(r.clock),
		guardian.WithSnapshotInterval(suppressedInterval))

	g.Start(ctx)

	// Parse sorts on load, but traces built in code may not be
	// ordered yet.
	events := make([]Event, len(r.trace.Events))
	copy(events, r.trace.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OffsetMS < events[j].OffsetMS
	})

	nextSnapshot := r.trace.StartTime.Add(r.interval)
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			g.Stop()
			return nil, err
		}

		at := r.trace.StartTime.Add(time.Duration(ev.OffsetMS) * time.Millisecond)

		// Fire any snapshot boundaries the event skipped over.
		for g.Monitoring() && !at.Before(nextSnapshot) {
			r.advance(nextSnapshot)
			g.CaptureSnapshot()
			nextSnapshot = nextSnapshot.Add(r.interval)
		}

		r.advance(at)
		r.apply(tracker, g, ev, at)
	}

	result := &Result{
		MonitoringEnabled: g.Monitoring(),
	}

	// Final analysis on the fully advanced clock.
	result.Analysis = detector.Analyze()
	result.History = detector.History()

	if result.MonitoringEnabled {
		result.Health = g.CheckHealth()
		g.Stop()
		result.Recap = g.Recap()
		result.Snapshots = g.Snapshots()
	}

	r.logger.Info("trace replayed",
		zap.Int("events", len(r.trace.Events)),
		zap.Duration("session", r.trace.Duration()),
		zap.String("primary_mood", string(result.Analysis.PrimaryMood)))

	return result, nil
}

func (r *Replayer) apply(tracker *telemetry.Tracker, g *guardian.Guardian, ev Event, at time.Time) {
	switch ev.Type {
	case EventScroll:
		tracker.TrackScroll(ev.Y, at)
	case EventPostView:
		tracker.TrackPostView(ev.PostID, ev.Category, ev.CreatorID, ev.ContentType)
	case EventTimeOnPost:
		tracker.TrackTimeOnPost(ev.PostID, ev.Seconds)
	case EventEngagement:
		tracker.TrackEngagement(telemetry.EngagementKind(ev.Kind))
		g.TrackEngagement()
	case EventPositive:
		g.TrackPositiveInteraction()
	}
}
