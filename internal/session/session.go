// Package session wires the telemetry tracker, mood detector, and
// vibe guardian into a single browsing session.
//
// A Session owns one goroutine that drains a bounded event queue and
// applies events in arrival order. Producers (UI callbacks, replay)
// never block: when the queue is full the event is dropped and
// counted. Reads (Analyze, CheckHealth, Recap) go straight to the
// underlying components, which serialize their own state.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vibesense/internal/config"
	"vibesense/internal/guardian"
	"vibesense/internal/mood"
	"vibesense/internal/telemetry"
	"vibesense/internal/vibeprofile"
)

// eventQueueSize bounds the ingest queue. Scroll events arrive at UI
// frame rate, so the queue is sized for a couple of seconds of burst.
const eventQueueSize = 256

// eventType distinguishes queued telemetry events.
type eventType int

const (
	eventScroll eventType = iota
	eventPostView
	eventTimeOnPost
	eventEngagement
	eventPositive
)

// event is one queued telemetry sample.
type event struct {
	typ         eventType
	y           float64
	at          time.Time
	postID      string
	category    string
	creatorID   string
	contentType string
	seconds     float64
	kind        telemetry.EngagementKind
}

// HealthTransition is delivered to subscribers when the guardian's
// health level changes.
type HealthTransition struct {
	Status    guardian.HealthStatus
	Timestamp time.Time
}

// Session binds one user's browsing session to the detection pipeline.
type Session struct {
	id       string
	tracker  *telemetry.Tracker
	detector *mood.Detector
	guardian *guardian.Guardian
	logger   *zap.Logger

	events  chan event
	dropped atomic.Uint64

	mu          sync.Mutex
	subscribers []chan HealthTransition
	running     bool
	cancel      context.CancelFunc
	done        chan struct{}

	// comp accumulates per-component options so Session options can
	// apply before the components are constructed.
	comp components
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// components carries per-component options through New.
type components struct {
	trackerOpts  []telemetry.Option
	detectorOpts []mood.DetectorOption
	guardianOpts []guardian.Option
}

// WithClock overrides the time source for all components. Used by
// tests and trace replay.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.comp.trackerOpts = append(s.comp.trackerOpts, telemetry.WithClock(now))
		s.comp.detectorOpts = append(s.comp.detectorOpts, mood.WithClock(now))
		s.comp.guardianOpts = append(s.comp.guardianOpts, guardian.WithClock(now))
	}
}

// WithSnapshotInterval overrides the guardian's snapshot timer.
func WithSnapshotInterval(d time.Duration) Option {
	return func(s *Session) {
		s.comp.guardianOpts = append(s.comp.guardianOpts, guardian.WithSnapshotInterval(d))
	}
}

// New builds a session for the given account. The profile derived
// from the account type and interest tags is overlaid with any
// explicit config overrides before it reaches the guardian.
func New(account vibeprofile.AccountType, tags []string, prev telemetry.PreviousSession, cfg *config.Config, opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		logger: zap.NewNop(),
		events: make(chan event, eventQueueSize),
	}
	for _, opt := range opts {
		opt(s)
	}

	profile := vibeprofile.Build(account, tags)
	if cfg != nil {
		profile = cfg.ApplyProfile(profile)
		// Config interval is the baseline; explicit options override it.
		s.comp.guardianOpts = append(
			[]guardian.Option{guardian.WithSnapshotInterval(cfg.Guardian.SnapshotInterval())},
			s.comp.guardianOpts...)
	}

	s.logger = s.logger.With(zap.String("session_id", s.id))

	s.tracker = telemetry.NewTracker(prev, s.comp.trackerOpts...)
	s.detector = mood.NewDetector(s.tracker, s.comp.detectorOpts...)
	s.guardian = guardian.New(s.detector, profile,
		append([]guardian.Option{
			guardian.WithLogger(s.logger),
			guardian.WithTransitionFunc(s.fanOutTransition),
		}, s.comp.guardianOpts...)...)

	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Start launches the event loop and guardian monitoring. Calling it
// on a running session is a no-op.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.guardian.Start(loopCtx)
	go s.loop(loopCtx, s.done)

	s.logger.Info("session started")
}

// Stop drains the queue, stops the guardian, and closes subscriber
// channels. Idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done
	s.guardian.Stop()

	s.mu.Lock()
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	s.mu.Unlock()

	if n := s.dropped.Load(); n > 0 {
		s.logger.Warn("events dropped under load", zap.Uint64("dropped", n))
	}
	s.logger.Info("session stopped")
}

// loop is the single writer. It applies queued events in order until
// the context is cancelled, then drains whatever is still queued.
func (s *Session) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case ev := <-s.events:
					s.apply(ev)
				default:
					return
				}
			}
		case ev := <-s.events:
			s.apply(ev)
		}
	}
}

func (s *Session) apply(ev event) {
	switch ev.typ {
	case eventScroll:
		s.tracker.TrackScroll(ev.y, ev.at)
	case eventPostView:
		s.tracker.TrackPostView(ev.postID, ev.category, ev.creatorID, ev.contentType)
	case eventTimeOnPost:
		s.tracker.TrackTimeOnPost(ev.postID, ev.seconds)
	case eventEngagement:
		s.tracker.TrackEngagement(ev.kind)
		s.guardian.TrackEngagement()
	case eventPositive:
		s.guardian.TrackPositiveInteraction()
	}
}

// post enqueues without blocking. Full queue drops the event.
func (s *Session) post(ev event) {
	select {
	case s.events <- ev:
	default:
		s.dropped.Add(1)
	}
}

// PostScroll records a scroll position sample.
func (s *Session) PostScroll(y float64, at time.Time) {
	s.post(event{typ: eventScroll, y: y, at: at})
}

// PostView records that a post entered the viewport.
func (s *Session) PostView(postID, category, creatorID, contentType string) {
	s.post(event{typ: eventPostView, postID: postID, category: category, creatorID: creatorID, contentType: contentType})
}

// PostTimeOnPost records dwell time on a post in seconds.
func (s *Session) PostTimeOnPost(postID string, seconds float64) {
	s.post(event{typ: eventTimeOnPost, postID: postID, seconds: seconds})
}

// PostEngagement records an explicit interaction. Every engagement
// also resets the guardian's passive-consumption timer.
func (s *Session) PostEngagement(kind telemetry.EngagementKind) {
	s.post(event{typ: eventEngagement, kind: kind})
}

// PostPositiveInteraction records an interaction the host app counts
// toward the session recap.
func (s *Session) PostPositiveInteraction() {
	s.post(event{typ: eventPositive})
}

// Dropped returns how many events were discarded because the queue
// was full.
func (s *Session) Dropped() uint64 {
	return s.dropped.Load()
}

// Subscribe returns a channel of health level transitions. The
// channel is buffered and closed by Stop. Slow subscribers miss
// transitions rather than stalling the guardian.
func (s *Session) Subscribe() <-chan HealthTransition {
	ch := make(chan HealthTransition, 4)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

func (s *Session) fanOutTransition(status guardian.HealthStatus) {
	s.mu.Lock()
	subs := s.subscribers
	s.mu.Unlock()

	t := HealthTransition{Status: status, Timestamp: time.Now()}
	for _, ch := range subs {
		select {
		case ch <- t:
		default:
		}
	}
}

// Analyze runs a fused mood analysis on the current telemetry.
func (s *Session) Analyze() mood.AnalysisResult {
	return s.detector.Analyze()
}

// MoodHistory returns past analysis results, oldest first.
func (s *Session) MoodHistory() []mood.AnalysisResult {
	return s.detector.History()
}

// CheckHealth reports the current session health assessment.
func (s *Session) CheckHealth() guardian.HealthStatus {
	return s.guardian.CheckHealth()
}

// Recap summarizes the session. Valid during and after monitoring.
func (s *Session) Recap() guardian.Recap {
	return s.guardian.Recap()
}

// CaptureSnapshot takes a guardian snapshot immediately. Used by
// replay, where the snapshot timer is bypassed.
func (s *Session) CaptureSnapshot() {
	s.guardian.CaptureSnapshot()
}

// Tracker exposes the underlying tracker for direct synchronous use.
func (s *Session) Tracker() *telemetry.Tracker {
	return s.tracker
}
