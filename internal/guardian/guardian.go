// Package guardian watches a session's mood trajectory for degrading
// engagement ("doom-scrolling") and raises health levels the UI can
// act on.
//
// The guardian owns one recurring timer. Every interval it snapshots
// the fusion engine into a capped window, scores degradation from
// three weighted factors (mood trend, passive consumption, positive
// interaction rate), and maps the score onto a health level. Start and
// Stop are idempotent transitions on an explicit Idle/Monitoring
// state; Stop keeps the snapshot window so an end-of-session recap
// stays available.
package guardian

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"vibesense/internal/mood"
	"vibesense/internal/vibeprofile"
)

// Level is the session health classification.
type Level string

const (
	LevelThriving  Level = "thriving"
	LevelStable    Level = "stable"
	LevelDeclining Level = "declining"
	LevelAlert     Level = "alert"
)

// Trajectory classifies how the session's mood moved overall.
type Trajectory string

const (
	TrajectoryImproved Trajectory = "improved"
	TrajectoryStable   Trajectory = "stable"
	TrajectoryDeclined Trajectory = "declined"
)

// HealthStatus is one health check result.
type HealthStatus struct {
	Level Level `json:"level"`

	// DegradationScore is the weighted composite in [0,1].
	DegradationScore float64 `json:"degradation_score"`

	// PassiveConsumptionRatio is time since last engagement relative
	// to the configured passive timeout, capped at 1.
	PassiveConsumptionRatio float64 `json:"passive_consumption_ratio"`

	SessionDurationMinutes float64 `json:"session_duration_minutes"`
}

// Recap summarizes a session for the end-of-session screen.
type Recap struct {
	DurationMinutes      int        `json:"duration_minutes"`
	Trajectory           Trajectory `json:"vibe_trajectory"`
	PositiveInteractions int        `json:"positive_interactions"`
	StartMood            mood.Mood  `json:"start_mood"`
	EndMood              mood.Mood  `json:"end_mood"`
}

// Degradation score weights. They sum to 1.
const (
	weightMoodTrend  = 0.4
	weightPassive    = 0.35
	weightEngagement = 0.25
)

// Level thresholds below the configured alert threshold.
const (
	decliningThreshold = 0.4
	stableThreshold    = 0.2
)

// trendScale amplifies the first-half/second-half positive-mood drop
// into the [0,1] score range.
const trendScale = 3.0

// trajectoryBand is the positive-score change treated as noise.
const trajectoryBand = 0.1

// minSnapshotsForTrend is the window size needed before the mood trend
// factor contributes. The recap trajectory needs one fewer; the
// asymmetry is intentional and tracked with product.
const (
	minSnapshotsForTrend      = 3
	minSnapshotsForTrajectory = 2
)

// snapshotWindowCap bounds the snapshot window (drop-oldest).
const snapshotWindowCap = 20

// DefaultSnapshotInterval is how often the guardian samples the fusion
// engine while monitoring.
const DefaultSnapshotInterval = 30 * time.Second

// Analyzer produces fused mood estimates. *mood.Detector satisfies it.
type Analyzer interface {
	Analyze() mood.AnalysisResult
}

// Guardian monitors one session's health. Construct one per session;
// there is no package-level instance.
type Guardian struct {
	mu sync.Mutex

	cfg      vibeprofile.Config
	analyzer Analyzer
	logger   *zap.Logger
	now      func() time.Time
	interval time.Duration

	onTransition func(HealthStatus)

	monitoring bool
	cancel     context.CancelFunc
	done       chan struct{}

	startTime time.Time
	stopTime  time.Time

	startMood    mood.Mood
	hasStartMood bool

	lastEngagement time.Time
	positives      int

	snapshots []mood.AnalysisResult
	lastLevel Level
}

// Option configures a Guardian.
type Option func(*Guardian)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Guardian) { g.logger = l }
}

// WithClock overrides the time source for tests and replay.
func WithClock(now func() time.Time) Option {
	return func(g *Guardian) { g.now = now }
}

// WithSnapshotInterval overrides the snapshot timer interval.
func WithSnapshotInterval(d time.Duration) Option {
	return func(g *Guardian) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithTransitionFunc registers a callback invoked from the snapshot
// loop whenever the health level changes. The callback runs on the
// guardian's goroutine and must not block.
func WithTransitionFunc(fn func(HealthStatus)) Option {
	return func(g *Guardian) { g.onTransition = fn }
}

// New creates a guardian for one session, tuned by the account's
// profile config.
func New(analyzer Analyzer, cfg vibeprofile.Config, opts ...Option) *Guardian {
	g := &Guardian{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   zap.NewNop(),
		now:      time.Now,
		interval: DefaultSnapshotInterval,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start transitions Idle -> Monitoring. Calling it while already
// monitoring is a no-op. It resets counters and the snapshot window,
// takes an immediate snapshot (whose mood becomes the start mood), and
// schedules the recurring snapshot timer.
func (g *Guardian) Start(ctx context.Context) {
	g.mu.Lock()
	if g.monitoring || !g.cfg.Enabled {
		g.mu.Unlock()
		return
	}

	now := g.now()
	g.monitoring = true
	g.startTime = now
	g.stopTime = time.Time{}
	g.lastEngagement = now
	g.positives = 0
	g.snapshots = g.snapshots[:0]
	g.hasStartMood = false
	g.lastLevel = LevelThriving

	runCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.done = make(chan struct{})
	done := g.done
	g.mu.Unlock()

	g.CaptureSnapshot()
	g.logger.Info("guardian monitoring started",
		zap.Duration("interval", g.interval),
		zap.Duration("min_session", g.cfg.MinSession))

	go g.run(runCtx, done)
}

// run is the snapshot loop. It exits when the context is cancelled.
func (g *Guardian) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.CaptureSnapshot()
			g.notifyTransition()
		}
	}
}

// Stop transitions Monitoring -> Idle. The snapshot window survives so
// a recap stays available. Safe to call before Start and repeatedly.
func (g *Guardian) Stop() {
	g.mu.Lock()
	if !g.monitoring {
		g.mu.Unlock()
		return
	}
	g.monitoring = false
	g.stopTime = g.now()
	cancel := g.cancel
	done := g.done
	g.cancel = nil
	g.done = nil
	g.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	g.logger.Info("guardian monitoring stopped")
}

// Reset stops monitoring and clears all accumulated state, including
// the start mood and snapshot window.
func (g *Guardian) Reset() {
	g.Stop()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.startTime = time.Time{}
	g.stopTime = time.Time{}
	g.startMood = ""
	g.hasStartMood = false
	g.lastEngagement = time.Time{}
	g.positives = 0
	g.snapshots = nil
	g.lastLevel = LevelThriving
}

// Monitoring reports whether the guardian is in the Monitoring state.
func (g *Guardian) Monitoring() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.monitoring
}

// TrackEngagement records that the user actively engaged, resetting
// the passive-consumption clock.
func (g *Guardian) TrackEngagement() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastEngagement = g.now()
}

// TrackPositiveInteraction records an engagement from the
// product-defined positive subset. It feeds both degradation scoring
// and the recap.
func (g *Guardian) TrackPositiveInteraction() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastEngagement = g.now()
	g.positives++
}

// CaptureSnapshot samples the fusion engine into the snapshot window.
// The timer drives this while monitoring; a host-owned scheduler or
// test may also call it directly.
func (g *Guardian) CaptureSnapshot() {
	result := g.analyzer.Analyze()

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.hasStartMood {
		g.startMood = result.PrimaryMood
		g.hasStartMood = true
	}

	g.snapshots = append(g.snapshots, result)
	if len(g.snapshots) > snapshotWindowCap {
		g.snapshots = g.snapshots[1:]
	}
}

// CheckHealth scores the session's current health. Before the
// configured minimum session length it always reports thriving with a
// zero score: early sessions have too little signal to alert on.
func (g *Guardian) CheckHealth() HealthStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.effectiveNow()
	elapsed := g.elapsedLocked(now)
	minutes := elapsed.Minutes()

	status := HealthStatus{
		Level:                  LevelThriving,
		SessionDurationMinutes: minutes,
	}

	if g.startTime.IsZero() || elapsed < g.cfg.MinSession {
		return status
	}

	sinceEngagement := now.Sub(g.lastEngagement)
	if g.lastEngagement.IsZero() {
		sinceEngagement = elapsed
	}

	status.PassiveConsumptionRatio = passiveRatio(sinceEngagement, g.cfg.PassiveTimeout)

	trend := g.moodTrendLocked()
	passive := passiveScore(sinceEngagement, g.cfg.PassiveTimeout)
	engagement := engagementScore(g.positives, minutes)

	status.DegradationScore = weightMoodTrend*trend + weightPassive*passive + weightEngagement*engagement
	status.Level = g.levelFor(status.DegradationScore)

	return status
}

// Recap summarizes the session from the accumulated snapshots. It
// only reads state, so it works mid-session and after Stop alike, and
// repeated calls return the same answer until new snapshots arrive.
func (g *Guardian) Recap() Recap {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.effectiveNow()

	recap := Recap{
		DurationMinutes:      int(math.Round(g.elapsedLocked(now).Minutes())),
		Trajectory:           g.trajectoryLocked(),
		PositiveInteractions: g.positives,
		StartMood:            mood.Neutral,
		EndMood:              mood.Neutral,
	}

	if g.hasStartMood {
		recap.StartMood = g.startMood
	}
	if n := len(g.snapshots); n > 0 {
		recap.EndMood = g.snapshots[n-1].PrimaryMood
	}

	return recap
}

// Snapshots returns a copy of the snapshot window, oldest first.
func (g *Guardian) Snapshots() []mood.AnalysisResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]mood.AnalysisResult, len(g.snapshots))
	copy(out, g.snapshots)
	return out
}

// effectiveNow freezes time at Stop so post-session reads stay stable.
func (g *Guardian) effectiveNow() time.Time {
	if !g.monitoring && !g.stopTime.IsZero() {
		return g.stopTime
	}
	return g.now()
}

func (g *Guardian) elapsedLocked(now time.Time) time.Duration {
	if g.startTime.IsZero() {
		return 0
	}
	d := now.Sub(g.startTime)
	if d < 0 {
		return 0
	}
	return d
}

// moodTrendLocked compares average positive-mood probability between
// the first and second halves of the snapshot window. A drop scales
// into [0,1]; fewer than three snapshots score zero.
func (g *Guardian) moodTrendLocked() float64 {
	n := len(g.snapshots)
	if n < minSnapshotsForTrend {
		return 0
	}

	half := n / 2
	first := averagePositive(g.snapshots[:half], g.cfg.PositiveMoods)
	second := averagePositive(g.snapshots[half:], g.cfg.PositiveMoods)

	decline := (first - second) * trendScale
	return clamp01(decline)
}

// trajectoryLocked compares the first and last snapshots' positive
// scores. Changes inside the noise band read as stable, as does a
// window with fewer than two snapshots.
func (g *Guardian) trajectoryLocked() Trajectory {
	if len(g.snapshots) < minSnapshotsForTrajectory {
		return TrajectoryStable
	}

	first := positiveScore(g.snapshots[0].Probabilities, g.cfg.PositiveMoods)
	last := positiveScore(g.snapshots[len(g.snapshots)-1].Probabilities, g.cfg.PositiveMoods)

	switch diff := last - first; {
	case diff > trajectoryBand:
		return TrajectoryImproved
	case diff < -trajectoryBand:
		return TrajectoryDeclined
	default:
		return TrajectoryStable
	}
}

func (g *Guardian) levelFor(score float64) Level {
	switch {
	case score >= g.cfg.AlertThreshold:
		return LevelAlert
	case score >= decliningThreshold:
		return LevelDeclining
	case score >= stableThreshold:
		return LevelStable
	default:
		return LevelThriving
	}
}

// notifyTransition fires the transition callback when the level moved.
func (g *Guardian) notifyTransition() {
	status := g.CheckHealth()

	g.mu.Lock()
	changed := status.Level != g.lastLevel
	g.lastLevel = status.Level
	fn := g.onTransition
	g.mu.Unlock()

	if changed {
		g.logger.Info("session health level changed",
			zap.String("level", string(status.Level)),
			zap.Float64("degradation", status.DegradationScore))
		if fn != nil {
			fn(status)
		}
	}
}

// passiveRatio is time since last engagement relative to the timeout,
// capped at 1. A non-positive timeout disables the factor.
func passiveRatio(since, timeout time.Duration) float64 {
	if timeout <= 0 {
		return 0
	}
	return clamp01(float64(since) / float64(timeout))
}

// passiveScore stays at zero until the timeout is exceeded, then ramps
// linearly to 1 over a second timeout-length window.
func passiveScore(since, timeout time.Duration) float64 {
	if timeout <= 0 || since <= timeout {
		return 0
	}
	return clamp01(float64(since-timeout) / float64(timeout))
}

// engagementScore expects at least one positive interaction per two
// minutes; a session meeting that pace scores zero.
func engagementScore(positives int, minutes float64) float64 {
	if minutes < 1.0/60 {
		minutes = 1.0 / 60
	}
	score := 1 - 2*(float64(positives)/minutes)
	if score < 0 {
		return 0
	}
	return score
}

func averagePositive(snapshots []mood.AnalysisResult, positives []mood.Mood) float64 {
	if len(snapshots) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range snapshots {
		sum += positiveScore(s.Probabilities, positives)
	}
	return sum / float64(len(snapshots))
}

// positiveScore sums the probabilities of the configured positive
// moods.
func positiveScore(v mood.Vector, positives []mood.Mood) float64 {
	sum := 0.0
	for _, m := range positives {
		sum += v.Get(m)
	}
	return sum
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
