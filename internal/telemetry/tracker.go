// Package telemetry ingests raw feed-UI interaction events and keeps
// them in bounded in-memory buffers.
//
// The tracker accepts four event streams:
//   - scroll position samples (per frame)
//   - post enter-viewport notifications
//   - per-post dwell times on exit-viewport
//   - deliberate engagement actions (like/comment/share/save)
//
// Nothing here is persisted. Buffers are capped and trim themselves on
// overflow, so worst-case memory and snapshot latency stay constant no
// matter how long a session runs.
package telemetry

import (
	"sort"
	"sync"
	"time"
)

// Buffer caps. Each buffer trims to half its cap on overflow.
const (
	velocityCap  = 1000
	velocityTrim = 500
	pauseCap     = 500
	pauseTrim    = 250
	dwellCap     = 200
	dwellTrim    = 100
)

const (
	// pauseVelocityThreshold is the px/s speed below which the user is
	// considered paused on content.
	pauseVelocityThreshold = 50.0

	// minPauseDuration is the shortest pause worth recording.
	minPauseDuration = 500 * time.Millisecond

	// reverseScrollDelta is the upward movement in pixels that counts
	// as a deliberate reverse scroll.
	reverseScrollDelta = 80.0

	// skipDwellSeconds is the dwell time below which a post view
	// counts as a skip.
	skipDwellSeconds = 1.0
)

// Tracker accumulates interaction telemetry for one app session.
// It is safe for concurrent use, though the expected caller is a
// single-writer event loop.
type Tracker struct {
	mu  sync.Mutex
	now func() time.Time

	startedAt time.Time

	// Scroll state.
	scrollSeeded bool
	lastY        float64
	lastScrollAt time.Time
	velocities   *CappedBuffer
	maxVelocity  float64
	totalDist    float64

	// Pause state machine.
	paused       bool
	pauseStarted time.Time
	pauses       *CappedBuffer

	reverseScrolls int

	// Post views.
	viewed       map[string]struct{}
	rewatches    int
	categories   map[string]int
	creators     map[string]struct{}
	contentTypes map[string]int

	// Dwell.
	dwell     *CappedBuffer
	skipCount int

	// Engagement counters. At-least-once: no deduplication.
	likes    int
	comments int
	shares   int
	saves    int

	// Temporal context inputs.
	sessionNumber   int
	minutesSinceEnd float64
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source. Used by tests and trace replay.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates a tracker for a new session. prev links to the
// session that came before it; pass the zero value for the first
// session of the day.
func NewTracker(prev PreviousSession, opts ...Option) *Tracker {
	t := &Tracker{
		now:          time.Now,
		velocities:   NewCappedBuffer(velocityCap, velocityTrim),
		pauses:       NewCappedBuffer(pauseCap, pauseTrim),
		dwell:        NewCappedBuffer(dwellCap, dwellTrim),
		viewed:       make(map[string]struct{}),
		categories:   make(map[string]int),
		creators:     make(map[string]struct{}),
		contentTypes: make(map[string]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.startedAt = t.now()

	if prev.EndedAt.IsZero() {
		t.sessionNumber = 1
	} else {
		t.minutesSinceEnd = t.startedAt.Sub(prev.EndedAt).Minutes()
		if t.minutesSinceEnd < 0 {
			t.minutesSinceEnd = 0
		}
		if sameLocalDay(prev.EndedAt, t.startedAt) {
			t.sessionNumber = prev.Number + 1
		} else {
			t.sessionNumber = 1
		}
	}
	return t
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// TrackScroll records a scroll position sample. The first call only
// seeds position and time. Later calls derive the instantaneous
// velocity |dy|/dt, drive the pause state machine, and count reverse
// scrolls. Out-of-order timestamps degrade to zero velocity instead of
// failing.
func (t *Tracker) TrackScroll(y float64, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.scrollSeeded {
		t.scrollSeeded = true
		t.lastY = y
		t.lastScrollAt = at
		return
	}

	dy := y - t.lastY
	dt := at.Sub(t.lastScrollAt).Seconds()

	velocity := 0.0
	if dt > 0 {
		velocity = abs(dy) / dt
	}

	t.velocities.Append(velocity)
	if velocity > t.maxVelocity {
		t.maxVelocity = velocity
	}
	t.totalDist += abs(dy)

	// Pause state machine: enter below the low-velocity threshold,
	// record the pause on exit if it lasted long enough.
	if velocity < pauseVelocityThreshold {
		if !t.paused {
			t.paused = true
			t.pauseStarted = at
		}
	} else if t.paused {
		t.paused = false
		pause := at.Sub(t.pauseStarted)
		if pause >= minPauseDuration {
			t.pauses.Append(float64(pause.Milliseconds()))
		}
	}

	if dy <= -reverseScrollDelta {
		t.reverseScrolls++
	}

	t.lastY = y
	t.lastScrollAt = at
}

// TrackPostView records a post entering the viewport. A post counts
// toward "viewed" only once; repeat views count as rewatches. Category,
// creator, and content-type tallies update on every call.
func (t *Tracker) TrackPostView(id, category, creatorID, contentType string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, seen := t.viewed[id]; seen {
		t.rewatches++
	} else {
		t.viewed[id] = struct{}{}
	}

	if category != "" {
		t.categories[category]++
	}
	if creatorID != "" {
		t.creators[creatorID] = struct{}{}
	}
	if contentType != "" {
		t.contentTypes[contentType]++
	}
}

// TrackTimeOnPost records how long a post stayed in the viewport.
// Sub-second dwells also count as skips.
func (t *Tracker) TrackTimeOnPost(id string, seconds float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seconds < 0 {
		seconds = 0
	}
	t.dwell.Append(seconds)
	if seconds < skipDwellSeconds {
		t.skipCount++
	}
	_ = id // identity is not needed for dwell stats; kept for the UI contract
}

// TrackEngagement increments the counter for one engagement action.
// Delivery from the UI is at-least-once, so repeated calls for the same
// action count multiple times by design of the contract.
func (t *Tracker) TrackEngagement(kind EngagementKind) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch kind {
	case EngagementLike:
		t.likes++
	case EngagementComment:
		t.comments++
	case EngagementShare:
		t.shares++
	case EngagementSave:
		t.saves++
	}
}

// ScrollBehavior derives the scroll summary from the current buffers.
func (t *Tracker) ScrollBehavior() ScrollBehavior {
	t.mu.Lock()
	defer t.mu.Unlock()

	return ScrollBehavior{
		AvgVelocity:         t.velocities.Mean(),
		MaxVelocity:         t.maxVelocity,
		PauseCount:          t.pauses.Len(),
		AvgPauseDuration:    t.pauses.Mean(),
		ReverseScrollCount:  t.reverseScrolls,
		TotalScrollDistance: t.totalDist,
		SessionDuration:     float64(t.now().Sub(t.startedAt).Milliseconds()),
	}
}

// EngagementSignals derives interaction rates relative to distinct
// posts viewed. Rates clamp to [0,1]; divisions guard against an empty
// session.
func (t *Tracker) EngagementSignals() EngagementSignals {
	t.mu.Lock()
	defer t.mu.Unlock()

	posts := len(t.viewed)
	denom := float64(posts)
	if denom < 1 {
		denom = 1
	}

	return EngagementSignals{
		LikeRate:          clamp01(float64(t.likes) / denom),
		CommentRate:       clamp01(float64(t.comments) / denom),
		ShareRate:         clamp01(float64(t.shares) / denom),
		SaveRate:          clamp01(float64(t.saves) / denom),
		SkipRate:          clamp01(float64(t.skipCount) / denom),
		RewatchRate:       clamp01(float64(t.rewatches) / denom),
		AvgTimePerPost:    t.dwell.Mean(),
		PostsViewed:       posts,
		TotalInteractions: t.likes + t.comments + t.shares + t.saves,
	}
}

// TemporalContext derives the time-of-day context for the session.
func (t *Tracker) TemporalContext() TemporalContext {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	wd := int(now.Weekday())
	return TemporalContext{
		HourOfDay:            now.Hour(),
		DayOfWeek:            wd,
		IsWeekend:            wd == 0 || wd == 6,
		TimeSinceLastSession: t.minutesSinceEnd,
		SessionNumber:        t.sessionNumber,
	}
}

// ContentPreferences derives what the session gravitated toward.
func (t *Tracker) ContentPreferences() ContentPreferences {
	t.mu.Lock()
	defer t.mu.Unlock()

	prefs := ContentPreferences{
		CategoryDistribution: make(map[string]float64, len(t.categories)),
		PreferredContentType: "mixed",
	}

	totalCat := 0
	for _, n := range t.categories {
		totalCat += n
	}
	if totalCat > 0 {
		for cat, n := range t.categories {
			prefs.TopCategories = append(prefs.TopCategories, cat)
			prefs.CategoryDistribution[cat] = float64(n) / float64(totalCat)
		}
		sort.Slice(prefs.TopCategories, func(i, j int) bool {
			a, b := prefs.TopCategories[i], prefs.TopCategories[j]
			if t.categories[a] != t.categories[b] {
				return t.categories[a] > t.categories[b]
			}
			return a < b
		})
	}

	posts := len(t.viewed)
	if posts > 0 {
		prefs.CreatorDiversity = float64(len(t.creators)) / float64(posts)
	}

	totalTypes := 0
	for _, n := range t.contentTypes {
		totalTypes += n
	}
	if totalTypes > 0 {
		for ct, n := range t.contentTypes {
			if float64(n)/float64(totalTypes) > 0.5 {
				prefs.PreferredContentType = ct
				break
			}
		}
	}

	return prefs
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
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
