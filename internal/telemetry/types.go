package telemetry

import "time"

// EngagementKind identifies a deliberate content interaction.
type EngagementKind string

const (
	EngagementLike    EngagementKind = "like"
	EngagementComment EngagementKind = "comment"
	EngagementShare   EngagementKind = "share"
	EngagementSave    EngagementKind = "save"
)

// ScrollBehavior summarizes scroll motion over the session so far.
// Recomputed on demand from the velocity and pause buffers.
type ScrollBehavior struct {
	// AvgVelocity is the mean instantaneous velocity in px/s.
	AvgVelocity float64

	// MaxVelocity is the fastest observed velocity in px/s.
	MaxVelocity float64

	// PauseCount is the number of recorded pauses (>=500ms).
	PauseCount int

	// AvgPauseDuration is the mean pause length in milliseconds.
	AvgPauseDuration float64

	// ReverseScrollCount counts upward scrolls past the reverse threshold.
	ReverseScrollCount int

	// TotalScrollDistance is cumulative |dy| in pixels.
	TotalScrollDistance float64

	// SessionDuration is elapsed time since the tracker was created,
	// in milliseconds.
	SessionDuration float64
}

// EngagementSignals summarizes deliberate interactions relative to
// distinct posts viewed. All rates are clamped to [0,1].
type EngagementSignals struct {
	LikeRate    float64
	CommentRate float64
	ShareRate   float64
	SaveRate    float64
	SkipRate    float64
	RewatchRate float64

	// AvgTimePerPost is mean dwell time in seconds.
	AvgTimePerPost float64

	// PostsViewed is the count of distinct posts seen this session.
	PostsViewed int

	// TotalInteractions is the sum of like/comment/share/save counts.
	TotalInteractions int
}

// TemporalContext captures when the session is happening.
type TemporalContext struct {
	HourOfDay int // 0-23
	DayOfWeek int // 0-6, Sunday = 0
	IsWeekend bool

	// TimeSinceLastSession is minutes since the previous session
	// ended, or 0 for the first session.
	TimeSinceLastSession float64

	// SessionNumber counts sessions within the current local day,
	// resetting at the day boundary.
	SessionNumber int
}

// ContentPreferences summarizes what kind of content the session
// gravitated toward.
type ContentPreferences struct {
	// TopCategories are category names ranked by view count,
	// highest first. Ties break alphabetically for determinism.
	TopCategories []string

	// CategoryDistribution maps category to its fraction of views.
	// Fractions sum to 1 when any posts were viewed.
	CategoryDistribution map[string]float64

	// CreatorDiversity is unique creators / distinct posts viewed.
	CreatorDiversity float64

	// PreferredContentType is the dominant content type when it holds
	// more than half of views, otherwise "mixed".
	PreferredContentType string
}

// PreviousSession carries the host-supplied link to the prior session,
// used for temporal context. Zero value means first session ever.
type PreviousSession struct {
	EndedAt time.Time
	Number  int
}
