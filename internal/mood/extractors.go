package mood

import "vibesense/internal/telemetry"

// Extractor tuning constants. The exact values are design constants
// shared with product; their relative ordering matters more than the
// literal floats, and tests assert direction of shift only.
const (
	baselineWeight = 0.15
	neutralBias    = 0.05 // neutral starts at baseline + bias

	fastScrollVelocity   = 500.0
	veryFastVelocity     = 800.0
	slowScrollVelocity   = 200.0
	browseVelocity       = 300.0
	longPauseMs          = 2000.0
	studyPauseMs         = 3000.0
	studyPauseCount      = 5
	rereadScrollCount    = 3
	longSessionMs        = 10 * 60 * 1000.0
	deepDwellSeconds     = 10.0
	highLikeRate         = 0.3
	highCommentRate      = 0.1
	highShareRate        = 0.1
	highSaveRate         = 0.15
	highRewatchRate      = 0.2
	highSkipRate         = 0.5
	quickReturnMinutes   = 30.0
	fatigueSessionNumber = 5
	exploringDiversity   = 0.7
	loyalDiversity       = 0.3
)

// baseline returns the seed vector every extractor starts from: a
// small uniform floor with a slightly heavier neutral entry, so a
// signal with nothing to say stays near-neutral after normalization.
func baseline() Vector {
	v := Vector{}
	for _, m := range Order {
		v.Add(m, baselineWeight)
	}
	v.Add(Neutral, neutralBias)
	return v
}

// ExtractBehavioral scores moods from scroll motion. Fast, pause-free
// flicking reads energetic; slow scrolling with long pauses reads
// relaxed or focused depending on how deliberate the pauses are.
func ExtractBehavioral(s telemetry.ScrollBehavior) Vector {
	v := baseline()

	if s.AvgVelocity > fastScrollVelocity && s.PauseCount < 3 {
		v.Add(Energetic, 0.3)
	}
	if s.MaxVelocity > veryFastVelocity {
		v.Add(Energetic, 0.2)
	}
	if s.AvgVelocity > 0 && s.AvgVelocity < slowScrollVelocity && s.AvgPauseDuration > longPauseMs {
		v.Add(Relaxed, 0.3)
		v.Add(Focused, 0.15)
	}
	if s.PauseCount >= studyPauseCount && s.AvgPauseDuration > studyPauseMs {
		v.Add(Focused, 0.3)
	}
	if s.ReverseScrollCount >= rereadScrollCount {
		v.Add(Focused, 0.2)
	}
	if s.SessionDuration > longSessionMs && s.AvgVelocity > 0 && s.AvgVelocity < browseVelocity {
		v.Add(Relaxed, 0.15)
	}

	return v.Normalize()
}

// ExtractEngagement scores moods from interaction rates. Outward
// actions (comments, shares) read social; collecting and rewatching
// read creative or focused; skipping through everything reads
// restless.
func ExtractEngagement(e telemetry.EngagementSignals) Vector {
	v := baseline()

	if e.LikeRate > highLikeRate {
		v.Add(Social, 0.25)
		v.Add(Energetic, 0.1)
	}
	if e.CommentRate > highCommentRate {
		v.Add(Social, 0.4)
	}
	if e.ShareRate > highShareRate {
		v.Add(Social, 0.3)
	}
	if e.SaveRate > highSaveRate {
		v.Add(Creative, 0.3)
		v.Add(Focused, 0.15)
	}
	if e.RewatchRate > highRewatchRate {
		v.Add(Focused, 0.25)
		v.Add(Creative, 0.15)
	}
	if e.SkipRate > highSkipRate {
		v.Add(Energetic, 0.2)
		v.Add(Neutral, 0.1)
	}
	if e.AvgTimePerPost > deepDwellSeconds {
		v.Add(Focused, 0.25)
	}
	if e.TotalInteractions == 0 && e.PostsViewed > 3 {
		v.Add(Neutral, 0.2)
	}

	return v.Normalize()
}

// ExtractTemporal scores moods from time of day and session cadence.
func ExtractTemporal(tc telemetry.TemporalContext) Vector {
	v := baseline()

	switch {
	case tc.HourOfDay >= 5 && tc.HourOfDay < 9:
		v.Add(Energetic, 0.25)
	case tc.HourOfDay >= 9 && tc.HourOfDay < 12:
		v.Add(Focused, 0.3)
	case tc.HourOfDay >= 12 && tc.HourOfDay < 15:
		v.Add(Relaxed, 0.2)
		v.Add(Social, 0.15)
	case tc.HourOfDay >= 15 && tc.HourOfDay < 18:
		v.Add(Focused, 0.25)
	case tc.HourOfDay >= 18 && tc.HourOfDay < 22:
		v.Add(Social, 0.3)
		v.Add(Relaxed, 0.2)
	default: // late night, 22:00-05:00
		v.Add(Relaxed, 0.25)
		v.Add(Creative, 0.2)
	}

	if tc.IsWeekend {
		v.Add(Relaxed, 0.2)
		v.Add(Social, 0.15)
	} else {
		v.Add(Focused, 0.1)
	}

	if tc.TimeSinceLastSession > 0 && tc.TimeSinceLastSession < quickReturnMinutes {
		v.Add(Energetic, 0.1)
	}
	if tc.SessionNumber >= fatigueSessionNumber {
		v.Add(Neutral, 0.15)
	}

	return v.Normalize()
}

// categoryAffinities maps content categories to the moods they lean
// toward. Unlisted categories contribute nothing beyond the baseline.
var categoryAffinities = map[string][]struct {
	mood   Mood
	weight float64
}{
	"fitness":   {{Energetic, 0.4}},
	"sports":    {{Energetic, 0.35}, {Social, 0.1}},
	"dance":     {{Energetic, 0.3}, {Social, 0.15}},
	"comedy":    {{Social, 0.3}, {Energetic, 0.15}},
	"music":     {{Energetic, 0.2}, {Creative, 0.2}},
	"gaming":    {{Energetic, 0.25}, {Focused, 0.15}},
	"art":       {{Creative, 0.4}},
	"diy":       {{Creative, 0.35}, {Focused, 0.1}},
	"design":    {{Creative, 0.3}, {Focused, 0.15}},
	"fashion":   {{Creative, 0.25}, {Social, 0.15}},
	"education": {{Focused, 0.4}},
	"science":   {{Focused, 0.35}, {Creative, 0.1}},
	"tech":      {{Focused, 0.3}},
	"finance":   {{Focused, 0.3}},
	"nature":    {{Relaxed, 0.35}},
	"travel":    {{Relaxed, 0.25}, {Creative, 0.15}},
	"cooking":   {{Relaxed, 0.25}, {Creative, 0.15}},
	"pets":      {{Relaxed, 0.25}, {Social, 0.15}},
	"lifestyle": {{Relaxed, 0.2}, {Social, 0.15}},
}

// ExtractContent scores moods from what the session actually watched:
// category mix weighted by view share, creator diversity, and the
// dominant content type.
func ExtractContent(c telemetry.ContentPreferences) Vector {
	v := baseline()

	for cat, share := range c.CategoryDistribution {
		for _, aff := range categoryAffinities[cat] {
			v.Add(aff.mood, aff.weight*share)
		}
	}

	if c.CreatorDiversity > exploringDiversity {
		v.Add(Creative, 0.15)
	} else if c.CreatorDiversity > 0 && c.CreatorDiversity < loyalDiversity {
		v.Add(Focused, 0.15)
	}

	switch c.PreferredContentType {
	case "video":
		v.Add(Energetic, 0.1)
	case "photo":
		v.Add(Relaxed, 0.1)
	case "text":
		v.Add(Focused, 0.15)
	}

	return v.Normalize()
}
