package mood

import (
	"testing"

	"vibesense/internal/telemetry"
)

// The extractor constants are product tuning values, so these tests
// assert direction of shift against the baseline rather than exact
// probabilities.

func TestExtractBehavioralFastFlicking(t *testing.T) {
	v := ExtractBehavioral(telemetry.ScrollBehavior{
		AvgVelocity: 650,
		MaxVelocity: 900,
		PauseCount:  1,
	})
	assertNormalized(t, v)

	base := ExtractBehavioral(telemetry.ScrollBehavior{})
	if v.Energetic <= base.Energetic {
		t.Errorf("fast scrolling should raise energetic: %v vs baseline %v",
			v.Energetic, base.Energetic)
	}
	m, _ := v.Dominant()
	if m != Energetic {
		t.Errorf("dominant: got %s, want energetic", m)
	}
}

func TestExtractBehavioralSlowWithLongPauses(t *testing.T) {
	v := ExtractBehavioral(telemetry.ScrollBehavior{
		AvgVelocity:      120,
		PauseCount:       4,
		AvgPauseDuration: 2500,
	})
	assertNormalized(t, v)

	base := ExtractBehavioral(telemetry.ScrollBehavior{})
	if v.Relaxed <= base.Relaxed {
		t.Errorf("slow paused scrolling should raise relaxed")
	}
	if v.Focused <= base.Focused {
		t.Errorf("slow paused scrolling should raise focused")
	}
}

func TestExtractBehavioralStudyPattern(t *testing.T) {
	v := ExtractBehavioral(telemetry.ScrollBehavior{
		AvgVelocity:        250,
		PauseCount:         6,
		AvgPauseDuration:   3500,
		ReverseScrollCount: 4,
	})
	m, _ := v.Dominant()
	if m != Focused {
		t.Errorf("many long pauses plus rereading should read focused, got %s", m)
	}
}

func TestExtractBehavioralNoMotionStaysNeutral(t *testing.T) {
	v := ExtractBehavioral(telemetry.ScrollBehavior{})
	assertNormalized(t, v)
	m, _ := v.Dominant()
	if m != Neutral {
		t.Errorf("no signal should stay neutral, got %s", m)
	}
}

func TestExtractEngagementSocial(t *testing.T) {
	v := ExtractEngagement(telemetry.EngagementSignals{
		LikeRate:          0.5,
		CommentRate:       0.2,
		ShareRate:         0.15,
		PostsViewed:       10,
		TotalInteractions: 8,
	})
	assertNormalized(t, v)
	m, _ := v.Dominant()
	if m != Social {
		t.Errorf("heavy outward interaction should read social, got %s", m)
	}
}

func TestExtractEngagementCollector(t *testing.T) {
	v := ExtractEngagement(telemetry.EngagementSignals{
		SaveRate:          0.3,
		RewatchRate:       0.3,
		AvgTimePerPost:    15,
		PostsViewed:       8,
		TotalInteractions: 3,
	})
	base := ExtractEngagement(telemetry.EngagementSignals{})
	if v.Creative <= base.Creative {
		t.Errorf("saving should raise creative")
	}
	if v.Focused <= base.Focused {
		t.Errorf("rewatching and deep dwell should raise focused")
	}
}

func TestExtractEngagementPassiveLurker(t *testing.T) {
	v := ExtractEngagement(telemetry.EngagementSignals{
		SkipRate:          0.8,
		PostsViewed:       20,
		TotalInteractions: 0,
	})
	base := ExtractEngagement(telemetry.EngagementSignals{})
	if v.Neutral <= base.Neutral {
		t.Errorf("skipping without interacting should raise neutral")
	}
}

func TestExtractTemporalHourBands(t *testing.T) {
	cases := []struct {
		hour  int
		mood  Mood
		label string
	}{
		{7, Energetic, "early morning"},
		{10, Focused, "work morning"},
		{13, Relaxed, "lunch"},
		{16, Focused, "afternoon"},
		{20, Social, "evening"},
		{23, Relaxed, "late night"},
		{2, Creative, "small hours"},
	}

	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			// Weekday context so the weekend bonus doesn't mask the band.
			v := ExtractTemporal(telemetry.TemporalContext{HourOfDay: tc.hour, DayOfWeek: 2})
			assertNormalized(t, v)
			uniform := baseline().Normalize()
			if v.Get(tc.mood) <= uniform.Get(tc.mood) {
				t.Errorf("hour %d should raise %s", tc.hour, tc.mood)
			}
		})
	}
}

func TestExtractTemporalWeekend(t *testing.T) {
	weekend := ExtractTemporal(telemetry.TemporalContext{HourOfDay: 10, DayOfWeek: 6, IsWeekend: true})
	weekday := ExtractTemporal(telemetry.TemporalContext{HourOfDay: 10, DayOfWeek: 2})
	if weekend.Relaxed <= weekday.Relaxed {
		t.Errorf("weekend should read more relaxed than weekday")
	}
}

func TestExtractTemporalQuickReturnAndFatigue(t *testing.T) {
	quick := ExtractTemporal(telemetry.TemporalContext{HourOfDay: 13, TimeSinceLastSession: 10, SessionNumber: 2})
	slow := ExtractTemporal(telemetry.TemporalContext{HourOfDay: 13, TimeSinceLastSession: 120, SessionNumber: 2})
	if quick.Energetic <= slow.Energetic {
		t.Errorf("quick return should raise energetic")
	}

	fatigued := ExtractTemporal(telemetry.TemporalContext{HourOfDay: 13, SessionNumber: 6})
	fresh := ExtractTemporal(telemetry.TemporalContext{HourOfDay: 13, SessionNumber: 1})
	if fatigued.Neutral <= fresh.Neutral {
		t.Errorf("many sessions in a day should raise neutral")
	}
}

func TestExtractContentCategoryAffinity(t *testing.T) {
	cases := []struct {
		category string
		mood     Mood
	}{
		{"fitness", Energetic},
		{"art", Creative},
		{"education", Focused},
		{"nature", Relaxed},
		{"comedy", Social},
	}

	for _, tc := range cases {
		t.Run(tc.category, func(t *testing.T) {
			v := ExtractContent(telemetry.ContentPreferences{
				TopCategories:        []string{tc.category},
				CategoryDistribution: map[string]float64{tc.category: 1.0},
			})
			assertNormalized(t, v)
			m, _ := v.Dominant()
			if m != tc.mood {
				t.Errorf("all-%s session: dominant %s, want %s", tc.category, m, tc.mood)
			}
		})
	}
}

func TestExtractContentUnknownCategoryStaysNeutral(t *testing.T) {
	v := ExtractContent(telemetry.ContentPreferences{
		TopCategories:        []string{"zzz-unlisted"},
		CategoryDistribution: map[string]float64{"zzz-unlisted": 1.0},
	})
	m, _ := v.Dominant()
	if m != Neutral {
		t.Errorf("unknown category should stay neutral, got %s", m)
	}
}

func TestExtractContentDiversity(t *testing.T) {
	exploring := ExtractContent(telemetry.ContentPreferences{CreatorDiversity: 0.9})
	loyal := ExtractContent(telemetry.ContentPreferences{CreatorDiversity: 0.1})
	if exploring.Creative <= loyal.Creative {
		t.Errorf("high diversity should read more creative")
	}
	if loyal.Focused <= exploring.Focused {
		t.Errorf("low diversity should read more focused")
	}
}
