package vibesense_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibesense"
)

// TestEndToEndSession walks the documented host-app flow: construct,
// start, post telemetry, read analysis and health, stop, read recap.
func TestEndToEndSession(t *testing.T) {
	start := time.Date(2025, 6, 12, 7, 0, 0, 0, time.UTC)
	s := vibesense.NewSession(vibesense.AccountPersonal, []string{"fitness"},
		vibesense.PreviousSession{}, nil,
		vibesense.WithClock(func() time.Time { return start }),
		vibesense.WithSnapshotInterval(time.Hour))

	s.Start(context.Background())

	at := start
	y := 0.0
	for i := 0; i < 20; i++ {
		at = at.Add(500 * time.Millisecond)
		y += 350
		s.PostScroll(y, at)
	}
	s.PostView("p1", "fitness", "c1", "video")
	s.PostEngagement(vibesense.EngagementLike)
	s.PostPositiveInteraction()

	require.Eventually(t, func() bool {
		return s.Tracker().EngagementSignals().TotalInteractions == 1
	}, 2*time.Second, time.Millisecond)

	result := s.Analyze()
	assert.InDelta(t, 1.0, result.Probabilities.Sum(), 1e-6)
	assert.NotEmpty(t, result.PrimaryMood)

	health := s.CheckHealth()
	assert.Equal(t, vibesense.LevelThriving, health.Level)

	s.Stop()
	recap := s.Recap()
	assert.Equal(t, 1, recap.PositiveInteractions)
}

func TestBusinessAccountsStayDark(t *testing.T) {
	s := vibesense.NewSession(vibesense.AccountBusiness, nil,
		vibesense.PreviousSession{}, nil)
	s.Start(context.Background())
	defer s.Stop()

	health := s.CheckHealth()
	assert.Equal(t, vibesense.LevelThriving, health.Level)
	assert.Zero(t, health.DegradationScore)
}
