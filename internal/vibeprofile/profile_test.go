package vibeprofile

import (
	"testing"
	"time"

	"vibesense/internal/mood"
)

func containsMood(moods []mood.Mood, m mood.Mood) bool {
	for _, x := range moods {
		if x == m {
			return true
		}
	}
	return false
}

func TestBuildBusinessDisabled(t *testing.T) {
	cfg := Build(AccountBusiness, []string{"meditation", "fitness"})
	if cfg.Enabled {
		t.Fatal("business accounts must have the feature disabled")
	}
	if cfg.AlertThreshold != 1 {
		t.Errorf("disabled config alert threshold: got %v, want 1", cfg.AlertThreshold)
	}
	if len(cfg.PositiveMoods) != 0 {
		t.Errorf("disabled config should carry no positive moods: %v", cfg.PositiveMoods)
	}
}

func TestBuildDefaults(t *testing.T) {
	cfg := Build(AccountPersonal, nil)
	if !cfg.Enabled {
		t.Fatal("personal accounts should be enabled")
	}
	if cfg.MinSession != 2*time.Minute {
		t.Errorf("min session: got %v", cfg.MinSession)
	}
	if cfg.AlertThreshold != 0.7 {
		t.Errorf("alert threshold: got %v", cfg.AlertThreshold)
	}
	if cfg.PassiveTimeout != 90*time.Second {
		t.Errorf("passive timeout: got %v", cfg.PassiveTimeout)
	}
}

func TestBuildCalmInterests(t *testing.T) {
	cfg := Build(AccountPersonal, []string{"Meditation"})
	if cfg.AlertThreshold != 0.6 {
		t.Errorf("calm alert threshold: got %v, want 0.6", cfg.AlertThreshold)
	}
	if cfg.PassiveTimeout != 60*time.Second {
		t.Errorf("calm passive timeout: got %v, want 60s", cfg.PassiveTimeout)
	}
	// Calm tuning leaves min session at the default.
	if cfg.MinSession != 2*time.Minute {
		t.Errorf("calm min session: got %v, want 2m", cfg.MinSession)
	}
}

func TestBuildHighSessionInterests(t *testing.T) {
	cfg := Build(AccountPersonal, []string{"gaming", "cooking"})
	if cfg.MinSession != 3*time.Minute {
		t.Errorf("high-session min session: got %v, want 3m", cfg.MinSession)
	}
	if cfg.PassiveTimeout != 120*time.Second {
		t.Errorf("high-session passive timeout: got %v, want 120s", cfg.PassiveTimeout)
	}
	if cfg.AlertThreshold != 0.7 {
		t.Errorf("high-session alert threshold stays default: got %v", cfg.AlertThreshold)
	}
}

func TestBuildCalmBeatsHighSession(t *testing.T) {
	cfg := Build(AccountPersonal, []string{"fitness", "yoga"})
	if cfg.AlertThreshold != 0.6 || cfg.PassiveTimeout != 60*time.Second {
		t.Errorf("calm should win over high-session: %+v", cfg)
	}
	if cfg.MinSession != 2*time.Minute {
		t.Errorf("calm branch must not take the high-session min: %v", cfg.MinSession)
	}
}

func TestBuildTagNormalization(t *testing.T) {
	cfg := Build(AccountPersonal, []string{"  YOGA  "})
	if cfg.AlertThreshold != 0.6 {
		t.Errorf("tags should match case- and space-insensitively: %+v", cfg)
	}
}

func TestBuildPositiveMoods(t *testing.T) {
	personal := Build(AccountPersonal, nil)
	for _, m := range []mood.Mood{mood.Energetic, mood.Social, mood.Creative} {
		if !containsMood(personal.PositiveMoods, m) {
			t.Errorf("personal positive moods missing %s", m)
		}
	}
	if containsMood(personal.PositiveMoods, mood.Focused) {
		t.Error("personal accounts should not count focused as positive")
	}

	creator := Build(AccountCreator, nil)
	if !containsMood(creator.PositiveMoods, mood.Focused) {
		t.Error("creator accounts should count focused as positive")
	}
}

func TestBuildIsPure(t *testing.T) {
	a := Build(AccountCreator, []string{"gaming"})
	b := Build(AccountCreator, []string{"gaming"})

	a.PositiveMoods[0] = mood.Neutral
	if b.PositiveMoods[0] == mood.Neutral {
		t.Error("configs share positive-mood backing storage")
	}
	c := Build(AccountPersonal, nil)
	if containsMood(c.PositiveMoods, mood.Neutral) {
		t.Error("mutating one config leaked into a later Build")
	}
}
