// Package vibeprofile derives per-account guardian tuning from the
// account type and declared interest tags.
//
// Build is a pure function: the account/profile service supplies its
// inputs once at session start and the resulting config is applied
// into the guardian unchanged. There is no state and no I/O here.
package vibeprofile

import (
	"strings"
	"time"

	"vibesense/internal/mood"
)

// AccountType mirrors the account service's tier values.
type AccountType string

const (
	AccountPersonal AccountType = "personal"
	AccountCreator  AccountType = "pro_creator"
	AccountBusiness AccountType = "pro_business"
)

// Config is the immutable guardian tuning produced for one account.
type Config struct {
	// Enabled gates the whole vibe feature. Business accounts get
	// false: wellbeing nudges are a consumer feature, not a
	// storefront one.
	Enabled bool

	// MinSession is the grace period before health checks can report
	// anything other than thriving.
	MinSession time.Duration

	// AlertThreshold is the degradation score at which the guardian
	// reports alert.
	AlertThreshold float64

	// PassiveTimeout is how long without engagement counts as fully
	// passive consumption.
	PassiveTimeout time.Duration

	// PositiveMoods are the moods whose combined probability feeds
	// trend and trajectory scoring.
	PositiveMoods []mood.Mood
}

// Default tuning for personal accounts with no matching interests.
const (
	defaultMinSession     = 2 * time.Minute
	defaultAlertThreshold = 0.7
	defaultPassiveTimeout = 90 * time.Second

	calmAlertThreshold = 0.6
	calmPassiveTimeout = 60 * time.Second

	highSessionMinSession     = 3 * time.Minute
	highSessionPassiveTimeout = 120 * time.Second
)

// Interest sets. Tags are matched after lowercasing and trimming.
// Calm interests take priority over high-session ones.
var (
	calmInterests = map[string]struct{}{
		"meditation":  {},
		"yoga":        {},
		"mindfulness": {},
		"wellness":    {},
		"nature":      {},
	}

	highSessionInterests = map[string]struct{}{
		"fitness":   {},
		"gaming":    {},
		"education": {},
		"sports":    {},
		"music":     {},
	}
)

// basePositiveMoods is the positive-mood set for every enabled
// account. Creators additionally count focused sessions as positive.
var basePositiveMoods = []mood.Mood{mood.Energetic, mood.Social, mood.Creative}

// Build computes the guardian config for an account. Business accounts
// short-circuit to a fully disabled config before any tag matching.
func Build(account AccountType, tags []string) Config {
	if account == AccountBusiness {
		return Config{
			Enabled:        false,
			MinSession:     0,
			AlertThreshold: 1,
			PassiveTimeout: 0,
		}
	}

	cfg := Config{
		Enabled:        true,
		MinSession:     defaultMinSession,
		AlertThreshold: defaultAlertThreshold,
		PassiveTimeout: defaultPassiveTimeout,
	}

	calm, highSession := matchInterests(tags)
	switch {
	case calm:
		// Calm wins even when high-session interests also match:
		// a meditation-tagged account gets the gentler thresholds.
		cfg.PassiveTimeout = calmPassiveTimeout
		cfg.AlertThreshold = calmAlertThreshold
	case highSession:
		cfg.MinSession = highSessionMinSession
		cfg.PassiveTimeout = highSessionPassiveTimeout
	}

	cfg.PositiveMoods = append(cfg.PositiveMoods, basePositiveMoods...)
	if account == AccountCreator {
		cfg.PositiveMoods = append(cfg.PositiveMoods, mood.Focused)
	}

	return cfg
}

// matchInterests normalizes tags and tests them against both interest
// sets.
func matchInterests(tags []string) (calm, highSession bool) {
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if _, ok := calmInterests[t]; ok {
			calm = true
		}
		if _, ok := highSessionInterests[t]; ok {
			highSession = true
		}
	}
	return calm, highSession
}
