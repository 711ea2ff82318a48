// Package vibesense infers a user's mood from content-feed telemetry
// and watches session health, entirely on device.
//
// The host UI constructs one Session per app session, posts telemetry
// into it, and reads back mood analyses, health checks, and an
// end-of-session recap:
//
//	s := vibesense.NewSession(vibesense.AccountPersonal, tags, prev, nil)
//	s.Start(ctx)
//	defer s.Stop()
//
//	s.PostScroll(y, time.Now())
//	s.PostView(postID, category, creatorID, contentType)
//	...
//	result := s.Analyze()
//	health := s.CheckHealth()
//
// Nothing is persisted and nothing leaves the process; all state lives
// in bounded in-memory buffers owned by the Session.
package vibesense

import (
	"vibesense/internal/config"
	"vibesense/internal/guardian"
	"vibesense/internal/mood"
	"vibesense/internal/session"
	"vibesense/internal/telemetry"
	"vibesense/internal/vibeprofile"
)

// Session is one user session's detection pipeline. See NewSession.
type Session = session.Session

// Option configures a Session.
type Option = session.Option

// HealthTransition is delivered on session health level changes.
type HealthTransition = session.HealthTransition

// WithLogger, WithClock, and WithSnapshotInterval configure a Session.
var (
	WithLogger           = session.WithLogger
	WithClock            = session.WithClock
	WithSnapshotInterval = session.WithSnapshotInterval
)

// Account types, mirroring the account service's tier values.
type AccountType = vibeprofile.AccountType

const (
	AccountPersonal = vibeprofile.AccountPersonal
	AccountCreator  = vibeprofile.AccountCreator
	AccountBusiness = vibeprofile.AccountBusiness
)

// PreviousSession links a new session to the one before it, driving
// the session counter and the time-since-last-session signal.
type PreviousSession = telemetry.PreviousSession

// EngagementKind identifies a deliberate content interaction.
type EngagementKind = telemetry.EngagementKind

const (
	EngagementLike    = telemetry.EngagementLike
	EngagementComment = telemetry.EngagementComment
	EngagementShare   = telemetry.EngagementShare
	EngagementSave    = telemetry.EngagementSave
)

// Mood is one of the six recognized mood categories.
type Mood = mood.Mood

// AnalysisResult is one fused mood estimate.
type AnalysisResult = mood.AnalysisResult

// HealthStatus is one session health check result.
type HealthStatus = guardian.HealthStatus

// Recap summarizes a session for the end-of-session screen.
type Recap = guardian.Recap

// Health levels, from best to worst.
const (
	LevelThriving  = guardian.LevelThriving
	LevelStable    = guardian.LevelStable
	LevelDeclining = guardian.LevelDeclining
	LevelAlert     = guardian.LevelAlert
)

// Config tunes guardian and logging from a file; see the config
// subcommands of cmd/vibesense.
type Config = config.Config

// DefaultConfig returns the built-in defaults.
var DefaultConfig = config.DefaultConfig

// LoadConfig loads the configuration from path, writing a default
// file first if none exists. An empty path uses the platform config
// directory.
var LoadConfig = config.LoadOrCreate

// NewSession builds the pipeline for one session. cfg may be nil to
// run on profile-derived tuning alone.
var NewSession = session.New
