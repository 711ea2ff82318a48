// Package trace loads and replays recorded session traces.
//
// A trace is a JSON file holding a session's account context plus a
// time-ordered list of telemetry events with millisecond offsets from
// the session start. Traces are validated against an embedded JSON
// Schema before replay, so a malformed capture fails fast instead of
// producing a silently skewed analysis.
package trace

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"vibesense/internal/telemetry"
	"vibesense/internal/vibeprofile"
)

//go:embed schema.json
var schemaJSON []byte

// Version is the trace format version this package reads and writes.
const Version = 1

// EventType identifies one kind of recorded telemetry event.
type EventType string

const (
	EventScroll     EventType = "scroll"
	EventPostView   EventType = "post_view"
	EventTimeOnPost EventType = "time_on_post"
	EventEngagement EventType = "engagement"
	EventPositive   EventType = "positive"
)

// Event is a single recorded telemetry sample. Which fields are
// meaningful depends on Type; the schema enforces the required ones.
type Event struct {
	OffsetMS    int64     `json:"offset_ms"`
	Type        EventType `json:"type"`
	Y           float64   `json:"y,omitempty"`
	PostID      string    `json:"post_id,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatorID   string    `json:"creator_id,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Seconds     float64   `json:"seconds,omitempty"`
	Kind        string    `json:"kind,omitempty"`
}

// PreviousSession records when the prior session ended, if known.
type PreviousSession struct {
	EndedAt time.Time `json:"ended_at,omitempty"`
	Number  int       `json:"number,omitempty"`
}

// Trace is a complete recorded session.
type Trace struct {
	Version         int                     `json:"version"`
	AccountType     vibeprofile.AccountType `json:"account_type"`
	InterestTags    []string                `json:"interest_tags,omitempty"`
	StartTime       time.Time               `json:"start_time"`
	PreviousSession *PreviousSession        `json:"previous_session,omitempty"`
	Events          []Event                 `json:"events"`
}

// Previous converts the optional previous-session record to the
// tracker's form.
func (t *Trace) Previous() telemetry.PreviousSession {
	if t.PreviousSession == nil {
		return telemetry.PreviousSession{}
	}
	return telemetry.PreviousSession{
		EndedAt: t.PreviousSession.EndedAt,
		Number:  t.PreviousSession.Number,
	}
}

// Duration returns the span from session start to the last event.
func (t *Trace) Duration() time.Duration {
	if len(t.Events) == 0 {
		return 0
	}
	last := t.Events[len(t.Events)-1]
	return time.Duration(last.OffsetMS) * time.Millisecond
}

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	const name = "trace-v1.schema.json"
	if err := compiler.AddResource(name, bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("trace: add schema resource: %v", err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("trace: compile schema: %v", err))
	}
	return schema
}

// Validate checks raw trace JSON against the embedded schema.
func Validate(data []byte) error {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("parse trace: %w", err)
	}
	if err := compiledSchema.Validate(instance); err != nil {
		return fmt.Errorf("trace schema: %w", err)
	}
	return nil
}

// Parse validates and decodes a trace from raw JSON. Events are
// sorted by offset so hand-edited traces replay in order.
func Parse(data []byte) (*Trace, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	if t.Version != Version {
		return nil, fmt.Errorf("unsupported trace version %d", t.Version)
	}
	sort.SliceStable(t.Events, func(i, j int) bool {
		return t.Events[i].OffsetMS < t.Events[j].OffsetMS
	})
	return &t, nil
}

// Load reads and parses a trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Save writes a trace to path as indented JSON.
func Save(t *Trace, path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}
