package trace

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibesense/internal/vibeprofile"
)

const validTrace = `{
  "version": 1,
  "account_type": "personal",
  "interest_tags": ["fitness"],
  "start_time": "2025-06-12T14:00:00Z",
  "events": [
    {"offset_ms": 0, "type": "scroll", "y": 0},
    {"offset_ms": 500, "type": "scroll", "y": 400},
    {"offset_ms": 1000, "type": "post_view", "post_id": "p1", "category": "fitness", "creator_id": "c1", "content_type": "video"},
    {"offset_ms": 4000, "type": "time_on_post", "post_id": "p1", "seconds": 3.0},
    {"offset_ms": 4500, "type": "engagement", "kind": "like"},
    {"offset_ms": 5000, "type": "positive"}
  ]
}`

func TestValidateAcceptsWellFormedTrace(t *testing.T) {
	assert.NoError(t, Validate([]byte(validTrace)))
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"missing version", `{"account_type": "personal", "start_time": "2025-06-12T14:00:00Z", "events": []}`},
		{"bad account type", `{"version": 1, "account_type": "enterprise", "start_time": "2025-06-12T14:00:00Z", "events": []}`},
		{"unknown event type", `{"version": 1, "account_type": "personal", "start_time": "2025-06-12T14:00:00Z",
			"events": [{"offset_ms": 0, "type": "hover"}]}`},
		{"scroll without y", `{"version": 1, "account_type": "personal", "start_time": "2025-06-12T14:00:00Z",
			"events": [{"offset_ms": 0, "type": "scroll"}]}`},
		{"engagement without kind", `{"version": 1, "account_type": "personal", "start_time": "2025-06-12T14:00:00Z",
			"events": [{"offset_ms": 0, "type": "engagement"}]}`},
		{"negative offset", `{"version": 1, "account_type": "personal", "start_time": "2025-06-12T14:00:00Z",
			"events": [{"offset_ms": -5, "type": "positive"}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, Validate([]byte(tc.json)))
		})
	}
}

func TestParseSortsEvents(t *testing.T) {
	out := `{
	  "version": 1,
	  "account_type": "personal",
	  "start_time": "2025-06-12T14:00:00Z",
	  "events": [
	    {"offset_ms": 900, "type": "positive"},
	    {"offset_ms": 100, "type": "scroll", "y": 10}
	  ]
	}`
	tr, err := Parse([]byte(out))
	require.NoError(t, err)
	require.Len(t, tr.Events, 2)
	assert.Equal(t, int64(100), tr.Events[0].OffsetMS)
	assert.Equal(t, 900*time.Millisecond, tr.Duration())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	orig, err := Parse([]byte(validTrace))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, Save(orig, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, orig.AccountType, loaded.AccountType)
	assert.Equal(t, orig.StartTime, loaded.StartTime)
	assert.Len(t, loaded.Events, len(orig.Events))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestPreviousConversion(t *testing.T) {
	tr := &Trace{}
	assert.True(t, tr.Previous().EndedAt.IsZero())

	ended := time.Date(2025, 6, 12, 13, 30, 0, 0, time.UTC)
	tr.PreviousSession = &PreviousSession{EndedAt: ended, Number: 2}
	prev := tr.Previous()
	assert.Equal(t, ended, prev.EndedAt)
	assert.Equal(t, 2, prev.Number)
}

func TestAccountTypeMatchesProfilePackage(t *testing.T) {
	tr, err := Parse([]byte(validTrace))
	require.NoError(t, err)
	assert.Equal(t, vibeprofile.AccountPersonal, tr.AccountType)
}
