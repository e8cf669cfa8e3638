package song

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKey_IgnoresOtherFields verifies identity only depends on id and type
func TestKey_IgnoresOtherFields(t *testing.T) {
	a := Song{VideoID: "v1", PageType: PageTypeHistory, Title: "One", Timestamp: time.Now()}
	b := Song{VideoID: "v1", PageType: PageTypeHistory, Title: "Other", Timestamp: time.Now().Add(time.Hour)}

	assert.Equal(t, a.Key(), b.Key())
}

// TestKey_PageTypeMatters verifies the same video on different pages is distinct
func TestKey_PageTypeMatters(t *testing.T) {
	a := Song{VideoID: "v1", PageType: PageTypeHistory}
	b := Song{VideoID: "v1", PageType: PageTypePlaylist}

	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, "v1-history", a.Key().String())
}

// TestSong_JSONFieldNames verifies the persisted field names
func TestSong_JSONFieldNames(t *testing.T) {
	s := Song{
		Title:     "Song",
		VideoID:   "abc",
		PageType:  PageTypeNowPlaying,
		Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Action:    ActionPlayed,
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "abc", raw["videoId"])
	assert.Equal(t, "now_playing", raw["pageType"])
	assert.Equal(t, "played", raw["action"])
	assert.Equal(t, "2024-01-15T10:30:00Z", raw["timestamp"])
	assert.Contains(t, raw, "albumUrl")
}

// TestSong_ActionOmittedWhenEmpty verifies list captures carry no action
func TestSong_ActionOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(Song{VideoID: "abc"})
	require.NoError(t, err)

	assert.NotContains(t, string(data), `"action"`)
}
