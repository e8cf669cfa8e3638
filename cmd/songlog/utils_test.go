package main

import (
	"testing"
	"time"

	"github.com/pevans/songlog/song"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseToggle verifies accepted on/off spellings
func TestParseToggle(t *testing.T) {
	tests := []struct {
		arg       string
		expected  bool
		expectErr bool
	}{
		{arg: "on", expected: true},
		{arg: "ON", expected: true},
		{arg: "enable", expected: true},
		{arg: "off", expected: false},
		{arg: "false", expected: false},
		{arg: "maybe", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseToggle(tt.arg)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestTruncate verifies long values are shortened on rune boundaries
func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "Björk Guð...", truncate("Björk Guðmundsdóttir", 12))
}

// TestLastSongs verifies the tail of the collection is returned
func TestLastSongs(t *testing.T) {
	songs := []song.Song{{VideoID: "a"}, {VideoID: "b"}, {VideoID: "c"}}

	assert.Equal(t, songs[1:], lastSongs(songs, 2))
	assert.Equal(t, songs, lastSongs(songs, 10))
}

// TestSummarize verifies per-type counts and the latest capture
func TestSummarize(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	songs := []song.Song{
		{VideoID: "a", PageType: song.PageTypeHistory, Timestamp: late},
		{VideoID: "b", PageType: song.PageTypeHistory, Timestamp: early, Explicit: true},
		{VideoID: "c", PageType: song.PageTypeNowPlaying, Timestamp: early},
	}

	stats := summarize(songs, false)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, "Paused", stats.Status)
	assert.Equal(t, 2, stats.ByPageType[song.PageTypeHistory])
	assert.Equal(t, 1, stats.ByPageType[song.PageTypeNowPlaying])
	assert.Equal(t, 1, stats.Explicit)
	require.NotNil(t, stats.LastCapture)
	assert.Equal(t, late, *stats.LastCapture)
}

// TestSummarize_Empty verifies an empty collection has no last capture
func TestSummarize_Empty(t *testing.T) {
	stats := summarize(nil, true)

	assert.Zero(t, stats.Total)
	assert.Equal(t, "Active", stats.Status)
	assert.Nil(t, stats.LastCapture)
}
