package main

import (
	"fmt"
	"strings"

	"github.com/pevans/songlog/api"
	"github.com/pevans/songlog/song"
)

// parseToggle reads an on/off argument.
func parseToggle(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "true", "enable", "enabled":
		return true, nil
	case "off", "false", "disable", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("invalid state: %s (must be 'on' or 'off')", arg)
}

// statusLabel names the collection state the way the control API does.
func statusLabel(enabled bool) string {
	if enabled {
		return api.StatusActive
	}
	return api.StatusPaused
}

// lastSongs returns up to n songs from the end of the collection.
func lastSongs(songs []song.Song, n int) []song.Song {
	if n >= len(songs) {
		return songs
	}
	return songs[len(songs)-n:]
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
