package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pevans/songlog/song"
)

// collectionStats summarizes the stored collection.
type collectionStats struct {
	Total       int                   `json:"total"`
	Enabled     bool                  `json:"enabled"`
	Status      string                `json:"status"`
	ByPageType  map[song.PageType]int `json:"byPageType"`
	Explicit    int                   `json:"explicit"`
	LastCapture *time.Time            `json:"lastCapture,omitempty"`
}

// summarize counts songs by page type and finds the latest capture.
func summarize(songs []song.Song, enabled bool) collectionStats {
	stats := collectionStats{
		Total:      len(songs),
		Enabled:    enabled,
		Status:     statusLabel(enabled),
		ByPageType: make(map[song.PageType]int),
	}

	for _, s := range songs {
		stats.ByPageType[s.PageType]++
		if s.Explicit {
			stats.Explicit++
		}
		if stats.LastCapture == nil || s.Timestamp.After(*stats.LastCapture) {
			ts := s.Timestamp
			stats.LastCapture = &ts
		}
	}

	return stats
}

// printStatsTable prints stats in human-readable format
func printStatsTable(stats collectionStats) {
	fmt.Printf("Songs collected: %s\n", humanize.Comma(int64(stats.Total)))
	fmt.Printf("Status: %s\n", stats.Status)
	if stats.LastCapture != nil {
		fmt.Printf("Last capture: %s\n", humanize.Time(*stats.LastCapture))
	}
	if stats.Explicit > 0 {
		fmt.Printf("Explicit: %s\n", humanize.Comma(int64(stats.Explicit)))
	}

	if len(stats.ByPageType) == 0 {
		return
	}

	types := make([]song.PageType, 0, len(stats.ByPageType))
	for t := range stats.ByPageType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if stats.ByPageType[types[i]] != stats.ByPageType[types[j]] {
			return stats.ByPageType[types[i]] > stats.ByPageType[types[j]]
		}
		return types[i] < types[j]
	})

	fmt.Println()
	fmt.Printf("%-14s %s\n", "PAGE TYPE", "SONGS")
	fmt.Println("--------------------")
	for _, t := range types {
		fmt.Printf("%-14s %s\n", t, humanize.Comma(int64(stats.ByPageType[t])))
	}
}

// printStatsJSON prints stats in JSON format
func printStatsJSON(stats collectionStats) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(stats); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

// printSongsTable prints songs newest first
func printSongsTable(songs []song.Song) {
	if len(songs) == 0 {
		fmt.Println("No songs to display.")
		return
	}

	fmt.Printf("%-40s %-25s %-12s %s\n", "TITLE", "ARTIST", "PAGE", "CAPTURED")
	fmt.Println("----------------------------------------------------------------------------------------------")

	for i := len(songs) - 1; i >= 0; i-- {
		s := songs[i]
		fmt.Printf("%-40s %-25s %-12s %s\n",
			truncate(s.Title, 40),
			truncate(s.Artist, 25),
			s.PageType,
			humanize.Time(s.Timestamp),
		)
	}
}
