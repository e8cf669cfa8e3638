// Package collection owns the persisted song collection: in-batch
// deduplication, merging new songs into storage, and the maintenance
// operations (cleanup, clear, export) that act on the stored list.
package collection

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pevans/songlog/song"
)

// Dedupe keeps the first song for each identity key and drops the rest,
// preserving the order of the songs it keeps.
func Dedupe(songs []song.Song) []song.Song {
	seen := make(map[song.Key]struct{}, len(songs))
	unique := make([]song.Song, 0, len(songs))

	for _, s := range songs {
		key := s.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, s)
	}

	return unique
}

// MergeResult reports what a merge did.
type MergeResult struct {
	Appended int `json:"appended"`
	Total    int `json:"total"`
}

// Merger reconciles batches against the store. It is the only writer that
// appends to the collection.
type Merger struct {
	store    *Store
	notifier Notifier
}

// NewMerger creates a merger. A nil notifier discards notifications.
func NewMerger(store *Store, notifier Notifier) *Merger {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}

	return &Merger{
		store:    store,
		notifier: notifier,
	}
}

// Merge appends every song in batch whose identity key is not already
// stored. When nothing is new the store is not written and no notification
// is sent, so merging the same batch twice changes nothing the second time.
// The batch is expected to have been through Dedupe already.
//
// The load and the save are separate storage calls. Two merges running at
// once can each miss the other's songs.
func (m *Merger) Merge(ctx context.Context, batch []song.Song) (MergeResult, error) {
	if len(batch) == 0 {
		return MergeResult{}, nil
	}

	existing, err := m.store.Songs(ctx)
	if err != nil {
		return MergeResult{}, fmt.Errorf("failed to load songs: %w", err)
	}

	stored := make(map[song.Key]struct{}, len(existing))
	for _, s := range existing {
		stored[s.Key()] = struct{}{}
	}

	var newOnes []song.Song
	for _, s := range batch {
		if _, ok := stored[s.Key()]; !ok {
			newOnes = append(newOnes, s)
		}
	}

	if len(newOnes) == 0 {
		return MergeResult{Total: len(existing)}, nil
	}

	updated := append(existing, newOnes...)
	if err := m.store.SetSongs(ctx, updated); err != nil {
		return MergeResult{}, fmt.Errorf("failed to save songs: %w", err)
	}

	log.Printf("INFO: Saved %d new songs. Total: %d", len(newOnes), len(updated))

	m.notifier.SongsCollected(Notification{
		Action: ActionSongsCollected,
		Count:  len(newOnes),
		Total:  len(updated),
	})

	return MergeResult{Appended: len(newOnes), Total: len(updated)}, nil
}

// CleanupResult reports what a cleanup removed.
type CleanupResult struct {
	Removed   int `json:"removed"`
	Remaining int `json:"remaining"`
}

// Cleanup deduplicates the stored collection in place, keeping the first
// song for each identity key. The store is only written when something was
// removed.
func Cleanup(ctx context.Context, store *Store) (CleanupResult, error) {
	songs, err := store.Songs(ctx)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("failed to load songs: %w", err)
	}

	unique := Dedupe(songs)
	result := CleanupResult{
		Removed:   len(songs) - len(unique),
		Remaining: len(unique),
	}

	if result.Removed > 0 {
		if err := store.SetSongs(ctx, unique); err != nil {
			return CleanupResult{}, fmt.Errorf("failed to save songs: %w", err)
		}
	}

	return result, nil
}

// ExportData is the document produced by an export.
type ExportData struct {
	ExportDate string      `json:"exportDate"`
	TotalSongs int         `json:"totalSongs"`
	Songs      []song.Song `json:"songs"`
}

// Export snapshots the stored collection.
func Export(ctx context.Context, store *Store, now time.Time) (*ExportData, error) {
	songs, err := store.Songs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load songs: %w", err)
	}

	return &ExportData{
		ExportDate: now.UTC().Format(time.RFC3339Nano),
		TotalSongs: len(songs),
		Songs:      songs,
	}, nil
}

// ExportFilename returns the conventional file name for an export made at
// the given time.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("youtube_music_data_%s.json", now.UTC().Format("2006-01-02"))
}
