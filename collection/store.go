package collection

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/songlog/song"
)

// Storage keys. Values are JSON encoded.
const (
	KeyCollectionEnabled = "collectionEnabled"
	KeyCollectedSongs    = "collectedSongs"
)

// Store is the persistent key-value storage behind the collection. Each
// method is a single statement, so each call is atomic on its own, but a
// load followed by a save is not.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) a store at the given database path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the storage table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// get decodes the value stored at key into v. It reports false when the key
// is absent.
func (s *Store) get(ctx context.Context, key string, v any) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return true, nil
}

// set encodes v and stores it at key, replacing any previous value.
func (s *Store) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	query := "INSERT OR REPLACE INTO storage (key, value) VALUES (?, ?)"
	if _, err := s.db.ExecContext(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("failed to update %s: %w", key, err)
	}

	return nil
}

// Enabled reports whether collection is enabled. An unset flag means
// enabled.
func (s *Store) Enabled(ctx context.Context) (bool, error) {
	var enabled bool
	found, err := s.get(ctx, KeyCollectionEnabled, &enabled)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	return enabled, nil
}

// SetEnabled persists the collection enabled flag.
func (s *Store) SetEnabled(ctx context.Context, enabled bool) error {
	return s.set(ctx, KeyCollectionEnabled, enabled)
}

// Songs returns the persisted collection in insertion order. An unset or
// null list is empty.
func (s *Store) Songs(ctx context.Context) ([]song.Song, error) {
	var songs []song.Song
	if _, err := s.get(ctx, KeyCollectedSongs, &songs); err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []song.Song{}
	}
	return songs, nil
}

// SetSongs replaces the persisted collection.
func (s *Store) SetSongs(ctx context.Context, songs []song.Song) error {
	if songs == nil {
		songs = []song.Song{}
	}
	return s.set(ctx, KeyCollectedSongs, songs)
}

// Clear removes everything in storage, the enabled flag included.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM storage"); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}
