package page

import (
	"context"
	"fmt"
	"os"
)

// FileSource serves snapshots of an HTML file saved from a page. The file is
// re-read on every call, so it can be replaced while a watcher runs.
type FileSource struct {
	URL  string
	Path string
}

// Snapshot reads the file and pairs it with the source URL.
func (f *FileSource) Snapshot(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page file: %w", err)
	}
	return NewSnapshot(f.URL, string(data)), nil
}
