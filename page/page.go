// Package page classifies YouTube Music locations and carries the DOM
// snapshots that extraction runs against.
package page

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/songlog/song"
)

// Classify maps a location to a page type. The first matching rule wins.
// The playlist check looks at the whole URL so that a ?list= reference on
// any path counts, every other check looks at the path alone.
func Classify(rawURL, path string) song.PageType {
	switch {
	case strings.Contains(rawURL, "playlist"):
		return song.PageTypePlaylist
	case strings.Contains(path, "library/liked_songs"):
		return song.PageTypeLikedSongs
	case strings.Contains(path, "history"):
		return song.PageTypeHistory
	case strings.Contains(path, "/watch"):
		return song.PageTypeNowPlaying
	case strings.Contains(path, "library"):
		return song.PageTypeLibrary
	case strings.Contains(path, "search"):
		return song.PageTypeSearch
	default:
		return song.PageTypeUnknown
	}
}

// Snapshot is the page state at one moment: where the tab is and what its
// DOM looks like.
type Snapshot struct {
	URL  string
	Path string
	HTML string
}

// NewSnapshot builds a snapshot, deriving the path from the URL. An
// unparseable URL leaves the path empty so the page classifies as unknown
// (unless the URL mentions a playlist).
func NewSnapshot(rawURL, html string) *Snapshot {
	var path string
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	return &Snapshot{
		URL:  rawURL,
		Path: path,
		HTML: html,
	}
}

// Type classifies the snapshot's location.
func (s *Snapshot) Type() song.PageType {
	return Classify(s.URL, s.Path)
}

// Document parses the snapshot HTML.
func (s *Snapshot) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
