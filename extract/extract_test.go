package extract

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pevans/songlog/page"
	"github.com/pevans/songlog/song"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: render a well-formed list item
func listItemHTML(videoID, title, artist, album string, explicit bool) string {
	var b strings.Builder
	b.WriteString(`<ytmusic-responsive-list-item-renderer>`)
	fmt.Fprintf(&b, `<div class="title-column"><yt-formatted-string class="title"><a href="watch?v=%s&amp;list=LM">%s</a></yt-formatted-string></div>`, videoID, title)
	b.WriteString(`<div class="secondary-flex-columns"><yt-formatted-string>`)
	if artist != "" {
		fmt.Fprintf(&b, `<a href="channel/%s">%s</a>`, artist, artist)
	}
	if album != "" {
		fmt.Fprintf(&b, ` &bull; <a href="browse/%s">%s</a>`, album, album)
	}
	b.WriteString(`</yt-formatted-string></div>`)
	if explicit {
		b.WriteString(`<div class="explicit-badge">E</div>`)
	}
	b.WriteString(`</ytmusic-responsive-list-item-renderer>`)
	return b.String()
}

// Test helper: wrap items in a page body
func pageHTML(items ...string) string {
	return `<html><body><div id="contents">` + strings.Join(items, "") + `</div></body></html>`
}

// Test helper: build a snapshot and parse it
func mustSnapshot(t *testing.T, url, html string) *page.Snapshot {
	t.Helper()
	return page.NewSnapshot(url, html)
}

// TestVideoID covers the v parameter lookup
func TestVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://music.youtube.com/watch?v=abc123", "abc123"},
		{"https://music.youtube.com/watch?list=LM&v=abc123&t=5", "abc123"},
		{"https://music.youtube.com/watch?vv=abc", ""},
		{"https://music.youtube.com/browse/MPRE1", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, VideoID(tt.url))
		})
	}
}

// TestListItems_Complete verifies every field of a list capture
func TestListItems_Complete(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	snap := mustSnapshot(t, "https://music.youtube.com/history",
		pageHTML(listItemHTML("aaa", "Song A", "ArtistA", "AlbumA", true)))

	songs, err := Page(snap.Type(), snap, now)
	require.NoError(t, err)
	require.Len(t, songs, 1)

	s := songs[0]
	assert.Equal(t, "Song A", s.Title)
	assert.Equal(t, "ArtistA", s.Artist)
	assert.Equal(t, "AlbumA", s.Album)
	assert.Equal(t, "aaa", s.VideoID)
	assert.Equal(t, "https://music.youtube.com/watch?v=aaa&list=LM", s.SongURL)
	assert.Equal(t, "https://music.youtube.com/channel/ArtistA", s.ArtistURL)
	assert.Equal(t, "https://music.youtube.com/browse/AlbumA", s.AlbumURL)
	assert.True(t, s.Explicit)
	assert.Equal(t, now, s.Timestamp)
	assert.Equal(t, "https://music.youtube.com/history", s.PageURL)
	assert.Equal(t, song.PageTypeHistory, s.PageType)
	assert.Empty(t, s.Action, "list captures carry no action")
}

// TestListItems_SkipsMalformed verifies items without a title link are skipped
func TestListItems_SkipsMalformed(t *testing.T) {
	noTitle := `<ytmusic-responsive-list-item-renderer><div class="secondary-flex-columns">` +
		`<yt-formatted-string><a href="channel/x">X</a></yt-formatted-string></div>` +
		`</ytmusic-responsive-list-item-renderer>`
	titleNoLink := `<ytmusic-responsive-list-item-renderer><div class="title">Plain text</div>` +
		`</ytmusic-responsive-list-item-renderer>`

	snap := mustSnapshot(t, "https://music.youtube.com/library/songs", pageHTML(
		listItemHTML("a", "A", "Art", "Alb", false),
		noTitle,
		listItemHTML("b", "B", "Art", "", false),
		titleNoLink,
		listItemHTML("c", "C", "", "", false),
	))

	songs, err := Page(snap.Type(), snap, time.Now())
	require.NoError(t, err)
	require.Len(t, songs, 3)
	assert.Equal(t, "a", songs[0].VideoID)
	assert.Equal(t, "b", songs[1].VideoID)
	assert.Equal(t, "c", songs[2].VideoID)
}

// TestListItems_MissingSecondary verifies artist and album default to empty
func TestListItems_MissingSecondary(t *testing.T) {
	snap := mustSnapshot(t, "https://music.youtube.com/search?q=x",
		pageHTML(listItemHTML("a", "A", "", "", false)))

	songs, err := Page(snap.Type(), snap, time.Now())
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Empty(t, songs[0].Artist)
	assert.Empty(t, songs[0].Album)
	assert.Empty(t, songs[0].ArtistURL)
	assert.Empty(t, songs[0].AlbumURL)
	assert.False(t, songs[0].Explicit)
	assert.Equal(t, song.PageTypeSearch, songs[0].PageType)
}

// TestListItems_ArtistOnly verifies a single secondary link is the artist
func TestListItems_ArtistOnly(t *testing.T) {
	snap := mustSnapshot(t, "https://music.youtube.com/history",
		pageHTML(listItemHTML("a", "A", "Solo", "", false)))

	songs, err := Page(snap.Type(), snap, time.Now())
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Solo", songs[0].Artist)
	assert.Empty(t, songs[0].Album)
}

// TestListItems_BadHrefSkipsOnlyThatItem verifies one failure does not abort the pass
func TestListItems_BadHrefSkipsOnlyThatItem(t *testing.T) {
	broken := `<ytmusic-responsive-list-item-renderer><div class="title">` +
		`<a href="http://%zz/watch?v=bad">Broken</a></div></ytmusic-responsive-list-item-renderer>`

	snap := mustSnapshot(t, "https://music.youtube.com/history", pageHTML(
		listItemHTML("a", "A", "", "", false),
		broken,
		listItemHTML("b", "B", "", "", false),
	))

	songs, err := Page(snap.Type(), snap, time.Now())
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "a", songs[0].VideoID)
	assert.Equal(t, "b", songs[1].VideoID)
}

// TestListItems_EmptyTitleSkipped verifies a title link with no text is dropped
func TestListItems_EmptyTitleSkipped(t *testing.T) {
	snap := mustSnapshot(t, "https://music.youtube.com/history",
		pageHTML(listItemHTML("a", "   ", "", "", false)))

	songs, err := Page(snap.Type(), snap, time.Now())
	require.NoError(t, err)
	assert.Empty(t, songs)
}

// TestListItems_ClassNameMatch verifies non-custom-element renderings are found
func TestListItems_ClassNameMatch(t *testing.T) {
	item := `<div class="style-scope ytmusic-two-row-list-item-renderer">` +
		`<span class="title"><a href="/watch?v=zz">Z</a></span></div>`
	snap := mustSnapshot(t, "https://music.youtube.com/", pageHTML(item))

	songs, err := Page(snap.Type(), snap, time.Now())
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "zz", songs[0].VideoID)
	assert.Equal(t, song.PageTypeUnknown, songs[0].PageType)
}

// TestListItems_EmptyPage verifies no elements means no songs
func TestListItems_EmptyPage(t *testing.T) {
	snap := mustSnapshot(t, "https://music.youtube.com/history", pageHTML())

	songs, err := Page(snap.Type(), snap, time.Now())
	require.NoError(t, err)
	assert.Empty(t, songs)
}

// TestNowPlaying_Complete verifies the player capture
func TestNowPlaying_Complete(t *testing.T) {
	html := `<html><body><ytmusic-player-bar>` +
		`<yt-formatted-string class="title ytmusic-player-bar">  Playing Song </yt-formatted-string>` +
		`<span class="subtitle ytmusic-player-bar">Some Artist</span>` +
		`</ytmusic-player-bar></body></html>`
	now := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	snap := mustSnapshot(t, "https://music.youtube.com/watch?v=np1", html)

	songs, err := Page(song.PageTypeNowPlaying, snap, now)
	require.NoError(t, err)
	require.Len(t, songs, 1)

	s := songs[0]
	assert.Equal(t, "Playing Song", s.Title)
	assert.Equal(t, "Some Artist", s.Artist)
	assert.Empty(t, s.Album)
	assert.Empty(t, s.ArtistURL)
	assert.Empty(t, s.AlbumURL)
	assert.Equal(t, "np1", s.VideoID)
	assert.Equal(t, snap.URL, s.SongURL)
	assert.Equal(t, snap.URL, s.PageURL)
	assert.Equal(t, song.PageTypeNowPlaying, s.PageType)
	assert.Equal(t, song.ActionPlayed, s.Action)
	assert.False(t, s.Explicit)
	assert.Equal(t, now, s.Timestamp)
}

// TestNowPlaying_NoTitle verifies nothing is produced without a title
func TestNowPlaying_NoTitle(t *testing.T) {
	snap := mustSnapshot(t, "https://music.youtube.com/watch?v=np1",
		`<html><body><span class="byline">Artist only</span></body></html>`)

	songs, err := Page(song.PageTypeNowPlaying, snap, time.Now())
	require.NoError(t, err)
	assert.Empty(t, songs)
}

// TestNowPlaying_MissingArtist verifies the artist defaults to empty
func TestNowPlaying_MissingArtist(t *testing.T) {
	snap := mustSnapshot(t, "https://music.youtube.com/watch?v=np1",
		`<html><body><div class="song-title">Only Title</div></body></html>`)

	songs, err := Page(song.PageTypeNowPlaying, snap, time.Now())
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Only Title", songs[0].Title)
	assert.Empty(t, songs[0].Artist)
}
