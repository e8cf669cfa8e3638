// Package extract pulls song records out of a YouTube Music DOM snapshot.
//
// Extraction is best-effort. List renderings vary from page to page, so an
// element that does not look like a song is skipped rather than treated as
// an error, and one broken element never stops the rest of the pass.
package extract

import (
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/songlog/page"
	"github.com/pevans/songlog/song"
)

// Selectors for the list and player renderings.
const (
	ListItemSelector       = `ytmusic-responsive-list-item-renderer, .ytmusic-responsive-list-item-renderer, [class*="list-item-renderer"]`
	TitleLinkSelector      = `.title-column yt-formatted-string.title a, .title a`
	SecondaryLinkSelector  = `.secondary-flex-columns yt-formatted-string a`
	ExplicitBadgeSelector  = `.explicit-badge`
	PlayerTitleSelector    = `.title.ytmusic-player-bar, [class*="title"]:not(.subtitle)`
	PlayerSubtitleSelector = `.subtitle.ytmusic-player-bar, .byline`
)

var videoIDPattern = regexp.MustCompile(`[?&]v=([^&]+)`)

// VideoID returns the raw value of the first v query parameter in a URL, or
// an empty string when there is none.
func VideoID(rawURL string) string {
	match := videoIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// capture holds what every record from one pass is stamped with.
type capture struct {
	base     *url.URL
	pageURL  string
	pageType song.PageType
	at       time.Time
}

func newCapture(snap *page.Snapshot, now time.Time) capture {
	// A bad page URL only means hrefs can't be made absolute
	base, _ := url.Parse(snap.URL)

	return capture{
		base:     base,
		pageURL:  snap.URL,
		pageType: snap.Type(),
		at:       now,
	}
}

// resolve turns an href into an absolute URL the way a browser's a.href
// does. Missing hrefs resolve to "".
func (c capture) resolve(href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", nil
	}

	var (
		u   *url.URL
		err error
	)
	if c.base != nil {
		u, err = c.base.Parse(href)
	} else {
		u, err = url.Parse(href)
	}
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}

	return u.String(), nil
}

// Page extracts songs from a snapshot using the mode for the given page
// type: the player for now_playing, list items for everything else.
func Page(typ song.PageType, snap *page.Snapshot, now time.Time) ([]song.Song, error) {
	doc, err := snap.Document()
	if err != nil {
		return nil, err
	}

	if typ == song.PageTypeNowPlaying {
		s, ok := NowPlaying(doc, snap, now)
		if !ok {
			return nil, nil
		}
		return []song.Song{s}, nil
	}

	return ListItems(doc, snap, now), nil
}

// ListItems extracts a song from every list-item shaped element in the
// document. Elements that yield nothing are dropped.
func ListItems(doc *goquery.Document, snap *page.Snapshot, now time.Time) []song.Song {
	c := newCapture(snap, now)

	var songs []song.Song
	doc.Find(ListItemSelector).Each(func(i int, sel *goquery.Selection) {
		s, ok := c.listItem(sel)
		if ok && s.Title != "" {
			songs = append(songs, s)
		}
	})

	return songs
}

// ListItem extracts a single song from one list element. The second return
// is false when the element has no title link or cannot be read.
func ListItem(sel *goquery.Selection, snap *page.Snapshot, now time.Time) (song.Song, bool) {
	return newCapture(snap, now).listItem(sel)
}

func (c capture) listItem(sel *goquery.Selection) (song.Song, bool) {
	titleLink := sel.Find(TitleLinkSelector).First()
	if titleLink.Length() == 0 {
		return song.Song{}, false
	}

	href, _ := titleLink.Attr("href")
	songURL, err := c.resolve(href)
	if err != nil {
		log.Printf("WARN: Error extracting song data: %v", err)
		return song.Song{}, false
	}

	s := song.Song{
		Title:     strings.TrimSpace(titleLink.Text()),
		VideoID:   VideoID(songURL),
		SongURL:   songURL,
		Explicit:  sel.Find(ExplicitBadgeSelector).Length() > 0,
		Timestamp: c.at,
		PageURL:   c.pageURL,
		PageType:  c.pageType,
	}

	// First secondary link is the artist, second is the album
	secondary := sel.Find(SecondaryLinkSelector)
	if secondary.Length() >= 1 {
		artist := secondary.Eq(0)
		s.Artist = strings.TrimSpace(artist.Text())
		href, _ := artist.Attr("href")
		if s.ArtistURL, err = c.resolve(href); err != nil {
			log.Printf("WARN: Error extracting song data: %v", err)
			return song.Song{}, false
		}
	}
	if secondary.Length() >= 2 {
		album := secondary.Eq(1)
		s.Album = strings.TrimSpace(album.Text())
		href, _ := album.Attr("href")
		if s.AlbumURL, err = c.resolve(href); err != nil {
			log.Printf("WARN: Error extracting song data: %v", err)
			return song.Song{}, false
		}
	}

	return s, true
}

// NowPlaying extracts the song shown in the player. The player exposes no
// reliable album data, so album fields stay empty and the song URL is the
// page URL.
func NowPlaying(doc *goquery.Document, snap *page.Snapshot, now time.Time) (song.Song, bool) {
	titleEl := doc.Find(PlayerTitleSelector).First()
	if titleEl.Length() == 0 {
		return song.Song{}, false
	}

	title := strings.TrimSpace(titleEl.Text())
	if title == "" {
		return song.Song{}, false
	}

	var artist string
	if artistEl := doc.Find(PlayerSubtitleSelector).First(); artistEl.Length() > 0 {
		artist = strings.TrimSpace(artistEl.Text())
	}

	return song.Song{
		Title:     title,
		Artist:    artist,
		VideoID:   VideoID(snap.URL),
		SongURL:   snap.URL,
		Timestamp: now,
		PageURL:   snap.URL,
		PageType:  song.PageTypeNowPlaying,
		Action:    song.ActionPlayed,
	}, true
}
