package song

import "time"

// PageType tags the kind of page a song was captured from.
type PageType string

const (
	PageTypePlaylist   PageType = "playlist"
	PageTypeLikedSongs PageType = "liked_songs"
	PageTypeHistory    PageType = "history"
	PageTypeNowPlaying PageType = "now_playing"
	PageTypeLibrary    PageType = "library"
	PageTypeSearch     PageType = "search"
	PageTypeUnknown    PageType = "unknown"
)

// ActionPlayed marks a song captured from the player rather than a list.
const ActionPlayed = "played"

// Song is a single collected record. The JSON layout matches what has always
// been persisted and exported, so field names must not change.
type Song struct {
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album"`
	VideoID   string    `json:"videoId"`
	SongURL   string    `json:"songUrl"`
	ArtistURL string    `json:"artistUrl"`
	AlbumURL  string    `json:"albumUrl"`
	Explicit  bool      `json:"explicit"`
	Timestamp time.Time `json:"timestamp"`
	PageURL   string    `json:"pageUrl"`
	PageType  PageType  `json:"pageType"`
	Action    string    `json:"action,omitempty"`
}

// Key identifies a song for deduplication. Two songs with equal keys are
// the same song no matter what else differs.
type Key struct {
	VideoID  string
	PageType PageType
}

// Key returns the identity key of the song.
func (s Song) Key() Key {
	return Key{VideoID: s.VideoID, PageType: s.PageType}
}

// String renders the key as "videoId-pageType".
func (k Key) String() string {
	return k.VideoID + "-" + string(k.PageType)
}
