package api

import (
	"strconv"
	"sync"

	"github.com/pevans/songlog/collection"
)

// BadgeColor is the badge background once songs have been collected.
const BadgeColor = "#ff0000"

// BadgeResponse represents the response for GET /api/v1/badge.
type BadgeResponse struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// Badge shows the collection total from the latest merge notification. It
// is blank until the first notification arrives.
type Badge struct {
	mu    sync.Mutex
	text  string
	color string
}

// NewBadge creates a blank badge.
func NewBadge() *Badge {
	return &Badge{}
}

// SongsCollected implements collection.Notifier.
func (b *Badge) SongsCollected(n collection.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.text = strconv.Itoa(n.Total)
	b.color = BadgeColor
}

// State returns what the badge currently shows.
func (b *Badge) State() BadgeResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BadgeResponse{Text: b.text, Color: b.color}
}
