package collection

// ActionSongsCollected names the notification sent after a merge appends
// songs.
const ActionSongsCollected = "songsCollected"

// Notification tells listeners how many songs a merge appended and how big
// the collection is now.
type Notification struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
	Total  int    `json:"total"`
}

// Notifier receives merge notifications. Delivery is one-way and must not
// block the merge for long.
type Notifier interface {
	SongsCollected(n Notification)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) SongsCollected(n Notification) {
	f(n)
}

// Notifiers fans a notification out to several listeners in order.
type Notifiers []Notifier

func (ns Notifiers) SongsCollected(n Notification) {
	for _, notifier := range ns {
		notifier.SongsCollected(n)
	}
}
