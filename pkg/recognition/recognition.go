package recognition

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("recognition not found")
	// ErrInsufficientAllocation is returned when the sender's remaining
	// monthly giveable points cannot cover the recognition's point value.
	ErrInsufficientAllocation = errors.New("insufficient monthly allocation remaining")
	// ErrExceedsRecognitionCap is returned when a single recognition would
	// carry more points than the recipient's employee type allows.
	ErrExceedsRecognitionCap = errors.New("points exceed the per-recognition cap")
)

// Recognition is a message one user sends another, optionally carrying
// points. Kudos are endorsements by other users; a pinned recognition stays
// at the top of the feed until PinnedUntil.
type Recognition struct {
	Id            int
	Uid           string
	SenderId      int
	SenderName    string
	SenderUid     string
	RecipientId   int
	RecipientName string
	Message       string
	Category      string
	Points        int
	// Kudos holds the uids of users who endorsed this recognition.
	Kudos       []string
	PinnedUntil *time.Time
	CreatedAt   time.Time
}

// UserData summarises recognition activity for one user.
type UserData struct {
	ReceivedCount  int
	SentCount      int
	PointsReceived int
}
