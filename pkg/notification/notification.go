package notification

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypeRecognitionReceived Type = "RECOGNITION_RECEIVED"
	TypePointsReceived      Type = "POINTS_RECEIVED"
	TypeRewardRedeemed      Type = "REWARD_REDEEMED"
	TypeSuggestionReviewed  Type = "SUGGESTION_REVIEWED"
)

type Notification struct {
	Id      int
	Uid     string
	UserId  int
	Type    Type
	Title   string
	Message string
	Read    bool
	// Points carries the point amount for point-bearing notifications.
	Points *int
	// SourceUid references the entity the notification is about.
	SourceUid *string
	CreatedAt time.Time
}
