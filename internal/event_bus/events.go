package event_bus

import "time"

const (
	RecognitionCreatedEvent EventType = "recognition.created"
	PointsDistributedEvent  EventType = "points.distributed"
	RewardRedeemedEvent     EventType = "reward.redeemed"
	SuggestionReviewedEvent EventType = "suggestion.reviewed"
)

type RecognitionCreated struct {
	Uid         string
	SenderId    int
	RecipientId int
	SenderName  string
	Category    string
	Points      int
	CreatedAt   time.Time
}

type PointsDistributed struct {
	Uid           string
	UserId        int
	Points        int
	Reason        string
	DistributedAt time.Time
}

type RewardRedeemed struct {
	Uid         string
	UserId      int
	RewardName  string
	PointsSpent int
	RedeemedAt  time.Time
}

type SuggestionReviewed struct {
	Uid           string
	SuggestedById int
	Name          string
	Status        string
	ReviewedAt    time.Time
}
