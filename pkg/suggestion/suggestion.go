package suggestion

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var (
	ErrNotFound        = errors.New("suggestion not found")
	ErrAlreadyReviewed = errors.New("suggestion has already been reviewed")
)

// Suggestion is a reward idea proposed by a user. Other users vote on it
// and an admin reviews it; approval turns it into an organization reward.
type Suggestion struct {
	Id                  int
	Uid                 string
	Name                string
	Description         string
	SuggestedById       int
	SuggestedByName     string
	SuggestedPointsCost int
	Category            string
	Status              Status
	// Votes holds the uids of users who upvoted this suggestion.
	Votes     []string
	CreatedAt time.Time
}
