package reward

import (
	"errors"
	"time"
)

type Scope string

const (
	ScopeGlobal       Scope = "GLOBAL"
	ScopeOrganization Scope = "ORGANIZATION"
)

var (
	ErrNotFound           = errors.New("reward not found")
	ErrInsufficientPoints = errors.New("not enough points to redeem this reward")
	ErrInactive           = errors.New("reward is not available")
)

type Reward struct {
	Id          int
	Uid         string
	Name        string
	Description string
	PointsCost  int
	Category    string
	Scope       Scope
	Active      bool
	CreatedAt   time.Time
}

// Redemption records a user spending points on a reward.
type Redemption struct {
	Id          int
	Uid         string
	UserId      int
	RewardId    int
	RewardName  string
	PointsSpent int
	CreatedAt   time.Time
}
