package reward

import (
	"context"
)

// StubRewardRepo is an in-memory Repo for tests.
type StubRewardRepo struct {
	rewards     []Reward
	redemptions []Redemption
	nextId      int
	// Balances maps user id to available points.
	Balances map[int]int
}

func NewStubRewardRepo() *StubRewardRepo {
	return &StubRewardRepo{nextId: 1, Balances: make(map[int]int)}
}

func (s *StubRewardRepo) Cleanup() {
	s.rewards = nil
	s.redemptions = nil
	s.nextId = 1
	s.Balances = make(map[int]int)
}

func (s *StubRewardRepo) Store(_ context.Context, reward Reward) (int, error) {
	reward.Id = s.nextId
	s.nextId++
	s.rewards = append(s.rewards, reward)
	return reward.Id, nil
}

func (s *StubRewardRepo) GetByUid(_ context.Context, uid string) (Reward, error) {
	for _, reward := range s.rewards {
		if reward.Uid == uid {
			return reward, nil
		}
	}
	return Reward{}, ErrNotFound
}

func (s *StubRewardRepo) GetByScope(_ context.Context, scope Scope, includeInactive bool) ([]Reward, error) {
	rewards := make([]Reward, 0)
	for _, reward := range s.rewards {
		if reward.Scope != scope {
			continue
		}
		if !includeInactive && !reward.Active {
			continue
		}
		rewards = append(rewards, reward)
	}
	return rewards, nil
}

func (s *StubRewardRepo) Update(_ context.Context, reward Reward) error {
	for i := range s.rewards {
		if s.rewards[i].Id == reward.Id {
			s.rewards[i] = reward
			return nil
		}
	}
	return ErrNotFound
}

func (s *StubRewardRepo) Redeem(_ context.Context, redemption Redemption) (int, error) {
	balance := s.Balances[redemption.UserId]
	if balance < redemption.PointsSpent {
		return 0, ErrInsufficientPoints
	}
	s.Balances[redemption.UserId] = balance - redemption.PointsSpent
	s.redemptions = append([]Redemption{redemption}, s.redemptions...)
	return s.Balances[redemption.UserId], nil
}

func (s *StubRewardRepo) GetRedemptionsForUser(_ context.Context, userId int) ([]Redemption, error) {
	redemptions := make([]Redemption, 0)
	for _, redemption := range s.redemptions {
		if redemption.UserId == userId {
			redemptions = append(redemptions, redemption)
		}
	}
	return redemptions, nil
}
