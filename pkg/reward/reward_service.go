package reward

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/kudoshq/kudos/internal/event_bus"
	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/user"
)

type Service interface {
	List(ctx context.Context, scope Scope) ([]Reward, error)
	ListAll(ctx context.Context, scope Scope) ([]Reward, error)
	Create(ctx context.Context, reward Reward) (Reward, error)
	Patch(ctx context.Context, uid string, patch Patch) (Reward, error)
	// AddToOrganization copies a global catalog reward into the
	// organization's own catalog.
	AddToOrganization(ctx context.Context, globalUid string) (Reward, error)
	// Redeem spends the current user's points on a reward and returns the
	// remaining balance.
	Redeem(ctx context.Context, rewardUid string) (Redemption, int, error)
	RedemptionHistory(ctx context.Context) ([]Redemption, error)
}

// Patch carries optional field updates; nil fields are left unchanged.
type Patch struct {
	Name        *string
	Description *string
	PointsCost  *int
	Category    *string
	Active      *bool
}

type ServiceImpl struct {
	repo  Repo
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewService(repo Repo, bus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context, scope Scope) ([]Reward, error) {
	return s.repo.GetByScope(ctx, scope, false)
}

func (s *ServiceImpl) ListAll(ctx context.Context, scope Scope) ([]Reward, error) {
	return s.repo.GetByScope(ctx, scope, true)
}

func (s *ServiceImpl) Create(ctx context.Context, reward Reward) (Reward, error) {
	reward.Uid = uuid.NewString()
	reward.Active = true
	reward.CreatedAt = s.clock.Now()
	if reward.Scope == "" {
		reward.Scope = ScopeOrganization
	}
	id, err := s.repo.Store(ctx, reward)
	if err != nil {
		return Reward{}, err
	}
	reward.Id = id
	return reward, nil
}

func (s *ServiceImpl) Patch(ctx context.Context, uid string, patch Patch) (Reward, error) {
	reward, err := s.repo.GetByUid(ctx, uid)
	if err != nil {
		return Reward{}, err
	}
	if patch.Name != nil {
		reward.Name = *patch.Name
	}
	if patch.Description != nil {
		reward.Description = *patch.Description
	}
	if patch.PointsCost != nil {
		reward.PointsCost = *patch.PointsCost
	}
	if patch.Category != nil {
		reward.Category = *patch.Category
	}
	if patch.Active != nil {
		reward.Active = *patch.Active
	}
	if err := s.repo.Update(ctx, reward); err != nil {
		return Reward{}, err
	}
	return reward, nil
}

func (s *ServiceImpl) AddToOrganization(ctx context.Context, globalUid string) (Reward, error) {
	source, err := s.repo.GetByUid(ctx, globalUid)
	if err != nil {
		return Reward{}, err
	}
	copied := Reward{
		Uid:         uuid.NewString(),
		Name:        source.Name,
		Description: source.Description,
		PointsCost:  source.PointsCost,
		Category:    source.Category,
		Scope:       ScopeOrganization,
		Active:      true,
		CreatedAt:   s.clock.Now(),
	}
	id, err := s.repo.Store(ctx, copied)
	if err != nil {
		return Reward{}, err
	}
	copied.Id = id
	return copied, nil
}

func (s *ServiceImpl) Redeem(ctx context.Context, rewardUid string) (Redemption, int, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Redemption{}, 0, err
	}
	reward, err := s.repo.GetByUid(ctx, rewardUid)
	if err != nil {
		return Redemption{}, 0, err
	}
	if !reward.Active {
		return Redemption{}, 0, ErrInactive
	}

	redemption := Redemption{
		Uid:         uuid.NewString(),
		UserId:      currentUser.Id,
		RewardId:    reward.Id,
		RewardName:  reward.Name,
		PointsSpent: reward.PointsCost,
		CreatedAt:   s.clock.Now(),
	}
	updatedPoints, err := s.repo.Redeem(ctx, redemption)
	if err != nil {
		return Redemption{}, 0, err
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.RewardRedeemedEvent, event_bus.RewardRedeemed{
		Uid:         redemption.Uid,
		UserId:      currentUser.Id,
		RewardName:  reward.Name,
		PointsSpent: reward.PointsCost,
		RedeemedAt:  redemption.CreatedAt,
	})); err != nil {
		// Notification fan-out is best effort.
		log.Errorf("could not publish reward redeemed event: %v", err)
	}
	return redemption, updatedPoints, nil
}

func (s *ServiceImpl) RedemptionHistory(ctx context.Context) ([]Redemption, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetRedemptionsForUser(ctx, userId)
}
