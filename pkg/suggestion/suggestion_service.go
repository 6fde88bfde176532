package suggestion

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/kudoshq/kudos/internal/event_bus"
	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/reward"
	"github.com/kudoshq/kudos/pkg/user"
)

// RewardCreator turns an approved suggestion into a catalog reward.
type RewardCreator interface {
	Create(ctx context.Context, reward reward.Reward) (reward.Reward, error)
}

type Service interface {
	Create(ctx context.Context, name string, description string, pointsCost int, category string) (Suggestion, error)
	GetAll(ctx context.Context) ([]Suggestion, error)
	ToggleVote(ctx context.Context, suggestionUid string) (Suggestion, error)
	// Review settles a pending suggestion. Approval creates an
	// organization reward priced at the suggested cost.
	Review(ctx context.Context, suggestionUid string, status Status) (Suggestion, error)
}

type ServiceImpl struct {
	repo    Repo
	rewards RewardCreator
	bus     *event_bus.EventBus
	clock   utils.Clock
}

func NewService(repo Repo, rewards RewardCreator, bus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, rewards: rewards, bus: bus, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, name string, description string, pointsCost int, category string) (Suggestion, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Suggestion{}, err
	}
	suggestion := Suggestion{
		Uid:                 uuid.NewString(),
		Name:                name,
		Description:         description,
		SuggestedById:       currentUser.Id,
		SuggestedByName:     currentUser.DisplayName(),
		SuggestedPointsCost: pointsCost,
		Category:            category,
		Status:              StatusPending,
		Votes:               []string{},
		CreatedAt:           s.clock.Now(),
	}
	id, err := s.repo.Store(ctx, suggestion)
	if err != nil {
		return Suggestion{}, err
	}
	suggestion.Id = id
	return suggestion, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Suggestion, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) ToggleVote(ctx context.Context, suggestionUid string) (Suggestion, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Suggestion{}, err
	}
	suggestion, err := s.repo.GetByUid(ctx, suggestionUid)
	if err != nil {
		return Suggestion{}, err
	}
	if _, err := s.repo.ToggleVote(ctx, suggestion.Id, userId); err != nil {
		return Suggestion{}, err
	}
	return s.repo.GetByUid(ctx, suggestionUid)
}

func (s *ServiceImpl) Review(ctx context.Context, suggestionUid string, status Status) (Suggestion, error) {
	suggestion, err := s.repo.GetByUid(ctx, suggestionUid)
	if err != nil {
		return Suggestion{}, err
	}
	if suggestion.Status != StatusPending {
		return Suggestion{}, ErrAlreadyReviewed
	}

	if err := s.repo.UpdateStatus(ctx, suggestion.Id, status); err != nil {
		return Suggestion{}, err
	}
	suggestion.Status = status

	if status == StatusApproved {
		if _, err := s.rewards.Create(ctx, reward.Reward{
			Name:        suggestion.Name,
			Description: suggestion.Description,
			PointsCost:  suggestion.SuggestedPointsCost,
			Category:    suggestion.Category,
			Scope:       reward.ScopeOrganization,
		}); err != nil {
			return Suggestion{}, err
		}
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.SuggestionReviewedEvent, event_bus.SuggestionReviewed{
		Uid:           suggestion.Uid,
		SuggestedById: suggestion.SuggestedById,
		Name:          suggestion.Name,
		Status:        string(status),
		ReviewedAt:    s.clock.Now(),
	})); err != nil {
		// Notification fan-out is best effort.
		log.Errorf("could not publish suggestion reviewed event: %v", err)
	}
	return suggestion, nil
}
