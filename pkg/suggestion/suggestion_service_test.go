package suggestion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudoshq/kudos/internal/event_bus"
	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/reward"
	"github.com/kudoshq/kudos/pkg/user"
)

type stubRewardCreator struct {
	created []reward.Reward
}

func (s *stubRewardCreator) Create(_ context.Context, r reward.Reward) (reward.Reward, error) {
	r.Id = len(s.created) + 1
	s.created = append(s.created, r)
	return r, nil
}

func setupSuggestionService() (*ServiceImpl, *StubSuggestionRepo, *stubRewardCreator, *event_bus.EventBus, context.Context) {
	repo := NewStubSuggestionRepo()
	rewards := &stubRewardCreator{}
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)}
	service := NewService(repo, rewards, bus, clock)
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Uid: "u1", FirstName: "Ada", LastName: "Lovelace"})
	return service, repo, rewards, bus, ctx
}

func TestCreate_StartsPending(t *testing.T) {
	service, _, _, _, ctx := setupSuggestionService()

	suggestion, err := service.Create(ctx, "Team Lunch", "Monthly team lunch", 300, "FOOD")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, suggestion.Status)
	assert.Equal(t, "Ada Lovelace", suggestion.SuggestedByName)
	assert.Equal(t, 300, suggestion.SuggestedPointsCost)
}

func TestToggleVote_AddsAndRemoves(t *testing.T) {
	service, _, _, _, ctx := setupSuggestionService()

	suggestion, err := service.Create(ctx, "Team Lunch", "", 300, "FOOD")
	require.NoError(t, err)

	voted, err := service.ToggleVote(ctx, suggestion.Uid)
	require.NoError(t, err)
	assert.Len(t, voted.Votes, 1)

	voted, err = service.ToggleVote(ctx, suggestion.Uid)
	require.NoError(t, err)
	assert.Empty(t, voted.Votes)
}

func TestReview_ApprovalCreatesOrganizationReward(t *testing.T) {
	service, _, rewards, bus, ctx := setupSuggestionService()

	var published []event_bus.SuggestionReviewed
	event_bus.SubscribeTyped[event_bus.SuggestionReviewed](bus, event_bus.SuggestionReviewedEvent,
		func(e event_bus.EventT[event_bus.SuggestionReviewed]) error {
			published = append(published, e.Data)
			return nil
		})

	suggestion, err := service.Create(ctx, "Team Lunch", "Monthly team lunch", 300, "FOOD")
	require.NoError(t, err)

	reviewed, err := service.Review(ctx, suggestion.Uid, StatusApproved)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, reviewed.Status)
	require.Len(t, rewards.created, 1)
	assert.Equal(t, "Team Lunch", rewards.created[0].Name)
	assert.Equal(t, 300, rewards.created[0].PointsCost)
	assert.Equal(t, reward.ScopeOrganization, rewards.created[0].Scope)
	require.Len(t, published, 1)
	assert.Equal(t, "APPROVED", published[0].Status)
}

func TestReview_RejectionCreatesNoReward(t *testing.T) {
	service, _, rewards, _, ctx := setupSuggestionService()

	suggestion, err := service.Create(ctx, "Helicopter Rides", "", 99999, "TRAVEL")
	require.NoError(t, err)

	reviewed, err := service.Review(ctx, suggestion.Uid, StatusRejected)
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, reviewed.Status)
	assert.Empty(t, rewards.created)
}

func TestReview_AlreadyReviewed(t *testing.T) {
	service, _, _, _, ctx := setupSuggestionService()

	suggestion, err := service.Create(ctx, "Team Lunch", "", 300, "FOOD")
	require.NoError(t, err)
	_, err = service.Review(ctx, suggestion.Uid, StatusRejected)
	require.NoError(t, err)

	_, err = service.Review(ctx, suggestion.Uid, StatusApproved)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}
