package reward

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudoshq/kudos/internal/event_bus"
	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/user"
)

func setupRewardService() (*ServiceImpl, *StubRewardRepo, *event_bus.EventBus, context.Context) {
	repo := NewStubRewardRepo()
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)}
	service := NewService(repo, bus, clock)
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Uid: "u1", FirstName: "Ada", LastName: "Lovelace"})
	return service, repo, bus, ctx
}

func TestRedeem_DebitsPointsAndPublishesEvent(t *testing.T) {
	service, repo, bus, ctx := setupRewardService()
	repo.Balances[1] = 500

	var published []event_bus.RewardRedeemed
	event_bus.SubscribeTyped[event_bus.RewardRedeemed](bus, event_bus.RewardRedeemedEvent,
		func(e event_bus.EventT[event_bus.RewardRedeemed]) error {
			published = append(published, e.Data)
			return nil
		})

	reward, err := service.Create(ctx, Reward{Name: "Coffee Voucher", PointsCost: 150, Category: "FOOD"})
	require.NoError(t, err)

	redemption, updatedPoints, err := service.Redeem(ctx, reward.Uid)
	require.NoError(t, err)

	assert.Equal(t, 350, updatedPoints)
	assert.Equal(t, 150, redemption.PointsSpent)
	assert.Equal(t, "Coffee Voucher", redemption.RewardName)
	require.Len(t, published, 1)
	assert.Equal(t, 1, published[0].UserId)
	assert.Equal(t, 150, published[0].PointsSpent)
}

func TestRedeem_InsufficientPoints(t *testing.T) {
	service, repo, _, ctx := setupRewardService()
	repo.Balances[1] = 100

	reward, err := service.Create(ctx, Reward{Name: "Tablet", PointsCost: 5000, Category: "ELECTRONICS"})
	require.NoError(t, err)

	_, _, err = service.Redeem(ctx, reward.Uid)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, 100, repo.Balances[1])
}

func TestRedeem_InactiveReward(t *testing.T) {
	service, repo, _, ctx := setupRewardService()
	repo.Balances[1] = 500

	reward, err := service.Create(ctx, Reward{Name: "Retired Perk", PointsCost: 50, Category: "FOOD"})
	require.NoError(t, err)
	inactive := false
	_, err = service.Patch(ctx, reward.Uid, Patch{Active: &inactive})
	require.NoError(t, err)

	_, _, err = service.Redeem(ctx, reward.Uid)
	assert.ErrorIs(t, err, ErrInactive)
}

func TestRedeem_UnknownReward(t *testing.T) {
	service, _, _, ctx := setupRewardService()

	_, _, err := service.Redeem(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddToOrganization_CopiesGlobalReward(t *testing.T) {
	service, _, _, ctx := setupRewardService()

	global, err := service.Create(ctx, Reward{Name: "Gift Card", PointsCost: 200, Category: "SHOPPING", Scope: ScopeGlobal})
	require.NoError(t, err)

	copied, err := service.AddToOrganization(ctx, global.Uid)
	require.NoError(t, err)

	assert.NotEqual(t, global.Uid, copied.Uid)
	assert.Equal(t, ScopeOrganization, copied.Scope)
	assert.Equal(t, global.PointsCost, copied.PointsCost)

	organization, err := service.List(ctx, ScopeOrganization)
	require.NoError(t, err)
	assert.Len(t, organization, 1)
}

func TestList_ExcludesInactive(t *testing.T) {
	service, _, _, ctx := setupRewardService()

	active, err := service.Create(ctx, Reward{Name: "Lunch", PointsCost: 100, Category: "FOOD"})
	require.NoError(t, err)
	retired, err := service.Create(ctx, Reward{Name: "Old Perk", PointsCost: 100, Category: "FOOD"})
	require.NoError(t, err)
	inactive := false
	_, err = service.Patch(ctx, retired.Uid, Patch{Active: &inactive})
	require.NoError(t, err)

	rewards, err := service.List(ctx, ScopeOrganization)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, active.Uid, rewards[0].Uid)

	all, err := service.ListAll(ctx, ScopeOrganization)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
