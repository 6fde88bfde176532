package reward

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudoshq/kudos/internal/test_utils"
	"github.com/kudoshq/kudos/pkg/user"
)

func setupRedemptionFixture(t *testing.T) (*RepoImpl, user.User, Reward) {
	t.Helper()
	db := test_utils.SetupTestDB(t)
	repo := NewRepo(db)
	users := user.NewUserRepo(db)
	ctx := context.Background()

	id, err := users.CreateUser(ctx, user.User{
		Uid: "u1", Subject: "s1", FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Department: "Engineering", EmployeeType: "FULL_TIME",
		Role: user.RoleEmployee, Active: true, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	_, err = db.Exec("UPDATE user SET points = 300 WHERE id = ?", id)
	require.NoError(t, err)

	reward := Reward{
		Uid: "r1", Name: "Coffee Voucher", PointsCost: 150, Category: "FOOD",
		Scope: ScopeOrganization, Active: true, CreatedAt: time.Now().UTC(),
	}
	rewardId, err := repo.Store(ctx, reward)
	require.NoError(t, err)
	reward.Id = rewardId

	owner, err := users.GetUser(ctx, id)
	require.NoError(t, err)
	return repo, owner, reward
}

func TestRewardRepo_RedeemDebitsBalance(t *testing.T) {
	repo, owner, reward := setupRedemptionFixture(t)
	ctx := context.Background()

	updatedPoints, err := repo.Redeem(ctx, Redemption{
		Uid: "red-1", UserId: owner.Id, RewardId: reward.Id, PointsSpent: reward.PointsCost,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, 150, updatedPoints)

	redemptions, err := repo.GetRedemptionsForUser(ctx, owner.Id)
	require.NoError(t, err)
	require.Len(t, redemptions, 1)
	assert.Equal(t, "Coffee Voucher", redemptions[0].RewardName)
}

func TestRewardRepo_RedeemRejectsOverdraft(t *testing.T) {
	repo, owner, reward := setupRedemptionFixture(t)
	ctx := context.Background()

	_, err := repo.Redeem(ctx, Redemption{
		Uid: "red-1", UserId: owner.Id, RewardId: reward.Id, PointsSpent: 500,
		CreatedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	redemptions, err := repo.GetRedemptionsForUser(ctx, owner.Id)
	require.NoError(t, err)
	assert.Empty(t, redemptions)
}
