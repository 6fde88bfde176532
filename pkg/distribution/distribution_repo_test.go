package distribution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudoshq/kudos/internal/test_utils"
	"github.com/kudoshq/kudos/pkg/user"
)

func createTestUser(t *testing.T, repo user.Repo, u user.User) user.User {
	t.Helper()
	id, err := repo.CreateUser(context.Background(), u)
	require.NoError(t, err)
	u.Id = id
	return u
}

func TestDistributionRepo_StoreCreditsBalance(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewDistributionRepo(db)
	users := user.NewUserRepo(db)
	ctx := context.Background()

	recipient := createTestUser(t, users, user.User{
		Uid: "u1", Subject: "s1", FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Department: "Engineering", EmployeeType: "FULL_TIME",
		Role: user.RoleEmployee, Active: true, CreatedAt: time.Now().UTC(),
	})
	admin := createTestUser(t, users, user.User{
		Uid: "a1", Subject: "s2", FirstName: "Grace", LastName: "Hopper",
		Email: "grace@example.com", Department: "People", EmployeeType: "FULL_TIME",
		Role: user.RoleAdmin, Active: true, CreatedAt: time.Now().UTC(),
	})

	_, err := repo.Store(ctx, Distribution{
		Uid:           "d1",
		UserId:        recipient.Id,
		Points:        250,
		Reason:        "Q1 performance award",
		DistributedBy: admin.Id,
		DistributedAt: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	credited, err := users.GetUser(ctx, recipient.Id)
	require.NoError(t, err)
	assert.Equal(t, 250, credited.Points)
}

func TestDistributionRepo_HistoryMostRecentFirst(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewDistributionRepo(db)
	users := user.NewUserRepo(db)
	ctx := context.Background()

	recipient := createTestUser(t, users, user.User{
		Uid: "u1", Subject: "s1", FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Department: "Engineering", EmployeeType: "FULL_TIME",
		Role: user.RoleEmployee, Active: true, CreatedAt: time.Now().UTC(),
	})
	admin := createTestUser(t, users, user.User{
		Uid: "a1", Subject: "s2", FirstName: "Grace", LastName: "Hopper",
		Email: "grace@example.com", Department: "People", EmployeeType: "FULL_TIME",
		Role: user.RoleAdmin, Active: true, CreatedAt: time.Now().UTC(),
	})

	base := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	for i, uid := range []string{"d1", "d2", "d3"} {
		_, err := repo.Store(ctx, Distribution{
			Uid:           uid,
			UserId:        recipient.Id,
			Points:        100,
			Reason:        "award",
			DistributedBy: admin.Id,
			DistributedAt: base.AddDate(0, i, 0),
		})
		require.NoError(t, err)
	}

	history, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "d3", history[0].Uid)
	assert.Equal(t, "d1", history[2].Uid)
	assert.Equal(t, "Ada Lovelace", history[0].UserName)
	assert.Equal(t, "Engineering", history[0].UserDepartment)
}
