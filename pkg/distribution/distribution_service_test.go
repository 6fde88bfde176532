package distribution

import (
	"context"
	"testing"
	"time"

	"github.com/kudoshq/kudos/internal/event_bus"
	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/budget"
	"github.com/kudoshq/kudos/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	users map[string]user.User
}

func (s *stubUsers) GetUserByUid(_ context.Context, uid string) (user.User, error) {
	u, ok := s.users[uid]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type stubAllocations struct {
	allocations []budget.MonthlyAllocation
}

func (s *stubAllocations) Allocations(_ context.Context) ([]budget.MonthlyAllocation, error) {
	return s.allocations, nil
}

func setupDistributionService() (*DistributionServiceImpl, *StubDistributionRepo, *event_bus.EventBus, *utils.MockClock) {
	repo := NewStubDistributionRepo()
	users := &stubUsers{users: map[string]user.User{
		"u1": {Id: 1, Uid: "u1", FirstName: "Ada", LastName: "Lovelace", Department: "Engineering", EmployeeType: "FULL_TIME"},
		"u2": {Id: 2, Uid: "u2", FirstName: "Grace", LastName: "Hopper", Department: "Engineering", EmployeeType: "CONTRACTOR"},
	}}
	allocations := &stubAllocations{allocations: []budget.MonthlyAllocation{
		{EmployeeType: "FULL_TIME", Amount: 300},
	}}
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)}
	service := NewDistributionService(repo, users, allocations, bus, clock)
	return service, repo, bus, clock
}

func TestDistribute_ApprovedAtAllocationCeiling(t *testing.T) {
	service, repo, bus, _ := setupDistributionService()
	ctx := context.Background()

	var published []event_bus.PointsDistributed
	event_bus.SubscribeTyped[event_bus.PointsDistributed](bus, event_bus.PointsDistributedEvent,
		func(e event_bus.EventT[event_bus.PointsDistributed]) error {
			published = append(published, e.Data)
			return nil
		})

	created, err := service.Distribute(ctx, "u1", 300, "Q1 excellence")
	require.NoError(t, err)

	assert.NotEmpty(t, created.Uid)
	assert.Equal(t, 1, created.UserId)
	assert.Equal(t, "Ada Lovelace", created.UserName)
	assert.Equal(t, 300, created.Points)
	assert.Equal(t, 300, repo.Credits[1])
	require.Len(t, published, 1)
	assert.Equal(t, created.Uid, published[0].Uid)
}

func TestDistribute_RejectsSecondDistributionInMonth(t *testing.T) {
	service, repo, _, clock := setupDistributionService()
	ctx := context.Background()

	_, err := service.Distribute(ctx, "u1", 100, "first")
	require.NoError(t, err)

	_, err = service.Distribute(ctx, "u1", 50, "second")
	var rejection *Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, AlreadyDistributedThisMonth, rejection.Code)
	assert.Equal(t, 100, repo.Credits[1])

	// The first day of the next month opens a new window.
	clock.SetNow(time.Date(2024, time.April, 1, 8, 0, 0, 0, time.UTC))
	_, err = service.Distribute(ctx, "u1", 50, "april")
	require.NoError(t, err)
	assert.Equal(t, 150, repo.Credits[1])
}

func TestDistribute_RejectsWithoutAllocation(t *testing.T) {
	service, repo, _, _ := setupDistributionService()

	_, err := service.Distribute(context.Background(), "u2", 10, "contractor bonus")
	var rejection *Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, NoAllocationConfigured, rejection.Code)
	assert.Empty(t, repo.Credits)
}

func TestDistribute_RejectionCarriesCeiling(t *testing.T) {
	service, _, _, _ := setupDistributionService()

	_, err := service.Distribute(context.Background(), "u1", 301, "too generous")
	var rejection *Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ExceedsMonthlyAllocation, rejection.Code)
	assert.Equal(t, 300, rejection.Ceiling)
}

func TestDistribute_UnknownUser(t *testing.T) {
	service, _, _, _ := setupDistributionService()

	_, err := service.Distribute(context.Background(), "missing", 10, "ghost")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
