package budget

import (
	"context"
	"testing"
	"time"

	"github.com/kudoshq/kudos/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBudgetService() (*BudgetServiceImpl, *StubBudgetRepo, *utils.MockClock) {
	repo := NewStubBudgetRepo()
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)}
	return NewBudgetService(repo, clock), repo, clock
}

func TestBudgetService_YearlyBudgetIsScopedToCurrentYear(t *testing.T) {
	service, _, clock := setupBudgetService()
	ctx := context.Background()

	require.NoError(t, service.SetYearlyBudget(ctx, 120000))

	budget, err := service.YearlyBudget(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120000, budget)

	// A new year starts with no budget configured.
	clock.SetNow(time.Date(2025, time.January, 2, 9, 0, 0, 0, time.UTC))
	budget, err = service.YearlyBudget(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, budget)
}

func TestBudgetService_RejectsNegativeValues(t *testing.T) {
	service, _, _ := setupBudgetService()
	ctx := context.Background()

	assert.Error(t, service.SetYearlyBudget(ctx, -1))
	assert.Error(t, service.SetAllocation(ctx, MonthlyAllocation{EmployeeType: "FULL_TIME", Amount: -5}))
	assert.Error(t, service.SetAllocation(ctx, MonthlyAllocation{Amount: 100}))
}

func TestBudgetService_CalculationReflectsLatestWrites(t *testing.T) {
	service, _, _ := setupBudgetService()
	ctx := context.Background()

	require.NoError(t, service.SetYearlyBudget(ctx, 120000))
	require.NoError(t, service.SetAllocation(ctx, MonthlyAllocation{EmployeeType: "FULL_TIME", Amount: 500}))
	require.NoError(t, service.SetAllocation(ctx, MonthlyAllocation{EmployeeType: "CONTRACTOR", Amount: 200}))

	calculation, err := service.Calculation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8400, calculation.TotalAllocated)
	assert.Equal(t, 111600, calculation.Remaining)
	assert.InDelta(t, 5.0, calculation.MonthlyBreakdown["FULL_TIME"].PercentageOfBudget, 1e-9)
	assert.InDelta(t, 2.0, calculation.MonthlyBreakdown["CONTRACTOR"].PercentageOfBudget, 1e-9)

	// Repeated PUTs for the same type overwrite, not accumulate.
	require.NoError(t, service.SetAllocation(ctx, MonthlyAllocation{EmployeeType: "FULL_TIME", Amount: 100}))
	calculation, err = service.Calculation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3600, calculation.TotalAllocated)
}
