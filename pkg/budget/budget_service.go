package budget

import (
	"context"
	"fmt"

	"github.com/kudoshq/kudos/internal/utils"
)

type BudgetService interface {
	YearlyBudget(ctx context.Context) (int, error)
	SetYearlyBudget(ctx context.Context, budget int) error
	Allocations(ctx context.Context) ([]MonthlyAllocation, error)
	Allocation(ctx context.Context, employeeType string) (MonthlyAllocation, bool, error)
	SetAllocation(ctx context.Context, allocation MonthlyAllocation) error
	// Calculation recomputes the budget breakdown from persisted state.
	// Nothing derived is ever stored, so a write followed by a read always
	// reflects the latest configuration.
	Calculation(ctx context.Context) (Calculation, error)
}

type BudgetServiceImpl struct {
	repo  BudgetRepo
	clock utils.Clock
}

func NewBudgetService(repo BudgetRepo, clock utils.Clock) *BudgetServiceImpl {
	return &BudgetServiceImpl{repo: repo, clock: clock}
}

func (s *BudgetServiceImpl) YearlyBudget(ctx context.Context) (int, error) {
	return s.repo.GetYearlyBudget(ctx, s.clock.Now().Year())
}

func (s *BudgetServiceImpl) SetYearlyBudget(ctx context.Context, budget int) error {
	if budget < 0 {
		return fmt.Errorf("yearly budget must not be negative")
	}
	return s.repo.SetYearlyBudget(ctx, s.clock.Now().Year(), budget)
}

func (s *BudgetServiceImpl) Allocations(ctx context.Context) ([]MonthlyAllocation, error) {
	return s.repo.GetAllocations(ctx)
}

func (s *BudgetServiceImpl) Allocation(ctx context.Context, employeeType string) (MonthlyAllocation, bool, error) {
	return s.repo.GetAllocation(ctx, employeeType)
}

func (s *BudgetServiceImpl) SetAllocation(ctx context.Context, allocation MonthlyAllocation) error {
	if allocation.Amount < 0 {
		return fmt.Errorf("monthly allocation must not be negative")
	}
	if allocation.EmployeeType == "" {
		return fmt.Errorf("employee type is required")
	}
	return s.repo.SetAllocation(ctx, allocation)
}

func (s *BudgetServiceImpl) Calculation(ctx context.Context) (Calculation, error) {
	yearlyBudget, err := s.YearlyBudget(ctx)
	if err != nil {
		return Calculation{}, err
	}
	allocations, err := s.repo.GetAllocations(ctx)
	if err != nil {
		return Calculation{}, err
	}
	return Calculate(yearlyBudget, allocations), nil
}
