package budget

import "context"

type StubBudgetRepo struct {
	budgets     map[int]int
	allocations map[string]MonthlyAllocation
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{
		budgets:     map[int]int{},
		allocations: map[string]MonthlyAllocation{},
	}
}

func (s *StubBudgetRepo) GetYearlyBudget(ctx context.Context, year int) (int, error) {
	return s.budgets[year], nil
}

func (s *StubBudgetRepo) SetYearlyBudget(ctx context.Context, year int, budget int) error {
	s.budgets[year] = budget
	return nil
}

func (s *StubBudgetRepo) GetAllocations(ctx context.Context) ([]MonthlyAllocation, error) {
	allocations := make([]MonthlyAllocation, 0, len(s.allocations))
	for _, allocation := range s.allocations {
		allocations = append(allocations, allocation)
	}
	return allocations, nil
}

func (s *StubBudgetRepo) GetAllocation(ctx context.Context, employeeType string) (MonthlyAllocation, bool, error) {
	allocation, ok := s.allocations[employeeType]
	return allocation, ok, nil
}

func (s *StubBudgetRepo) SetAllocation(ctx context.Context, allocation MonthlyAllocation) error {
	s.allocations[allocation.EmployeeType] = allocation
	return nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.budgets = map[int]int{}
	s.allocations = map[string]MonthlyAllocation{}
}
