package budget

// MonthlyAllocation is the maximum number of points an employee of the given
// type may receive in one calendar month. EmployeeType is unique within the
// allocation table.
type MonthlyAllocation struct {
	EmployeeType string
	Amount       int
	// MaxPointsPerRecognition optionally caps how many points a single
	// recognition may carry for this employee type. Zero means no cap.
	MaxPointsPerRecognition int
}

// BreakdownEntry is the per-employee-type slice of a Calculation.
type BreakdownEntry struct {
	Monthly            int
	Yearly             int
	PercentageOfBudget float64
}

// Calculation is derived from the yearly budget and the allocation table and
// is never persisted. Remaining may be negative: over-allocation is
// representable and surfaced rather than clamped.
type Calculation struct {
	TotalAllocated   int
	Remaining        int
	MonthlyBreakdown map[string]BreakdownEntry
}

// Calculate spreads the yearly budget across the monthly allocations: each
// allocation costs amount*12 per year, and each entry's share of the budget
// is reported as a percentage. When the yearly budget is zero, every
// percentage is reported as zero so the result stays renderable.
//
// Duplicate employee types overwrite each other in the breakdown map
// (last-write-wins) but every entry still counts toward the total, so
// TotalAllocated is always the sum of amount*12 over the full input list.
func Calculate(yearlyBudget int, allocations []MonthlyAllocation) Calculation {
	breakdown := make(map[string]BreakdownEntry, len(allocations))
	totalAllocated := 0

	for _, allocation := range allocations {
		yearly := allocation.Amount * 12
		totalAllocated += yearly

		percentage := 0.0
		if yearlyBudget > 0 {
			percentage = float64(yearly) / float64(yearlyBudget) * 100
		}
		breakdown[allocation.EmployeeType] = BreakdownEntry{
			Monthly:            allocation.Amount,
			Yearly:             yearly,
			PercentageOfBudget: percentage,
		}
	}

	return Calculation{
		TotalAllocated:   totalAllocated,
		Remaining:        yearlyBudget - totalAllocated,
		MonthlyBreakdown: breakdown,
	}
}
