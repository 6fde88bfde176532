package distribution

import (
	"time"

	"github.com/kudoshq/kudos/pkg/budget"
)

// CheckEligibility decides whether the candidate distribution may be
// persisted. It is a pure function of its inputs: now is injected so the
// calendar-month rule stays deterministic under test.
//
// Rules, in order:
//  1. a user receives at most one distribution per calendar month;
//  2. an allocation must be configured for the user's employee type;
//  3. the points must not exceed that allocation.
//
// A nil result means the candidate is approved.
func CheckEligibility(candidate Candidate, employeeType string, history []Distribution, allocations []budget.MonthlyAllocation, now time.Time) *Rejection {
	// Timestamps are persisted in UTC; evaluating now in its own location
	// would shift distributions near a month boundary into the wrong
	// bucket, so both sides are compared in UTC.
	now = now.UTC()
	for _, past := range history {
		if past.UserId != candidate.UserId {
			continue
		}
		// Calendar month boundaries, not a rolling window: the last day of
		// March and the first day of April are different months.
		distributedAt := past.DistributedAt.UTC()
		if distributedAt.Year() == now.Year() && distributedAt.Month() == now.Month() {
			return &Rejection{Code: AlreadyDistributedThisMonth}
		}
	}

	var allocation *budget.MonthlyAllocation
	for i := range allocations {
		if allocations[i].EmployeeType == employeeType {
			allocation = &allocations[i]
		}
	}
	if allocation == nil {
		return &Rejection{Code: NoAllocationConfigured}
	}

	if candidate.Points > allocation.Amount {
		return &Rejection{Code: ExceedsMonthlyAllocation, Ceiling: allocation.Amount}
	}

	return nil
}
