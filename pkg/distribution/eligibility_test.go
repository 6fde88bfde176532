package distribution

import (
	"testing"
	"time"

	"github.com/kudoshq/kudos/pkg/budget"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}

func TestCheckEligibility(t *testing.T) {
	fullTimeAllocation := []budget.MonthlyAllocation{
		{EmployeeType: "FULL_TIME", Amount: 100},
	}

	tests := []struct {
		name         string
		candidate    Candidate
		employeeType string
		history      []Distribution
		allocations  []budget.MonthlyAllocation
		now          time.Time
		wantCode     RejectionCode
		wantCeiling  int
	}{
		{
			name:         "approved with empty history",
			candidate:    Candidate{UserId: 1, Points: 100},
			employeeType: "FULL_TIME",
			allocations:  fullTimeAllocation,
			now:          date(2024, time.March, 15),
		},
		{
			name:         "exactly at the allocation ceiling is approved",
			candidate:    Candidate{UserId: 1, Points: 100},
			employeeType: "FULL_TIME",
			allocations:  fullTimeAllocation,
			now:          date(2024, time.March, 15),
		},
		{
			name:         "second distribution in the same calendar month",
			candidate:    Candidate{UserId: 1, Points: 10},
			employeeType: "FULL_TIME",
			history: []Distribution{
				{UserId: 1, Points: 50, DistributedAt: date(2024, time.March, 2)},
			},
			allocations: fullTimeAllocation,
			now:         date(2024, time.March, 15),
			wantCode:    AlreadyDistributedThisMonth,
		},
		{
			name:         "last day of month blocks the whole month",
			candidate:    Candidate{UserId: 1, Points: 10},
			employeeType: "FULL_TIME",
			history: []Distribution{
				{UserId: 1, Points: 50, DistributedAt: date(2024, time.March, 31)},
			},
			allocations: fullTimeAllocation,
			now:         date(2024, time.March, 1),
			wantCode:    AlreadyDistributedThisMonth,
		},
		{
			name:         "first day of next month is allowed",
			candidate:    Candidate{UserId: 1, Points: 10},
			employeeType: "FULL_TIME",
			history: []Distribution{
				{UserId: 1, Points: 50, DistributedAt: date(2024, time.March, 31)},
			},
			allocations: fullTimeAllocation,
			now:         date(2024, time.April, 1),
		},
		{
			name:         "same month of a different year is allowed",
			candidate:    Candidate{UserId: 1, Points: 10},
			employeeType: "FULL_TIME",
			history: []Distribution{
				{UserId: 1, Points: 50, DistributedAt: date(2023, time.March, 15)},
			},
			allocations: fullTimeAllocation,
			now:         date(2024, time.March, 15),
		},
		{
			name:         "another user's history does not block",
			candidate:    Candidate{UserId: 1, Points: 10},
			employeeType: "FULL_TIME",
			history: []Distribution{
				{UserId: 2, Points: 50, DistributedAt: date(2024, time.March, 2)},
			},
			allocations: fullTimeAllocation,
			now:         date(2024, time.March, 15),
		},
		{
			name:         "no allocation configured for employee type",
			candidate:    Candidate{UserId: 1, Points: 10},
			employeeType: "CONTRACTOR",
			allocations:  fullTimeAllocation,
			now:          date(2024, time.March, 15),
			wantCode:     NoAllocationConfigured,
		},
		{
			name:         "no allocations at all",
			candidate:    Candidate{UserId: 1, Points: 10},
			employeeType: "FULL_TIME",
			allocations:  nil,
			now:          date(2024, time.March, 15),
			wantCode:     NoAllocationConfigured,
		},
		{
			name:         "points above the ceiling carry the ceiling in the rejection",
			candidate:    Candidate{UserId: 1, Points: 150},
			employeeType: "FULL_TIME",
			allocations:  fullTimeAllocation,
			now:          date(2024, time.March, 15),
			wantCode:     ExceedsMonthlyAllocation,
			wantCeiling:  100,
		},
		{
			name:         "now in a non-UTC zone is bucketed by its UTC month",
			candidate:    Candidate{UserId: 1, Points: 10},
			employeeType: "FULL_TIME",
			history: []Distribution{
				{UserId: 1, Points: 50, DistributedAt: date(2024, time.March, 20)},
			},
			allocations: fullTimeAllocation,
			// April 1 08:00 at UTC+13 is still March 31 in UTC.
			now:      time.Date(2024, time.April, 1, 8, 0, 0, 0, time.FixedZone("UTC+13", 13*3600)),
			wantCode: AlreadyDistributedThisMonth,
		},
		{
			name:         "history in a non-UTC zone is bucketed by its UTC month",
			candidate:    Candidate{UserId: 1, Points: 10},
			employeeType: "FULL_TIME",
			history: []Distribution{
				// March 31 20:00 at UTC-5 is already April 1 in UTC.
				{UserId: 1, Points: 50, DistributedAt: time.Date(2024, time.March, 31, 20, 0, 0, 0, time.FixedZone("UTC-5", -5*3600))},
			},
			allocations: fullTimeAllocation,
			now:         date(2024, time.April, 15),
			wantCode:    AlreadyDistributedThisMonth,
		},
		{
			name:         "local April that is UTC March does not block an April candidate",
			candidate:    Candidate{UserId: 1, Points: 10},
			employeeType: "FULL_TIME",
			history: []Distribution{
				// April 1 05:00 at UTC+10 is March 31 in UTC.
				{UserId: 1, Points: 50, DistributedAt: time.Date(2024, time.April, 1, 5, 0, 0, 0, time.FixedZone("UTC+10", 10*3600))},
			},
			allocations: fullTimeAllocation,
			now:         date(2024, time.April, 15),
		},
		{
			name:         "month rule is checked before the allocation rules",
			candidate:    Candidate{UserId: 1, Points: 150},
			employeeType: "CONTRACTOR",
			history: []Distribution{
				{UserId: 1, Points: 50, DistributedAt: date(2024, time.March, 2)},
			},
			allocations: fullTimeAllocation,
			now:         date(2024, time.March, 15),
			wantCode:    AlreadyDistributedThisMonth,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejection := CheckEligibility(tt.candidate, tt.employeeType, tt.history, tt.allocations, tt.now)
			if tt.wantCode == "" {
				if rejection != nil {
					t.Fatalf("CheckEligibility() = %v, want approval", rejection.Code)
				}
				return
			}
			if rejection == nil {
				t.Fatalf("CheckEligibility() approved, want rejection %v", tt.wantCode)
			}
			if rejection.Code != tt.wantCode {
				t.Errorf("CheckEligibility() code = %v, want %v", rejection.Code, tt.wantCode)
			}
			if rejection.Ceiling != tt.wantCeiling {
				t.Errorf("CheckEligibility() ceiling = %d, want %d", rejection.Ceiling, tt.wantCeiling)
			}
		})
	}
}

func TestCheckEligibility_DuplicateAllocationsLastWriteWins(t *testing.T) {
	allocations := []budget.MonthlyAllocation{
		{EmployeeType: "FULL_TIME", Amount: 500},
		{EmployeeType: "FULL_TIME", Amount: 100},
	}
	rejection := CheckEligibility(Candidate{UserId: 1, Points: 200}, "FULL_TIME", nil, allocations, date(2024, time.March, 15))
	if rejection == nil || rejection.Code != ExceedsMonthlyAllocation {
		t.Fatalf("CheckEligibility() = %v, want ExceedsMonthlyAllocation", rejection)
	}
	if rejection.Ceiling != 100 {
		t.Errorf("ceiling = %d, want the later duplicate's amount 100", rejection.Ceiling)
	}
}
