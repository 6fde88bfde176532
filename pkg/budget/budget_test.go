package budget

import (
	"math"
	"reflect"
	"testing"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		budget      int
		allocations []MonthlyAllocation
		want        Calculation
	}{
		{
			name:        "no allocations",
			budget:      1000,
			allocations: nil,
			want: Calculation{
				TotalAllocated:   0,
				Remaining:        1000,
				MonthlyBreakdown: map[string]BreakdownEntry{},
			},
		},
		{
			name:   "two employee types",
			budget: 120000,
			allocations: []MonthlyAllocation{
				{EmployeeType: "FULL_TIME", Amount: 500},
				{EmployeeType: "CONTRACTOR", Amount: 200},
			},
			want: Calculation{
				TotalAllocated: 8400,
				Remaining:      111600,
				MonthlyBreakdown: map[string]BreakdownEntry{
					"FULL_TIME":  {Monthly: 500, Yearly: 6000, PercentageOfBudget: 5.0},
					"CONTRACTOR": {Monthly: 200, Yearly: 2400, PercentageOfBudget: 2.0},
				},
			},
		},
		{
			name:   "over-allocated budget stays negative",
			budget: 1000,
			allocations: []MonthlyAllocation{
				{EmployeeType: "FULL_TIME", Amount: 100},
			},
			want: Calculation{
				TotalAllocated: 1200,
				Remaining:      -200,
				MonthlyBreakdown: map[string]BreakdownEntry{
					"FULL_TIME": {Monthly: 100, Yearly: 1200, PercentageOfBudget: 120.0},
				},
			},
		},
		{
			name:   "zero budget reports zero percentages",
			budget: 0,
			allocations: []MonthlyAllocation{
				{EmployeeType: "FULL_TIME", Amount: 500},
				{EmployeeType: "PART_TIME", Amount: 250},
			},
			want: Calculation{
				TotalAllocated: 9000,
				Remaining:      -9000,
				MonthlyBreakdown: map[string]BreakdownEntry{
					"FULL_TIME": {Monthly: 500, Yearly: 6000, PercentageOfBudget: 0},
					"PART_TIME": {Monthly: 250, Yearly: 3000, PercentageOfBudget: 0},
				},
			},
		},
		{
			name:   "zero amount allocation",
			budget: 1000,
			allocations: []MonthlyAllocation{
				{EmployeeType: "CONTRACTOR", Amount: 0},
			},
			want: Calculation{
				TotalAllocated: 0,
				Remaining:      1000,
				MonthlyBreakdown: map[string]BreakdownEntry{
					"CONTRACTOR": {Monthly: 0, Yearly: 0, PercentageOfBudget: 0},
				},
			},
		},
		{
			name:   "duplicate employee type keeps last entry in breakdown but counts both in total",
			budget: 24000,
			allocations: []MonthlyAllocation{
				{EmployeeType: "FULL_TIME", Amount: 500},
				{EmployeeType: "FULL_TIME", Amount: 100},
			},
			want: Calculation{
				TotalAllocated: 7200,
				Remaining:      16800,
				MonthlyBreakdown: map[string]BreakdownEntry{
					"FULL_TIME": {Monthly: 100, Yearly: 1200, PercentageOfBudget: 5.0},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.budget, tt.allocations)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Calculate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCalculate_TotalIsSumOfYearlyCosts(t *testing.T) {
	allocations := []MonthlyAllocation{
		{EmployeeType: "A", Amount: 17},
		{EmployeeType: "B", Amount: 33},
		{EmployeeType: "C", Amount: 0},
		{EmployeeType: "D", Amount: 981},
	}
	sum := 0
	for _, a := range allocations {
		sum += a.Amount * 12
	}

	for _, budget := range []int{0, 1, 5000, 1_000_000} {
		got := Calculate(budget, allocations)
		if got.TotalAllocated != sum {
			t.Errorf("TotalAllocated = %d, want %d", got.TotalAllocated, sum)
		}
		if got.Remaining != budget-sum {
			t.Errorf("Remaining = %d, want %d", got.Remaining, budget-sum)
		}
	}
}

func TestCalculate_IsDeterministic(t *testing.T) {
	allocations := []MonthlyAllocation{
		{EmployeeType: "FULL_TIME", Amount: 300},
		{EmployeeType: "CONTRACTOR", Amount: 70},
	}
	first := Calculate(9000, allocations)
	second := Calculate(9000, allocations)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Calculate() is not deterministic: %+v != %+v", first, second)
	}
}

func TestCalculate_PercentagesSumToAllocatedShare(t *testing.T) {
	budget := 50000
	allocations := []MonthlyAllocation{
		{EmployeeType: "A", Amount: 100},
		{EmployeeType: "B", Amount: 150},
		{EmployeeType: "C", Amount: 75},
	}
	got := Calculate(budget, allocations)

	total := 0.0
	for _, entry := range got.MonthlyBreakdown {
		total += entry.PercentageOfBudget
	}
	want := float64(got.TotalAllocated) / float64(budget) * 100
	if math.Abs(total-want) > 1e-9 {
		t.Errorf("percentages sum to %f, want %f", total, want)
	}
}
