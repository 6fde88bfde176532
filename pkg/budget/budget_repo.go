package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type BudgetRepo interface {
	GetYearlyBudget(ctx context.Context, year int) (int, error)
	SetYearlyBudget(ctx context.Context, year int, budget int) error
	GetAllocations(ctx context.Context) ([]MonthlyAllocation, error)
	GetAllocation(ctx context.Context, employeeType string) (MonthlyAllocation, bool, error)
	SetAllocation(ctx context.Context, allocation MonthlyAllocation) error
}

type BudgetRepoImpl struct {
	db *sql.DB
}

func NewBudgetRepo(db *sql.DB) *BudgetRepoImpl {
	return &BudgetRepoImpl{db: db}
}

func (b *BudgetRepoImpl) GetYearlyBudget(ctx context.Context, year int) (int, error) {
	var budget int
	err := b.db.QueryRowContext(ctx, "SELECT budget FROM yearly_budget WHERE year = ?", year).Scan(&budget)
	if errors.Is(err, sql.ErrNoRows) {
		// No budget configured yet for this year.
		return 0, nil
	} else if err != nil {
		err := fmt.Errorf("could not query yearly budget: %w", err)
		log.Error(err)
		return 0, err
	}
	return budget, nil
}

func (b *BudgetRepoImpl) SetYearlyBudget(ctx context.Context, year int, budget int) error {
	query := `INSERT INTO yearly_budget (year, budget) VALUES (?, ?)
				ON CONFLICT (year) DO UPDATE SET budget = excluded.budget`
	if _, err := b.db.ExecContext(ctx, query, year, budget); err != nil {
		err := fmt.Errorf("could not store yearly budget: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (b *BudgetRepoImpl) GetAllocations(ctx context.Context) ([]MonthlyAllocation, error) {
	query := "SELECT employee_type, amount, max_points_per_recognition FROM monthly_allocation ORDER BY employee_type"
	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query monthly allocations: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var allocations []MonthlyAllocation
	for rows.Next() {
		var allocation MonthlyAllocation
		var maxPerRecognition sql.NullInt64
		if err := rows.Scan(&allocation.EmployeeType, &allocation.Amount, &maxPerRecognition); err != nil {
			err := fmt.Errorf("could not scan monthly allocation: %w", err)
			log.Error(err)
			return nil, err
		}
		if maxPerRecognition.Valid {
			allocation.MaxPointsPerRecognition = int(maxPerRecognition.Int64)
		}
		allocations = append(allocations, allocation)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return allocations, nil
}

func (b *BudgetRepoImpl) GetAllocation(ctx context.Context, employeeType string) (MonthlyAllocation, bool, error) {
	query := "SELECT employee_type, amount, max_points_per_recognition FROM monthly_allocation WHERE employee_type = ?"
	var allocation MonthlyAllocation
	var maxPerRecognition sql.NullInt64
	err := b.db.QueryRowContext(ctx, query, employeeType).Scan(&allocation.EmployeeType, &allocation.Amount, &maxPerRecognition)
	if errors.Is(err, sql.ErrNoRows) {
		return MonthlyAllocation{}, false, nil
	} else if err != nil {
		err := fmt.Errorf("could not query monthly allocation: %w", err)
		log.Error(err)
		return MonthlyAllocation{}, false, err
	}
	if maxPerRecognition.Valid {
		allocation.MaxPointsPerRecognition = int(maxPerRecognition.Int64)
	}
	return allocation, true, nil
}

func (b *BudgetRepoImpl) SetAllocation(ctx context.Context, allocation MonthlyAllocation) error {
	var maxPerRecognition any
	if allocation.MaxPointsPerRecognition > 0 {
		maxPerRecognition = allocation.MaxPointsPerRecognition
	}
	query := `INSERT INTO monthly_allocation (employee_type, amount, max_points_per_recognition) VALUES (?, ?, ?)
				ON CONFLICT (employee_type) DO UPDATE SET amount = excluded.amount,
					max_points_per_recognition = excluded.max_points_per_recognition`
	if _, err := b.db.ExecContext(ctx, query, allocation.EmployeeType, allocation.Amount, maxPerRecognition); err != nil {
		err := fmt.Errorf("could not store monthly allocation: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
