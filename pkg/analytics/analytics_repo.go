package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	GetEngagement(ctx context.Context, from time.Time, to time.Time) (EngagementStats, error)
	GetSpending(ctx context.Context, from time.Time, to time.Time) (SpendingStats, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) GetEngagement(ctx context.Context, from time.Time, to time.Time) (EngagementStats, error) {
	fromStr := from.UTC().Format(time.RFC3339)
	toStr := to.UTC().Format(time.RFC3339)

	var stats EngagementStats
	err := r.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(SUM(points), 0),
			COUNT(DISTINCT sender_id),
			COUNT(DISTINCT recipient_id)
		FROM recognition
		WHERE created_at >= ? AND created_at < ?`, fromStr, toStr).
		Scan(&stats.TotalRecognitions, &stats.TotalPoints, &stats.ActiveSenders, &stats.ActiveRecipients)
	if err != nil {
		err := fmt.Errorf("could not query engagement totals: %w", err)
		log.Error(err)
		return EngagementStats{}, err
	}

	departments, err := r.departmentStats(ctx, fromStr, toStr)
	if err != nil {
		return EngagementStats{}, err
	}
	stats.Departments = departments

	categories, err := r.categoryStats(ctx, fromStr, toStr)
	if err != nil {
		return EngagementStats{}, err
	}
	stats.Categories = categories
	return stats, nil
}

func (r *RepoImpl) departmentStats(ctx context.Context, from string, to string) ([]DepartmentStats, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
			u.department,
			COUNT(r.id),
			COALESCE(SUM(r.points), 0),
			COUNT(DISTINCT r.sender_id),
			(SELECT COUNT(*) FROM user m WHERE m.department = u.department AND m.active = 1)
		FROM recognition r
		JOIN user u ON u.id = r.sender_id
		WHERE r.created_at >= ? AND r.created_at < ?
		GROUP BY u.department
		ORDER BY COUNT(r.id) DESC`, from, to)
	if err != nil {
		err := fmt.Errorf("could not query department stats: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	departments := make([]DepartmentStats, 0)
	for rows.Next() {
		var department DepartmentStats
		var headcount int
		if err := rows.Scan(
			&department.Department,
			&department.RecognitionsSent,
			&department.PointsAwarded,
			&department.ActiveSenders,
			&headcount,
		); err != nil {
			return nil, err
		}
		if headcount > 0 {
			department.ParticipationRate = float64(department.ActiveSenders) / float64(headcount)
		}
		departments = append(departments, department)
	}
	return departments, rows.Err()
}

func (r *RepoImpl) categoryStats(ctx context.Context, from string, to string) ([]CategoryStats, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*), COALESCE(SUM(points), 0)
		FROM recognition
		WHERE created_at >= ? AND created_at < ?
		GROUP BY category
		ORDER BY COUNT(*) DESC`, from, to)
	if err != nil {
		err := fmt.Errorf("could not query category stats: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	categories := make([]CategoryStats, 0)
	for rows.Next() {
		var category CategoryStats
		if err := rows.Scan(&category.Category, &category.Count, &category.Points); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *RepoImpl) GetSpending(ctx context.Context, from time.Time, to time.Time) (SpendingStats, error) {
	fromStr := from.UTC().Format(time.RFC3339)
	toStr := to.UTC().Format(time.RFC3339)

	var stats SpendingStats
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(points), 0) FROM points_distribution WHERE distributed_at >= ? AND distributed_at < ?",
		fromStr, toStr).Scan(&stats.PointsDistributed)
	if err != nil {
		err := fmt.Errorf("could not query distribution spending: %w", err)
		log.Error(err)
		return SpendingStats{}, err
	}

	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(points_spent), 0) FROM redemption WHERE created_at >= ? AND created_at < ?",
		fromStr, toStr).Scan(&stats.RedemptionCount, &stats.PointsRedeemed)
	if err != nil {
		err := fmt.Errorf("could not query redemption spending: %w", err)
		log.Error(err)
		return SpendingStats{}, err
	}
	return stats, nil
}
