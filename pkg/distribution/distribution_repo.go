package distribution

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type DistributionRepo interface {
	// Store persists the distribution and credits the recipient's points
	// balance in the same transaction.
	Store(ctx context.Context, distribution Distribution) (int, error)
	GetAll(ctx context.Context) ([]Distribution, error)
	GetForUser(ctx context.Context, userId int) ([]Distribution, error)
}

type DistributionRepoImpl struct {
	db *sql.DB
}

func NewDistributionRepo(db *sql.DB) *DistributionRepoImpl {
	return &DistributionRepoImpl{db: db}
}

func (d *DistributionRepoImpl) Store(ctx context.Context, distribution Distribution) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback()

	var distributedBy any
	if distribution.DistributedBy != 0 {
		distributedBy = distribution.DistributedBy
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO points_distribution (uid, user_id, points, reason, distributed_by, distributed_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
		distribution.Uid,
		distribution.UserId,
		distribution.Points,
		distribution.Reason,
		distributedBy,
		distribution.DistributedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		err := fmt.Errorf("could not store distribution: %w", err)
		log.Error(err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, "UPDATE user SET points = points + ? WHERE id = ?", distribution.Points, distribution.UserId); err != nil {
		err := fmt.Errorf("could not credit user points: %w", err)
		log.Error(err)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		err := fmt.Errorf("could not commit distribution: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(id), nil
}

const distributionQuery = `SELECT d.id, d.uid, d.user_id, u.uid, u.first_name || ' ' || u.last_name, u.department,
			d.points, d.reason, d.distributed_by, d.distributed_at
		FROM points_distribution d JOIN user u ON u.id = d.user_id`

func (d *DistributionRepoImpl) GetAll(ctx context.Context) ([]Distribution, error) {
	return d.query(ctx, distributionQuery+" ORDER BY d.distributed_at DESC, d.id DESC")
}

func (d *DistributionRepoImpl) GetForUser(ctx context.Context, userId int) ([]Distribution, error) {
	return d.query(ctx, distributionQuery+" WHERE d.user_id = ? ORDER BY d.distributed_at DESC, d.id DESC", userId)
}

func (d *DistributionRepoImpl) query(ctx context.Context, query string, args ...any) ([]Distribution, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query distributions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var distributions []Distribution
	for rows.Next() {
		var distribution Distribution
		var distributedBy sql.NullInt64
		var distributedAt string
		if err := rows.Scan(
			&distribution.Id,
			&distribution.Uid,
			&distribution.UserId,
			&distribution.UserUid,
			&distribution.UserName,
			&distribution.UserDepartment,
			&distribution.Points,
			&distribution.Reason,
			&distributedBy,
			&distributedAt,
		); err != nil {
			err := fmt.Errorf("could not scan distribution: %w", err)
			log.Error(err)
			return nil, err
		}
		if distributedBy.Valid {
			distribution.DistributedBy = int(distributedBy.Int64)
		}
		parsed, err := time.Parse(time.RFC3339, distributedAt)
		if err != nil {
			err := fmt.Errorf("could not parse distribution timestamp: %w", err)
			log.Error(err)
			return nil, err
		}
		distribution.DistributedAt = parsed
		distributions = append(distributions, distribution)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return distributions, nil
}
