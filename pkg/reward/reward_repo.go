package reward

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, reward Reward) (int, error)
	GetByUid(ctx context.Context, uid string) (Reward, error)
	GetByScope(ctx context.Context, scope Scope, includeInactive bool) ([]Reward, error)
	Update(ctx context.Context, reward Reward) error
	// Redeem debits the user's points and records the redemption in one
	// transaction. It fails with ErrInsufficientPoints when the balance
	// cannot cover the cost.
	Redeem(ctx context.Context, redemption Redemption) (int, error)
	GetRedemptionsForUser(ctx context.Context, userId int) ([]Redemption, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const rewardColumns = "id, uid, name, description, points_cost, category, scope, active, created_at"

func (r *RepoImpl) Store(ctx context.Context, reward Reward) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reward (uid, name, description, points_cost, category, scope, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		reward.Uid,
		reward.Name,
		reward.Description,
		reward.PointsCost,
		reward.Category,
		string(reward.Scope),
		reward.Active,
		reward.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		err := fmt.Errorf("could not store reward: %w", err)
		log.Error(err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(id), nil
}

func (r *RepoImpl) GetByUid(ctx context.Context, uid string) (Reward, error) {
	reward, err := scanReward(r.db.QueryRowContext(ctx,
		"SELECT "+rewardColumns+" FROM reward WHERE uid = ?", uid))
	if errors.Is(err, sql.ErrNoRows) {
		return Reward{}, ErrNotFound
	}
	return reward, err
}

func (r *RepoImpl) GetByScope(ctx context.Context, scope Scope, includeInactive bool) ([]Reward, error) {
	query := "SELECT " + rewardColumns + " FROM reward WHERE scope = ?"
	if !includeInactive {
		query += " AND active = 1"
	}
	query += " ORDER BY points_cost, name"
	rows, err := r.db.QueryContext(ctx, query, string(scope))
	if err != nil {
		err := fmt.Errorf("could not query rewards: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	rewards := make([]Reward, 0)
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, rows.Err()
}

func (r *RepoImpl) Update(ctx context.Context, reward Reward) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reward SET name = ?, description = ?, points_cost = ?, category = ?, scope = ?, active = ?
			WHERE id = ?`,
		reward.Name,
		reward.Description,
		reward.PointsCost,
		reward.Category,
		string(reward.Scope),
		reward.Active,
		reward.Id,
	)
	if err != nil {
		err := fmt.Errorf("could not update reward: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepoImpl) Redeem(ctx context.Context, redemption Redemption) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback()

	// The guard in the WHERE clause keeps the balance from going negative
	// even if two redemptions race.
	result, err := tx.ExecContext(ctx,
		"UPDATE user SET points = points - ? WHERE id = ? AND points >= ?",
		redemption.PointsSpent, redemption.UserId, redemption.PointsSpent)
	if err != nil {
		err := fmt.Errorf("could not debit points: %w", err)
		log.Error(err)
		return 0, err
	}
	debited, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if debited == 0 {
		return 0, ErrInsufficientPoints
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO redemption (uid, user_id, reward_id, points_spent, created_at)
			VALUES (?, ?, ?, ?, ?)`,
		redemption.Uid,
		redemption.UserId,
		redemption.RewardId,
		redemption.PointsSpent,
		redemption.CreatedAt.UTC().Format(time.RFC3339),
	); err != nil {
		err := fmt.Errorf("could not store redemption: %w", err)
		log.Error(err)
		return 0, err
	}

	var updatedPoints int
	if err := tx.QueryRowContext(ctx, "SELECT points FROM user WHERE id = ?", redemption.UserId).Scan(&updatedPoints); err != nil {
		err := fmt.Errorf("could not read updated balance: %w", err)
		log.Error(err)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		err := fmt.Errorf("could not commit redemption: %w", err)
		log.Error(err)
		return 0, err
	}
	return updatedPoints, nil
}

func (r *RepoImpl) GetRedemptionsForUser(ctx context.Context, userId int) ([]Redemption, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT d.id, d.uid, d.user_id, d.reward_id, w.name, d.points_spent, d.created_at
			FROM redemption d
			JOIN reward w ON w.id = d.reward_id
			WHERE d.user_id = ?
			ORDER BY d.created_at DESC, d.id DESC`, userId)
	if err != nil {
		err := fmt.Errorf("could not query redemptions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	redemptions := make([]Redemption, 0)
	for rows.Next() {
		var redemption Redemption
		var createdAt string
		if err := rows.Scan(
			&redemption.Id,
			&redemption.Uid,
			&redemption.UserId,
			&redemption.RewardId,
			&redemption.RewardName,
			&redemption.PointsSpent,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if parsed, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			redemption.CreatedAt = parsed
		}
		redemptions = append(redemptions, redemption)
	}
	return redemptions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReward(row rowScanner) (Reward, error) {
	var reward Reward
	var scope string
	var createdAt string
	err := row.Scan(
		&reward.Id,
		&reward.Uid,
		&reward.Name,
		&reward.Description,
		&reward.PointsCost,
		&reward.Category,
		&scope,
		&reward.Active,
		&createdAt,
	)
	if err != nil {
		return Reward{}, err
	}
	reward.Scope = Scope(scope)
	if parsed, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		reward.CreatedAt = parsed
	}
	return reward, nil
}
