package suggestion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, suggestion Suggestion) (int, error)
	GetAll(ctx context.Context) ([]Suggestion, error)
	GetByUid(ctx context.Context, uid string) (Suggestion, error)
	// ToggleVote adds the user's vote, or removes it when already present.
	ToggleVote(ctx context.Context, suggestionId int, userId int) (bool, error)
	UpdateStatus(ctx context.Context, suggestionId int, status Status) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const suggestionQuery = `SELECT s.id, s.uid, s.name, s.description, s.suggested_by,
		u.first_name || ' ' || u.last_name, s.suggested_points_cost, s.category, s.status, s.created_at
	FROM reward_suggestion s
	JOIN user u ON u.id = s.suggested_by`

func (r *RepoImpl) Store(ctx context.Context, suggestion Suggestion) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reward_suggestion (uid, name, description, suggested_by, suggested_points_cost, category, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		suggestion.Uid,
		suggestion.Name,
		suggestion.Description,
		suggestion.SuggestedById,
		suggestion.SuggestedPointsCost,
		suggestion.Category,
		string(suggestion.Status),
		suggestion.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		err := fmt.Errorf("could not store suggestion: %w", err)
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

func (r *RepoImpl) GetAll(ctx context.Context) ([]Suggestion, error) {
	rows, err := r.db.QueryContext(ctx, suggestionQuery+" ORDER BY s.created_at DESC, s.id DESC")
	if err != nil {
		err := fmt.Errorf("could not query suggestions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	suggestions := make([]Suggestion, 0)
	for rows.Next() {
		suggestion, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, suggestion)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range suggestions {
		votes, err := r.votesFor(ctx, suggestions[i].Id)
		if err != nil {
			return nil, err
		}
		suggestions[i].Votes = votes
	}
	return suggestions, nil
}

func (r *RepoImpl) GetByUid(ctx context.Context, uid string) (Suggestion, error) {
	suggestion, err := scanSuggestion(r.db.QueryRowContext(ctx, suggestionQuery+" WHERE s.uid = ?", uid))
	if errors.Is(err, sql.ErrNoRows) {
		return Suggestion{}, ErrNotFound
	} else if err != nil {
		return Suggestion{}, err
	}
	votes, err := r.votesFor(ctx, suggestion.Id)
	if err != nil {
		return Suggestion{}, err
	}
	suggestion.Votes = votes
	return suggestion, nil
}

func (r *RepoImpl) votesFor(ctx context.Context, suggestionId int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT u.uid FROM suggestion_vote v JOIN user u ON u.id = v.user_id WHERE v.suggestion_id = ?", suggestionId)
	if err != nil {
		err := fmt.Errorf("could not query votes: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	votes := make([]string, 0)
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		votes = append(votes, uid)
	}
	return votes, rows.Err()
}

func (r *RepoImpl) ToggleVote(ctx context.Context, suggestionId int, userId int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM suggestion_vote WHERE suggestion_id = ? AND user_id = ?", suggestionId, userId)
	if err != nil {
		err := fmt.Errorf("could not toggle vote: %w", err)
		log.Error(err)
		return false, err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if deleted > 0 {
		return false, nil
	}

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO suggestion_vote (suggestion_id, user_id) VALUES (?, ?)", suggestionId, userId); err != nil {
		err := fmt.Errorf("could not add vote: %w", err)
		log.Error(err)
		return false, err
	}
	return true, nil
}

func (r *RepoImpl) UpdateStatus(ctx context.Context, suggestionId int, status Status) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE reward_suggestion SET status = ? WHERE id = ?", string(status), suggestionId)
	if err != nil {
		err := fmt.Errorf("could not update suggestion status: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSuggestion(row rowScanner) (Suggestion, error) {
	var suggestion Suggestion
	var status string
	var createdAt string
	err := row.Scan(
		&suggestion.Id,
		&suggestion.Uid,
		&suggestion.Name,
		&suggestion.Description,
		&suggestion.SuggestedById,
		&suggestion.SuggestedByName,
		&suggestion.SuggestedPointsCost,
		&suggestion.Category,
		&status,
		&createdAt,
	)
	if err != nil {
		return Suggestion{}, err
	}
	suggestion.Status = Status(status)
	if parsed, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		suggestion.CreatedAt = parsed
	}
	return suggestion, nil
}
