package recognition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// Store persists the recognition and credits the recipient's points
	// balance in the same transaction.
	Store(ctx context.Context, recognition Recognition) (int, error)
	GetFeed(ctx context.Context, limit int) ([]Recognition, error)
	GetByUid(ctx context.Context, uid string) (Recognition, error)
	// ToggleKudos adds the user's endorsement, or removes it when already
	// present. It reports whether the endorsement exists afterwards.
	ToggleKudos(ctx context.Context, recognitionId int, userId int) (bool, error)
	SetPinnedUntil(ctx context.Context, recognitionId int, pinnedUntil *time.Time) (bool, error)
	ClearExpiredPins(ctx context.Context, now time.Time) (int, error)
	SumPointsGivenSince(ctx context.Context, senderId int, since time.Time) (int, error)
	SumPointsReceivedBetween(ctx context.Context, recipientId int, from time.Time, to time.Time) (int, error)
	GetUserData(ctx context.Context, userId int) (UserData, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, recognition Recognition) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback()

	var pinnedUntil any
	if recognition.PinnedUntil != nil {
		pinnedUntil = recognition.PinnedUntil.UTC().Format(time.RFC3339)
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO recognition (uid, sender_id, recipient_id, message, category, points, pinned_until, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		recognition.Uid,
		recognition.SenderId,
		recognition.RecipientId,
		recognition.Message,
		recognition.Category,
		recognition.Points,
		pinnedUntil,
		recognition.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		err := fmt.Errorf("could not store recognition: %w", err)
		log.Error(err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}

	if recognition.Points > 0 {
		if _, err := tx.ExecContext(ctx, "UPDATE user SET points = points + ? WHERE id = ?",
			recognition.Points, recognition.RecipientId); err != nil {
			err := fmt.Errorf("could not credit recipient points: %w", err)
			log.Error(err)
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		err := fmt.Errorf("could not commit recognition: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(id), nil
}

const recognitionQuery = `SELECT r.id, r.uid, r.sender_id, s.uid, s.first_name || ' ' || s.last_name,
			r.recipient_id, t.first_name || ' ' || t.last_name,
			r.message, r.category, r.points, r.pinned_until, r.created_at
		FROM recognition r
		JOIN user s ON s.id = r.sender_id
		JOIN user t ON t.id = r.recipient_id`

func (r *RepositoryImpl) GetFeed(ctx context.Context, limit int) ([]Recognition, error) {
	query := recognitionQuery + ` ORDER BY (r.pinned_until IS NOT NULL) DESC, r.created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		err := fmt.Errorf("could not query recognitions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var recognitions []Recognition
	for rows.Next() {
		recognition, err := scanRecognition(rows)
		if err != nil {
			return nil, err
		}
		recognitions = append(recognitions, recognition)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range recognitions {
		kudos, err := r.kudosFor(ctx, recognitions[i].Id)
		if err != nil {
			return nil, err
		}
		recognitions[i].Kudos = kudos
	}
	return recognitions, nil
}

func (r *RepositoryImpl) GetByUid(ctx context.Context, uid string) (Recognition, error) {
	recognition, err := scanRecognition(r.db.QueryRowContext(ctx, recognitionQuery+" WHERE r.uid = ?", uid))
	if errors.Is(err, sql.ErrNoRows) {
		return Recognition{}, ErrNotFound
	} else if err != nil {
		return Recognition{}, err
	}
	kudos, err := r.kudosFor(ctx, recognition.Id)
	if err != nil {
		return Recognition{}, err
	}
	recognition.Kudos = kudos
	return recognition, nil
}

func (r *RepositoryImpl) kudosFor(ctx context.Context, recognitionId int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT u.uid FROM recognition_kudos k JOIN user u ON u.id = k.user_id WHERE k.recognition_id = ?", recognitionId)
	if err != nil {
		err := fmt.Errorf("could not query kudos: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	kudos := make([]string, 0)
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		kudos = append(kudos, uid)
	}
	return kudos, rows.Err()
}

func (r *RepositoryImpl) ToggleKudos(ctx context.Context, recognitionId int, userId int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM recognition_kudos WHERE recognition_id = ? AND user_id = ?", recognitionId, userId)
	if err != nil {
		err := fmt.Errorf("could not toggle kudos: %w", err)
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
		"INSERT INTO recognition_kudos (recognition_id, user_id) VALUES (?, ?)", recognitionId, userId); err != nil {
		err := fmt.Errorf("could not add kudos: %w", err)
		log.Error(err)
		return false, err
	}
	return true, nil
}

func (r *RepositoryImpl) SetPinnedUntil(ctx context.Context, recognitionId int, pinnedUntil *time.Time) (bool, error) {
	var value any
	if pinnedUntil != nil {
		value = pinnedUntil.UTC().Format(time.RFC3339)
	}
	result, err := r.db.ExecContext(ctx, "UPDATE recognition SET pinned_until = ? WHERE id = ?", value, recognitionId)
	if err != nil {
		err := fmt.Errorf("could not update pin: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) ClearExpiredPins(ctx context.Context, now time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE recognition SET pinned_until = NULL WHERE pinned_until IS NOT NULL AND pinned_until < ?",
		now.UTC().Format(time.RFC3339))
	if err != nil {
		err := fmt.Errorf("could not clear expired pins: %w", err)
		log.Error(err)
		return 0, err
	}
	cleared, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(cleared), nil
}

func (r *RepositoryImpl) SumPointsGivenSince(ctx context.Context, senderId int, since time.Time) (int, error) {
	var sum sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(points) FROM recognition WHERE sender_id = ? AND created_at >= ?",
		senderId, since.UTC().Format(time.RFC3339)).Scan(&sum)
	if err != nil {
		err := fmt.Errorf("could not sum given points: %w", err)
		log.Error(err)
		return 0, err
	}
	if !sum.Valid {
		return 0, nil
	}
	return int(sum.Int64), nil
}

func (r *RepositoryImpl) SumPointsReceivedBetween(ctx context.Context, recipientId int, from time.Time, to time.Time) (int, error) {
	var sum sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(points) FROM recognition WHERE recipient_id = ? AND created_at >= ? AND created_at < ?",
		recipientId, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339)).Scan(&sum)
	if err != nil {
		err := fmt.Errorf("could not sum received points: %w", err)
		log.Error(err)
		return 0, err
	}
	if !sum.Valid {
		return 0, nil
	}
	return int(sum.Int64), nil
}

func (r *RepositoryImpl) GetUserData(ctx context.Context, userId int) (UserData, error) {
	var data UserData
	err := r.db.QueryRowContext(ctx, `SELECT
			(SELECT COUNT(*) FROM recognition WHERE recipient_id = ?),
			(SELECT COUNT(*) FROM recognition WHERE sender_id = ?),
			(SELECT COALESCE(SUM(points), 0) FROM recognition WHERE recipient_id = ?)`,
		userId, userId, userId).Scan(&data.ReceivedCount, &data.SentCount, &data.PointsReceived)
	if err != nil {
		err := fmt.Errorf("could not query recognition user data: %w", err)
		log.Error(err)
		return UserData{}, err
	}
	return data, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecognition(row rowScanner) (Recognition, error) {
	var recognition Recognition
	var pinnedUntil sql.NullString
	var createdAt string
	err := row.Scan(
		&recognition.Id,
		&recognition.Uid,
		&recognition.SenderId,
		&recognition.SenderUid,
		&recognition.SenderName,
		&recognition.RecipientId,
		&recognition.RecipientName,
		&recognition.Message,
		&recognition.Category,
		&recognition.Points,
		&pinnedUntil,
		&createdAt,
	)
	if err != nil {
		return Recognition{}, err
	}
	if pinnedUntil.Valid {
		if parsed, parseErr := time.Parse(time.RFC3339, pinnedUntil.String); parseErr == nil {
			recognition.PinnedUntil = &parsed
		}
	}
	if parsed, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		recognition.CreatedAt = parsed
	}
	return recognition, nil
}
