package recognition_type

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("recognition type not found")

type Repository interface {
	Store(ctx context.Context, recognitionType RecognitionType) (int, error)
	GetAll(ctx context.Context, includeInactive bool) ([]RecognitionType, error)
	GetByUid(ctx context.Context, uid string) (RecognitionType, error)
	Update(ctx context.Context, recognitionType RecognitionType) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, recognitionType RecognitionType) (int, error) {
	query := `INSERT INTO recognition_type (uid, name, category, point_value, active, created_at)
				VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		recognitionType.Uid,
		recognitionType.Name,
		recognitionType.Category,
		recognitionType.PointValue,
		recognitionType.Active,
		recognitionType.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		err := fmt.Errorf("could not store recognition type: %w", err)
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

func (r *RepositoryImpl) GetAll(ctx context.Context, includeInactive bool) ([]RecognitionType, error) {
	query := "SELECT id, uid, name, category, point_value, active, created_at FROM recognition_type"
	if !includeInactive {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query recognition types: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var types []RecognitionType
	for rows.Next() {
		recognitionType, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, recognitionType)
	}
	return types, rows.Err()
}

func (r *RepositoryImpl) GetByUid(ctx context.Context, uid string) (RecognitionType, error) {
	query := "SELECT id, uid, name, category, point_value, active, created_at FROM recognition_type WHERE uid = ?"
	recognitionType, err := scanType(r.db.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return RecognitionType{}, ErrNotFound
	}
	return recognitionType, err
}

func (r *RepositoryImpl) Update(ctx context.Context, recognitionType RecognitionType) (bool, error) {
	query := "UPDATE recognition_type SET name = ?, category = ?, point_value = ?, active = ? WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query,
		recognitionType.Name,
		recognitionType.Category,
		recognitionType.PointValue,
		recognitionType.Active,
		recognitionType.Id,
	)
	if err != nil {
		err := fmt.Errorf("could not update recognition type: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanType(row rowScanner) (RecognitionType, error) {
	var recognitionType RecognitionType
	var createdAt string
	err := row.Scan(
		&recognitionType.Id,
		&recognitionType.Uid,
		&recognitionType.Name,
		&recognitionType.Category,
		&recognitionType.PointValue,
		&recognitionType.Active,
		&createdAt,
	)
	if err != nil {
		return RecognitionType{}, err
	}
	if parsed, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		recognitionType.CreatedAt = parsed
	}
	return recognitionType, nil
}
