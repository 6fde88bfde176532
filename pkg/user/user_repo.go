package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	GetUserBySubject(ctx context.Context, subject string) (User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	GetPreferences(ctx context.Context, userId int) ([]RewardPreference, error)
	SetPreferences(ctx context.Context, userId int, preferences []RewardPreference) error
}

type UserRepoImpl struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

const userColumns = "id, uid, subject, first_name, last_name, email, department, employee_type, role, points, active, created_at"

func (u *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	role := user.Role
	if role == "" {
		role = RoleEmployee
	}
	query := `INSERT INTO user (uid, subject, first_name, last_name, email, department, employee_type, role, points, active, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := u.db.ExecContext(ctx, query,
		user.Uid,
		nullableString(user.Subject),
		user.FirstName,
		user.LastName,
		user.Email,
		user.Department,
		user.EmployeeType,
		role,
		user.Points,
		user.Active,
		user.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
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

func (u *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := fmt.Sprintf("SELECT %s FROM user WHERE id = ?", userColumns)
	return u.scanUser(u.db.QueryRowContext(ctx, query, id))
}

func (u *UserRepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := fmt.Sprintf("SELECT %s FROM user WHERE uid = ?", userColumns)
	return u.scanUser(u.db.QueryRowContext(ctx, query, uid))
}

func (u *UserRepoImpl) GetUserBySubject(ctx context.Context, subject string) (User, error) {
	query := fmt.Sprintf("SELECT %s FROM user WHERE subject = ?", userColumns)
	return u.scanUser(u.db.QueryRowContext(ctx, query, subject))
}

func (u *UserRepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	query := fmt.Sprintf("SELECT %s FROM user WHERE active = 1 ORDER BY last_name, first_name", userColumns)
	rows, err := u.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query users: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := u.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return users, nil
}

func (u *UserRepoImpl) GetPreferences(ctx context.Context, userId int) ([]RewardPreference, error) {
	rows, err := u.db.QueryContext(ctx, "SELECT preference FROM user_reward_preference WHERE user_id = ? ORDER BY preference", userId)
	if err != nil {
		err := fmt.Errorf("could not query reward preferences: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	preferences := make([]RewardPreference, 0)
	for rows.Next() {
		var preference RewardPreference
		if err := rows.Scan(&preference); err != nil {
			err := fmt.Errorf("could not scan reward preference: %w", err)
			log.Error(err)
			return nil, err
		}
		preferences = append(preferences, preference)
	}
	return preferences, rows.Err()
}

func (u *UserRepoImpl) SetPreferences(ctx context.Context, userId int, preferences []RewardPreference) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_reward_preference WHERE user_id = ?", userId); err != nil {
		err := fmt.Errorf("could not clear reward preferences: %w", err)
		log.Error(err)
		return err
	}
	for _, preference := range preferences {
		if _, err := tx.ExecContext(ctx, "INSERT INTO user_reward_preference (user_id, preference) VALUES (?, ?)", userId, preference); err != nil {
			err := fmt.Errorf("could not store reward preference: %w", err)
			log.Error(err)
			return err
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (u *UserRepoImpl) scanUser(row rowScanner) (User, error) {
	var user User
	var subject sql.NullString
	var createdAt string
	err := row.Scan(
		&user.Id,
		&user.Uid,
		&subject,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Department,
		&user.EmployeeType,
		&user.Role,
		&user.Points,
		&user.Active,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to scan user: %v", err)
		return User{}, err
	}
	if subject.Valid {
		user.Subject = subject.String
	}
	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		user.CreatedAt = parsed
	}
	return user, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
