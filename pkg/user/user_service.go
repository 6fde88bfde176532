package user

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/kudoshq/kudos/internal/utils"
)

// Profile photos are normalised to a small square JPEG on upload so the
// feed can render avatars without resizing on every request.
const photoSize = 256

// AllocationProvider returns the monthly allocation amount configured for the
// given employee type. The second return value is false when no allocation is
// configured for that type.
type AllocationProvider func(ctx context.Context, employeeType string) (int, bool, error)

// GivenPointsProvider returns the number of points the user has given away
// through recognitions since the given time.
type GivenPointsProvider func(ctx context.Context, userId int, since time.Time) (int, error)

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	GetCurrentProfile(ctx context.Context) (Profile, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	GetUserBySubject(ctx context.Context, subject string) (User, error)
	// EnsureUser resolves the local user row for an identity provider
	// subject, provisioning a new row on first login.
	EnsureUser(ctx context.Context, user User) (User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	UpdatePreferences(ctx context.Context, preferences []RewardPreference) error
	StoreUserPhoto(ctx context.Context, photo []byte) error
	GetUserPhoto(ctx context.Context, uid string) ([]byte, error)
}

type UserServiceImpl struct {
	repo           Repo
	photoDir       string
	allocationFor  AllocationProvider
	givenPointsFor GivenPointsProvider
	clock          utils.Clock
}

func NewUserService(repo Repo, photoDir string, allocationFor AllocationProvider, givenPointsFor GivenPointsProvider, clock utils.Clock) *UserServiceImpl {
	return &UserServiceImpl{
		repo:           repo,
		photoDir:       photoDir,
		allocationFor:  allocationFor,
		givenPointsFor: givenPointsFor,
		clock:          clock,
	}
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.repo.GetUser(ctx, userId)
}

func (u *UserServiceImpl) GetCurrentProfile(ctx context.Context) (Profile, error) {
	current, err := u.GetCurrentUser(ctx)
	if err != nil {
		return Profile{}, err
	}

	preferences, err := u.repo.GetPreferences(ctx, current.Id)
	if err != nil {
		return Profile{}, err
	}

	allocationPoints, err := u.remainingAllocation(ctx, current)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		User:              current,
		AllocationPoints:  allocationPoints,
		RewardPreferences: preferences,
	}, nil
}

// remainingAllocation derives how many points the user may still give away
// this calendar month: the configured monthly allocation for their employee
// type, minus points already attached to recognitions they sent this month.
func (u *UserServiceImpl) remainingAllocation(ctx context.Context, current User) (int, error) {
	allocation, configured, err := u.allocationFor(ctx, current.EmployeeType)
	if err != nil {
		return 0, err
	}
	if !configured {
		return 0, nil
	}

	// Months are bucketed in UTC everywhere points are counted.
	now := u.clock.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	given, err := u.givenPointsFor(ctx, current.Id, monthStart)
	if err != nil {
		return 0, err
	}

	remaining := allocation - given
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (u *UserServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

func (u *UserServiceImpl) GetUserBySubject(ctx context.Context, subject string) (User, error) {
	return u.repo.GetUserBySubject(ctx, subject)
}

func (u *UserServiceImpl) EnsureUser(ctx context.Context, user User) (User, error) {
	existing, err := u.repo.GetUserBySubject(ctx, user.Subject)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	user.Uid = uuid.NewString()
	user.Active = true
	user.CreatedAt = u.clock.Now().UTC()
	if user.EmployeeType == "" {
		user.EmployeeType = EmployeeTypeFullTime
	}
	log.Infof("provisioning new user for subject %s", user.Subject)
	id, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = id
	return user, nil
}

func (u *UserServiceImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	return u.repo.GetAllUsers(ctx)
}

func (u *UserServiceImpl) UpdatePreferences(ctx context.Context, preferences []RewardPreference) error {
	userId, err := CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	return u.repo.SetPreferences(ctx, userId, preferences)
}

func (u *UserServiceImpl) StoreUserPhoto(ctx context.Context, photo []byte) error {
	current, err := u.GetCurrentUser(ctx)
	if err != nil {
		return err
	}

	img, err := imaging.Decode(bytes.NewReader(photo))
	if err != nil {
		return fmt.Errorf("could not decode photo: %w", err)
	}
	thumbnail := imaging.Thumbnail(img, photoSize, photoSize, imaging.Lanczos)

	if err := os.MkdirAll(u.photoDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(u.photoDir, current.Uid+".jpg")
	if err := imaging.Save(thumbnail, path, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("could not save photo: %w", err)
	}
	return nil
}

func (u *UserServiceImpl) GetUserPhoto(_ context.Context, uid string) ([]byte, error) {
	path := filepath.Join(u.photoDir, uid+".jpg")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return os.ReadFile(path)
}
