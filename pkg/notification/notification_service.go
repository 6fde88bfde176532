package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/user"
)

type Service interface {
	Notify(ctx context.Context, notification Notification) (Notification, error)
	GetForCurrentUser(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, uid string) error
	ClearForCurrentUser(ctx context.Context) error
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Notify(ctx context.Context, notification Notification) (Notification, error) {
	notification.Uid = uuid.NewString()
	notification.Read = false
	notification.CreatedAt = s.clock.Now()
	id, err := s.repo.Store(ctx, notification)
	if err != nil {
		return Notification{}, err
	}
	notification.Id = id
	return notification, nil
}

func (s *ServiceImpl) GetForCurrentUser(ctx context.Context) ([]Notification, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetForUser(ctx, userId)
}

func (s *ServiceImpl) MarkRead(ctx context.Context, uid string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, uid, userId)
}

func (s *ServiceImpl) ClearForCurrentUser(ctx context.Context) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return err
	}
	return s.repo.DeleteForUser(ctx, userId)
}
