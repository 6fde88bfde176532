package notification

import (
	"context"
)

// StubNotificationRepo is an in-memory Repo for tests.
type StubNotificationRepo struct {
	notifications []Notification
	nextId        int
}

func NewStubNotificationRepo() *StubNotificationRepo {
	return &StubNotificationRepo{nextId: 1}
}

func (s *StubNotificationRepo) Cleanup() {
	s.notifications = nil
	s.nextId = 1
}

func (s *StubNotificationRepo) Store(_ context.Context, notification Notification) (int, error) {
	notification.Id = s.nextId
	s.nextId++
	s.notifications = append([]Notification{notification}, s.notifications...)
	return notification.Id, nil
}

func (s *StubNotificationRepo) GetForUser(_ context.Context, userId int) ([]Notification, error) {
	notifications := make([]Notification, 0)
	for _, notification := range s.notifications {
		if notification.UserId == userId {
			notifications = append(notifications, notification)
		}
	}
	return notifications, nil
}

func (s *StubNotificationRepo) MarkRead(_ context.Context, uid string, userId int) error {
	for i := range s.notifications {
		if s.notifications[i].Uid == uid && s.notifications[i].UserId == userId {
			s.notifications[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (s *StubNotificationRepo) DeleteForUser(_ context.Context, userId int) error {
	remaining := s.notifications[:0]
	for _, notification := range s.notifications {
		if notification.UserId != userId {
			remaining = append(remaining, notification)
		}
	}
	s.notifications = remaining
	return nil
}
