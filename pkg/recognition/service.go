package recognition

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/kudoshq/kudos/internal/event_bus"
	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/budget"
	"github.com/kudoshq/kudos/pkg/recognition_type"
	"github.com/kudoshq/kudos/pkg/user"
)

const feedLimit = 50

// RecipientProvider resolves the target user of a recognition.
type RecipientProvider interface {
	GetUserByUid(ctx context.Context, uid string) (user.User, error)
}

// TypeProvider resolves the recognition type a sender picked.
type TypeProvider interface {
	GetByUid(ctx context.Context, uid string) (recognition_type.RecognitionType, error)
}

// AllocationProvider exposes the monthly allocation configured for an
// employee type.
type AllocationProvider interface {
	Allocation(ctx context.Context, employeeType string) (budget.MonthlyAllocation, bool, error)
}

type Service interface {
	Send(ctx context.Context, recipientUid string, typeUid string, message string) (Recognition, error)
	Feed(ctx context.Context) ([]Recognition, error)
	ToggleKudos(ctx context.Context, recognitionUid string) (Recognition, error)
	Pin(ctx context.Context, recognitionUid string, pinnedUntil *time.Time) (Recognition, error)
	UserData(ctx context.Context) (UserData, error)
	// PointsGivenSince reports how many recognition points a user handed
	// out on or after the given time.
	PointsGivenSince(ctx context.Context, userId int, since time.Time) (int, error)
	PointsReceivedBetween(ctx context.Context, userId int, from time.Time, to time.Time) (int, error)
	ClearExpiredPins(ctx context.Context) (int, error)
}

type ServiceImpl struct {
	repository  Repository
	recipients  RecipientProvider
	types       TypeProvider
	allocations AllocationProvider
	bus         *event_bus.EventBus
	clock       utils.Clock
}

func NewService(
	repository Repository,
	recipients RecipientProvider,
	types TypeProvider,
	allocations AllocationProvider,
	bus *event_bus.EventBus,
	clock utils.Clock,
) *ServiceImpl {
	return &ServiceImpl{
		repository:  repository,
		recipients:  recipients,
		types:       types,
		allocations: allocations,
		bus:         bus,
		clock:       clock,
	}
}

func (s *ServiceImpl) Send(ctx context.Context, recipientUid string, typeUid string, message string) (Recognition, error) {
	sender, err := user.CurrentUser(ctx)
	if err != nil {
		return Recognition{}, err
	}
	recipient, err := s.recipients.GetUserByUid(ctx, recipientUid)
	if err != nil {
		return Recognition{}, err
	}
	recognitionType, err := s.types.GetByUid(ctx, typeUid)
	if err != nil {
		return Recognition{}, err
	}

	now := s.clock.Now()
	if recognitionType.PointValue > 0 {
		if err := s.checkSenderAllocation(ctx, sender, recognitionType.PointValue, now); err != nil {
			return Recognition{}, err
		}
	}

	recognition := Recognition{
		Uid:           uuid.NewString(),
		SenderId:      sender.Id,
		SenderUid:     sender.Uid,
		SenderName:    sender.DisplayName(),
		RecipientId:   recipient.Id,
		RecipientName: recipient.DisplayName(),
		Message:       message,
		Category:      string(recognitionType.Category),
		Points:        recognitionType.PointValue,
		Kudos:         []string{},
		CreatedAt:     now,
	}
	id, err := s.repository.Store(ctx, recognition)
	if err != nil {
		return Recognition{}, err
	}
	recognition.Id = id

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.RecognitionCreatedEvent, event_bus.RecognitionCreated{
		Uid:         recognition.Uid,
		SenderId:    sender.Id,
		RecipientId: recipient.Id,
		SenderName:  recognition.SenderName,
		Category:    recognition.Category,
		Points:      recognition.Points,
		CreatedAt:   recognition.CreatedAt,
	})); err != nil {
		// Notification fan-out is best effort.
		log.Errorf("could not publish recognition created event: %v", err)
	}
	return recognition, nil
}

func (s *ServiceImpl) checkSenderAllocation(ctx context.Context, sender user.User, points int, now time.Time) error {
	allocation, found, err := s.allocations.Allocation(ctx, sender.EmployeeType)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if allocation.MaxPointsPerRecognition > 0 && points > allocation.MaxPointsPerRecognition {
		return ErrExceedsRecognitionCap
	}
	// Months are bucketed in UTC, matching the stored timestamps.
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	given, err := s.repository.SumPointsGivenSince(ctx, sender.Id, monthStart)
	if err != nil {
		return err
	}
	if points > allocation.Amount-given {
		return ErrInsufficientAllocation
	}
	return nil
}

func (s *ServiceImpl) Feed(ctx context.Context) ([]Recognition, error) {
	return s.repository.GetFeed(ctx, feedLimit)
}

func (s *ServiceImpl) ToggleKudos(ctx context.Context, recognitionUid string) (Recognition, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Recognition{}, err
	}
	recognition, err := s.repository.GetByUid(ctx, recognitionUid)
	if err != nil {
		return Recognition{}, err
	}
	if _, err := s.repository.ToggleKudos(ctx, recognition.Id, userId); err != nil {
		return Recognition{}, err
	}
	return s.repository.GetByUid(ctx, recognitionUid)
}

func (s *ServiceImpl) Pin(ctx context.Context, recognitionUid string, pinnedUntil *time.Time) (Recognition, error) {
	recognition, err := s.repository.GetByUid(ctx, recognitionUid)
	if err != nil {
		return Recognition{}, err
	}
	updated, err := s.repository.SetPinnedUntil(ctx, recognition.Id, pinnedUntil)
	if err != nil {
		return Recognition{}, err
	}
	if !updated {
		return Recognition{}, ErrNotFound
	}
	return s.repository.GetByUid(ctx, recognitionUid)
}

func (s *ServiceImpl) UserData(ctx context.Context) (UserData, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return UserData{}, err
	}
	return s.repository.GetUserData(ctx, userId)
}

func (s *ServiceImpl) PointsGivenSince(ctx context.Context, userId int, since time.Time) (int, error) {
	return s.repository.SumPointsGivenSince(ctx, userId, since)
}

func (s *ServiceImpl) PointsReceivedBetween(ctx context.Context, userId int, from time.Time, to time.Time) (int, error) {
	return s.repository.SumPointsReceivedBetween(ctx, userId, from, to)
}

func (s *ServiceImpl) ClearExpiredPins(ctx context.Context) (int, error) {
	cleared, err := s.repository.ClearExpiredPins(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("could not clear expired pins: %w", err)
	}
	if cleared > 0 {
		log.Infof("Unpinned %d expired recognitions", cleared)
	}
	return cleared, nil
}
