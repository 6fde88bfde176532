package distribution

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kudoshq/kudos/internal/event_bus"
	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/budget"
	"github.com/kudoshq/kudos/pkg/user"
	log "github.com/sirupsen/logrus"
)

// UserProvider is the slice of the user service the distribution flow needs.
type UserProvider interface {
	GetUserByUid(ctx context.Context, uid string) (user.User, error)
}

// AllocationProvider supplies the monthly allocation table.
type AllocationProvider interface {
	Allocations(ctx context.Context) ([]budget.MonthlyAllocation, error)
}

type DistributionService interface {
	// Distribute validates the candidate against the eligibility rules and
	// persists it when approved. The returned error is a *Rejection for
	// business-rule failures.
	Distribute(ctx context.Context, userUid string, points int, reason string) (Distribution, error)
	History(ctx context.Context) ([]Distribution, error)
}

type DistributionServiceImpl struct {
	repo        DistributionRepo
	users       UserProvider
	allocations AllocationProvider
	bus         *event_bus.EventBus
	clock       utils.Clock
}

func NewDistributionService(
	repo DistributionRepo,
	users UserProvider,
	allocations AllocationProvider,
	bus *event_bus.EventBus,
	clock utils.Clock,
) *DistributionServiceImpl {
	return &DistributionServiceImpl{
		repo:        repo,
		users:       users,
		allocations: allocations,
		bus:         bus,
		clock:       clock,
	}
}

func (s *DistributionServiceImpl) Distribute(ctx context.Context, userUid string, points int, reason string) (Distribution, error) {
	recipient, err := s.users.GetUserByUid(ctx, userUid)
	if err != nil {
		return Distribution{}, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	history, err := s.repo.GetForUser(ctx, recipient.Id)
	if err != nil {
		return Distribution{}, err
	}
	allocations, err := s.allocations.Allocations(ctx)
	if err != nil {
		return Distribution{}, err
	}

	now := s.clock.Now()
	candidate := Candidate{UserId: recipient.Id, Points: points, Reason: reason}
	if rejection := CheckEligibility(candidate, recipient.EmployeeType, history, allocations, now); rejection != nil {
		log.Infof("distribution to user %s rejected: %s", userUid, rejection.Code)
		return Distribution{}, rejection
	}

	distribution := Distribution{
		Uid:            uuid.NewString(),
		UserId:         recipient.Id,
		UserUid:        recipient.Uid,
		UserName:       recipient.DisplayName(),
		UserDepartment: recipient.Department,
		Points:         points,
		Reason:         reason,
		DistributedAt:  now,
	}
	if adminId, err := user.CurrentId(ctx); err == nil {
		distribution.DistributedBy = adminId
	}

	id, err := s.repo.Store(ctx, distribution)
	if err != nil {
		return Distribution{}, err
	}
	distribution.Id = id

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.PointsDistributedEvent, event_bus.PointsDistributed{
		Uid:           distribution.Uid,
		UserId:        distribution.UserId,
		Points:        distribution.Points,
		Reason:        distribution.Reason,
		DistributedAt: distribution.DistributedAt,
	})); err != nil {
		// Notification fan-out is best effort; the distribution itself is
		// already durable.
		log.Errorf("failed to publish points distributed event: %v", err)
	}

	return distribution, nil
}

func (s *DistributionServiceImpl) History(ctx context.Context) ([]Distribution, error) {
	return s.repo.GetAll(ctx)
}
