package notification

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/user"
)

const TypeMonthlySummary Type = "MONTHLY_SUMMARY"

// UserLister enumerates the users eligible for a digest.
type UserLister interface {
	GetAllUsers(ctx context.Context) ([]user.User, error)
}

// ReceivedPointsSource reports recognition points a user received inside a
// time window.
type ReceivedPointsSource interface {
	PointsReceivedBetween(ctx context.Context, userId int, from time.Time, to time.Time) (int, error)
}

// Digest creates the monthly points summary notifications.
type Digest struct {
	service Service
	users   UserLister
	points  ReceivedPointsSource
	clock   utils.Clock
}

func NewDigest(service Service, users UserLister, points ReceivedPointsSource, clock utils.Clock) *Digest {
	return &Digest{service: service, users: users, points: points, clock: clock}
}

// SendMonthlySummaries notifies every user of the points they received in
// the previous calendar month. Users without activity are skipped.
func (d *Digest) SendMonthlySummaries(ctx context.Context) (int, error) {
	now := d.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	previousMonthStart := monthStart.AddDate(0, -1, 0)

	users, err := d.users.GetAllUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not list users for digest: %w", err)
	}

	sent := 0
	for _, u := range users {
		points, err := d.points.PointsReceivedBetween(ctx, u.Id, previousMonthStart, monthStart)
		if err != nil {
			log.Errorf("could not compute digest for user %d: %v", u.Id, err)
			continue
		}
		if points == 0 {
			continue
		}
		monthName := previousMonthStart.Month().String()
		if _, err := d.service.Notify(ctx, Notification{
			UserId:  u.Id,
			Type:    TypeMonthlySummary,
			Title:   "Your monthly recognition summary",
			Message: fmt.Sprintf("You received %d points in %s", points, monthName),
			Points:  &points,
		}); err != nil {
			log.Errorf("could not store digest for user %d: %v", u.Id, err)
			continue
		}
		sent++
	}
	return sent, nil
}
