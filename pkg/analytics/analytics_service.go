package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kudoshq/kudos/internal/utils"
)

type Service interface {
	GetPerformance(ctx context.Context, timeframe Timeframe) (PerformanceSummary, error)
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) GetPerformance(ctx context.Context, timeframe Timeframe) (PerformanceSummary, error) {
	to := s.clock.Now()
	from := to.AddDate(0, 0, -timeframe.Days())

	var engagement EngagementStats
	var spending SpendingStats

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		engagement, err = s.repo.GetEngagement(groupCtx, from, to)
		return err
	})
	group.Go(func() error {
		var err error
		spending, err = s.repo.GetSpending(groupCtx, from, to)
		return err
	})
	if err := group.Wait(); err != nil {
		return PerformanceSummary{}, err
	}

	return PerformanceSummary{
		Timeframe:  timeframe,
		From:       from,
		To:         to,
		Engagement: engagement,
		Spending:   spending,
	}, nil
}
