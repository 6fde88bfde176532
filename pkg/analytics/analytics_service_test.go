package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudoshq/kudos/internal/utils"
)

type stubAnalyticsRepo struct {
	engagement EngagementStats
	spending   SpendingStats
	from       time.Time
	to         time.Time
}

func (s *stubAnalyticsRepo) GetEngagement(_ context.Context, from time.Time, to time.Time) (EngagementStats, error) {
	s.from = from
	s.to = to
	return s.engagement, nil
}

func (s *stubAnalyticsRepo) GetSpending(_ context.Context, _ time.Time, _ time.Time) (SpendingStats, error) {
	return s.spending, nil
}

func TestGetPerformance_CombinesEngagementAndSpending(t *testing.T) {
	repo := &stubAnalyticsRepo{
		engagement: EngagementStats{
			TotalRecognitions: 42,
			TotalPoints:       2100,
			ActiveSenders:     12,
			ActiveRecipients:  18,
			Departments: []DepartmentStats{
				{Department: "Engineering", RecognitionsSent: 30, PointsAwarded: 1500, ActiveSenders: 8, ParticipationRate: 0.8},
			},
			Categories: []CategoryStats{
				{Category: "TEAMWORK", Count: 25, Points: 1250},
			},
		},
		spending: SpendingStats{PointsDistributed: 5000, PointsRedeemed: 1800, RedemptionCount: 9},
	}
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)}
	service := NewService(repo, clock)

	summary, err := service.GetPerformance(context.Background(), TimeframeMonthly)
	require.NoError(t, err)

	assert.Equal(t, TimeframeMonthly, summary.Timeframe)
	assert.Equal(t, 42, summary.Engagement.TotalRecognitions)
	assert.Equal(t, 5000, summary.Spending.PointsDistributed)
	assert.Equal(t, clock.FixedNow, summary.To)
	assert.Equal(t, clock.FixedNow.AddDate(0, 0, -30), summary.From)
}

func TestGetPerformance_TimeframeWindows(t *testing.T) {
	tests := []struct {
		name      string
		timeframe Timeframe
		days      int
	}{
		{"weekly", TimeframeWeekly, 7},
		{"monthly", TimeframeMonthly, 30},
		{"quarterly", TimeframeQuarterly, 91},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubAnalyticsRepo{}
			clock := &utils.MockClock{FixedNow: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)}
			service := NewService(repo, clock)

			summary, err := service.GetPerformance(context.Background(), tt.timeframe)
			require.NoError(t, err)
			assert.Equal(t, tt.days, int(summary.To.Sub(summary.From).Hours()/24))
		})
	}
}

func TestParseTimeframe(t *testing.T) {
	tests := []struct {
		raw      string
		expected Timeframe
		ok       bool
	}{
		{"", TimeframeMonthly, true},
		{"monthly", TimeframeMonthly, true},
		{"weekly", TimeframeWeekly, true},
		{"quarterly", TimeframeQuarterly, true},
		{"yearly", "", false},
	}
	for _, tt := range tests {
		timeframe, ok := parseTimeframe(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.expected, timeframe, tt.raw)
	}
}
