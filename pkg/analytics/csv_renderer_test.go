package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPerformance(t *testing.T) {
	renderer := NewCsvRenderer()
	summary := PerformanceSummary{
		Timeframe: TimeframeMonthly,
		From:      time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		Engagement: EngagementStats{
			TotalRecognitions: 10,
			TotalPoints:       500,
			ActiveSenders:     4,
			ActiveRecipients:  6,
			Departments: []DepartmentStats{
				{Department: "Engineering", RecognitionsSent: 7, PointsAwarded: 350, ActiveSenders: 3, ParticipationRate: 0.75},
			},
			Categories: []CategoryStats{
				{Category: "TEAMWORK", Count: 6, Points: 300},
			},
		},
		Spending: SpendingStats{PointsDistributed: 1000, PointsRedeemed: 400, RedemptionCount: 2},
	}

	csvData, err := renderer.RenderPerformance(summary)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csvData, "\n"), "\n")
	assert.Equal(t, "From,2024-03-01", lines[0])
	assert.Contains(t, csvData, "Recognitions,10")
	assert.Contains(t, csvData, "Engineering,7,350,3,75%")
	assert.Contains(t, csvData, "TEAMWORK,6,300")
}
