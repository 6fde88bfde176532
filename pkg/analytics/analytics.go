package analytics

import "time"

type Timeframe string

const (
	TimeframeWeekly    Timeframe = "weekly"
	TimeframeMonthly   Timeframe = "monthly"
	TimeframeQuarterly Timeframe = "quarterly"
)

// Days returns the length of the timeframe window.
func (t Timeframe) Days() int {
	switch t {
	case TimeframeWeekly:
		return 7
	case TimeframeQuarterly:
		return 91
	default:
		return 30
	}
}

// DepartmentStats aggregates recognition activity for one department.
type DepartmentStats struct {
	Department        string
	RecognitionsSent  int
	PointsAwarded     int
	ActiveSenders     int
	ParticipationRate float64
}

// CategoryStats counts recognitions per category.
type CategoryStats struct {
	Category string
	Count    int
	Points   int
}

// EngagementStats covers recognition activity over the window.
type EngagementStats struct {
	TotalRecognitions int
	TotalPoints       int
	ActiveSenders     int
	ActiveRecipients  int
	Departments       []DepartmentStats
	Categories        []CategoryStats
}

// SpendingStats covers where points went over the window.
type SpendingStats struct {
	PointsDistributed int
	PointsRedeemed    int
	RedemptionCount   int
}

// PerformanceSummary is the full analytics report for one timeframe.
type PerformanceSummary struct {
	Timeframe  Timeframe
	From       time.Time
	To         time.Time
	Engagement EngagementStats
	Spending   SpendingStats
}
