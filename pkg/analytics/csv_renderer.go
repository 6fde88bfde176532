package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// RenderPerformance turns a performance summary into a CSV document with a
// totals block followed by per-department and per-category sections.
func (t *CsvRendererImpl) RenderPerformance(summary PerformanceSummary) (string, error) {
	data := [][]string{
		{"From", summary.From.Format("2006-01-02")},
		{"To", summary.To.Format("2006-01-02")},
		{"Recognitions", strconv.Itoa(summary.Engagement.TotalRecognitions)},
		{"Points awarded", strconv.Itoa(summary.Engagement.TotalPoints)},
		{"Active senders", strconv.Itoa(summary.Engagement.ActiveSenders)},
		{"Active recipients", strconv.Itoa(summary.Engagement.ActiveRecipients)},
		{"Points distributed", strconv.Itoa(summary.Spending.PointsDistributed)},
		{"Points redeemed", strconv.Itoa(summary.Spending.PointsRedeemed)},
		{"Redemptions", strconv.Itoa(summary.Spending.RedemptionCount)},
		{},
		{"Department", "Recognitions", "Points", "Active senders", "Participation"},
	}
	for _, department := range summary.Engagement.Departments {
		data = append(data, []string{
			department.Department,
			strconv.Itoa(department.RecognitionsSent),
			strconv.Itoa(department.PointsAwarded),
			strconv.Itoa(department.ActiveSenders),
			fmt.Sprintf("%.0f%%", department.ParticipationRate*100),
		})
	}
	data = append(data, []string{}, []string{"Category", "Recognitions", "Points"})
	for _, category := range summary.Engagement.Categories {
		data = append(data, []string{
			category.Category,
			strconv.Itoa(category.Count),
			strconv.Itoa(category.Points),
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(data); err != nil {
		return "", err
	}
	writer.Flush()
	return buf.String(), nil
}
