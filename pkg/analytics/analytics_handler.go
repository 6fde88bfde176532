package analytics

import (
	"net/http"
	"time"

	"github.com/kudoshq/kudos/internal/rest"
)

type Handler struct {
	service  Service
	renderer *CsvRendererImpl
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service:  service,
		renderer: NewCsvRenderer(),
	}
}

type PerformanceDTO struct {
	Timeframe  string        `json:"timeframe"`
	From       time.Time     `json:"from"`
	To         time.Time     `json:"to"`
	Engagement EngagementDTO `json:"engagement"`
	Spending   SpendingDTO   `json:"spending"`
}

type EngagementDTO struct {
	TotalRecognitions int             `json:"totalRecognitions"`
	TotalPoints       int             `json:"totalPoints"`
	ActiveSenders     int             `json:"activeSenders"`
	ActiveRecipients  int             `json:"activeRecipients"`
	Departments       []DepartmentDTO `json:"departments"`
	Categories        []CategoryDTO   `json:"categories"`
}

type DepartmentDTO struct {
	Department        string  `json:"department"`
	RecognitionsSent  int     `json:"recognitionsSent"`
	PointsAwarded     int     `json:"pointsAwarded"`
	ActiveSenders     int     `json:"activeSenders"`
	ParticipationRate float64 `json:"participationRate"`
}

type CategoryDTO struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Points   int    `json:"points"`
}

type SpendingDTO struct {
	PointsDistributed int `json:"pointsDistributed"`
	PointsRedeemed    int `json:"pointsRedeemed"`
	RedemptionCount   int `json:"redemptionCount"`
}

func toPerformanceDTO(summary PerformanceSummary) PerformanceDTO {
	departments := make([]DepartmentDTO, 0, len(summary.Engagement.Departments))
	for _, department := range summary.Engagement.Departments {
		departments = append(departments, DepartmentDTO{
			Department:        department.Department,
			RecognitionsSent:  department.RecognitionsSent,
			PointsAwarded:     department.PointsAwarded,
			ActiveSenders:     department.ActiveSenders,
			ParticipationRate: department.ParticipationRate,
		})
	}
	categories := make([]CategoryDTO, 0, len(summary.Engagement.Categories))
	for _, category := range summary.Engagement.Categories {
		categories = append(categories, CategoryDTO{
			Category: category.Category,
			Count:    category.Count,
			Points:   category.Points,
		})
	}
	return PerformanceDTO{
		Timeframe: string(summary.Timeframe),
		From:      summary.From,
		To:        summary.To,
		Engagement: EngagementDTO{
			TotalRecognitions: summary.Engagement.TotalRecognitions,
			TotalPoints:       summary.Engagement.TotalPoints,
			ActiveSenders:     summary.Engagement.ActiveSenders,
			ActiveRecipients:  summary.Engagement.ActiveRecipients,
			Departments:       departments,
			Categories:        categories,
		},
		Spending: SpendingDTO{
			PointsDistributed: summary.Spending.PointsDistributed,
			PointsRedeemed:    summary.Spending.PointsRedeemed,
			RedemptionCount:   summary.Spending.RedemptionCount,
		},
	}
}

// GetPerformance godoc
//
//	@Summary	Organization performance insights for a timeframe
//	@Produce	json
//	@Param		timeframe	query	string	false	"weekly, monthly or quarterly"	default(monthly)
//	@Success	200	{object}	PerformanceDTO
//	@Router		/api/analytics/organizations/performance [get]
func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	timeframe, ok := parseTimeframe(r.URL.Query().Get("timeframe"))
	if !ok {
		rest.WriteError(w, http.StatusBadRequest, "Invalid timeframe, expected weekly, monthly or quarterly")
		return
	}

	summary, err := h.service.GetPerformance(r.Context(), timeframe)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not load performance analytics")
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csvData, err := h.renderer.RenderPerformance(summary)
		if err != nil {
			rest.WriteError(w, http.StatusInternalServerError, "Could not render CSV")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment;filename=performance.csv")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(csvData))
		return
	}
	rest.WriteJSON(w, http.StatusOK, toPerformanceDTO(summary))
}

func parseTimeframe(raw string) (Timeframe, bool) {
	switch raw {
	case "", "monthly":
		return TimeframeMonthly, true
	case "weekly":
		return TimeframeWeekly, true
	case "quarterly":
		return TimeframeQuarterly, true
	default:
		return "", false
	}
}
