package budget

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/kudoshq/kudos/internal/rest"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New()

type yearlyBudgetDTO struct {
	Budget int `json:"budget" validate:"gte=0"`
}

type allocationDTO struct {
	EmployeeType            string `json:"employeeType" validate:"required"`
	Allocation              int    `json:"allocation" validate:"gte=0"`
	MaxPointsPerRecognition int    `json:"maxPointsPerRecognition,omitempty" validate:"gte=0"`
}

type allocationEntryDTO struct {
	MonthlyAllocation int `json:"monthlyAllocation"`
}

type distributionTableDTO struct {
	Distributions map[string]*allocationEntryDTO `json:"distributions"`
}

type breakdownEntryDTO struct {
	Monthly            int     `json:"monthly"`
	Yearly             int     `json:"yearly"`
	PercentageOfBudget float64 `json:"percentageOfBudget"`
}

type calculationDTO struct {
	TotalAllocated   int                          `json:"totalAllocated"`
	Remaining        int                          `json:"remaining"`
	MonthlyBreakdown map[string]breakdownEntryDTO `json:"monthlyBreakdown"`
}

type BudgetHandler struct {
	budgetService BudgetService
}

func NewBudgetHandler(budgetService BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService}
}

// GetYearlyBudget godoc
// @Summary Get the yearly points budget for the current year
// @Tags Budget
// @Produce json
// @Success 200 {object} yearlyBudgetDTO
// @Router /api/admin/yearly-budget [get]
func (h *BudgetHandler) GetYearlyBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := h.budgetService.YearlyBudget(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get yearly budget")
		return
	}
	rest.WriteJSON(w, http.StatusOK, yearlyBudgetDTO{Budget: budget})
}

func (h *BudgetHandler) SetYearlyBudget(w http.ResponseWriter, r *http.Request) {
	var dto yearlyBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if err := validate.Struct(dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Budget must not be negative")
		return
	}

	if err := h.budgetService.SetYearlyBudget(r.Context(), dto.Budget); err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to set yearly budget")
		return
	}
	log.Infof("yearly budget set to %d", dto.Budget)
	w.WriteHeader(http.StatusNoContent)
}

// GetDistributionTable returns the monthly allocation per employee type, as a
// map keyed by type. Types without a configured allocation map to null so the
// caller can tell "not configured" apart from "configured as zero".
func (h *BudgetHandler) GetDistributionTable(w http.ResponseWriter, r *http.Request) {
	allocations, err := h.budgetService.Allocations(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get allocations")
		return
	}

	table := map[string]*allocationEntryDTO{
		"FULL_TIME":  nil,
		"PART_TIME":  nil,
		"CONTRACTOR": nil,
	}
	for _, allocation := range allocations {
		table[allocation.EmployeeType] = &allocationEntryDTO{MonthlyAllocation: allocation.Amount}
	}
	rest.WriteJSON(w, http.StatusOK, distributionTableDTO{Distributions: table})
}

func (h *BudgetHandler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	employeeType := mux.Vars(r)["employeeType"]
	allocation, found, err := h.budgetService.Allocation(r.Context(), employeeType)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get allocation")
		return
	}
	if !found {
		rest.WriteError(w, http.StatusNotFound, "No allocation configured for employee type "+employeeType)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]int{"allocation": allocation.Amount})
}

func (h *BudgetHandler) SetAllocation(w http.ResponseWriter, r *http.Request) {
	var dto allocationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if err := validate.Struct(dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid allocation")
		return
	}

	err := h.budgetService.SetAllocation(r.Context(), MonthlyAllocation{
		EmployeeType:            dto.EmployeeType,
		Amount:                  dto.Allocation,
		MaxPointsPerRecognition: dto.MaxPointsPerRecognition,
	})
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to set allocation")
		return
	}
	log.Infof("monthly allocation for %s set to %d", dto.EmployeeType, dto.Allocation)
	w.WriteHeader(http.StatusNoContent)
}

// GetCalculation godoc
// @Summary Get the derived yearly budget breakdown
// @Tags Budget
// @Produce json
// @Success 200 {object} calculationDTO
// @Router /api/admin/budget-calculation [get]
func (h *BudgetHandler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	calculation, err := h.budgetService.Calculation(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to calculate budget")
		return
	}

	breakdown := make(map[string]breakdownEntryDTO, len(calculation.MonthlyBreakdown))
	for employeeType, entry := range calculation.MonthlyBreakdown {
		breakdown[employeeType] = breakdownEntryDTO{
			Monthly:            entry.Monthly,
			Yearly:             entry.Yearly,
			PercentageOfBudget: entry.PercentageOfBudget,
		}
	}
	rest.WriteJSON(w, http.StatusOK, calculationDTO{
		TotalAllocated:   calculation.TotalAllocated,
		Remaining:        calculation.Remaining,
		MonthlyBreakdown: breakdown,
	})
}
