package distribution

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kudoshq/kudos/internal/rest"
	"github.com/kudoshq/kudos/pkg/user"
)

var validate = validator.New()

type distributeDTO struct {
	UserId string `json:"userId" validate:"required"`
	Points int    `json:"points" validate:"gt=0"`
	Reason string `json:"reason" validate:"required"`
}

type DistributionDTO struct {
	Id            string              `json:"id"`
	UserId        string              `json:"userId"`
	Points        int                 `json:"points"`
	Reason        string              `json:"reason"`
	DistributedAt string              `json:"distributedAt"`
	User          DistributionUserDTO `json:"user"`
}

type DistributionUserDTO struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

type DistributionHandler struct {
	distributionService DistributionService
}

func NewDistributionHandler(distributionService DistributionService) *DistributionHandler {
	return &DistributionHandler{distributionService}
}

// Distribute godoc
// @Summary Distribute points to a user
// @Description Grants points to a user, subject to the one-per-month and monthly allocation rules.
// @Tags Distribution
// @Accept json
// @Produce json
// @Success 201 {object} DistributionDTO
// @Failure 422 {object} rest.ErrorResponse "Business-rule rejection with a machine readable code"
// @Router /api/admin/points/distribute [post]
func (h *DistributionHandler) Distribute(w http.ResponseWriter, r *http.Request) {
	var dto distributeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if err := validate.Struct(dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "userId, positive points and a reason are required")
		return
	}

	created, err := h.distributionService.Distribute(r.Context(), dto.UserId, dto.Points, dto.Reason)
	if err != nil {
		var rejection *Rejection
		if errors.As(err, &rejection) {
			var ceiling *int
			if rejection.Code == ExceedsMonthlyAllocation {
				ceiling = &rejection.Ceiling
			}
			rest.WriteRejection(w, http.StatusUnprocessableEntity, rejection.Error(), string(rejection.Code), ceiling)
			return
		}
		if errors.Is(err, user.ErrUserNotFound) {
			rest.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to distribute points")
		return
	}

	rest.WriteJSON(w, http.StatusCreated, toDTO(created))
}

func (h *DistributionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.distributionService.History(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to list distributions")
		return
	}

	dtos := make([]DistributionDTO, 0, len(history))
	for _, distribution := range history {
		dtos = append(dtos, toDTO(distribution))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func toDTO(d Distribution) DistributionDTO {
	return DistributionDTO{
		Id:            d.Uid,
		UserId:        d.UserUid,
		Points:        d.Points,
		Reason:        d.Reason,
		DistributedAt: d.DistributedAt.UTC().Format(time.RFC3339),
		User: DistributionUserDTO{
			Name:       d.UserName,
			Department: d.UserDepartment,
		},
	}
}
