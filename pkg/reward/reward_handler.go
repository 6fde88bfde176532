package reward

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/kudoshq/kudos/internal/rest"
)

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

type RewardDTO struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PointsCost  int       `json:"pointsCost"`
	Category    string    `json:"category"`
	Scope       string    `json:"scope"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

type createRewardDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	PointsCost  int    `json:"pointsCost" validate:"required,gt=0"`
	Category    string `json:"category" validate:"required"`
	Scope       string `json:"scope" validate:"omitempty,oneof=GLOBAL ORGANIZATION"`
}

type patchRewardDTO struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	PointsCost  *int    `json:"pointsCost" validate:"omitempty,gt=0"`
	Category    *string `json:"category"`
	Active      *bool   `json:"active"`
}

type RedemptionDTO struct {
	Id          string    `json:"id"`
	RewardName  string    `json:"rewardName"`
	PointsSpent int       `json:"pointsSpent"`
	RedeemedAt  time.Time `json:"redeemedAt"`
}

func toRewardDTO(reward Reward) RewardDTO {
	return RewardDTO{
		Id:          reward.Uid,
		Name:        reward.Name,
		Description: reward.Description,
		PointsCost:  reward.PointsCost,
		Category:    reward.Category,
		Scope:       string(reward.Scope),
		Active:      reward.Active,
		CreatedAt:   reward.CreatedAt,
	}
}

func toRedemptionDTO(redemption Redemption) RedemptionDTO {
	return RedemptionDTO{
		Id:          redemption.Uid,
		RewardName:  redemption.RewardName,
		PointsSpent: redemption.PointsSpent,
		RedeemedAt:  redemption.CreatedAt,
	}
}

// GetGlobal godoc
//
//	@Summary	List the active global reward catalog
//	@Produce	json
//	@Success	200	{array}	RewardDTO
//	@Router		/api/rewards/global [get]
func (h *Handler) GetGlobal(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, ScopeGlobal)
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, ScopeOrganization)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, scope Scope) {
	rewards, err := h.service.List(r.Context(), scope)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not load rewards")
		return
	}
	dtos := make([]RewardDTO, 0, len(rewards))
	for _, reward := range rewards {
		dtos = append(dtos, toRewardDTO(reward))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// GetAllForAdmin returns rewards of both scopes including inactive ones.
func (h *Handler) GetAllForAdmin(w http.ResponseWriter, r *http.Request) {
	global, err := h.service.ListAll(r.Context(), ScopeGlobal)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not load rewards")
		return
	}
	organization, err := h.service.ListAll(r.Context(), ScopeOrganization)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not load rewards")
		return
	}
	dtos := make([]RewardDTO, 0, len(global)+len(organization))
	for _, reward := range append(global, organization...) {
		dtos = append(dtos, toRewardDTO(reward))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var body createRewardDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reward, err := h.service.Create(r.Context(), Reward{
		Name:        body.Name,
		Description: body.Description,
		PointsCost:  body.PointsCost,
		Category:    body.Category,
		Scope:       Scope(body.Scope),
	})
	if err != nil {
		log.Errorf("could not create reward: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Could not create reward")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toRewardDTO(reward))
}

// CreateForOrganization creates a reward pinned to the organization catalog
// regardless of the requested scope.
func (h *Handler) CreateForOrganization(w http.ResponseWriter, r *http.Request) {
	var body createRewardDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reward, err := h.service.Create(r.Context(), Reward{
		Name:        body.Name,
		Description: body.Description,
		PointsCost:  body.PointsCost,
		Category:    body.Category,
		Scope:       ScopeOrganization,
	})
	if err != nil {
		log.Errorf("could not create reward: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Could not create reward")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toRewardDTO(reward))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var body patchRewardDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := mux.Vars(r)["rewardId"]
	reward, err := h.service.Patch(r.Context(), uid, Patch{
		Name:        body.Name,
		Description: body.Description,
		PointsCost:  body.PointsCost,
		Category:    body.Category,
		Active:      body.Active,
	})
	if errors.Is(err, ErrNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Reward not found")
		return
	} else if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not update reward")
		return
	}
	rest.WriteJSON(w, http.StatusOK, toRewardDTO(reward))
}

// AddToOrganization godoc
//
//	@Summary	Copy a global reward into the organization catalog
//	@Router		/api/rewards/organization/add/{rewardId} [post]
func (h *Handler) AddToOrganization(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["rewardId"]
	reward, err := h.service.AddToOrganization(r.Context(), uid)
	if errors.Is(err, ErrNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Reward not found")
		return
	} else if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not add reward")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toRewardDTO(reward))
}

// Redeem godoc
//
//	@Summary	Redeem a reward with the current user's points
//	@Produce	json
//	@Success	200	{object}	map[string]int	"updatedPoints"
//	@Router		/api/rewards/redeem/{rewardId} [post]
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["rewardId"]
	_, updatedPoints, err := h.service.Redeem(r.Context(), uid)
	switch {
	case errors.Is(err, ErrNotFound):
		rest.WriteError(w, http.StatusNotFound, "Reward not found")
	case errors.Is(err, ErrInactive):
		rest.WriteRejection(w, http.StatusUnprocessableEntity, "Reward is not available", "REWARD_NOT_AVAILABLE", nil)
	case errors.Is(err, ErrInsufficientPoints):
		rest.WriteRejection(w, http.StatusUnprocessableEntity, "Not enough points to redeem this reward", "INSUFFICIENT_POINTS", nil)
	case err != nil:
		log.Errorf("could not redeem reward: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Could not redeem reward")
	default:
		rest.WriteJSON(w, http.StatusOK, map[string]int{"updatedPoints": updatedPoints})
	}
}

func (h *Handler) GetRedemptionHistory(w http.ResponseWriter, r *http.Request) {
	redemptions, err := h.service.RedemptionHistory(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not load redemption history")
		return
	}
	dtos := make([]RedemptionDTO, 0, len(redemptions))
	for _, redemption := range redemptions {
		dtos = append(dtos, toRedemptionDTO(redemption))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
