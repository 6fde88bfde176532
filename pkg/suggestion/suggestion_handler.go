package suggestion

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

type SuggestionDTO struct {
	Id              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	SuggestedByName string    `json:"suggestedByName"`
	PointsCost      int       `json:"pointsCost"`
	Category        string    `json:"category"`
	Status          string    `json:"status"`
	Votes           []string  `json:"votes"`
	CreatedAt       time.Time `json:"createdAt"`
}

type createSuggestionDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	PointsCost  int    `json:"pointsCost" validate:"required,gt=0"`
	Category    string `json:"category" validate:"required"`
}

type reviewSuggestionDTO struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

func toSuggestionDTO(suggestion Suggestion) SuggestionDTO {
	votes := suggestion.Votes
	if votes == nil {
		votes = []string{}
	}
	return SuggestionDTO{
		Id:              suggestion.Uid,
		Name:            suggestion.Name,
		Description:     suggestion.Description,
		SuggestedByName: suggestion.SuggestedByName,
		PointsCost:      suggestion.SuggestedPointsCost,
		Category:        suggestion.Category,
		Status:          string(suggestion.Status),
		Votes:           votes,
		CreatedAt:       suggestion.CreatedAt,
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.GetAll(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not load suggestions")
		return
	}
	dtos := make([]SuggestionDTO, 0, len(suggestions))
	for _, suggestion := range suggestions {
		dtos = append(dtos, toSuggestionDTO(suggestion))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Create godoc
//
//	@Summary	Suggest a new reward for the organization catalog
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	SuggestionDTO
//	@Router		/api/reward-suggestions/organization/suggestions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var body createSuggestionDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	suggestion, err := h.service.Create(r.Context(), body.Name, body.Description, body.PointsCost, body.Category)
	if err != nil {
		log.Errorf("could not create suggestion: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Could not create suggestion")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toSuggestionDTO(suggestion))
}

func (h *Handler) ToggleVote(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["suggestionId"]
	suggestion, err := h.service.ToggleVote(r.Context(), uid)
	if errors.Is(err, ErrNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Suggestion not found")
		return
	} else if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not toggle vote")
		return
	}
	rest.WriteJSON(w, http.StatusOK, toSuggestionDTO(suggestion))
}

// Review godoc
//
//	@Summary	Approve or reject a pending reward suggestion
//	@Router		/api/admin/reward-suggestions/{suggestionId}/review [patch]
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	var body reviewSuggestionDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := mux.Vars(r)["suggestionId"]
	suggestion, err := h.service.Review(r.Context(), uid, Status(body.Status))
	switch {
	case errors.Is(err, ErrNotFound):
		rest.WriteError(w, http.StatusNotFound, "Suggestion not found")
	case errors.Is(err, ErrAlreadyReviewed):
		rest.WriteRejection(w, http.StatusUnprocessableEntity, "Suggestion has already been reviewed", "ALREADY_REVIEWED", nil)
	case err != nil:
		log.Errorf("could not review suggestion: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Could not review suggestion")
	default:
		rest.WriteJSON(w, http.StatusOK, toSuggestionDTO(suggestion))
	}
}
