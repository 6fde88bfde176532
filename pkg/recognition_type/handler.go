package recognition_type

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/kudoshq/kudos/internal/rest"
)

var validate = validator.New()

type RecognitionTypeDTO struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PointValue int    `json:"pointValue"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"createdAt"`
}

type createTypeDTO struct {
	Name       string `json:"name" validate:"required"`
	Category   string `json:"category" validate:"required,oneof=TEAMWORK INNOVATION EXCELLENCE CUSTOMER_SERVICE"`
	PointValue int    `json:"pointValue" validate:"gte=0"`
}

type patchTypeDTO struct {
	Name       *string `json:"name"`
	Category   *string `json:"category" validate:"omitempty,oneof=TEAMWORK INNOVATION EXCELLENCE CUSTOMER_SERVICE"`
	PointValue *int    `json:"pointValue" validate:"omitempty,gte=0"`
	Active     *bool   `json:"active"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Has("includeInactive")
	types, err := h.service.GetAll(r.Context(), includeInactive)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to list recognition types")
		return
	}

	dtos := make([]RecognitionTypeDTO, 0, len(types))
	for _, recognitionType := range types {
		dtos = append(dtos, toDTO(recognitionType))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto createTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if err := validate.Struct(dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Name, a valid category and a non-negative point value are required")
		return
	}

	created, err := h.service.Create(r.Context(), RecognitionType{
		Name:       dto.Name,
		Category:   Category(dto.Category),
		PointValue: dto.PointValue,
	})
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to create recognition type")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toDTO(created))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["typeId"]

	var dto patchTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if err := validate.Struct(dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid recognition type update")
		return
	}

	patch := Patch{Name: dto.Name, PointValue: dto.PointValue, Active: dto.Active}
	if dto.Category != nil {
		category := Category(*dto.Category)
		patch.Category = &category
	}

	updated, err := h.service.Patch(r.Context(), uid, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			rest.WriteError(w, http.StatusNotFound, "Recognition type not found")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to update recognition type")
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(updated))
}

func toDTO(t RecognitionType) RecognitionTypeDTO {
	return RecognitionTypeDTO{
		Id:         t.Uid,
		Name:       t.Name,
		Category:   string(t.Category),
		PointValue: t.PointValue,
		Active:     t.Active,
		CreatedAt:  t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
