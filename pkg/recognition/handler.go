package recognition

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/kudoshq/kudos/internal/rest"
	"github.com/kudoshq/kudos/pkg/recognition_type"
	"github.com/kudoshq/kudos/pkg/user"
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

type RecognitionDTO struct {
	Id            string     `json:"id"`
	SenderId      string     `json:"senderId"`
	SenderName    string     `json:"senderName"`
	RecipientName string     `json:"recipientName"`
	Message       string     `json:"message"`
	Category      string     `json:"category"`
	Points        int        `json:"points"`
	Kudos         []string   `json:"kudos"`
	PinnedUntil   *time.Time `json:"pinnedUntil,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type sendRecognitionDTO struct {
	RecipientId string `json:"recipientId" validate:"required"`
	TypeId      string `json:"typeId" validate:"required"`
	Message     string `json:"message" validate:"required,max=500"`
}

type pinRecognitionDTO struct {
	PinnedUntil *time.Time `json:"pinnedUntil"`
}

type userDataDTO struct {
	ReceivedCount  int `json:"receivedCount"`
	SentCount      int `json:"sentCount"`
	PointsReceived int `json:"pointsReceived"`
}

func toRecognitionDTO(recognition Recognition) RecognitionDTO {
	kudos := recognition.Kudos
	if kudos == nil {
		kudos = []string{}
	}
	return RecognitionDTO{
		Id:            recognition.Uid,
		SenderId:      recognition.SenderUid,
		SenderName:    recognition.SenderName,
		RecipientName: recognition.RecipientName,
		Message:       recognition.Message,
		Category:      recognition.Category,
		Points:        recognition.Points,
		Kudos:         kudos,
		PinnedUntil:   recognition.PinnedUntil,
		CreatedAt:     recognition.CreatedAt,
	}
}

// GetFeed godoc
//
//	@Summary	Get the recognition feed, pinned entries first
//	@Produce	json
//	@Success	200	{array}	RecognitionDTO
//	@Router		/api/recognition [get]
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	recognitions, err := h.service.Feed(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not load recognitions")
		return
	}
	dtos := make([]RecognitionDTO, 0, len(recognitions))
	for _, recognition := range recognitions {
		dtos = append(dtos, toRecognitionDTO(recognition))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Send godoc
//
//	@Summary	Send a recognition to another user
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	RecognitionDTO
//	@Router		/api/recognition [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var body sendRecognitionDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	recognition, err := h.service.Send(r.Context(), body.RecipientId, body.TypeId, body.Message)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		rest.WriteError(w, http.StatusNotFound, "Recipient not found")
	case errors.Is(err, recognition_type.ErrNotFound):
		rest.WriteError(w, http.StatusNotFound, "Recognition type not found")
	case errors.Is(err, ErrInsufficientAllocation):
		rest.WriteRejection(w, http.StatusUnprocessableEntity, "Not enough allocation points left this month", "INSUFFICIENT_ALLOCATION", nil)
	case errors.Is(err, ErrExceedsRecognitionCap):
		rest.WriteRejection(w, http.StatusUnprocessableEntity, "Recognition exceeds the per-recognition point cap", "EXCEEDS_RECOGNITION_CAP", nil)
	case err != nil:
		log.Errorf("could not send recognition: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Could not send recognition")
	default:
		rest.WriteJSON(w, http.StatusCreated, toRecognitionDTO(recognition))
	}
}

func (h *Handler) ToggleKudos(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["recognitionId"]
	recognition, err := h.service.ToggleKudos(r.Context(), uid)
	if errors.Is(err, ErrNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Recognition not found")
		return
	} else if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not toggle kudos")
		return
	}
	rest.WriteJSON(w, http.StatusOK, toRecognitionDTO(recognition))
}

// Pin godoc
//
//	@Summary	Pin a recognition to the top of the feed until a given time
//	@Router		/api/admin/recognition/{recognitionId}/pin [patch]
func (h *Handler) Pin(w http.ResponseWriter, r *http.Request) {
	var body pinRecognitionDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	uid := mux.Vars(r)["recognitionId"]
	recognition, err := h.service.Pin(r.Context(), uid, body.PinnedUntil)
	if errors.Is(err, ErrNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Recognition not found")
		return
	} else if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not pin recognition")
		return
	}
	rest.WriteJSON(w, http.StatusOK, toRecognitionDTO(recognition))
}

func (h *Handler) GetUserData(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.UserData(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not load user recognition data")
		return
	}
	rest.WriteJSON(w, http.StatusOK, userDataDTO{
		ReceivedCount:  data.ReceivedCount,
		SentCount:      data.SentCount,
		PointsReceived: data.PointsReceived,
	})
}
