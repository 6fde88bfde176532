package notification

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kudoshq/kudos/internal/rest"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type NotificationDTO struct {
	Id        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Points    *int      `json:"points,omitempty"`
	SourceId  *string   `json:"sourceId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toNotificationDTO(notification Notification) NotificationDTO {
	return NotificationDTO{
		Id:        notification.Uid,
		Type:      string(notification.Type),
		Title:     notification.Title,
		Message:   notification.Message,
		Read:      notification.Read,
		Points:    notification.Points,
		SourceId:  notification.SourceUid,
		CreatedAt: notification.CreatedAt,
	}
}

// GetAll godoc
//
//	@Summary	List the current user's notifications, newest first
//	@Produce	json
//	@Success	200	{array}	NotificationDTO
//	@Router		/api/notifications [get]
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.GetForCurrentUser(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not load notifications")
		return
	}
	dtos := make([]NotificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		dtos = append(dtos, toNotificationDTO(notification))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["notificationId"]
	err := h.service.MarkRead(r.Context(), uid)
	if errors.Is(err, ErrNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Notification not found")
		return
	} else if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not mark notification read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearForCurrentUser(r.Context()); err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not clear notifications")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
