package user

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/kudoshq/kudos/internal/rest"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New()

type UserDTO struct {
	Id           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	EmployeeType string `json:"employeeType"`
	Role         string `json:"role"`
	CreatedAt    string `json:"createdAt"`
}

type ProfileDTO struct {
	UserDTO
	Points            int      `json:"points"`
	AllocationPoints  int      `json:"allocationPoints"`
	RewardPreferences []string `json:"rewardPreferences"`
}

type preferencesDTO struct {
	RewardPreferences []string `json:"rewardPreferences" validate:"required,dive,oneof=FOOD TRAVEL ELECTRONICS BOOKS ENTERTAINMENT"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// GetAllUsers godoc
// @Summary List all active users
// @Tags User
// @Produce json
// @Success 200 {array} UserDTO
// @Router /api/users [get]
func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAllUsers(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	usersDTO := make([]UserDTO, 0, len(users))
	for _, u := range users {
		usersDTO = append(usersDTO, userToDTO(u))
	}
	rest.WriteJSON(w, http.StatusOK, usersDTO)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	u, err := h.userService.GetUserByUid(r.Context(), uid)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			rest.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(u))
}

// CurrentProfile godoc
// @Summary Get the current user's profile
// @Tags User
// @Produce json
// @Success 200 {object} ProfileDTO
// @Router /api/users/profile [get]
func (h *Handler) CurrentProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.GetCurrentProfile(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			rest.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	preferences := make([]string, 0, len(profile.RewardPreferences))
	for _, p := range profile.RewardPreferences {
		preferences = append(preferences, string(p))
	}
	rest.WriteJSON(w, http.StatusOK, ProfileDTO{
		UserDTO:           userToDTO(profile.User),
		Points:            profile.Points,
		AllocationPoints:  profile.AllocationPoints,
		RewardPreferences: preferences,
	})
}

func (h *Handler) GetPoints(w http.ResponseWriter, r *http.Request) {
	current, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			rest.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get points")
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]int{"points": current.Points})
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var dto preferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if err := validate.Struct(dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid reward preferences")
		return
	}

	preferences := make([]RewardPreference, 0, len(dto.RewardPreferences))
	for _, p := range dto.RewardPreferences {
		preferences = append(preferences, RewardPreference(p))
	}
	if err := h.userService.UpdatePreferences(r.Context(), preferences); err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto accepts a multipart form with an "image" part and replaces the
// current user's profile photo.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Missing image")
		return
	}
	defer file.Close()

	photo, err := io.ReadAll(file)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Failed to read image")
		return
	}
	if err := h.userService.StoreUserPhoto(r.Context(), photo); err != nil {
		log.Errorf("failed to store user photo: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	photo, err := h.userService.GetUserPhoto(r.Context(), uid)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get photo")
		return
	}
	if photo == nil {
		rest.WriteError(w, http.StatusNotFound, "Photo not found")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(photo); err != nil {
		log.Errorf("failed to write photo response: %v", err)
	}
}

func userToDTO(u User) UserDTO {
	return UserDTO{
		Id:           u.Uid,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Department:   u.Department,
		EmployeeType: u.EmployeeType,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}
