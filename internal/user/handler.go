package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"authservice/internal/httputil"
	"authservice/internal/logging"
)

// Handler contains HTTP handlers for profile and user query endpoints
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	ID          uuid.UUID `json:"id"`
	UserName    string    `json:"userName"`
	FirstName   *string   `json:"firstName,omitempty"`
	LastName    *string   `json:"lastName,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
}

// GetAllUsers lists all user profiles
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200 {array} Profile
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/auth/users [get]
func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	profiles, err := h.service.GetAll(r.Context())
	if err != nil {
		logger.Error("failed to list users", "error", err.Error())
		httputil.RespondError(w, "failed to list users", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, profiles, http.StatusOK)
}

// GetUserByID returns one user profile by id
// @Summary      Get user by id
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorResponse "Invalid id"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Security     BearerAuth
// @Router       /api/auth/users/{id} [get]
func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "invalid user id", httputil.CodeBusinessRule, http.StatusBadRequest)
		return
	}

	profile, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, logger, err)
		return
	}

	httputil.RespondJSON(w, profile, http.StatusOK)
}

// GetUserByUserName returns one user profile by username
// @Summary      Get user by username
// @Tags         users
// @Produce      json
// @Param        username path string true "Username"
// @Success      200 {object} Profile
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Security     BearerAuth
// @Router       /api/auth/users/username/{username} [get]
func (h *Handler) GetUserByUserName(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	profile, err := h.service.GetByUserName(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.respondLookupError(w, logger, err)
		return
	}

	httputil.RespondJSON(w, profile, http.StatusOK)
}

// GetUserByEmail returns one user profile by email
// @Summary      Get user by email
// @Tags         users
// @Produce      json
// @Param        email path string true "Email"
// @Success      200 {object} Profile
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Security     BearerAuth
// @Router       /api/auth/users/email/{email} [get]
func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	profile, err := h.service.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.respondLookupError(w, logger, err)
		return
	}

	httputil.RespondJSON(w, profile, http.StatusOK)
}

// UpdateProfile replaces the caller-supplied profile fields
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      204
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/auth/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile update request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", httputil.CodeBusinessRule, http.StatusBadRequest)
		return
	}

	err := h.service.UpdateProfile(r.Context(), req.ID, UpdateProfileParams{
		UserName:    req.UserName,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, ErrUserNameRequired) {
			httputil.RespondError(w, err.Error(), httputil.CodeBusinessRule, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("profile update failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to update profile", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser removes an account
// @Summary      Delete user
// @Tags         users
// @Param        id path string true "User ID"
// @Success      204
// @Failure      400 {object} httputil.ErrorResponse "Invalid id"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/auth/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "invalid user id", httputil.CodeBusinessRule, http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("user delete failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to delete user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, logger *logging.Logger, err error) {
	if errors.Is(err, ErrNotFound) {
		httputil.RespondError(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
		return
	}
	logger.Error("user lookup failed: internal error", "error", err.Error())
	httputil.RespondError(w, "failed to get user", httputil.CodeInternalError, http.StatusInternalServerError)
}
