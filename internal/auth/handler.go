package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"authservice/internal/httputil"
	"authservice/internal/logging"
	"authservice/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	UserName        string `json:"userName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	ID           uuid.UUID `json:"id"`
	RefreshToken string    `json:"refreshToken"`
}

// LogoutRequest represents the logout request body
type LogoutRequest struct {
	Email string `json:"email"`
}

// ChangePasswordRequest represents the password change request body
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// ForgotPasswordRequest represents the forgot-password request body
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the reset-password request body
type ResetPasswordRequest struct {
	Email              string `json:"email"`
	ResetToken         string `json:"resetToken"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// MessageResponse is a simple confirmation payload
type MessageResponse struct {
	Message string `json:"message"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new user account with username, email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration payload"
// @Success      201 {object} user.Profile
// @Failure      400 {object} httputil.ErrorResponse "Validation error or email taken"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", httputil.CodeBusinessRule, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, err := h.service.Register(r.Context(), req.UserName, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		if errors.Is(err, ErrWeakPassword) {
			logger.Warn("registration failed: weak password")
			httputil.RespondError(w, err.Error(), httputil.CodeWeakPassword, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrEmailTaken) {
			logger.Warn("registration failed: email already taken")
			httputil.RespondError(w, err.Error(), httputil.CodeBusinessRule, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrFieldsRequired) || errors.Is(err, ErrPasswordMismatch) || errors.Is(err, ErrInvalidEmailFormat) {
			logger.Warn("registration failed: validation error", "error", err.Error())
			httputil.RespondError(w, err.Error(), httputil.CodeBusinessRule, http.StatusBadRequest)
			return
		}
		logger.Error("registration failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to register user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)
	httputil.RespondJSON(w, newUser.ToProfile(), http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate user and receive access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} TokenPair
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", httputil.CodeBusinessRule, http.StatusBadRequest)
		return
	}

	tokens, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondError(w, "invalid email or password", httputil.CodeUnauthorized, http.StatusUnauthorized)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to login", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in successfully")
	httputil.RespondJSON(w, tokens, http.StatusOK)
}

// Refresh handles refresh token rotation
// @Summary      Refresh tokens
// @Description  Exchange a valid refresh token for a new access/refresh pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "User id and refresh token"
// @Success      200 {object} TokenPair
// @Failure      400 {object} httputil.ErrorResponse "Refresh token missing"
// @Failure      401 {object} httputil.ErrorResponse "Invalid or expired refresh token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid refresh request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", httputil.CodeBusinessRule, http.StatusBadRequest)
		return
	}

	if req.RefreshToken == "" {
		httputil.RespondError(w, "refresh token is required", httputil.CodeRefreshTokenRequired, http.StatusBadRequest)
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenRequired) {
			httputil.RespondError(w, "refresh token is required", httputil.CodeRefreshTokenRequired, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrRefreshTokenInvalid) || errors.Is(err, ErrRefreshTokenExpired) {
			logger.Warn("refresh failed", "error", err.Error())
			httputil.RespondError(w, err.Error(), httputil.CodeUnauthorized, http.StatusUnauthorized)
			return
		}
		logger.Error("refresh failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to refresh tokens", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, tokens, http.StatusOK)
}

// Logout handles session termination
// @Summary      User logout
// @Description  Clear the stored refresh token. Idempotent.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest true "Account email"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid logout request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", httputil.CodeBusinessRule, http.StatusBadRequest)
		return
	}

	if err := h.service.Logout(r.Context(), req.Email); err != nil {
		logger.Error("logout failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to logout", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, MessageResponse{Message: "logged out successfully"}, http.StatusOK)
}

// ChangePassword handles password change for the authenticated user
// @Summary      Change password
// @Description  Replace the current password after verifying it
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Password change payload"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Current password incorrect or session invalid"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/auth/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "invalid session, please sign in again", httputil.CodeInvalidSession, http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid change-password request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", httputil.CodeBusinessRule, http.StatusBadRequest)
		return
	}

	err := h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		if errors.Is(err, ErrWeakPassword) {
			httputil.RespondError(w, err.Error(), httputil.CodeWeakPassword, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrFieldsRequired) || errors.Is(err, ErrPasswordMismatch) {
			httputil.RespondError(w, err.Error(), httputil.CodeBusinessRule, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrCurrentPassword) {
			logger.Warn("change-password failed: current password incorrect", "user_id", userID)
			httputil.RespondError(w, err.Error(), httputil.CodeUnauthorized, http.StatusUnauthorized)
			return
		}
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondError(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("change-password failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to change password", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, MessageResponse{Message: "password updated successfully"}, http.StatusOK)
}

// ForgotPassword starts the password reset flow
// @Summary      Forgot password
// @Description  Issue a reset token. The response is identical whether or not the account exists.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Account email"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Router       /api/auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid forgot-password request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", httputil.CodeBusinessRule, http.StatusBadRequest)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, ErrFieldsRequired) {
			httputil.RespondError(w, err.Error(), httputil.CodeBusinessRule, http.StatusBadRequest)
			return
		}
		logger.Error("forgot-password failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to process request", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	// Deliberately neutral: never reveals whether the account exists
	httputil.RespondJSON(w, MessageResponse{Message: "if an account exists for this email, a reset message has been sent"}, http.StatusOK)
}

// ResetPassword completes the password reset flow
// @Summary      Reset password
// @Description  Consume a reset token and set a new password. Tokens are single-use.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset payload"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Reset token invalid or expired"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reset-password request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", httputil.CodeBusinessRule, http.StatusBadRequest)
		return
	}

	err := h.service.ResetPassword(r.Context(), req.Email, req.ResetToken, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		if errors.Is(err, ErrWeakPassword) {
			httputil.RespondError(w, err.Error(), httputil.CodeWeakPassword, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrFieldsRequired) || errors.Is(err, ErrPasswordMismatch) {
			httputil.RespondError(w, err.Error(), httputil.CodeBusinessRule, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrResetTokenInvalid) {
			logger.Warn("reset-password failed: invalid or expired token")
			httputil.RespondError(w, err.Error(), httputil.CodeUnauthorized, http.StatusUnauthorized)
			return
		}
		logger.Error("reset-password failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to reset password", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, MessageResponse{Message: "password reset successfully, you can now sign in"}, http.StatusOK)
}
