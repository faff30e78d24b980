package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoginRequest represents the admin login payload
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse is returned on successful admin login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// ResetPasswordRequest represents the password change payload
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// AuthHandler handles admin authentication requests
type AuthHandler struct {
	adminService service.AdminService
	logger       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(adminService service.AdminService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers auth routes. The login route gets the rate
// limiter in front of the lockout logic; password reset requires a valid
// admin token.
func (h *AuthHandler) RegisterRoutes(r chi.Router, loginLimiter, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Put("/password", h.ResetPassword)
		})
	})
}

// Login authenticates an admin and returns a JWT access token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, admin, err := h.adminService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid username or password")
		case errors.Is(err, service.ErrAccountLocked):
			h.logger.Warn("Login attempt on locked account", zap.String("username", req.Username))
			middleware.RespondWithError(w, http.StatusLocked, "account is temporarily locked")
		case errors.Is(err, service.ErrAccountInactive):
			middleware.RespondWithError(w, http.StatusForbidden, "account is not active")
		default:
			h.logger.Error("Login failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	h.logger.Info("Admin logged in", zap.String("username", admin.Username))

	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		Username:    admin.Username,
		Role:        admin.Role,
	})
}

// ResetPassword changes the authenticated admin's password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	adminIDStr, ok := middleware.GetAdminID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	adminID, err := uuid.Parse(adminIDStr)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
		return
	}

	var req ResetPasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.adminService.ResetPassword(r.Context(), adminID, req.NewPassword); err != nil {
		h.logger.Error("Failed to reset password", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
