package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	authService auth.Service
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with its dependencies.
func NewAuthHandler(authService auth.Service, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
		logger:      log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	var req RegisterRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusBadRequest, formatValidationErrors(err), err)
		return
	}

	result, err := h.authService.Register(ctx, req.Username, req.Password)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Info("user registered",
		slog.Int64("user_id", result.UserID),
		slog.String("username", result.Username))

	shared.RespondWithJSON(w, r, http.StatusCreated, authResultToResponse(result))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	var req LoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Struct(req); err != nil {
		// A malformed login still answers with the uniform credentials
		// message so the response shape cannot be used to probe accounts.
		shared.RespondWithErrorAndLog(
			w, r, http.StatusUnauthorized, "Invalid credentials", err)
		return
	}

	result, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Info("user logged in", slog.Int64("user_id", result.UserID))

	shared.RespondWithJSON(w, r, http.StatusOK, authResultToResponse(result))
}

// RefreshToken handles POST /api/auth/refresh.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	var req RefreshTokenRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusBadRequest, formatValidationErrors(err), err)
		return
	}

	result, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("token refreshed", slog.Int64("user_id", result.UserID))

	shared.RespondWithJSON(w, r, http.StatusOK, authResultToResponse(result))
}

// authResultToResponse converts an auth service result into the API response.
func authResultToResponse(result *auth.AuthResult) AuthResponse {
	return AuthResponse{
		UserID:       result.UserID,
		Username:     result.Username,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
