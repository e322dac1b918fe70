package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asahq/jira-analytics-backend/internal/adapters/primary/validation"
	"github.com/asahq/jira-analytics-backend/internal/auth"
	apperrors "github.com/asahq/jira-analytics-backend/internal/core/errors"
)

// AuthHandler exchanges the shared dashboard access key for a short-lived
// JWT. There are no user accounts; the key gates the whole dashboard.
type AuthHandler struct {
	accessKey    string
	tokenTTL     int64 // seconds, echoed to the client
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accessKey string, tokenTTLSeconds int64, tokenManager *auth.TokenManager, errorHandler *ErrorHandler, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accessKey:    accessKey,
		tokenTTL:     tokenTTLSeconds,
		tokenManager: tokenManager,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// RegisterRoutes sets up the routing for the auth endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/token", h.HandleIssueToken)
}

// TokenRequest defines the expected JSON body for requesting a token
type TokenRequest struct {
	AccessKey string `json:"accessKey"`
}

// Validate validates the token request
func (r *TokenRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("accessKey", r.AccessKey)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// TokenResponse is the issued token and its lifetime
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// HandleIssueToken handles POST /auth/token
func (h *AuthHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[TokenRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.AccessKey), []byte(h.accessKey)) != 1 {
		h.errorHandler.Handle(w, r, apperrors.ErrInvalidAccessKey)
		return
	}

	token, err := h.tokenManager.GenerateToken()
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewInternalError(err))
		return
	}

	h.logger.Info("dashboard token issued", "request_id", GetRequestID(r.Context()))

	WriteJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresIn: h.tokenTTL,
	})
}
