package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/internal/observability/metrics"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Handler exposes the session operations over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
	metrics *metrics.HTTPMetrics
}

// NewHandler creates the auth handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// WithMetrics records login outcomes on the given collector.
func (h *Handler) WithMetrics(m *metrics.HTTPMetrics) *Handler {
	h.metrics = m
	return h
}

// User-facing copies of the auth sentinels, worded exactly as the login and
// password forms display them.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "User with this email already exists"
	msgUnknownEmail       = "No account found with this email address"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	h.metrics.ObserveLogin(err == nil)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		h.logger.Error("login failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, session)
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(w, http.StatusConflict, msgEmailTaken)
		case errors.Is(err, ErrMissingFields):
			respond.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("register failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	respond.JSON(w, http.StatusCreated, session)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.service.Logout(r.Context(), token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me, returning the profile behind the bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		respond.Error(w, http.StatusUnauthorized, "missing authorization header")
		return
	}

	profile, err := h.service.Resolve(r.Context(), token)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	respond.JSON(w, http.StatusOK, profile)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /auth/forgot-password.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, ErrUnknownEmail) {
			respond.Error(w, http.StatusNotFound, msgUnknownEmail)
			return
		}
		h.logger.Error("forgot password failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword handles POST /auth/reset-password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		h.logger.Error("reset password failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authz, "Bearer ")
}
