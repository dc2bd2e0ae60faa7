package portal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/internal/appointments"
	"github.com/dentalcenter/practice-api/internal/http/middleware"
	"github.com/dentalcenter/practice-api/internal/observability/metrics"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Handler serves the patient portal. All routes run behind SessionAuth with
// the patient role.
type Handler struct {
	service *Service
	logger  *logging.Logger
	metrics *metrics.HTTPMetrics
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// WithMetrics records booking outcomes on the given collector.
func (h *Handler) WithMetrics(m *metrics.HTTPMetrics) *Handler {
	h.metrics = m
	return h
}

// Dashboard handles GET /portal/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	dash, err := h.service.Dashboard(r.Context(), profile)
	if err != nil {
		if errors.Is(err, ErrNoPatientRecord) {
			respond.Error(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to build portal dashboard", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	respond.JSON(w, http.StatusOK, dash)
}

// Book handles POST /portal/appointments
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req appointments.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.service.Book(r.Context(), profile, &req)
	h.metrics.ObserveBooking("portal", err == nil)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoPatientRecord):
			respond.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, appointments.ErrPastDate):
			respond.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, appointments.ErrUnknownPatient), errors.Is(err, appointments.ErrUnknownDentist):
			respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		default:
			respond.BadRequest(w, err)
		}
		return
	}

	respond.JSON(w, http.StatusCreated, a)
}
