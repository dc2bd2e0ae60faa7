package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/observability/metrics"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	service *Service
	repo    Repository
	logger  *logging.Logger
	metrics *metrics.HTTPMetrics
}

// NewHandler creates a new appointments handler.
func NewHandler(service *Service, repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, repo: repo, logger: logger}
}

// WithMetrics records booking outcomes on the given collector.
func (h *Handler) WithMetrics(m *metrics.HTTPMetrics) *Handler {
	h.metrics = m
	return h
}

// ListResponse is the response for listing appointments.
type ListResponse struct {
	Appointments []*Appointment `json:"appointments"`
	Count        int            `json:"count"`
}

// List handles GET /admin/appointments?search=...&status=...&date=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Search:      q.Get("search"),
		Status:      Status(q.Get("status")),
		DentistName: q.Get("dentist"),
	}
	if ds := q.Get("date"); ds != "" {
		d, err := civil.Parse(ds)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
			return
		}
		filter.Date = &d
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}

	respond.JSON(w, http.StatusOK, ListResponse{Appointments: list, Count: len(list)})
}

// Get handles GET /admin/appointments/{appointmentID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

// Create handles POST /admin/appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.service.Book(r.Context(), &req)
	h.metrics.ObserveBooking("admin", err == nil)
	if err != nil {
		h.writeBookError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, a)
}

// Update handles PUT /admin/appointments/{appointmentID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.service.Update(r.Context(), chi.URLParam(r, "appointmentID"), &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		h.writeBookError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, a)
}

// Confirm handles POST /admin/appointments/{appointmentID}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, StatusConfirmed)
}

// Complete handles POST /admin/appointments/{appointmentID}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, StatusCompleted)
}

// Cancel handles POST /admin/appointments/{appointmentID}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, StatusCancelled)
}

// NoShow handles POST /admin/appointments/{appointmentID}/no-show
func (h *Handler) NoShow(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, StatusNoShow)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status Status) {
	a, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "appointmentID"), status)
	if err != nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

func (h *Handler) writeBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPastDate):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnknownPatient), errors.Is(err, ErrUnknownDentist):
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respond.BadRequest(w, err)
	}
}
