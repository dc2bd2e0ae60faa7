package treatments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Handler handles HTTP requests for treatments.
type Handler struct {
	service *Service
	repo    Repository
	logger  *logging.Logger
}

// NewHandler creates a new treatments handler.
func NewHandler(service *Service, repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, repo: repo, logger: logger}
}

// ListResponse is the response for listing treatments.
type ListResponse struct {
	Treatments []*Treatment `json:"treatments"`
	Count      int          `json:"count"`
}

// List handles GET /admin/treatments?search=...&status=...&date=...
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
		h.logger.Error("failed to list treatments", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list treatments")
		return
	}

	respond.JSON(w, http.StatusOK, ListResponse{Treatments: list, Count: len(list)})
}

// Get handles GET /admin/treatments/{treatmentID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "treatmentID"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

// Create handles POST /admin/treatments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertTreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeUpsertError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, t)
}

// Update handles PUT /admin/treatments/{treatmentID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpsertTreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.service.Update(r.Context(), chi.URLParam(r, "treatmentID"), &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		h.writeUpsertError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, t)
}

// Start handles POST /admin/treatments/{treatmentID}/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, StatusInProgress)
}

// Complete handles POST /admin/treatments/{treatmentID}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, StatusCompleted)
}

// SetStatus handles PATCH /admin/treatments/{treatmentID}/status
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.setStatus(w, r, req.Status)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status Status) {
	t, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "treatmentID"), status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

func (h *Handler) writeUpsertError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownPatient), errors.Is(err, ErrUnknownDentist):
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respond.BadRequest(w, err)
	}
}
