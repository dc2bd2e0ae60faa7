package invoices

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Handler handles HTTP requests for invoices.
type Handler struct {
	service *Service
	repo    Repository
	logger  *logging.Logger
}

// NewHandler creates a new invoices handler.
func NewHandler(service *Service, repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, repo: repo, logger: logger}
}

// ListResponse is the response for listing invoices.
type ListResponse struct {
	Invoices []*Invoice `json:"invoices"`
	Count    int        `json:"count"`
}

// List handles GET /admin/invoices?search=...&status=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Search: q.Get("search"),
		Status: Status(q.Get("status")),
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list invoices", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}

	respond.JSON(w, http.StatusOK, ListResponse{Invoices: list, Count: len(list)})
}

// Summary handles GET /admin/invoices/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.Summarize(r.Context())
	if err != nil {
		h.logger.Error("failed to summarize invoices", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to summarize invoices")
		return
	}
	respond.JSON(w, http.StatusOK, s)
}

// Get handles GET /admin/invoices/{invoiceID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, inv)
}

// Create handles POST /admin/invoices
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeUpsertError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, inv)
}

// Update handles PUT /admin/invoices/{invoiceID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpsertInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.service.Update(r.Context(), chi.URLParam(r, "invoiceID"), &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		h.writeUpsertError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, inv)
}

// MarkPaid handles POST /admin/invoices/{invoiceID}/pay
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, StatusPaid)
}

// MarkOverdue handles POST /admin/invoices/{invoiceID}/overdue
func (h *Handler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, StatusOverdue)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status Status) {
	inv, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "invoiceID"), status)
	if err != nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, inv)
}

func (h *Handler) writeUpsertError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownPatient):
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respond.BadRequest(w, err)
	}
}
