package staff

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Handler handles HTTP requests for the staff roster.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new staff handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListResponse is the response for listing staff.
type ListResponse struct {
	Staff []*Member `json:"staff"`
	Count int       `json:"count"`
}

// List handles GET /admin/staff?search=...&role=...&status=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Search: q.Get("search"),
		Role:   Role(q.Get("role")),
		Status: Status(q.Get("status")),
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list staff", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list staff")
		return
	}

	respond.JSON(w, http.StatusOK, ListResponse{Staff: list, Count: len(list)})
}

// Get handles GET /admin/staff/{staffID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "staffID"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

// Create handles POST /admin/staff
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		respond.BadRequest(w, err)
		return
	}

	h.logger.Info("staff member created", "id", m.ID, "role", m.Role)
	respond.JSON(w, http.StatusCreated, m)
}

// Update handles PUT /admin/staff/{staffID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpsertMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.repo.Update(r.Context(), chi.URLParam(r, "staffID"), &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		respond.BadRequest(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, m)
}
