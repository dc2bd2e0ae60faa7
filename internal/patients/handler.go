package patients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// ReferenceChecker reports whether other records still point at a patient.
// The appointments repository implements it.
type ReferenceChecker interface {
	HasActiveForPatient(ctx context.Context, patientID string) (bool, error)
}

// Handler handles HTTP requests for patients.
type Handler struct {
	repo   Repository
	refs   ReferenceChecker
	logger *logging.Logger
}

// NewHandler creates a new patients handler. refs may be nil, in which case
// deletes are never blocked.
func NewHandler(repo Repository, refs ReferenceChecker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, refs: refs, logger: logger}
}

// ListResponse is the response for listing patients.
type ListResponse struct {
	Patients []*Patient `json:"patients"`
	Count    int        `json:"count"`
}

// List handles GET /admin/patients?search=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Search: r.URL.Query().Get("search")}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list patients")
		return
	}

	respond.JSON(w, http.StatusOK, ListResponse{Patients: list, Count: len(list)})
}

// Get handles GET /admin/patients/{patientID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}

	respond.JSON(w, http.StatusOK, p)
}

// Create handles POST /admin/patients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		respond.BadRequest(w, err)
		return
	}

	h.logger.Info("patient created", "id", p.ID, "name", p.FullName())
	respond.JSON(w, http.StatusCreated, p)
}

// Update handles PUT /admin/patients/{patientID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")

	var req UpsertPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		respond.BadRequest(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, p)
}

// Delete handles DELETE /admin/patients/{patientID}. Deletion is refused
// while the patient still has scheduled or confirmed appointments; history
// (completed, cancelled, no-show) does not block.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")

	if h.refs != nil {
		active, err := h.refs.HasActiveForPatient(r.Context(), id)
		if err != nil {
			h.logger.Error("failed to check patient references", "error", err, "id", id)
			respond.Error(w, http.StatusInternalServerError, "failed to delete patient")
			return
		}
		if active {
			respond.Error(w, http.StatusConflict, ErrReferenced.Error())
			return
		}
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}

	h.logger.Info("patient deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
