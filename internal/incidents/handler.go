package incidents

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// maxUploadBytes caps a single attachment at 10 MiB.
const maxUploadBytes = 10 << 20

// Handler handles HTTP requests for incidents.
type Handler struct {
	service *Service
	repo    Repository
	logger  *logging.Logger
}

// NewHandler creates a new incidents handler.
func NewHandler(service *Service, repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, repo: repo, logger: logger}
}

// ListResponse is the response for listing incidents.
type ListResponse struct {
	Incidents []*Incident `json:"incidents"`
	Count     int         `json:"count"`
}

// List handles GET /admin/incidents?search=...&status=...&severity=...&category=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Search:   q.Get("search"),
		Status:   Status(q.Get("status")),
		Severity: Severity(q.Get("severity")),
		Category: Category(q.Get("category")),
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list incidents", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list incidents")
		return
	}

	respond.JSON(w, http.StatusOK, ListResponse{Incidents: list, Count: len(list)})
}

// Get handles GET /admin/incidents/{incidentID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	in, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "incidentID"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, in)
}

// Create handles POST /admin/incidents
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeUpsertError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, in)
}

// Update handles PUT /admin/incidents/{incidentID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpsertIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := h.service.Update(r.Context(), chi.URLParam(r, "incidentID"), &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		h.writeUpsertError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, in)
}

// SetStatus handles PATCH /admin/incidents/{incidentID}/status
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "incidentID"), req.Status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, in)
}

// UploadFile handles POST /admin/incidents/{incidentID}/files as a
// multipart form with a single "file" part.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if len(data) > maxUploadBytes {
		respond.Error(w, http.StatusRequestEntityTooLarge, "file exceeds upload limit")
		return
	}

	in, err := h.service.AttachFile(r.Context(), chi.URLParam(r, "incidentID"),
		header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		h.logger.Error("failed to attach file", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	respond.JSON(w, http.StatusCreated, in)
}

// DownloadFile handles GET /admin/incidents/{incidentID}/files/{fileID}
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	f, blob, err := h.service.OpenFile(r.Context(),
		chi.URLParam(r, "incidentID"), chi.URLParam(r, "fileID"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, ErrFileNotFound.Error())
		return
	}

	ct := blob.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Data)
}

// DeleteFile handles DELETE /admin/incidents/{incidentID}/files/{fileID}
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	in, err := h.service.RemoveFile(r.Context(),
		chi.URLParam(r, "incidentID"), chi.URLParam(r, "fileID"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, in)
}

func (h *Handler) writeUpsertError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownPatient), errors.Is(err, ErrUnknownDentist):
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respond.BadRequest(w, err)
	}
}
