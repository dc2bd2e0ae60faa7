package dashboard

import (
	"net/http"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Handler serves the admin dashboard overview.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Overview handles GET /admin/dashboard
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	respond.JSON(w, http.StatusOK, ov)
}
