package calendar

import (
	"net/http"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/internal/appointments"
	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/treatments"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Handler serves the schedule view: the computed grid with each day's
// appointments and treatments attached.
type Handler struct {
	appointments appointments.Repository
	treatments   treatments.Repository
	logger       *logging.Logger
}

func NewHandler(apptRepo appointments.Repository, treatmentRepo treatments.Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{appointments: apptRepo, treatments: treatmentRepo, logger: logger}
}

// Cell is one rendered day.
type Cell struct {
	Date         civil.Date                  `json:"date"`
	InMonth      bool                        `json:"inMonth"`
	IsToday      bool                        `json:"isToday"`
	Appointments []*appointments.Appointment `json:"appointments"`
	Treatments   []*treatments.Treatment     `json:"treatments"`
}

// GridResponse is the full schedule view for one reference date.
type GridResponse struct {
	Mode          ViewMode   `json:"mode"`
	ReferenceDate civil.Date `json:"referenceDate"`
	Prev          civil.Date `json:"prev"`
	Next          civil.Date `json:"next"`
	Cells         []Cell     `json:"cells"`
}

// Grid handles GET /admin/calendar?date=...&mode=month|week&dentist=...
// Omitting date uses today; omitting mode uses month view.
func (h *Handler) Grid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ref := civil.Today()
	if ds := q.Get("date"); ds != "" {
		d, err := civil.Parse(ds)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
			return
		}
		ref = d
	}

	mode := ViewMonth
	switch q.Get("mode") {
	case "", string(ViewMonth):
	case string(ViewWeek):
		mode = ViewWeek
	default:
		respond.Error(w, http.StatusBadRequest, "mode must be month or week")
		return
	}
	dentist := q.Get("dentist")

	days := Grid(ref, mode)
	cells := make([]Cell, 0, len(days))
	for _, day := range days {
		appts, err := h.appointments.List(r.Context(), appointments.ListFilter{Date: &day, DentistName: dentist})
		if err != nil {
			h.logger.Error("failed to load calendar appointments", "error", err)
			respond.Error(w, http.StatusInternalServerError, "failed to load schedule")
			return
		}
		treats, err := h.treatments.List(r.Context(), treatments.ListFilter{Date: &day, DentistName: dentist})
		if err != nil {
			h.logger.Error("failed to load calendar treatments", "error", err)
			respond.Error(w, http.StatusInternalServerError, "failed to load schedule")
			return
		}
		cells = append(cells, Cell{
			Date:         day,
			InMonth:      mode == ViewWeek || InMonth(day, ref),
			IsToday:      IsToday(day, nil),
			Appointments: appts,
			Treatments:   treats,
		})
	}

	respond.JSON(w, http.StatusOK, GridResponse{
		Mode:          mode,
		ReferenceDate: ref,
		Prev:          Navigate(ref, mode, false),
		Next:          Navigate(ref, mode, true),
		Cells:         cells,
	})
}
