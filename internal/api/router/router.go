package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dentalcenter/practice-api/internal/appointments"
	"github.com/dentalcenter/practice-api/internal/auth"
	"github.com/dentalcenter/practice-api/internal/calendar"
	"github.com/dentalcenter/practice-api/internal/dashboard"
	httpmiddleware "github.com/dentalcenter/practice-api/internal/http/middleware"
	"github.com/dentalcenter/practice-api/internal/incidents"
	"github.com/dentalcenter/practice-api/internal/invoices"
	"github.com/dentalcenter/practice-api/internal/observability/metrics"
	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/internal/portal"
	"github.com/dentalcenter/practice-api/internal/staff"
	"github.com/dentalcenter/practice-api/internal/treatments"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	AuthService *auth.Service
	AuthHandler *auth.Handler

	PatientsHandler     *patients.Handler
	AppointmentsHandler *appointments.Handler
	TreatmentsHandler   *treatments.Handler
	StaffHandler        *staff.Handler
	InvoicesHandler     *invoices.Handler
	IncidentsHandler    *incidents.Handler
	CalendarHandler     *calendar.Handler
	DashboardHandler    *dashboard.Handler
	PortalHandler       *portal.Handler

	HTTPMetrics        *metrics.HTTPMetrics
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.HTTPMetrics != nil {
		r.Use(httpmiddleware.Metrics(cfg.HTTPMetrics))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/me", cfg.AuthHandler.Me)
			r.Post("/forgot-password", cfg.AuthHandler.ForgotPassword)
			r.Post("/reset-password", cfg.AuthHandler.ResetPassword)
		})
	})

	// Admin dashboard: everything behind an admin session.
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.SessionAuth(cfg.AuthService))
		admin.Use(httpmiddleware.RequireRole(auth.RoleAdmin))

		admin.Get("/dashboard", cfg.DashboardHandler.Overview)
		admin.Get("/calendar", cfg.CalendarHandler.Grid)

		admin.Route("/patients", func(r chi.Router) {
			r.Get("/", cfg.PatientsHandler.List)
			r.Post("/", cfg.PatientsHandler.Create)
			r.Get("/{patientID}", cfg.PatientsHandler.Get)
			r.Put("/{patientID}", cfg.PatientsHandler.Update)
			r.Delete("/{patientID}", cfg.PatientsHandler.Delete)
		})

		admin.Route("/appointments", func(r chi.Router) {
			r.Get("/", cfg.AppointmentsHandler.List)
			r.Post("/", cfg.AppointmentsHandler.Create)
			r.Get("/{appointmentID}", cfg.AppointmentsHandler.Get)
			r.Put("/{appointmentID}", cfg.AppointmentsHandler.Update)
			r.Post("/{appointmentID}/confirm", cfg.AppointmentsHandler.Confirm)
			r.Post("/{appointmentID}/complete", cfg.AppointmentsHandler.Complete)
			r.Post("/{appointmentID}/cancel", cfg.AppointmentsHandler.Cancel)
			r.Post("/{appointmentID}/no-show", cfg.AppointmentsHandler.NoShow)
		})

		admin.Route("/treatments", func(r chi.Router) {
			r.Get("/", cfg.TreatmentsHandler.List)
			r.Post("/", cfg.TreatmentsHandler.Create)
			r.Get("/{treatmentID}", cfg.TreatmentsHandler.Get)
			r.Put("/{treatmentID}", cfg.TreatmentsHandler.Update)
			r.Post("/{treatmentID}/start", cfg.TreatmentsHandler.Start)
			r.Post("/{treatmentID}/complete", cfg.TreatmentsHandler.Complete)
			r.Patch("/{treatmentID}/status", cfg.TreatmentsHandler.SetStatus)
		})

		admin.Route("/staff", func(r chi.Router) {
			r.Get("/", cfg.StaffHandler.List)
			r.Post("/", cfg.StaffHandler.Create)
			r.Get("/{memberID}", cfg.StaffHandler.Get)
			r.Put("/{memberID}", cfg.StaffHandler.Update)
		})

		admin.Route("/invoices", func(r chi.Router) {
			r.Get("/", cfg.InvoicesHandler.List)
			r.Get("/summary", cfg.InvoicesHandler.Summary)
			r.Post("/", cfg.InvoicesHandler.Create)
			r.Get("/{invoiceID}", cfg.InvoicesHandler.Get)
			r.Put("/{invoiceID}", cfg.InvoicesHandler.Update)
			r.Post("/{invoiceID}/pay", cfg.InvoicesHandler.MarkPaid)
			r.Post("/{invoiceID}/overdue", cfg.InvoicesHandler.MarkOverdue)
		})

		admin.Route("/incidents", func(r chi.Router) {
			r.Get("/", cfg.IncidentsHandler.List)
			r.Post("/", cfg.IncidentsHandler.Create)
			r.Get("/{incidentID}", cfg.IncidentsHandler.Get)
			r.Put("/{incidentID}", cfg.IncidentsHandler.Update)
			r.Patch("/{incidentID}/status", cfg.IncidentsHandler.SetStatus)
			r.Post("/{incidentID}/files", cfg.IncidentsHandler.UploadFile)
			r.Get("/{incidentID}/files/{fileID}", cfg.IncidentsHandler.DownloadFile)
			r.Delete("/{incidentID}/files/{fileID}", cfg.IncidentsHandler.DeleteFile)
		})
	})

	// Patient portal: patient-role sessions only.
	r.Route("/portal", func(p chi.Router) {
		p.Use(httpmiddleware.SessionAuth(cfg.AuthService))
		p.Use(httpmiddleware.RequireRole(auth.RolePatient))

		p.Get("/dashboard", cfg.PortalHandler.Dashboard)
		p.Post("/appointments", cfg.PortalHandler.Book)
	})

	return r
}
