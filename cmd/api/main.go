package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dentalcenter/practice-api/cmd/mainconfig"
	"github.com/dentalcenter/practice-api/internal/api/router"
	"github.com/dentalcenter/practice-api/internal/app/bootstrap"
	"github.com/dentalcenter/practice-api/internal/appointments"
	"github.com/dentalcenter/practice-api/internal/auth"
	"github.com/dentalcenter/practice-api/internal/calendar"
	"github.com/dentalcenter/practice-api/internal/civil"
	appconfig "github.com/dentalcenter/practice-api/internal/config"
	"github.com/dentalcenter/practice-api/internal/dashboard"
	"github.com/dentalcenter/practice-api/internal/fixtures"
	"github.com/dentalcenter/practice-api/internal/incidents"
	"github.com/dentalcenter/practice-api/internal/invoices"
	"github.com/dentalcenter/practice-api/internal/notify"
	"github.com/dentalcenter/practice-api/internal/observability/metrics"
	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/internal/portal"
	"github.com/dentalcenter/practice-api/internal/staff"
	"github.com/dentalcenter/practice-api/internal/treatments"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err == nil {
		fmt.Println("loaded configuration from .env")
	}

	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dental practice API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := auth.NewInMemoryUserRepository()
	patientRepo := patients.NewInMemoryRepository()
	staffRepo := staff.NewInMemoryRepository()
	apptRepo := appointments.NewInMemoryRepository()
	treatmentRepo := treatments.NewInMemoryRepository()
	invoiceRepo := invoices.NewInMemoryRepository()
	incidentRepo := incidents.NewInMemoryRepository()

	if cfg.SeedDemoData {
		data := fixtures.Demo(civil.Today())
		if err := fixtures.Seed(ctx, data, fixtures.Repos{
			Users:        userRepo,
			Patients:     patientRepo,
			Staff:        staffRepo,
			Appointments: apptRepo,
			Treatments:   treatmentRepo,
			Invoices:     invoiceRepo,
			Incidents:    incidentRepo,
		}); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
		logger.Info("demo data seeded",
			"patients", len(data.Patients),
			"appointments", len(data.Appointments),
		)
	}

	// Backend selection: sessions, file storage, outbound email
	sessionStore := bootstrap.BuildSessionStore(ctx, cfg, logger)
	fileStore := bootstrap.BuildFileStore(cfg, awsCfg, logger)
	mailer := notify.NewMailer(bootstrap.BuildEmailSender(cfg, awsCfg, logger), logger)

	jwtSecret := cfg.SessionJWTSecret
	if jwtSecret == "" {
		logger.Warn("SESSION_JWT_SECRET not set, sessions will not survive restarts")
		jwtSecret = fmt.Sprintf("dev-only-%d", time.Now().UnixNano())
	}

	// Initialize services
	authService := auth.NewService(userRepo, sessionStore, mailer, auth.Config{
		JWTSecret:    jwtSecret,
		TokenTTL:     cfg.SessionTTL,
		Delay:        cfg.LoginDelay,
		ResetBaseURL: cfg.PasswordResetBase,
	}, logger)
	apptService := appointments.NewService(apptRepo, patientRepo, staffRepo, logger)
	treatmentService := treatments.NewService(treatmentRepo, patientRepo, staffRepo, logger)
	invoiceService := invoices.NewService(invoiceRepo, patientRepo, cfg.InvoiceTaxRate, logger)
	incidentService := incidents.NewService(incidentRepo, patientRepo, staffRepo, fileStore, logger)
	dashboardService := dashboard.NewService(patientRepo, apptRepo, treatmentRepo, invoiceRepo, logger)
	portalService := portal.NewService(patientRepo, apptRepo, apptService, treatmentRepo, invoiceRepo, logger).WithMailer(mailer)

	httpMetrics := metrics.NewHTTPMetrics(nil)

	// Setup router
	routerCfg := &router.Config{
		Logger:              logger,
		AuthService:         authService,
		AuthHandler:         auth.NewHandler(authService, logger).WithMetrics(httpMetrics),
		PatientsHandler:     patients.NewHandler(patientRepo, apptRepo, logger),
		AppointmentsHandler: appointments.NewHandler(apptService, apptRepo, logger).WithMetrics(httpMetrics),
		TreatmentsHandler:   treatments.NewHandler(treatmentService, treatmentRepo, logger),
		StaffHandler:        staff.NewHandler(staffRepo, logger),
		InvoicesHandler:     invoices.NewHandler(invoiceService, invoiceRepo, logger),
		IncidentsHandler:    incidents.NewHandler(incidentService, incidentRepo, logger),
		CalendarHandler:     calendar.NewHandler(apptRepo, treatmentRepo, logger),
		DashboardHandler:    dashboard.NewHandler(dashboardService, logger),
		PortalHandler:       portal.NewHandler(portalService, logger).WithMetrics(httpMetrics),
		HTTPMetrics:         httpMetrics,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
