package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalcenter/practice-api/internal/appointments"
	"github.com/dentalcenter/practice-api/internal/auth"
	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/http/middleware"
	"github.com/dentalcenter/practice-api/internal/observability/metrics"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

func newPortalRouter(t *testing.T, f *fixture) (http.Handler, *auth.Service) {
	t.Helper()

	userRepo := auth.NewInMemoryUserRepository()
	require.NoError(t, userRepo.Insert(context.Background(), &auth.Credential{
		Profile: auth.Profile{
			ID:        "u-sarah",
			Email:     "sarah.johnson@email.com",
			FirstName: "Sarah",
			LastName:  "Johnson",
			Role:      auth.RolePatient,
		},
		Password: "sarah123",
	}))
	authSvc := auth.NewService(userRepo, auth.NewInMemorySessionStore(), nil, auth.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, nil)

	h := NewHandler(f.svc, logging.Default())
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(authSvc))
		r.Use(middleware.RequireRole(auth.RolePatient))
		r.Get("/portal/dashboard", h.Dashboard)
		r.Post("/portal/appointments", h.Book)
	})
	return r, authSvc
}

func TestHandlerDashboard(t *testing.T) {
	f := newFixture(t)
	router, authSvc := newPortalRouter(t, f)

	session, err := authSvc.Login(context.Background(), "sarah.johnson@email.com", "sarah123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/portal/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var dash Dashboard
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dash))
	assert.Equal(t, f.patient.ID, dash.Patient.ID)
}

func TestHandlerBook(t *testing.T) {
	f := newFixture(t)
	router, authSvc := newPortalRouter(t, f)

	session, err := authSvc.Login(context.Background(), "sarah.johnson@email.com", "sarah123")
	require.NoError(t, err)

	body, _ := json.Marshal(&appointments.BookRequest{
		DentistID: f.dentist.ID,
		Date:      civil.Date{Year: 2024, Month: 12, Day: 30},
		Time:      "09:00",
		Duration:  30,
		Type:      "Checkup",
	})
	req := httptest.NewRequest(http.MethodPost, "/portal/appointments", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var a appointments.Appointment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&a))
	assert.Equal(t, f.patient.ID, a.PatientID)
}

func TestHandlerRequiresSession(t *testing.T) {
	f := newFixture(t)
	router, _ := newPortalRouter(t, f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/portal/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlerBookCountsOutcomes(t *testing.T) {
	f := newFixture(t)
	reg := prometheus.NewRegistry()
	h := NewHandler(f.svc, logging.Default()).WithMetrics(metrics.NewHTTPMetrics(reg))

	book := func(date civil.Date) *httptest.ResponseRecorder {
		body, _ := json.Marshal(&appointments.BookRequest{
			DentistID: f.dentist.ID,
			Date:      date,
			Time:      "11:00",
			Duration:  30,
			Type:      "Cleaning",
		})
		req := httptest.NewRequest(http.MethodPost, "/portal/appointments", bytes.NewReader(body))
		req = req.WithContext(middleware.WithProfile(req.Context(), f.profile))
		w := httptest.NewRecorder()
		h.Book(w, req)
		return w
	}

	require.Equal(t, http.StatusCreated, book(civil.Date{Year: 2024, Month: 12, Day: 30}).Code)
	require.Equal(t, http.StatusBadRequest, book(civil.Date{Year: 2020, Month: 1, Day: 1}).Code)

	assert.Equal(t, 1.0, counterValue(t, reg, "dental_appointments_bookings_total",
		map[string]string{"source": "portal", "outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "dental_appointments_bookings_total",
		map[string]string{"source": "portal", "outcome": "failure"}))
}

// counterValue reads one labeled counter back out of a registry.
func counterValue(t *testing.T, g prometheus.Gatherer, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := g.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	metric:
		for _, m := range fam.GetMetric() {
			for k, v := range labels {
				matched := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						matched = true
					}
				}
				if !matched {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
