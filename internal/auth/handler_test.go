package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalcenter/practice-api/internal/observability/metrics"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

func newTestHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	svc, _, _ := newTestService(t)
	return NewHandler(svc, logging.Default()), svc
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestHandlerLogin(t *testing.T) {
	h, _ := newTestHandler(t)

	w := postJSON(t, h.Login, loginRequest{Email: "admin@dentalcenter.com", Password: "admin123"})
	require.Equal(t, http.StatusOK, w.Code)

	var session Session
	require.NoError(t, json.NewDecoder(w.Body).Decode(&session))
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, RoleAdmin, session.Profile.Role)

	// The JSON must not leak the password field in any shape.
	assert.NotContains(t, w.Body.String(), "password")
}

func TestHandlerLoginInvalidCredentials(t *testing.T) {
	h, _ := newTestHandler(t)

	w := postJSON(t, h.Login, loginRequest{Email: "admin@dentalcenter.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestHandlerLoginBadJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.Login(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerRegisterConflict(t *testing.T) {
	h, _ := newTestHandler(t)

	w := postJSON(t, h.Register, RegisterRequest{
		FirstName: "Dup",
		LastName:  "User",
		Email:     "patient@example.com",
		Password:  "pw",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandlerRegisterAndMe(t *testing.T) {
	h, _ := newTestHandler(t)

	w := postJSON(t, h.Register, RegisterRequest{
		FirstName: "Fresh",
		LastName:  "Face",
		Email:     "fresh@example.com",
		Password:  "pw",
		Role:      RolePatient,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var session Session
	require.NoError(t, json.NewDecoder(w.Body).Decode(&session))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	me := httptest.NewRecorder()
	h.Me(me, req)
	require.Equal(t, http.StatusOK, me.Code)

	var profile Profile
	require.NoError(t, json.NewDecoder(me.Body).Decode(&profile))
	assert.Equal(t, "fresh@example.com", profile.Email)
}

func TestHandlerMeUnauthorized(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	h.Me(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	h.Me(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlerLogout(t *testing.T) {
	h, svc := newTestHandler(t)

	session, err := svc.Login(context.Background(), "patient@example.com", "patient123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	h.Logout(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err = svc.Resolve(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHandlerForgotPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	w := postJSON(t, h.ForgotPassword, forgotPasswordRequest{Email: "patient@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, h.ForgotPassword, forgotPasswordRequest{Email: "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No account found")
}

func TestHandlerResetPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	w := postJSON(t, h.ResetPassword, resetPasswordRequest{Token: "anything", Password: "newpw"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestHandlerLoginCountsOutcomes(t *testing.T) {
	h, _ := newTestHandler(t)
	reg := prometheus.NewRegistry()
	h.WithMetrics(metrics.NewHTTPMetrics(reg))

	postJSON(t, h.Login, loginRequest{Email: "admin@dentalcenter.com", Password: "admin123"})
	postJSON(t, h.Login, loginRequest{Email: "admin@dentalcenter.com", Password: "nope"})
	postJSON(t, h.Login, loginRequest{Email: "ghost@example.com", Password: "nope"})

	assert.Equal(t, 1.0, counterValue(t, reg, "dental_auth_logins_total", map[string]string{"outcome": "success"}))
	assert.Equal(t, 2.0, counterValue(t, reg, "dental_auth_logins_total", map[string]string{"outcome": "failure"}))
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
