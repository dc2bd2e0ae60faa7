package treatments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalcenter/practice-api/pkg/logging"
)

func newTestRouter(t *testing.T) (http.Handler, *Service, *UpsertTreatmentRequest) {
	t.Helper()
	svc, repo, p, d := newTestService(t)
	h := NewHandler(svc, repo, logging.Default())

	r := chi.NewRouter()
	r.Get("/admin/treatments", h.List)
	r.Post("/admin/treatments", h.Create)
	r.Get("/admin/treatments/{treatmentID}", h.Get)
	r.Put("/admin/treatments/{treatmentID}", h.Update)
	r.Post("/admin/treatments/{treatmentID}/start", h.Start)
	r.Post("/admin/treatments/{treatmentID}/complete", h.Complete)
	r.Patch("/admin/treatments/{treatmentID}/status", h.SetStatus)
	return r, svc, treatmentRequest(p, d)
}

func TestHandlerCreateAndLifecycle(t *testing.T) {
	router, _, req := newTestRouter(t)

	body, _ := json.Marshal(req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/treatments", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	var tr Treatment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tr))
	assert.Equal(t, StatusPlanned, tr.Status)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/treatments/"+tr.ID+"/start", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tr))
	assert.Equal(t, StatusInProgress, tr.Status)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/treatments/"+tr.ID+"/complete", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tr))
	assert.Equal(t, StatusCompleted, tr.Status)
}

func TestHandlerValidationErrors(t *testing.T) {
	router, _, req := newTestRouter(t)

	req.Procedure = ""
	body, _ := json.Marshal(req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/treatments", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Procedure is required")
}

func TestHandlerSetStatusBody(t *testing.T) {
	router, svc, req := newTestRouter(t)

	tr, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/admin/treatments/"+tr.ID+"/status",
		strings.NewReader(`{"status":"completed"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var out Treatment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Equal(t, StatusCompleted, out.Status)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/admin/treatments/"+tr.ID+"/status",
		strings.NewReader(`{"status":"bogus"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerGetMissing(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/treatments/ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
