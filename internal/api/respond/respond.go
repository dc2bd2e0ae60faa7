package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dentalcenter/practice-api/internal/validation"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes a single-message error body.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// BadRequest maps an error to a 400 response. Field-keyed validation errors
// keep their per-field messages so the client can render them inline.
func BadRequest(w http.ResponseWriter, err error) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		JSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": fieldErrs,
		})
		return
	}
	Error(w, http.StatusBadRequest, err.Error())
}
