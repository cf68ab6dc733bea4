package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"lab-cost-estimator/models"
	"lab-cost-estimator/utils"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Errorf("❌ Error encoding response: %v", err)
	}
}

// statusFor maps the error taxonomy to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as {"error": "..."}. Internal failures get a
// generic message; the detail goes to the log only.
func writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		utils.Log.Errorf("❌ %s: %v", op, err)
		msg = "Internal server error"
		if errors.Is(err, models.ErrPersistence) {
			msg = "Failed to save changes"
		}
	} else {
		utils.Log.Warnf("❌ %s: %v", op, err)
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON decodes the request body into v and runs struct validation
func decodeJSON[T any](r *http.Request, v *T) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return models.ValidationError("Request body is required")
		}
		return models.ValidationError("Invalid request body: %v", err)
	}
	if err := utils.Validate(v); err != nil {
		return models.ValidationError("%s", err.Error())
	}
	return nil
}

func formatID(label, id string) string {
	return fmt.Sprintf("%s=%s", label, id)
}
