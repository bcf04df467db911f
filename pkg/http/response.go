package http

import (
	"encoding/json"
	"net/http"

	apperrors "dinebook/pkg/errors"
)

// Every response carries a human-readable status line and the machine-checkable
// status_code, mirrored from the HTTP status. Operation payloads embed Envelope.
type Envelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
}

func OK(status string) Envelope {
	return Envelope{Status: status, StatusCode: http.StatusOK}
}

type ErrorResponse struct {
	Status     string         `json:"status"`
	StatusCode int            `json:"status_code"`
	Code       string         `json:"code"`
	Details    map[string]any `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// No recovery possible after WriteHeader; caller logs the failure.
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Status:     appErr.Message,
		StatusCode: appErr.StatusCode(),
		Code:       appErr.Code,
		Details:    appErr.Details,
	})
}
