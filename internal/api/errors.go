package api

import (
	"encoding/json"
	"net/http"
)

// Machine-readable error codes surfaced to the browser client.
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeNotBookable      = "NOT_BOOKABLE"
	CodeUnavailable      = "EQUIPMENT_UNAVAILABLE"
	CodeConflict         = "BOOKING_CONFLICT"
	CodeInvalidState     = "INVALID_STATE"
	CodeInternal         = "INTERNAL"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Error: APIError{Code: code, Message: message},
	})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
