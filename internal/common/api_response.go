package common

import (
	"encoding/json"
	"net/http"

	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/logging"
	"resq-relief/resq/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	writeJSON(w, code, dtos.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondCollection sends a list with its count and optional aggregate stats.
func RespondCollection(w http.ResponseWriter, data any, count int, stats any) {
	writeJSON(w, http.StatusOK, dtos.APIResponse{
		Success: true,
		Data:    data,
		Count:   &count,
		Stats:   stats,
	})
}

// RespondError sends a standardized JSON error response.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, dtos.APIResponse{
		Success: false,
		Message: message,
	})
}

// RespondAppError writes err with the status of its kind. Errors that are not
// an AppError are logged and hidden behind the generic server error.
func RespondAppError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := AsAppError(err); ok {
		writeJSON(w, appErr.StatusCode(), dtos.APIResponse{
			Success: false,
			Message: appErr.Message,
			Data:    appErr.Data,
		})
		return
	}

	logging.Error("Unhandled request error",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", w.Header().Get("X-Request-ID"),
		"error", err,
	)
	RespondError(w, constants.MsgServerError, http.StatusInternalServerError)
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err)
	}
}
