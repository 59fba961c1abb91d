package api

import (
	"encoding/json"
	"net/http"
)

// genericMessages are the framework-boundary fallback messages, keyed by
// status code.
var genericMessages = map[int]string{
	http.StatusBadRequest:          "Bad request",
	http.StatusNotFound:            "Not found",
	http.StatusMethodNotAllowed:    "Method not allowed",
	http.StatusUnprocessableEntity: "Unprocessable entity",
	http.StatusInternalServerError: "Server error",
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes the standard failure envelope.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]interface{}{
		"message":     message,
		"status":      false,
		"status_code": statusCode,
	})
}

// writeGenericError writes the fallback envelope for a status code.
func writeGenericError(w http.ResponseWriter, statusCode int) {
	message, ok := genericMessages[statusCode]
	if !ok {
		message = http.StatusText(statusCode)
	}
	writeError(w, message, statusCode)
}
