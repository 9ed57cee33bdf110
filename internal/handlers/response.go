package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
)

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes a standardised JSON error response.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{
		"error": msg,
	})
}

// WriteAppError maps err to its HTTP status and a message safe for clients
func WriteAppError(w http.ResponseWriter, err error) {
	WriteError(w, apperrors.HTTPStatus(err), apperrors.PublicMessage(err))
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
