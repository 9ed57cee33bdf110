package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
	"github.com/vladimiradmaev/diabetes-tracker/internal/handlers"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
)

const (
	maxBodyBytes = 1 << 20
	defaultLimit = 20
	maxLimit     = 100
)

// writeError logs err by severity and writes the client response
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.NewHandler(logger.WithContext(r.Context())).Handle(r.Context(), err)
	handlers.WriteAppError(w, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "INVALID_BODY", "invalid request body"))
		return false
	}
	return true
}

func uintParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		writeError(w, r, apperrors.NewValidationError("invalid "+name).WithContext(name, raw))
		return 0, false
	}
	return uint(v), true
}

func userIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	return uintParam(w, r, "userID")
}

// limitParam reads ?limit=, defaulting to 20 and capped at 100
func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		writeError(w, r, apperrors.NewValidationError("limit must be a positive integer").WithContext("limit", raw))
		return 0, false
	}
	if v > maxLimit {
		v = maxLimit
	}
	return v, true
}
