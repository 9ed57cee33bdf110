package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
	"github.com/vladimiradmaev/diabetes-tracker/internal/testutil"
)

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadRequest, "bad input")

	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	testutil.DecodeJSONBody(t, w.Body, &body)
	assert.Equal(t, "bad input", body["error"])
}

func TestWriteAppErrorHidesDatabaseDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAppError(w, apperrors.NewDatabaseError(assert.AnError))

	testutil.CheckResponseCode(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, w.Body, &body)
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestWriteAppErrorValidation(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAppError(w, apperrors.NewValidationError("carbs must be between 0 and 500 grams"))

	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, w.Body, &body)
	require.Contains(t, body, "error")
	assert.Equal(t, "carbs must be between 0 and 500 grams", body["error"])
}

func TestHealth(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := testutil.ExecuteRequest(r, http.HandlerFunc(Health))

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
