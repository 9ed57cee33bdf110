package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
	"github.com/vladimiradmaev/diabetes-tracker/internal/testutil"
)

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	logger.InitWithWriter(io.Discard, logger.LevelInfo, "json")

	rl := NewRateLimiter(0.001, 2)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func(addr string) int {
		r := httptest.NewRequest(http.MethodGet, "/api/insulin/tables", nil)
		r.RemoteAddr = addr
		return testutil.ExecuteRequest(r, h).Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1:5002"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, request("10.0.0.2:5000"))
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(10 * time.Minute)
	rl.getLimiter("b")

	rl.Cleanup(5 * time.Minute)
	assert.Equal(t, 1, rl.size())
}
