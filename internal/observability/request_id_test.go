package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	require.NotEmpty(t, id)

	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", RequestIDFromContext(ctx))
}

func TestRequestIDFromContextWhenMissingOrWrongType(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))

	ctx := context.WithValue(context.Background(), RequestIDKey, 42)
	assert.Empty(t, RequestIDFromContext(ctx))
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, validRequestID(uuid.New().String()))
	assert.False(t, validRequestID(""))
	assert.False(t, validRequestID("not-a-uuid\n{\"level\":\"ERROR\"}"))
}
