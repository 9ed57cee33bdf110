package state

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStates(t *testing.T) {
	m := NewManager()

	assert.Equal(t, None, m.GetUserState(1))

	m.SetUserState(1, WaitingForCarbs)
	assert.Equal(t, WaitingForCarbs, m.GetUserState(1))
	assert.Equal(t, None, m.GetUserState(2))

	m.ClearUserState(1)
	assert.Equal(t, None, m.GetUserState(1))
}

func TestManagerTempData(t *testing.T) {
	m := NewManager()

	m.SetTempData(1, KeyMealType, "first")
	m.SetTempData(1, KeyCarbs, 30.0)

	mealType, ok := GetString(m, 1, KeyMealType)
	require.True(t, ok)
	assert.Equal(t, "first", mealType)

	carbs, ok := GetFloat(m, 1, KeyCarbs)
	require.True(t, ok)
	assert.Equal(t, 30.0, carbs)

	_, ok = GetFloat(m, 1, KeyMealType)
	assert.False(t, ok)

	m.ClearTempData(1)
	_, ok = m.GetTempData(1, KeyCarbs)
	assert.False(t, ok)
}

func TestGetFloatAcceptsJSONNumbers(t *testing.T) {
	m := NewManager()
	m.SetTempData(1, KeyCarbs, json.Number("12.5"))
	m.SetTempData(2, KeyCarbs, 7)

	v, ok := GetFloat(m, 1, KeyCarbs)
	require.True(t, ok)
	assert.Equal(t, 12.5, v)

	v, ok = GetFloat(m, 2, KeyCarbs)
	require.True(t, ok)
	assert.Equal(t, 7.0, v)
}

// Runs against a real server when REDIS_HOST is set
func TestRedisManager(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set")
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	m, err := NewRedisManager(host, port)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })

	const userID = -424242
	t.Cleanup(func() {
		m.ClearUserState(userID)
		m.ClearTempData(userID)
	})

	m.SetUserState(userID, WaitingForDoseBG)
	assert.Equal(t, WaitingForDoseBG, m.GetUserState(userID))

	m.SetTempData(userID, KeyMealType, "bedtime")
	m.SetTempData(userID, KeyCarbs, 15.5)

	mealType, ok := GetString(m, userID, KeyMealType)
	require.True(t, ok)
	assert.Equal(t, "bedtime", mealType)

	carbs, ok := GetFloat(m, userID, KeyCarbs)
	require.True(t, ok)
	assert.Equal(t, 15.5, carbs)

	m.ClearUserState(userID)
	assert.Equal(t, None, m.GetUserState(userID))
}
