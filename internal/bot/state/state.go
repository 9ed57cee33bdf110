package state

import "encoding/json"

// User states
const (
	None                     = "none"
	WaitingForBloodSugar     = "waiting_for_blood_sugar"
	WaitingForCarbs          = "waiting_for_carbs"
	WaitingForDoseBG         = "waiting_for_dose_bg"
	WaitingForFirstMealRatio = "waiting_for_first_meal_ratio"
	WaitingForOtherMealRatio = "waiting_for_other_meal_ratio"
	WaitingForPresetName     = "waiting_for_preset_name"
	WaitingForPresetCarbs    = "waiting_for_preset_carbs"
)

// Temp data keys
const (
	KeyMealType   = "meal_type"
	KeyCarbs      = "carbs"
	KeyPresetName = "preset_name"
)

// StateManager keeps the dialog state of each Telegram user
type StateManager interface {
	SetUserState(userID int64, state string)
	GetUserState(userID int64) string
	ClearUserState(userID int64)
	SetTempData(userID int64, key string, value interface{})
	GetTempData(userID int64, key string) (interface{}, bool)
	ClearTempData(userID int64)
}

// GetString reads a string temp value
func GetString(m StateManager, userID int64, key string) (string, bool) {
	v, ok := m.GetTempData(userID, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetFloat reads a numeric temp value. Values that went through JSON come
// back as float64 or json.Number.
func GetFloat(m StateManager, userID int64, key string) (float64, bool) {
	v, ok := m.GetTempData(userID, key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

var (
	_ StateManager = (*Manager)(nil)
	_ StateManager = (*RedisManager)(nil)
)
