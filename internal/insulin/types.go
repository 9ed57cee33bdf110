package insulin

import "strings"

// MealType selects the carbohydrate ratio and the correction table
type MealType string

const (
	MealFirst   MealType = "first"   // first meal of the day
	MealOther   MealType = "other"   // any later meal
	MealBedtime MealType = "bedtime" // correction only, no meal insulin
)

// MealTypes lists the supported meal types in display order
var MealTypes = []MealType{MealFirst, MealOther, MealBedtime}

// ParseMealType converts a user supplied tag into a MealType
func ParseMealType(s string) (MealType, bool) {
	switch MealType(strings.ToLower(strings.TrimSpace(s))) {
	case MealFirst:
		return MealFirst, true
	case MealOther:
		return MealOther, true
	case MealBedtime:
		return MealBedtime, true
	default:
		return "", false
	}
}

// CorrectionRange is one row of a correction table. Bounds are inclusive mg/dL.
type CorrectionRange struct {
	Min        int     `json:"min" yaml:"min"`
	Max        int     `json:"max" yaml:"max"`
	Correction float64 `json:"correction" yaml:"correction"`
}

// Contains reports whether bgMgdl falls within the inclusive bounds of the row
func (r CorrectionRange) Contains(bgMgdl float64) bool {
	return float64(r.Min) <= bgMgdl && bgMgdl <= float64(r.Max)
}

// CorrectionTable is an ordered list of ranges. The first matching row wins.
type CorrectionTable []CorrectionRange

// Input holds the values entered for one dose calculation.
// Carbs is nil when no carbohydrate value was given.
type Input struct {
	MealType MealType
	Carbs    *float64
	BGMmolL  float64
}

// Result is the outcome of a dose calculation. Values are not rounded.
type Result struct {
	MealInsulin       float64 `json:"meal_insulin"`
	CorrectionInsulin float64 `json:"correction_insulin"`
	TotalInsulin      float64 `json:"total_insulin"`
	BGMgdl            float64 `json:"bg_mgdl"`
	CorrectionRange   string  `json:"correction_range"`
}

// Correction is the outcome of a correction table lookup
type Correction struct {
	Units float64
	Range string
}

// Carbs returns a pointer to v, for building an Input with a carbohydrate value
func Carbs(v float64) *float64 {
	return &v
}
