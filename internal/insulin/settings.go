package insulin

import "fmt"

// Default calculator settings
const (
	DefaultFirstMealRatio = 10.0 // grams of carbs per unit, first meal
	DefaultOtherMealRatio = 15.0 // grams of carbs per unit, later meals
	DefaultTargetLow      = 101  // mg/dL
	DefaultTargetHigh     = 120  // mg/dL
)

// Settings holds every option the calculator recognizes
type Settings struct {
	FirstMealRatio float64         `json:"first_meal_ratio" yaml:"first_meal_ratio"`
	OtherMealRatio float64         `json:"other_meal_ratio" yaml:"other_meal_ratio"`
	TargetLow      int             `json:"target_low" yaml:"target_low"`
	TargetHigh     int             `json:"target_high" yaml:"target_high"`
	StandardTable  CorrectionTable `json:"standard_table" yaml:"standard_table"`
	BedtimeTable   CorrectionTable `json:"bedtime_table" yaml:"bedtime_table"`
}

// DefaultSettings returns settings with the built-in ratios and tables
func DefaultSettings() Settings {
	return Settings{
		FirstMealRatio: DefaultFirstMealRatio,
		OtherMealRatio: DefaultOtherMealRatio,
		TargetLow:      DefaultTargetLow,
		TargetHigh:     DefaultTargetHigh,
		StandardTable:  clone(StandardCorrectionTable),
		BedtimeTable:   clone(BedtimeCorrectionTable),
	}
}

// Validate checks the settings before they are handed to a Calculator.
// The calculation itself never validates.
func (s Settings) Validate() error {
	if !(s.FirstMealRatio > 0) {
		return fmt.Errorf("first meal ratio must be positive, got %v", s.FirstMealRatio)
	}
	if !(s.OtherMealRatio > 0) {
		return fmt.Errorf("other meal ratio must be positive, got %v", s.OtherMealRatio)
	}
	if s.TargetLow > s.TargetHigh {
		return fmt.Errorf("target low %d is above target high %d", s.TargetLow, s.TargetHigh)
	}
	if err := s.StandardTable.CheckCoverage(TableFloor, TableCeiling); err != nil {
		return fmt.Errorf("standard table: %w", err)
	}
	if err := s.BedtimeTable.CheckCoverage(TableFloor, TableCeiling); err != nil {
		return fmt.Errorf("bedtime table: %w", err)
	}
	return nil
}

// InTarget reports whether bgMgdl lies within the target range
func (s Settings) InTarget(bgMgdl float64) bool {
	return float64(s.TargetLow) <= bgMgdl && bgMgdl <= float64(s.TargetHigh)
}

// Ratio returns the carbohydrate ratio used for mealType, or 0 for bedtime
func (s Settings) Ratio(mealType MealType) float64 {
	switch mealType {
	case MealFirst:
		return s.FirstMealRatio
	case MealOther:
		return s.OtherMealRatio
	default:
		return 0
	}
}

// tableFor returns the correction table used for mealType
func (s Settings) tableFor(mealType MealType) CorrectionTable {
	if mealType == MealBedtime {
		return s.BedtimeTable
	}
	return s.StandardTable
}

func clone(t CorrectionTable) CorrectionTable {
	out := make(CorrectionTable, len(t))
	copy(out, t)
	return out
}
