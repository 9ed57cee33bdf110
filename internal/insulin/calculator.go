// Package insulin computes meal and correction insulin doses from a meal type,
// an optional carbohydrate count and a blood glucose reading in mmol/L.
//
// Calculations are total over their numeric domain: nothing here validates
// input or returns errors. Invalid numbers propagate into the result.
package insulin

import (
	"fmt"
	"math"
	"strconv"
)

// MgdlPerMmolL converts mmol/L to mg/dL
const MgdlPerMmolL = 18.0

// NoCorrectionRange is reported when no table row matches the reading
const NoCorrectionRange = "No correction needed"

var defaultCalculator = NewCalculator(DefaultSettings())

// Calculator computes doses with a fixed set of settings
type Calculator struct {
	settings Settings
}

// NewCalculator creates a calculator. Settings are used as given.
func NewCalculator(settings Settings) *Calculator {
	return &Calculator{settings: settings}
}

// Settings returns the settings the calculator was built with
func (c *Calculator) Settings() Settings {
	return c.settings
}

// ConvertBGToMgdl converts a blood glucose value from mmol/L to mg/dL
func ConvertBGToMgdl(mmolL float64) float64 {
	return mmolL * MgdlPerMmolL
}

// CorrectionInsulin looks up the correction for bgMgdl in the default tables
func CorrectionInsulin(bgMgdl float64, mealType MealType) Correction {
	return defaultCalculator.Correction(bgMgdl, mealType)
}

// CalculateInsulin computes a dose with the default settings
func CalculateInsulin(in Input) Result {
	return defaultCalculator.Calculate(in)
}

// Correction looks up the correction for bgMgdl. Bedtime uses the bedtime
// table, every other meal type the standard one.
func (c *Calculator) Correction(bgMgdl float64, mealType MealType) Correction {
	r, ok := c.settings.tableFor(mealType).Lookup(bgMgdl)
	if !ok {
		return Correction{Units: 0, Range: NoCorrectionRange}
	}
	return Correction{Units: r.Correction, Range: FormatRange(r)}
}

// Calculate computes meal, correction and total insulin for in
func (c *Calculator) Calculate(in Input) Result {
	bgMgdl := ConvertBGToMgdl(in.BGMmolL)

	var mealInsulin float64
	if in.MealType != MealBedtime && in.Carbs != nil {
		switch in.MealType {
		case MealFirst:
			mealInsulin = *in.Carbs / c.settings.FirstMealRatio
		case MealOther:
			mealInsulin = *in.Carbs / c.settings.OtherMealRatio
		}
	}

	correction := c.Correction(bgMgdl, in.MealType)

	return Result{
		MealInsulin:       mealInsulin,
		CorrectionInsulin: correction.Units,
		TotalInsulin:      mealInsulin + correction.Units,
		BGMgdl:            bgMgdl,
		CorrectionRange:   correction.Range,
	}
}

// FormatRange renders a row as "<min> to <max> mg/dL = <correction> units".
// Positive corrections carry an explicit plus sign.
func FormatRange(r CorrectionRange) string {
	sign := ""
	if r.Correction > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%d to %d mg/dL = %s%s units", r.Min, r.Max, sign, strconv.FormatFloat(r.Correction, 'f', -1, 64))
}

// RoundForDisplay rounds v to one decimal place
func RoundForDisplay(v float64) float64 {
	return math.Round(v*10) / 10
}
