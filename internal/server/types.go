package server

import (
	"time"

	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
	"github.com/vladimiradmaev/diabetes-tracker/internal/services"
)

// CalculateRequest is the body of both calculation endpoints.
// BG is in mmol/L; a missing carbs field means no carbohydrate value.
type CalculateRequest struct {
	MealType string   `json:"meal_type"`
	Carbs    *float64 `json:"carbs,omitempty"`
	BG       float64  `json:"bg"`
}

func (r CalculateRequest) input() insulin.Input {
	mealType := insulin.MealType(r.MealType)
	if mt, ok := insulin.ParseMealType(r.MealType); ok {
		mealType = mt
	}
	return insulin.Input{
		MealType: mealType,
		Carbs:    r.Carbs,
		BGMmolL:  r.BG,
	}
}

// Display holds the result values rounded for presentation
type Display struct {
	MealInsulin       float64 `json:"meal_insulin"`
	CorrectionInsulin float64 `json:"correction_insulin"`
	TotalInsulin      float64 `json:"total_insulin"`
	BGMgdl            float64 `json:"bg_mgdl"`
}

func displayOf(r insulin.Result) Display {
	return Display{
		MealInsulin:       insulin.RoundForDisplay(r.MealInsulin),
		CorrectionInsulin: insulin.RoundForDisplay(r.CorrectionInsulin),
		TotalInsulin:      insulin.RoundForDisplay(r.TotalInsulin),
		BGMgdl:            insulin.RoundForDisplay(r.BGMgdl),
	}
}

type CalculateResponse struct {
	MealType string         `json:"meal_type"`
	Carbs    *float64       `json:"carbs,omitempty"`
	BGMmolL  float64        `json:"bg_mmol_l"`
	Result   insulin.Result `json:"result"`
	Display  Display        `json:"display"`
}

type CalculationResponse struct {
	ID        uint      `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	CalculateResponse
}

func calculationResponse(c *database.InsulinCalculation) CalculationResponse {
	result := services.ResultOf(c)
	return CalculationResponse{
		ID:        c.ID,
		Timestamp: c.Timestamp,
		CalculateResponse: CalculateResponse{
			MealType: c.MealType,
			Carbs:    c.Carbs,
			BGMmolL:  c.BGMmolL,
			Result:   result,
			Display:  displayOf(result),
		},
	}
}

type SettingsRequest struct {
	FirstMealRatio float64 `json:"first_meal_ratio"`
	OtherMealRatio float64 `json:"other_meal_ratio"`
}

type ReadingRequest struct {
	Value float64 `json:"value"`
}

type ReadingResponse struct {
	ID        uint      `json:"id"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

type PresetRequest struct {
	Name  string  `json:"name"`
	Carbs float64 `json:"carbs"`
}

type PresetResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Carbs float64 `json:"carbs"`
}
