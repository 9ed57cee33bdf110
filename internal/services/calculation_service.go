package services

import (
	"context"
	"math"
	"time"

	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
	"github.com/vladimiradmaev/diabetes-tracker/internal/observability"
)

// Input limits enforced before the calculator runs
const (
	MaxCarbs   = 500.0 // grams per meal
	MaxBGMmolL = 55.5  // 999 mg/dL, the top of the correction tables
)

type CalculationStore interface {
	Create(ctx context.Context, calc *database.InsulinCalculation) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]database.InsulinCalculation, error)
}

type SettingsProvider interface {
	GetSettings(ctx context.Context, userID uint) (insulin.Settings, error)
}

// CalculationService validates input, runs the calculator with the user's
// settings and keeps the history
type CalculationService struct {
	store    CalculationStore
	settings SettingsProvider
	preview  *insulin.Calculator
	now      func() time.Time
}

func NewCalculationService(store CalculationStore, settings SettingsProvider, defaults insulin.Settings) *CalculationService {
	return &CalculationService{
		store:    store,
		settings: settings,
		preview:  insulin.NewCalculator(defaults),
		now:      time.Now,
	}
}

// ValidateInput rejects input the calculator would turn into meaningless doses
func ValidateInput(in insulin.Input) error {
	if _, ok := insulin.ParseMealType(string(in.MealType)); !ok {
		return apperrors.NewValidationError("meal type must be one of first, other, bedtime").
			WithContext("meal_type", in.MealType)
	}
	if in.Carbs != nil {
		c := *in.Carbs
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 || c > MaxCarbs {
			return apperrors.NewValidationError("carbs must be between 0 and 500 grams").
				WithContext("carbs", c)
		}
	}
	bg := in.BGMmolL
	if math.IsNaN(bg) || math.IsInf(bg, 0) || bg <= 0 || bg > MaxBGMmolL {
		return apperrors.NewValidationError("blood glucose must be above 0 and at most 55.5 mmol/L").
			WithContext("bg_mmol_l", bg)
	}
	return nil
}

// NormalizeInput validates in and returns it with the meal type in its
// canonical form. The calculator compares meal types exactly.
func NormalizeInput(in insulin.Input) (insulin.Input, error) {
	if err := ValidateInput(in); err != nil {
		return insulin.Input{}, err
	}
	in.MealType, _ = insulin.ParseMealType(string(in.MealType))
	return in, nil
}

// Preview calculates with the configured defaults without storing anything
func (s *CalculationService) Preview(ctx context.Context, in insulin.Input) (insulin.Result, error) {
	in, err := NormalizeInput(in)
	if err != nil {
		return insulin.Result{}, err
	}
	result := s.preview.Calculate(in)
	observability.RecordCalculation(string(in.MealType), result)
	return result, nil
}

// DefaultSettings returns the settings used by Preview
func (s *CalculationService) DefaultSettings() insulin.Settings {
	return s.preview.Settings()
}

// Calculate runs the calculator with the user's settings and stores the result
func (s *CalculationService) Calculate(ctx context.Context, userID uint, in insulin.Input) (*database.InsulinCalculation, error) {
	in, err := NormalizeInput(in)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := insulin.NewCalculator(settings).Calculate(in)

	calc := &database.InsulinCalculation{
		UserID:            userID,
		MealType:          string(in.MealType),
		Carbs:             in.Carbs,
		BGMmolL:           in.BGMmolL,
		BGMgdl:            result.BGMgdl,
		MealInsulin:       result.MealInsulin,
		CorrectionInsulin: result.CorrectionInsulin,
		TotalInsulin:      result.TotalInsulin,
		CorrectionRange:   result.CorrectionRange,
		Timestamp:         s.now(),
	}
	if err := s.store.Create(ctx, calc); err != nil {
		return nil, err
	}

	observability.RecordCalculation(calc.MealType, result)
	logger.WithContext(ctx).Info("Insulin dose calculated",
		"user_id", userID,
		"meal_type", calc.MealType,
		"bg_mgdl", result.BGMgdl,
		"total_insulin", result.TotalInsulin,
		"correction_range", result.CorrectionRange,
	)

	return calc, nil
}

// History returns the user's newest calculations first
func (s *CalculationService) History(ctx context.Context, userID uint, limit int) ([]database.InsulinCalculation, error) {
	return s.store.ListByUser(ctx, userID, limit)
}

// ResultOf rebuilds the calculator result from a stored calculation
func ResultOf(calc *database.InsulinCalculation) insulin.Result {
	return insulin.Result{
		MealInsulin:       calc.MealInsulin,
		CorrectionInsulin: calc.CorrectionInsulin,
		TotalInsulin:      calc.TotalInsulin,
		BGMgdl:            calc.BGMgdl,
		CorrectionRange:   calc.CorrectionRange,
	}
}
