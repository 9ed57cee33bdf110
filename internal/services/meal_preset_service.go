package services

import (
	"context"
	"math"
	"strings"

	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
)

const maxPresetNameLength = 64

type MealPresetStore interface {
	Create(ctx context.Context, preset *database.MealPreset) error
	ListByUser(ctx context.Context, userID uint) ([]database.MealPreset, error)
	GetByID(ctx context.Context, userID, presetID uint) (*database.MealPreset, error)
	Delete(ctx context.Context, userID, presetID uint) error
}

// MealPresetService manages saved meals used to prefill the carbohydrate value
type MealPresetService struct {
	store MealPresetStore
}

func NewMealPresetService(store MealPresetStore) *MealPresetService {
	return &MealPresetService{store: store}
}

func (s *MealPresetService) Add(ctx context.Context, userID uint, name string, carbs float64) (*database.MealPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxPresetNameLength {
		return nil, apperrors.NewValidationError("preset name must be 1 to 64 characters")
	}
	if math.IsNaN(carbs) || math.IsInf(carbs, 0) || carbs < 0 || carbs > MaxCarbs {
		return nil, apperrors.NewValidationError("carbs must be between 0 and 500 grams").
			WithContext("carbs", carbs)
	}

	preset := &database.MealPreset{UserID: userID, Name: name, Carbs: carbs}
	if err := s.store.Create(ctx, preset); err != nil {
		return nil, err
	}
	return preset, nil
}

func (s *MealPresetService) List(ctx context.Context, userID uint) ([]database.MealPreset, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *MealPresetService) Get(ctx context.Context, userID, presetID uint) (*database.MealPreset, error) {
	return s.store.GetByID(ctx, userID, presetID)
}

func (s *MealPresetService) Delete(ctx context.Context, userID, presetID uint) error {
	return s.store.Delete(ctx, userID, presetID)
}
