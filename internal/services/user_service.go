package services

import (
	"context"
	"math"

	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
)

// MaxCarbRatio bounds user supplied ratios, in grams of carbs per unit
const MaxCarbRatio = 100.0

type UserStore interface {
	GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error)
	GetUserByID(ctx context.Context, userID uint) (*database.User, error)
	UpdateRatios(ctx context.Context, userID uint, firstMealRatio, otherMealRatio float64) error
}

type UserService struct {
	users    UserStore
	defaults insulin.Settings
}

func NewUserService(users UserStore, defaults insulin.Settings) *UserService {
	return &UserService{users: users, defaults: defaults}
}

func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error) {
	return s.users.GetOrCreateUser(ctx, telegramID, username, firstName, lastName)
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*database.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// GetSettings returns the configured calculator settings with the user's own
// ratios applied on top
func (s *UserService) GetSettings(ctx context.Context, userID uint) (insulin.Settings, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return insulin.Settings{}, err
	}
	return s.SettingsFor(user), nil
}

// SettingsFor overlays the user's ratios on the configured defaults.
// A zero ratio means the user never set one.
func (s *UserService) SettingsFor(user *database.User) insulin.Settings {
	settings := s.defaults
	if user.FirstMealRatio > 0 {
		settings.FirstMealRatio = user.FirstMealRatio
	}
	if user.OtherMealRatio > 0 {
		settings.OtherMealRatio = user.OtherMealRatio
	}
	return settings
}

// UpdateRatios validates and stores the user's carbohydrate ratios
func (s *UserService) UpdateRatios(ctx context.Context, userID uint, firstMealRatio, otherMealRatio float64) error {
	if err := validateRatio("first meal ratio", firstMealRatio); err != nil {
		return err
	}
	if err := validateRatio("other meal ratio", otherMealRatio); err != nil {
		return err
	}

	if err := s.users.UpdateRatios(ctx, userID, firstMealRatio, otherMealRatio); err != nil {
		return err
	}

	logger.WithContext(ctx).Info("Carb ratios updated",
		"user_id", userID,
		"first_meal_ratio", firstMealRatio,
		"other_meal_ratio", otherMealRatio,
	)
	return nil
}

func validateRatio(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v > MaxCarbRatio {
		return apperrors.NewValidationError(name+" must be between 0 and 100 grams per unit").
			WithContext("value", v)
	}
	return nil
}
