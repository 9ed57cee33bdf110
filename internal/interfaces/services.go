package interfaces

import (
	"context"

	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error)
	GetUser(ctx context.Context, userID uint) (*database.User, error)
	GetSettings(ctx context.Context, userID uint) (insulin.Settings, error)
	UpdateRatios(ctx context.Context, userID uint, firstMealRatio, otherMealRatio float64) error
}

// CalculationServiceInterface defines the contract for dose calculations
type CalculationServiceInterface interface {
	Calculate(ctx context.Context, userID uint, in insulin.Input) (*database.InsulinCalculation, error)
	Preview(ctx context.Context, in insulin.Input) (insulin.Result, error)
	History(ctx context.Context, userID uint, limit int) ([]database.InsulinCalculation, error)
	DefaultSettings() insulin.Settings
}

// BloodSugarServiceInterface defines the contract for blood sugar operations
type BloodSugarServiceInterface interface {
	AddRecord(ctx context.Context, userID uint, value float64) (*database.BloodSugarRecord, error)
	GetUserRecords(ctx context.Context, userID uint, limit int) ([]database.BloodSugarRecord, error)
}

// MealPresetServiceInterface defines the contract for saved meals
type MealPresetServiceInterface interface {
	Add(ctx context.Context, userID uint, name string, carbs float64) (*database.MealPreset, error)
	List(ctx context.Context, userID uint) ([]database.MealPreset, error)
	Get(ctx context.Context, userID, presetID uint) (*database.MealPreset, error)
	Delete(ctx context.Context, userID, presetID uint) error
}

// Services bundles the services shared by the HTTP API and the bot
type Services struct {
	Users        UserServiceInterface
	Calculations CalculationServiceInterface
	BloodSugar   BloodSugarServiceInterface
	Presets      MealPresetServiceInterface
}
