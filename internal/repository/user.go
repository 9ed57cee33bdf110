package repository

import (
	"context"
	"errors"

	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
	"gorm.io/gorm"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreateUser gets an existing user or creates a new one
func (r *UserRepository) GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error) {
	var user database.User
	err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDatabaseError(err)
	}

	user = database.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
	}

	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	return &user, nil
}

// GetUserByID gets a user by primary key
func (r *UserRepository) GetUserByID(ctx context.Context, userID uint) (*database.User, error) {
	var user database.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFoundOr(err, "USER_NOT_FOUND", "User not found")
	}
	return &user, nil
}

// UpdateRatios stores the user's carbohydrate ratios
func (r *UserRepository) UpdateRatios(ctx context.Context, userID uint, firstMealRatio, otherMealRatio float64) error {
	result := r.db.WithContext(ctx).
		Model(&database.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"first_meal_ratio": firstMealRatio,
			"other_meal_ratio": otherMealRatio,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("USER_NOT_FOUND", "User not found")
	}
	return nil
}

func notFoundOr(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(code, message)
	}
	return apperrors.NewDatabaseError(err)
}
