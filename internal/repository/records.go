package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
	"gorm.io/gorm"
)

// BloodSugarRepository stores blood sugar readings
type BloodSugarRepository struct {
	db *gorm.DB
}

func NewBloodSugarRepository(db *gorm.DB) *BloodSugarRepository {
	return &BloodSugarRepository{db: db}
}

func (r *BloodSugarRepository) Create(ctx context.Context, record *database.BloodSugarRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// ListByUser returns the newest readings first. limit <= 0 returns all.
func (r *BloodSugarRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]database.BloodSugarRecord, error) {
	var records []database.BloodSugarRecord
	if err := limited(r.db.WithContext(ctx), limit).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&records).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return records, nil
}

// CalculationRepository stores insulin calculation history
type CalculationRepository struct {
	db *gorm.DB
}

func NewCalculationRepository(db *gorm.DB) *CalculationRepository {
	return &CalculationRepository{db: db}
}

func (r *CalculationRepository) Create(ctx context.Context, calc *database.InsulinCalculation) error {
	if err := r.db.WithContext(ctx).Create(calc).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// ListByUser returns the newest calculations first. limit <= 0 returns all.
func (r *CalculationRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]database.InsulinCalculation, error) {
	var calcs []database.InsulinCalculation
	if err := limited(r.db.WithContext(ctx), limit).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&calcs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return calcs, nil
}

// MealPresetRepository stores saved meals
type MealPresetRepository struct {
	db *gorm.DB
}

func NewMealPresetRepository(db *gorm.DB) *MealPresetRepository {
	return &MealPresetRepository{db: db}
}

func (r *MealPresetRepository) Create(ctx context.Context, preset *database.MealPreset) error {
	if err := r.db.WithContext(ctx).Create(preset).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(apperrors.ErrPresetExists.Code, apperrors.ErrPresetExists.Message).
				WithContext("name", preset.Name)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (r *MealPresetRepository) ListByUser(ctx context.Context, userID uint) ([]database.MealPreset, error) {
	var presets []database.MealPreset
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&presets).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return presets, nil
}

func (r *MealPresetRepository) GetByID(ctx context.Context, userID, presetID uint) (*database.MealPreset, error) {
	var preset database.MealPreset
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, presetID).
		First(&preset).Error; err != nil {
		return nil, notFoundOr(err, "PRESET_NOT_FOUND", "Meal preset not found")
	}
	return &preset, nil
}

func (r *MealPresetRepository) Delete(ctx context.Context, userID, presetID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, presetID).
		Delete(&database.MealPreset{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("PRESET_NOT_FOUND", "Meal preset not found")
	}
	return nil
}

func limited(db *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return db.Limit(limit)
	}
	return db
}

// uniqueViolation is the Postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

// isUniqueViolation recognizes duplicate keys both as translated by gorm and
// as raw driver errors
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
