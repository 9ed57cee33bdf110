package database

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/diabetes-tracker/internal/config"
	"github.com/vladimiradmaev/diabetes-tracker/internal/database/migrations"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	TelegramID     int64 `gorm:"uniqueIndex"`
	Username       string
	FirstName      string
	LastName       string
	FirstMealRatio float64 `gorm:"default:0"` // grams per unit, 0 = configured default
	OtherMealRatio float64 `gorm:"default:0"`
}

type BloodSugarRecord struct {
	gorm.Model
	UserID    uint `gorm:"index"`
	User      User
	Value     float64 // mmol/L
	Timestamp time.Time
}

// InsulinCalculation stores one calculator run with its inputs and results
type InsulinCalculation struct {
	gorm.Model
	UserID            uint `gorm:"index"`
	User              User
	MealType          string `gorm:"size:16"`
	Carbs             *float64
	BGMmolL           float64
	BGMgdl            float64
	MealInsulin       float64
	CorrectionInsulin float64
	TotalInsulin      float64
	CorrectionRange   string
	Timestamp         time.Time
}

// MealPreset is a saved meal with its carbohydrate count
type MealPreset struct {
	gorm.Model
	UserID uint `gorm:"index"`
	User   User
	Name   string
	Carbs  float64
}

// Models lists every table managed by AutoMigrate
func Models() []interface{} {
	return []interface{}{&User{}, &BloodSugarRecord{}, &InsulinCalculation{}, &MealPreset{}}
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Tables first, SQL migrations add indexes and constraints on top of them
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	migrator := migrations.NewMigrator()
	if err := migrator.LoadSQL(migrations.Files, "sql"); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := migrator.Run(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}
