package services

import (
	"context"
	"math"
	"time"

	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
)

type BloodSugarStore interface {
	Create(ctx context.Context, record *database.BloodSugarRecord) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]database.BloodSugarRecord, error)
}

type BloodSugarService struct {
	store BloodSugarStore
	now   func() time.Time
}

func NewBloodSugarService(store BloodSugarStore) *BloodSugarService {
	return &BloodSugarService{
		store: store,
		now:   time.Now,
	}
}

// AddRecord stores a reading in mmol/L
func (s *BloodSugarService) AddRecord(ctx context.Context, userID uint, value float64) (*database.BloodSugarRecord, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 || value > MaxBGMmolL {
		return nil, apperrors.NewValidationError("blood glucose must be above 0 and at most 55.5 mmol/L").
			WithContext("value", value)
	}

	record := &database.BloodSugarRecord{
		UserID:    userID,
		Value:     value,
		Timestamp: s.now(),
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Blood sugar recorded", "user_id", userID, "value", value)
	return record, nil
}

func (s *BloodSugarService) GetUserRecords(ctx context.Context, userID uint, limit int) ([]database.BloodSugarRecord, error) {
	return s.store.ListByUser(ctx, userID, limit)
}
