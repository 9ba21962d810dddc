package repository

import (
	"context"
	"errors"
	"fmt"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"

	"gorm.io/gorm"
)

// TrendSurveyRepository stores HARSI trend surveys, one row per survey.
type TrendSurveyRepository interface {
	// Latest returns the most recent survey for symbol, or (nil, nil).
	Latest(ctx context.Context, symbol dto.Symbol) (*model.TrendSurvey, error)
	Save(ctx context.Context, survey *model.TrendSurvey) error
}

type trendSurveyRepository struct {
	db *gorm.DB
}

func NewTrendSurveyRepository(db *gorm.DB) TrendSurveyRepository {
	return &trendSurveyRepository{db: db}
}

func (r *trendSurveyRepository) Latest(ctx context.Context, symbol dto.Symbol) (*model.TrendSurvey, error) {
	var survey model.TrendSurvey
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("surveyed_at DESC").
		First(&survey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest survey for %s: %w", symbol, err)
	}
	return &survey, nil
}

func (r *trendSurveyRepository) Save(ctx context.Context, survey *model.TrendSurvey) error {
	if err := r.db.WithContext(ctx).Create(survey).Error; err != nil {
		return fmt.Errorf("failed to save trend survey: %w", err)
	}
	return nil
}
