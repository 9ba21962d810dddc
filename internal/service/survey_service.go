package service

import (
	"context"
	"time"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"
	"harsi-trading-bot/internal/repository"
	"harsi-trading-bot/pkg/logger"
)

type SurveyService interface {
	Record(ctx context.Context, symbol dto.Symbol, readings map[dto.Timeframe]dto.HarsiReading) (*model.TrendSurvey, error)
	Latest(ctx context.Context, symbol dto.Symbol) (*model.TrendSurvey, error)
}

type surveyService struct {
	log        *logger.Logger
	surveyRepo repository.TrendSurveyRepository
}

func NewSurveyService(log *logger.Logger, surveyRepo repository.TrendSurveyRepository) SurveyService {
	return &surveyService{log: log, surveyRepo: surveyRepo}
}

func (s *surveyService) Record(ctx context.Context, symbol dto.Symbol, readings map[dto.Timeframe]dto.HarsiReading) (*model.TrendSurvey, error) {
	survey, err := model.NewTrendSurvey(symbol, readings, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.surveyRepo.Save(ctx, survey); err != nil {
		s.log.ErrorContext(ctx, "failed to save trend survey",
			logger.StringField("symbol", string(symbol)),
			logger.ErrorField(err),
		)
		return nil, err
	}
	return survey, nil
}

func (s *surveyService) Latest(ctx context.Context, symbol dto.Symbol) (*model.TrendSurvey, error) {
	return s.surveyRepo.Latest(ctx, symbol)
}
