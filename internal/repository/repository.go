package repository

import (
	"harsi-trading-bot/config"
	"harsi-trading-bot/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	OrderRepo       OrderRepository
	TrendSurveyRepo TrendSurveyRepository
	BinanceRepo     BinanceRepository
	ChartImgRepo    ChartImgRepository
	ETFFlowRepo     ETFFlowRepository
	AIRepo          AIRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	aiRepo, err := NewGeminiAIRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		OrderRepo:       NewOrderRepository(db),
		TrendSurveyRepo: NewTrendSurveyRepository(db),
		BinanceRepo:     NewBinanceRepository(cfg, log),
		ChartImgRepo:    NewChartImgRepository(cfg, log),
		ETFFlowRepo:     NewETFFlowRepository(cfg, log),
		AIRepo:          aiRepo,
	}, nil
}
