package service

import (
	"harsi-trading-bot/config"
	"harsi-trading-bot/internal/repository"
	"harsi-trading-bot/pkg/cache"
	"harsi-trading-bot/pkg/logger"
)

type Service struct {
	OrderService  OrderService
	ReportService ReportService
	MarketService MarketService
	SurveyService SurveyService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	return &Service{
		OrderService:  NewOrderService(log, repo.OrderRepo, repo.AIRepo),
		ReportService: NewReportService(log, repo.OrderRepo),
		MarketService: NewMarketService(cfg, log, inmemoryCache, repo.BinanceRepo, repo.ChartImgRepo, repo.ETFFlowRepo),
		SurveyService: NewSurveyService(log, repo.TrendSurveyRepo),
	}
}
