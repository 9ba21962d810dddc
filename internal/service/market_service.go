package service

import (
	"context"
	"fmt"
	"time"

	"harsi-trading-bot/config"
	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/repository"
	"harsi-trading-bot/pkg/cache"
	"harsi-trading-bot/pkg/logger"
)

const (
	lastPriceCacheKey = "binance_price:%s"
	lastPriceCacheTTL = 30 * time.Second
)

type MarketService interface {
	LastPrice(ctx context.Context, symbol dto.Symbol) (float64, error)
	PriceSummary(ctx context.Context, symbol dto.Symbol) (*dto.PriceSummary, error)
	ChartSnapshot(ctx context.Context, symbol dto.Symbol, timeframe dto.Timeframe) ([]byte, error)
	ETFFlows(ctx context.Context) ([]dto.ETFFlowReport, error)
}

type marketService struct {
	cfg           *config.Config
	log           *logger.Logger
	inmemoryCache cache.Cache
	binanceRepo   repository.BinanceRepository
	chartImgRepo  repository.ChartImgRepository
	etfFlowRepo   repository.ETFFlowRepository
}

func NewMarketService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	binanceRepo repository.BinanceRepository,
	chartImgRepo repository.ChartImgRepository,
	etfFlowRepo repository.ETFFlowRepository,
) MarketService {
	return &marketService{
		cfg:           cfg,
		log:           log,
		inmemoryCache: inmemoryCache,
		binanceRepo:   binanceRepo,
		chartImgRepo:  chartImgRepo,
		etfFlowRepo:   etfFlowRepo,
	}
}

// LastPrice returns the latest traded price, cached briefly to stay within
// the Binance request budget when several users ask at once.
func (s *marketService) LastPrice(ctx context.Context, symbol dto.Symbol) (float64, error) {
	key := fmt.Sprintf(lastPriceCacheKey, symbol)
	if price, ok := cache.GetTyped[float64](s.inmemoryCache, key); ok {
		return price, nil
	}

	price, err := s.binanceRepo.GetLastPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}

	s.inmemoryCache.Set(key, price, lastPriceCacheTTL)
	return price, nil
}

// PriceSummary combines the last price with the daily change computed from
// the two most recent daily candles.
func (s *marketService) PriceSummary(ctx context.Context, symbol dto.Symbol) (*dto.PriceSummary, error) {
	price, err := s.LastPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}

	summary := &dto.PriceSummary{Symbol: symbol, LastPrice: price}

	klines, err := s.binanceRepo.GetKlines(ctx, symbol, "1d", 2)
	if err != nil {
		s.log.WarnContext(ctx, "failed to fetch daily klines",
			logger.StringField("symbol", string(symbol)),
			logger.ErrorField(err),
		)
		return summary, nil
	}
	if len(klines) > 0 {
		// Klines come back oldest first, the last one is the current day.
		open := klines[len(klines)-1].Open
		if open > 0 {
			change := (price - open) / open * 100
			summary.DailyChangePercent = &change
		}
	}

	return summary, nil
}

func (s *marketService) ChartSnapshot(ctx context.Context, symbol dto.Symbol, timeframe dto.Timeframe) ([]byte, error) {
	return s.chartImgRepo.Snapshot(ctx, symbol, string(timeframe))
}

func (s *marketService) ETFFlows(ctx context.Context) ([]dto.ETFFlowReport, error) {
	return s.etfFlowRepo.GetAllFlows(ctx)
}
