package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"harsi-trading-bot/config"
	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/pkg/httpclient"
	"harsi-trading-bot/pkg/logger"

	"golang.org/x/time/rate"
)

// BinanceRepository fetches candles and last prices from the Binance spot
// REST API.
type BinanceRepository interface {
	GetKlines(ctx context.Context, symbol dto.Symbol, interval string, limit int) ([]dto.BinanceKline, error)
	GetLastPrice(ctx context.Context, symbol dto.Symbol) (float64, error)
}

type binanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	log            *logger.Logger
	requestLimiter *rate.Limiter
}

func NewBinanceRepository(cfg *config.Config, log *logger.Logger) BinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Binance.MaxRequestPerMinute)
	return &binanceRepository{
		httpClient:     httpclient.New(cfg.Binance.BaseURL, cfg.Binance.Timeout, ""),
		cfg:            cfg,
		log:            log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *binanceRepository) GetKlines(ctx context.Context, symbol dto.Symbol, interval string, limit int) ([]dto.BinanceKline, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	pair := symbol.BinancePair()
	if pair == "" {
		return nil, fmt.Errorf("no binance pair for symbol %s", symbol)
	}

	queryParams := map[string]string{
		"symbol":   pair,
		"interval": interval,
		"limit":    strconv.Itoa(limit),
	}

	var klines [][]interface{}
	resp, err := r.httpClient.Get(ctx, "/api/v3/klines", queryParams, nil, &klines)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch klines from binance: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		r.log.Error("Binance API returned non-OK status for klines",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("binance api returned status: %d", resp.StatusCode)
	}

	result := make([]dto.BinanceKline, 0, len(klines))
	for _, k := range klines {
		if len(k) < 7 {
			continue
		}
		openTime, _ := k[0].(float64)
		open := parseKlineFloat(k[1])
		high := parseKlineFloat(k[2])
		low := parseKlineFloat(k[3])
		closePrice := parseKlineFloat(k[4])
		volume := parseKlineFloat(k[5])
		closeTime, _ := k[6].(float64)

		result = append(result, dto.BinanceKline{
			OpenTime:  int64(openTime),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			CloseTime: int64(closeTime),
		})
	}
	return result, nil
}

func (r *binanceRepository) GetLastPrice(ctx context.Context, symbol dto.Symbol) (float64, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return 0, err
	}

	pair := symbol.BinancePair()
	if pair == "" {
		return 0, fmt.Errorf("no binance pair for symbol %s", symbol)
	}

	var price dto.BinancePrice
	resp, err := r.httpClient.Get(ctx, "/api/v3/ticker/price", map[string]string{"symbol": pair}, nil, &price)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch last price from binance: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("binance api returned status: %d", resp.StatusCode)
	}

	value, err := strconv.ParseFloat(price.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q from binance: %w", price.Price, err)
	}
	return value, nil
}

func parseKlineFloat(v interface{}) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
