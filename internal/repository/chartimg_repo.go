package repository

import (
	"context"
	"fmt"

	"harsi-trading-bot/config"
	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/pkg/httpclient"
	"harsi-trading-bot/pkg/logger"
)

// ChartImgRepository renders chart snapshots through the chart-img.com API.
type ChartImgRepository interface {
	Snapshot(ctx context.Context, symbol dto.Symbol, interval string) ([]byte, error)
}

type chartImgRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	log        *logger.Logger
}

func NewChartImgRepository(cfg *config.Config, log *logger.Logger) ChartImgRepository {
	return &chartImgRepository{
		httpClient: httpclient.New(cfg.ChartImg.BaseURL, cfg.ChartImg.Timeout, ""),
		cfg:        cfg,
		log:        log,
	}
}

// Snapshot returns the rendered chart PNG for the symbol at the given
// interval ("4h", "1d", ...).
func (r *chartImgRepository) Snapshot(ctx context.Context, symbol dto.Symbol, interval string) ([]byte, error) {
	tvSymbol := symbol.TradingViewSymbol()
	if tvSymbol == "" {
		return nil, fmt.Errorf("no chart symbol for %s", symbol)
	}

	queryParams := map[string]string{
		"symbol":   tvSymbol,
		"interval": interval,
		"theme":    r.cfg.ChartImg.Theme,
	}
	headers := map[string]string{
		"x-api-key": r.cfg.ChartImg.APIKey,
	}

	resp, err := r.httpClient.Get(ctx, "/v2/tradingview/advanced-chart", queryParams, headers, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart snapshot: %w", err)
	}
	if !resp.IsSuccess() {
		r.log.Error("chart-img API returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", tvSymbol))
		return nil, fmt.Errorf("chart-img api returned status: %d", resp.StatusCode)
	}
	return resp.Body, nil
}
