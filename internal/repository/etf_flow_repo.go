package repository

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"harsi-trading-bot/config"
	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/pkg/httpclient"
	"harsi-trading-bot/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ETFFlowRepository scrapes daily spot-ETF flow tables from the farside
// pages. The pages are plain HTML tables; this only pulls the date and the
// daily total column.
type ETFFlowRepository interface {
	GetFlows(ctx context.Context, asset dto.ETFAsset) (*dto.ETFFlowReport, error)
	GetAllFlows(ctx context.Context) ([]dto.ETFFlowReport, error)
}

type etfFlowRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	log        *logger.Logger
}

func NewETFFlowRepository(cfg *config.Config, log *logger.Logger) ETFFlowRepository {
	return &etfFlowRepository{
		httpClient: httpclient.New(cfg.ETF.BaseURL, cfg.ETF.Timeout, ""),
		cfg:        cfg,
		log:        log,
	}
}

var (
	tableRowRe  = regexp.MustCompile(`(?s)<tr[^>]*>(.*?)</tr>`)
	tableCellRe = regexp.MustCompile(`(?s)<td[^>]*>(.*?)</td>`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)
	flowDateRe  = regexp.MustCompile(`^\d{1,2} [A-Z][a-z]{2} \d{4}$`)
)

func (r *etfFlowRepository) pagePath(asset dto.ETFAsset) (string, error) {
	switch asset {
	case dto.ETFAssetBTC:
		return "/btc-etf-flow-all-data/", nil
	case dto.ETFAssetETH:
		return "/ethereum-etf-flow-all-data/", nil
	default:
		return "", fmt.Errorf("unknown etf asset %q", asset)
	}
}

func (r *etfFlowRepository) GetFlows(ctx context.Context, asset dto.ETFAsset) (*dto.ETFFlowReport, error) {
	path, err := r.pagePath(asset)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Get(ctx, path, nil, map[string]string{
		"User-Agent": "Mozilla/5.0 (compatible; harsi-trading-bot)",
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch etf flow page: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("etf flow page returned status: %d", resp.StatusCode)
	}

	rows := parseFlowRows(string(resp.Body), r.cfg.ETF.MaxRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no flow rows parsed for %s", asset)
	}

	return &dto.ETFFlowReport{Asset: asset, Rows: rows}, nil
}

// GetAllFlows fetches the BTC and ETH pages concurrently.
func (r *etfFlowRepository) GetAllFlows(ctx context.Context) ([]dto.ETFFlowReport, error) {
	assets := []dto.ETFAsset{dto.ETFAssetBTC, dto.ETFAssetETH}
	reports := make([]*dto.ETFFlowReport, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	for i, asset := range assets {
		g.Go(func() error {
			report, err := r.GetFlows(gctx, asset)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]dto.ETFFlowReport, 0, len(reports))
	for _, rep := range reports {
		out = append(out, *rep)
	}
	return out, nil
}

// parseFlowRows extracts up to maxRows recent (date, total) pairs from the
// page. The total is the last numeric cell of each row; parenthesized
// values are outflows.
func parseFlowRows(page string, maxRows int) []dto.ETFFlowRow {
	var rows []dto.ETFFlowRow

	for _, rowMatch := range tableRowRe.FindAllStringSubmatch(page, -1) {
		cells := tableCellRe.FindAllStringSubmatch(rowMatch[1], -1)
		if len(cells) < 2 {
			continue
		}

		date := cleanCell(cells[0][1])
		if !flowDateRe.MatchString(date) {
			continue
		}

		total, ok := parseFlowValue(cleanCell(cells[len(cells)-1][1]))
		if !ok {
			continue
		}

		rows = append(rows, dto.ETFFlowRow{Date: date, TotalFlow: total})
		if maxRows > 0 && len(rows) >= maxRows {
			break
		}
	}
	return rows
}

func cleanCell(cell string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(cell, ""))
}

func parseFlowValue(cell string) (float64, bool) {
	s := strings.ReplaceAll(cell, ",", "")
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}
