package service

import (
	"context"
	"sort"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/repository"
	"harsi-trading-bot/pkg/logger"
)

type ReportService interface {
	Summary(ctx context.Context, userID int64) (*dto.ReportSummary, error)
}

type reportService struct {
	log       *logger.Logger
	orderRepo repository.OrderRepository
}

func NewReportService(log *logger.Logger, orderRepo repository.OrderRepository) ReportService {
	return &reportService{log: log, orderRepo: orderRepo}
}

// Summary aggregates the user's orders into win/loss statistics. Only closed
// orders contribute to the result counts; R totals only include orders whose
// realized ratio could be derived.
func (s *reportService) Summary(ctx context.Context, userID int64) (*dto.ReportSummary, error) {
	orders, err := s.orderRepo.GetByUser(ctx, userID, dto.GetOrdersParam{})
	if err != nil {
		return nil, err
	}

	summary := &dto.ReportSummary{TotalOrders: len(orders)}
	bySymbol := make(map[dto.Symbol]*dto.SymbolStats)
	ordersWithR := 0

	for _, order := range orders {
		if !order.IsClosed() {
			summary.Open++
			continue
		}
		summary.Closed++

		stats, ok := bySymbol[order.Data.Symbol]
		if !ok {
			stats = &dto.SymbolStats{Symbol: order.Data.Symbol}
			bySymbol[order.Data.Symbol] = stats
		}
		stats.Closed++

		switch order.Data.OrderResult {
		case dto.ResultWin:
			summary.Wins++
			stats.Wins++
		case dto.ResultLoss:
			summary.Losses++
		case dto.ResultBreakeven:
			summary.Breakevens++
		}

		if r := order.Data.ActualRiskRewardRatio; r != nil {
			summary.TotalR += *r
			stats.TotalR += *r
			ordersWithR++
		}
		if usd := order.Data.ActualRealizedPnLUsd; usd != nil {
			stats.TotalUsd += *usd
			stats.HasUsdPnL = true
		}
	}

	if decided := summary.Wins + summary.Losses; decided > 0 {
		summary.WinRate = float64(summary.Wins) / float64(decided) * 100
	}
	if ordersWithR > 0 {
		summary.AverageR = summary.TotalR / float64(ordersWithR)
	}

	for _, stats := range bySymbol {
		summary.BySymbol = append(summary.BySymbol, *stats)
	}
	sort.Slice(summary.BySymbol, func(i, j int) bool {
		return summary.BySymbol[i].Symbol < summary.BySymbol[j].Symbol
	})

	return summary, nil
}
