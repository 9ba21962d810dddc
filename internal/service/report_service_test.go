package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"
	"harsi-trading-bot/pkg/logger"
	"harsi-trading-bot/pkg/utils"
)

type stubOrderRepository struct {
	orders []model.Order
	err    error
}

func (s *stubOrderRepository) Save(ctx context.Context, userID int64, draft dto.OrderDraft) (uint, error) {
	return 0, errors.New("not implemented")
}

func (s *stubOrderRepository) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderRepository) GetByUser(ctx context.Context, userID int64, param dto.GetOrdersParam) ([]model.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orders, nil
}

func (s *stubOrderRepository) UpdateClose(ctx context.Context, id uint, closePrice float64, draft dto.OrderDraft) (*model.Order, error) {
	return nil, errors.New("not implemented")
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func closedOrder(symbol dto.Symbol, result dto.OrderResult, r *float64, usd *float64) model.Order {
	return model.Order{
		UserID:     42,
		ClosePrice: utils.ToPointer(100.0),
		Data: dto.OrderDraft{
			Symbol:                symbol,
			OrderResult:           result,
			ActualRiskRewardRatio: r,
			ActualRealizedPnLUsd:  usd,
		},
	}
}

func TestReportService_Summary(t *testing.T) {
	repo := &stubOrderRepository{
		orders: []model.Order{
			{UserID: 42, Data: dto.OrderDraft{Symbol: dto.SymbolBTC, OrderResult: dto.ResultInProgress}},
			closedOrder(dto.SymbolBTC, dto.ResultWin, utils.ToPointer(2.5), utils.ToPointer(250.0)),
			closedOrder(dto.SymbolBTC, dto.ResultLoss, utils.ToPointer(-1.0), utils.ToPointer(-100.0)),
			closedOrder(dto.SymbolETH, dto.ResultWin, utils.ToPointer(1.5), nil),
			closedOrder(dto.SymbolETH, dto.ResultBreakeven, utils.ToPointer(0.1), nil),
			// Closed without a stop loss: no R, no result.
			closedOrder(dto.SymbolSOL, dto.ResultInProgress, nil, utils.ToPointer(50.0)),
		},
	}
	svc := NewReportService(newTestLogger(t), repo)

	summary, err := svc.Summary(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 6, summary.TotalOrders)
	assert.Equal(t, 1, summary.Open)
	assert.Equal(t, 5, summary.Closed)
	assert.Equal(t, 2, summary.Wins)
	assert.Equal(t, 1, summary.Losses)
	assert.Equal(t, 1, summary.Breakevens)
	assert.InDelta(t, 200.0/3, summary.WinRate, 1e-9)
	assert.InDelta(t, 3.1, summary.TotalR, 1e-9)
	assert.InDelta(t, 3.1/4, summary.AverageR, 1e-9)

	require.Len(t, summary.BySymbol, 3)
	btc, eth, sol := summary.BySymbol[0], summary.BySymbol[1], summary.BySymbol[2]

	assert.Equal(t, dto.SymbolBTC, btc.Symbol)
	assert.Equal(t, 2, btc.Closed)
	assert.Equal(t, 1, btc.Wins)
	assert.InDelta(t, 1.5, btc.TotalR, 1e-9)
	assert.InDelta(t, 150, btc.TotalUsd, 1e-9)
	assert.True(t, btc.HasUsdPnL)

	assert.Equal(t, dto.SymbolETH, eth.Symbol)
	assert.Equal(t, 2, eth.Closed)
	assert.InDelta(t, 1.6, eth.TotalR, 1e-9)
	assert.False(t, eth.HasUsdPnL)

	assert.Equal(t, dto.SymbolSOL, sol.Symbol)
	assert.Equal(t, 1, sol.Closed)
	assert.Equal(t, 0, sol.Wins)
	assert.True(t, sol.HasUsdPnL)
}

func TestReportService_SummaryEmpty(t *testing.T) {
	svc := NewReportService(newTestLogger(t), &stubOrderRepository{})

	summary, err := svc.Summary(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalOrders)
	assert.Zero(t, summary.WinRate)
	assert.Zero(t, summary.AverageR)
	assert.Empty(t, summary.BySymbol)
}

func TestReportService_SummaryPropagatesRepoError(t *testing.T) {
	repoErr := errors.New("db down")
	svc := NewReportService(newTestLogger(t), &stubOrderRepository{err: repoErr})

	summary, err := svc.Summary(context.Background(), 42)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, repoErr)
}
