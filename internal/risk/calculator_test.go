package risk

import (
	"testing"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_LongPotentials(t *testing.T) {
	draft := dto.OrderDraft{
		Symbol:     dto.SymbolBTC,
		Direction:  dto.DirectionLong,
		Entry:      utils.ToPointer(100.0),
		StopLoss:   utils.ToPointer(95.0),
		TakeProfit: utils.ToPointer(115.0),
		Quantity:   utils.ToPointer(2.0),
	}

	got := Calculate(draft, nil)

	require.NotNil(t, got.PotentialStopLoss)
	assert.InDelta(t, 5.0, *got.PotentialStopLoss, 1e-9)
	assert.InDelta(t, 5.0, *got.PotentialStopLossPercent, 1e-9)
	assert.InDelta(t, 10.0, *got.PotentialStopLossUsd, 1e-9)

	require.NotNil(t, got.PotentialProfit)
	assert.InDelta(t, 15.0, *got.PotentialProfit, 1e-9)
	assert.InDelta(t, 15.0, *got.PotentialProfitPercent, 1e-9)
	assert.InDelta(t, 30.0, *got.PotentialProfitUsd, 1e-9)

	require.NotNil(t, got.PotentialRiskRewardRatio)
	assert.InDelta(t, 3.0, *got.PotentialRiskRewardRatio, 1e-9)

	assert.Equal(t, dto.ResultInProgress, got.OrderResult)
	assert.Nil(t, got.ActualRealizedPnL)
}

func TestCalculate_ShortDirectionSigns(t *testing.T) {
	draft := dto.OrderDraft{
		Symbol:     dto.SymbolETH,
		Direction:  dto.DirectionShort,
		Entry:      utils.ToPointer(200.0),
		StopLoss:   utils.ToPointer(210.0),
		TakeProfit: utils.ToPointer(170.0),
	}

	got := Calculate(draft, utils.ToPointer(180.0))

	// Risk distance and profit distance are both positive for a
	// well-formed short.
	assert.InDelta(t, 10.0, *got.PotentialStopLoss, 1e-9)
	assert.InDelta(t, 30.0, *got.PotentialProfit, 1e-9)
	assert.InDelta(t, 3.0, *got.PotentialRiskRewardRatio, 1e-9)

	// Price dropped 20 on a short: profit is positive.
	require.NotNil(t, got.ActualRealizedPnL)
	assert.InDelta(t, 20.0, *got.ActualRealizedPnL, 1e-9)
	assert.InDelta(t, 10.0, *got.ActualRealizedPnLPercent, 1e-9)
	assert.InDelta(t, 2.0, *got.ActualRiskRewardRatio, 1e-9)
	assert.Equal(t, dto.ResultWin, got.OrderResult)
}

func TestCalculate_MissingInputsLeaveDerivedAbsent(t *testing.T) {
	tests := []struct {
		name  string
		draft dto.OrderDraft
	}{
		{
			name:  "no entry",
			draft: dto.OrderDraft{StopLoss: utils.ToPointer(95.0), TakeProfit: utils.ToPointer(110.0)},
		},
		{
			name:  "entry only",
			draft: dto.OrderDraft{Entry: utils.ToPointer(100.0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.draft, nil)
			assert.Nil(t, got.PotentialStopLoss)
			assert.Nil(t, got.PotentialStopLossUsd)
			assert.Nil(t, got.PotentialStopLossPercent)
			assert.Nil(t, got.PotentialRiskRewardRatio)
			assert.Equal(t, dto.ResultInProgress, got.OrderResult)
		})
	}
}

func TestCalculate_NoQuantityMeansNoUsd(t *testing.T) {
	draft := dto.OrderDraft{
		Direction:  dto.DirectionLong,
		Entry:      utils.ToPointer(100.0),
		StopLoss:   utils.ToPointer(90.0),
		TakeProfit: utils.ToPointer(120.0),
	}

	got := Calculate(draft, utils.ToPointer(120.0))

	assert.NotNil(t, got.PotentialStopLoss)
	assert.Nil(t, got.PotentialStopLossUsd)
	assert.NotNil(t, got.PotentialProfit)
	assert.Nil(t, got.PotentialProfitUsd)
	assert.NotNil(t, got.ActualRealizedPnL)
	assert.Nil(t, got.ActualRealizedPnLUsd)
}

func TestCalculate_CloseWithoutStopLossStaysInProgress(t *testing.T) {
	draft := dto.OrderDraft{
		Direction: dto.DirectionLong,
		Entry:     utils.ToPointer(100.0),
	}

	got := Calculate(draft, utils.ToPointer(130.0))

	// PnL can be derived but there is no risk unit to express it in R.
	require.NotNil(t, got.ActualRealizedPnL)
	assert.InDelta(t, 30.0, *got.ActualRealizedPnL, 1e-9)
	assert.Nil(t, got.ActualRiskRewardRatio)
	assert.Equal(t, dto.ResultInProgress, got.OrderResult)
}

func TestCalculate_RecomputeResetsStaleDerived(t *testing.T) {
	stale := 999.0
	draft := dto.OrderDraft{
		Direction:                dto.DirectionLong,
		Entry:                    utils.ToPointer(100.0),
		PotentialStopLoss:        &stale,
		PotentialRiskRewardRatio: &stale,
		ActualRealizedPnL:        &stale,
		OrderResult:              dto.ResultWin,
	}

	got := Calculate(draft, nil)

	assert.Nil(t, got.PotentialStopLoss)
	assert.Nil(t, got.PotentialRiskRewardRatio)
	assert.Nil(t, got.ActualRealizedPnL)
	assert.Equal(t, dto.ResultInProgress, got.OrderResult)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		r    float64
		want dto.OrderResult
	}{
		{name: "clear win", r: 2.5, want: dto.ResultWin},
		{name: "just above band", r: 0.21, want: dto.ResultWin},
		{name: "upper band edge", r: 0.2, want: dto.ResultBreakeven},
		{name: "zero", r: 0, want: dto.ResultBreakeven},
		{name: "lower band edge", r: -0.2, want: dto.ResultBreakeven},
		{name: "just below band", r: -0.21, want: dto.ResultLoss},
		{name: "clear loss", r: -1.0, want: dto.ResultLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.r))
		})
	}
}
