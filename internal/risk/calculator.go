// Package risk derives the risk/reward fields of an order draft. Every
// derived field is a deterministic function of the inputs it depends on; a
// missing input leaves the dependent field absent rather than defaulted.
package risk

import (
	"math"

	"harsi-trading-bot/internal/dto"
)

// BreakevenBandR is the half-width, in R units, of the band around zero that
// classifies a closed order as breakeven. Fixed business rule, not tunable.
const BreakevenBandR = 0.2

// Calculate returns a copy of draft with all derived fields recomputed.
// closePrice, when non-nil, additionally resolves the Actual* fields and the
// win/loss/breakeven classification. No rounding is performed here; rounding
// is a presentation concern.
func Calculate(draft dto.OrderDraft, closePrice *float64) dto.OrderDraft {
	d := draft
	d.PotentialStopLoss = nil
	d.PotentialStopLossUsd = nil
	d.PotentialStopLossPercent = nil
	d.PotentialProfit = nil
	d.PotentialProfitUsd = nil
	d.PotentialProfitPercent = nil
	d.PotentialRiskRewardRatio = nil
	d.ActualRealizedPnL = nil
	d.ActualRealizedPnLUsd = nil
	d.ActualRealizedPnLPercent = nil
	d.ActualRiskRewardRatio = nil
	d.OrderResult = dto.ResultInProgress

	if d.Entry != nil && d.StopLoss != nil {
		var sl float64
		switch d.Direction {
		case dto.DirectionLong:
			sl = *d.Entry - *d.StopLoss
		case dto.DirectionShort:
			sl = *d.StopLoss - *d.Entry
		default:
			sl = math.Abs(*d.Entry - *d.StopLoss)
		}
		d.PotentialStopLoss = &sl

		if *d.Entry > 0 {
			pct := sl / *d.Entry * 100
			d.PotentialStopLossPercent = &pct
		}
		if d.Quantity != nil {
			usd := sl * *d.Quantity
			d.PotentialStopLossUsd = &usd
		}
	}

	if d.Entry != nil && d.TakeProfit != nil {
		var profit float64
		switch d.Direction {
		case dto.DirectionShort:
			profit = *d.Entry - *d.TakeProfit
		default:
			profit = *d.TakeProfit - *d.Entry
		}
		d.PotentialProfit = &profit

		if *d.Entry > 0 {
			pct := profit / *d.Entry * 100
			d.PotentialProfitPercent = &pct
		}
		if d.Quantity != nil {
			usd := profit * *d.Quantity
			d.PotentialProfitUsd = &usd
		}
	}

	if d.PotentialProfit != nil && d.PotentialStopLoss != nil && *d.PotentialStopLoss > 0 {
		rr := *d.PotentialProfit / *d.PotentialStopLoss
		d.PotentialRiskRewardRatio = &rr
	}

	if closePrice == nil {
		return d
	}

	if d.Entry != nil {
		// Sign convention: positive is always profit, whatever the direction.
		var pnl float64
		switch d.Direction {
		case dto.DirectionShort:
			pnl = *d.Entry - *closePrice
		default:
			pnl = *closePrice - *d.Entry
		}
		d.ActualRealizedPnL = &pnl

		if *d.Entry > 0 {
			pct := pnl / *d.Entry * 100
			d.ActualRealizedPnLPercent = &pct
		}
		if d.Quantity != nil {
			usd := pnl * *d.Quantity
			d.ActualRealizedPnLUsd = &usd
		}

		if d.PotentialStopLoss != nil && *d.PotentialStopLoss > 0 {
			r := pnl / *d.PotentialStopLoss
			d.ActualRiskRewardRatio = &r
			d.OrderResult = Classify(r)
		}
	}

	return d
}

// Classify maps a realized R-multiple to a result bucket.
func Classify(r float64) dto.OrderResult {
	switch {
	case r > BreakevenBandR:
		return dto.ResultWin
	case r < -BreakevenBandR:
		return dto.ResultLoss
	default:
		return dto.ResultBreakeven
	}
}
