package dto

// OrderDraft is the evolving trade record built by the order wizard. Optional
// and not-yet-reached fields are nil. The Potential*/Actual* fields are
// derived by the risk calculator and never user-entered.
type OrderDraft struct {
	Symbol    Symbol    `json:"symbol"`
	Direction Direction `json:"direction"`

	Harsi1W  *HarsiReading `json:"harsi_1w,omitempty" gorm:"column:harsi_1w"`
	Harsi3D  *HarsiReading `json:"harsi_3d,omitempty" gorm:"column:harsi_3d"`
	Harsi1D  *HarsiReading `json:"harsi_1d,omitempty" gorm:"column:harsi_1d"`
	Harsi12H *HarsiReading `json:"harsi_12h,omitempty" gorm:"column:harsi_12h"`
	Harsi8H  *HarsiReading `json:"harsi_8h,omitempty" gorm:"column:harsi_8h"`
	Harsi4H  *HarsiReading `json:"harsi_4h,omitempty" gorm:"column:harsi_4h"`
	Harsi2H  *HarsiReading `json:"harsi_2h,omitempty" gorm:"column:harsi_2h"`

	Entry      *float64 `json:"entry,omitempty"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty"`

	Notes *string `json:"notes,omitempty"`

	PotentialStopLoss        *float64 `json:"potential_stop_loss,omitempty"`
	PotentialStopLossUsd     *float64 `json:"potential_stop_loss_usd,omitempty"`
	PotentialStopLossPercent *float64 `json:"potential_stop_loss_percent,omitempty"`
	PotentialProfit          *float64 `json:"potential_profit,omitempty"`
	PotentialProfitUsd       *float64 `json:"potential_profit_usd,omitempty"`
	PotentialProfitPercent   *float64 `json:"potential_profit_percent,omitempty"`
	PotentialRiskRewardRatio *float64 `json:"potential_risk_reward_ratio,omitempty"`

	ActualRealizedPnL        *float64    `json:"actual_realized_pnl,omitempty" gorm:"column:actual_realized_pnl"`
	ActualRealizedPnLUsd     *float64    `json:"actual_realized_pnl_usd,omitempty" gorm:"column:actual_realized_pnl_usd"`
	ActualRealizedPnLPercent *float64    `json:"actual_realized_pnl_percent,omitempty" gorm:"column:actual_realized_pnl_percent"`
	ActualRiskRewardRatio    *float64    `json:"actual_risk_reward_ratio,omitempty"`
	OrderResult              OrderResult `json:"order_result"`
}

// GetOrdersParam filters an order listing.
type GetOrdersParam struct {
	OnlyOpen   bool
	OnlyClosed bool
	Symbol     *Symbol
	Limit      int
}

// Harsi returns the reading stored for tf, or nil.
func (d *OrderDraft) Harsi(tf Timeframe) *HarsiReading {
	switch tf {
	case Timeframe1W:
		return d.Harsi1W
	case Timeframe3D:
		return d.Harsi3D
	case Timeframe1D:
		return d.Harsi1D
	case Timeframe12H:
		return d.Harsi12H
	case Timeframe8H:
		return d.Harsi8H
	case Timeframe4H:
		return d.Harsi4H
	case Timeframe2H:
		return d.Harsi2H
	default:
		return nil
	}
}

// SetHarsi stores reading for tf. A nil reading clears the field, which is
// how the skip sentinel is recorded.
func (d *OrderDraft) SetHarsi(tf Timeframe, reading *HarsiReading) {
	switch tf {
	case Timeframe1W:
		d.Harsi1W = reading
	case Timeframe3D:
		d.Harsi3D = reading
	case Timeframe1D:
		d.Harsi1D = reading
	case Timeframe12H:
		d.Harsi12H = reading
	case Timeframe8H:
		d.Harsi8H = reading
	case Timeframe4H:
		d.Harsi4H = reading
	case Timeframe2H:
		d.Harsi2H = reading
	}
}
