package dto

// SymbolStats is the per-symbol slice of a trading report.
type SymbolStats struct {
	Symbol    Symbol  `json:"symbol"`
	Closed    int     `json:"closed"`
	Wins      int     `json:"wins"`
	TotalR    float64 `json:"total_r"`
	TotalUsd  float64 `json:"total_usd"`
	HasUsdPnL bool    `json:"has_usd_pnl"`
}

// ReportSummary aggregates a user's closed orders into win/loss statistics.
type ReportSummary struct {
	TotalOrders int           `json:"total_orders"`
	Open        int           `json:"open"`
	Closed      int           `json:"closed"`
	Wins        int           `json:"wins"`
	Losses      int           `json:"losses"`
	Breakevens  int           `json:"breakevens"`
	WinRate     float64       `json:"win_rate"`
	TotalR      float64       `json:"total_r"`
	AverageR    float64       `json:"average_r"`
	BySymbol    []SymbolStats `json:"by_symbol"`
}
