package dto

// BinanceKline is a single candlestick from the Binance klines endpoint.
type BinanceKline struct {
	OpenTime  int64   `json:"openTime"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	CloseTime int64   `json:"closeTime"`
}

// BinancePrice is the last traded price of a pair.
type BinancePrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// PriceSummary is the last price with an optional daily change. The change
// is nil when the daily candle could not be fetched.
type PriceSummary struct {
	Symbol             Symbol   `json:"symbol"`
	LastPrice          float64  `json:"last_price"`
	DailyChangePercent *float64 `json:"daily_change_percent,omitempty"`
}
