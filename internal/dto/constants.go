package dto

import "strings"

// Symbol is the closed set of markets the journal tracks.
type Symbol string

const (
	SymbolBTC Symbol = "BTC"
	SymbolETH Symbol = "ETH"
	SymbolSOL Symbol = "SOL"
	SymbolXAU Symbol = "XAU"
)

// Symbols lists every tracked market in display order.
var Symbols = []Symbol{SymbolBTC, SymbolETH, SymbolSOL, SymbolXAU}

// ParseSymbol normalizes user input ("btc", "/BTC", "eth@mybot") into a
// Symbol from the closed set.
func ParseSymbol(text string) (Symbol, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "/")
	if at := strings.Index(s, "@"); at >= 0 {
		s = s[:at]
	}
	s = strings.ToUpper(s)
	for _, sym := range Symbols {
		if string(sym) == s {
			return sym, true
		}
	}
	return "", false
}

// BinancePair maps a Symbol to the Binance trading pair used for candle and
// price lookups. Gold is proxied through PAXG.
func (s Symbol) BinancePair() string {
	switch s {
	case SymbolBTC:
		return "BTCUSDT"
	case SymbolETH:
		return "ETHUSDT"
	case SymbolSOL:
		return "SOLUSDT"
	case SymbolXAU:
		return "PAXGUSDT"
	default:
		return ""
	}
}

// TradingViewSymbol maps a Symbol to the chart provider's symbol notation.
func (s Symbol) TradingViewSymbol() string {
	switch s {
	case SymbolBTC:
		return "BINANCE:BTCUSDT"
	case SymbolETH:
		return "BINANCE:ETHUSDT"
	case SymbolSOL:
		return "BINANCE:SOLUSDT"
	case SymbolXAU:
		return "OANDA:XAUUSD"
	default:
		return ""
	}
}

// Direction of a trade.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

func ParseDirection(text string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "LONG":
		return DirectionLong, true
	case "SHORT":
		return DirectionShort, true
	default:
		return "", false
	}
}

// HarsiReading is one classified HARSI observation.
type HarsiReading string

const (
	HarsiBullish HarsiReading = "bullish"
	HarsiBearish HarsiReading = "bearish"
	HarsiNeutral HarsiReading = "neutral"
)

func ParseHarsiReading(text string) (HarsiReading, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "bullish":
		return HarsiBullish, true
	case "bearish":
		return HarsiBearish, true
	case "neutral":
		return HarsiNeutral, true
	default:
		return "", false
	}
}

// Opposes reports whether the reading strongly contradicts the direction.
func (h HarsiReading) Opposes(d Direction) bool {
	switch d {
	case DirectionLong:
		return h == HarsiBearish
	case DirectionShort:
		return h == HarsiBullish
	default:
		return false
	}
}

// Timeframe of one HARSI observation.
type Timeframe string

const (
	Timeframe1W  Timeframe = "1w"
	Timeframe3D  Timeframe = "3d"
	Timeframe1D  Timeframe = "1d"
	Timeframe12H Timeframe = "12h"
	Timeframe8H  Timeframe = "8h"
	Timeframe4H  Timeframe = "4h"
	Timeframe2H  Timeframe = "2h"
)

// Timeframes is the fixed prompt order of the wizard's HARSI steps.
var Timeframes = []Timeframe{
	Timeframe1W, Timeframe3D, Timeframe1D,
	Timeframe12H, Timeframe8H, Timeframe4H, Timeframe2H,
}

func ParseTimeframe(text string) (Timeframe, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, tf := range Timeframes {
		if string(tf) == s {
			return tf, true
		}
	}
	return "", false
}

// OrderResult classifies a closed (or still running) order.
type OrderResult string

const (
	ResultWin        OrderResult = "win"
	ResultLoss       OrderResult = "loss"
	ResultBreakeven  OrderResult = "breakeven"
	ResultInProgress OrderResult = "in_progress"
)

func (r OrderResult) String() string {
	switch r {
	case ResultWin:
		return "🟢 Thắng"
	case ResultLoss:
		return "🔴 Thua"
	case ResultBreakeven:
		return "🟡 Hòa vốn"
	case ResultInProgress:
		return "⏳ Đang chạy"
	default:
		return "Unknown"
	}
}

// Trend is the aggregate direction of a HARSI survey.
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
	TrendNeutral Trend = "Neutral"
)

// Recommendation derived from a survey's trend.
type Recommendation string

const (
	RecommendLong  Recommendation = "LONG"
	RecommendShort Recommendation = "SHORT"
	RecommendWait  Recommendation = "WAIT"
)
