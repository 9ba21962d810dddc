package dto

// ETFAsset identifies which spot-ETF flow table to scrape.
type ETFAsset string

const (
	ETFAssetBTC ETFAsset = "btc"
	ETFAssetETH ETFAsset = "eth"
)

// ETFFlowRow is one daily row from a provider flow table, in millions USD.
type ETFFlowRow struct {
	Date      string  `json:"date"`
	TotalFlow float64 `json:"total_flow"`
}

// ETFFlowReport is the scraped flow history of one asset.
type ETFFlowReport struct {
	Asset ETFAsset     `json:"asset"`
	Rows  []ETFFlowRow `json:"rows"`
}
