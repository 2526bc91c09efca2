package domain

import "github.com/shopspring/decimal"

// MarketStat aggregates what one bus subscriber has observed for a
// symbol: the latest tick and the synthetic fills mixed into the same
// topic.
type MarketStat struct {
	Symbol        string          `json:"symbol"`
	LastPrice     decimal.Decimal `json:"last_price"`
	LastEventTime int64           `json:"last_event_time"` // Unix milliseconds
	TicksSeen     uint64          `json:"ticks_seen"`
	FillsSeen     uint64          `json:"fills_seen"`
	FilledVolume  decimal.Decimal `json:"filled_volume"`
}
