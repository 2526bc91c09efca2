package domain

import "time"

// TradeRecord is the persisted form of one bus trade event, kept for
// post-run analysis. Both market ticks and synthetic fills are recorded;
// fills carry non-zero order ids.
type TradeRecord struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Symbol        string `gorm:"index" json:"symbol"`
	TradeID       int64  `json:"trade_id"`
	Price         string `json:"price"` // Decimal string, exact
	Quantity      string `json:"quantity"`
	BuyerOrderID  uint64 `json:"buyer_order_id"`
	SellerOrderID uint64 `json:"seller_order_id"`
	EventTime     int64  `gorm:"index" json:"event_time"` // Unix milliseconds
	IsFill        bool   `gorm:"index" json:"is_fill"`
	CreatedAt     time.Time
}

// RunConfig represents run-specific configuration (Key-Value)
type RunConfig struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
