package domain

import "github.com/shopspring/decimal"

// Order represents a resting limit order inside the simulator.
// All monetary values are decimal fixed-point, never float64, so that
// price comparisons are exact and replays are bit-reproducible.
type Order struct {
	Symbol        string          `json:"symbol"`          // Exchange-normalized uppercase, e.g. "BTCUSDT"
	OrderID       uint64          `json:"order_id"`        // Monotonic per engine instance, starts at 1
	ClientOrderID string          `json:"client_order_id"` // Deterministic hash of OrderID
	Side          string          `json:"side"`            // "BUY", "SELL"
	Price         decimal.Decimal `json:"price"`           // Limit price
	OrigQty       decimal.Decimal `json:"orig_qty"`        // Requested quantity
	ExecutedQty   decimal.Decimal `json:"executed_qty"`    // Zero until filled, then equals OrigQty
	Status        string          `json:"status"`          // "NEW", "FILLED"
	CreatedTime   int64           `json:"created_time"`    // Unix milliseconds
	UpdatedTime   int64           `json:"updated_time"`    // Unix milliseconds
}

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	OrderStatusNew    = "NEW"
	OrderStatusFilled = "FILLED"
)

// IsOpen checks if the order is still resting on a book side.
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusNew
}

// OrderAck is the acknowledgement returned to the caller of PlaceOrder.
// It mirrors the order's fields but is a separate type so the public
// contract can diverge from the internal representation without
// breaking callers.
type OrderAck struct {
	Symbol        string          `json:"symbol"`
	OrderID       uint64          `json:"order_id"`
	ClientOrderID string          `json:"client_order_id"`
	Side          string          `json:"side"`
	Price         decimal.Decimal `json:"price"`
	OrigQty       decimal.Decimal `json:"orig_qty"`
	ExecutedQty   decimal.Decimal `json:"executed_qty"`
	Status        string          `json:"status"`
	TransactTime  int64           `json:"transact_time"`
}
