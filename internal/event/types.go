package event

import "github.com/shopspring/decimal"

// EventTypeTrade is the event_type carried by every bus event.
const EventTypeTrade = "trade"

// TradeEvent is the single event shape on the bus. Inbound market ticks
// and outbound synthetic fills use the identical shape and the identical
// per-symbol topic, so subscribers cannot distinguish origin by topic
// alone. Inbound ticks carry zero order ids.
//
// Field tags follow the Binance aggTrade wire format so a recorded
// stream can be replayed against the simulator byte for byte.
type TradeEvent struct {
	EventType     string          `json:"e"` // "trade"
	EventTime     int64           `json:"E"` // Unix milliseconds
	Symbol        string          `json:"s"`
	TradeID       int64           `json:"t"`
	Price         decimal.Decimal `json:"p"`
	Quantity      decimal.Decimal `json:"q"`
	BuyerOrderID  uint64          `json:"b"`
	SellerOrderID uint64          `json:"a"`
	TradeTime     int64           `json:"T"` // Unix milliseconds
	IsBuyerMaker  bool            `json:"m"`
}

// IsFill reports whether the event was synthesized by the matching
// engine rather than observed on a live market. Real ticks never carry
// order ids.
func (ev *TradeEvent) IsFill() bool {
	return ev.BuyerOrderID != 0 || ev.SellerOrderID != 0
}
