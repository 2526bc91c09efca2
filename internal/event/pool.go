package event

import (
	"sync"

	"github.com/shopspring/decimal"
)

// EventPool provides sync.Pool for high-frequency event allocation.
// Use this to reduce GC pressure in the hotpath.
//
// Usage:
//
//	ev := AcquireTradeEvent()
//	ev.Symbol = "BTCUSDT"
//	// ... publish by value ...
//	ReleaseTradeEvent(ev)  // Return to pool after the publish copied it
var tradeEventPool = sync.Pool{
	New: func() interface{} {
		return &TradeEvent{}
	},
}

// AcquireTradeEvent gets a TradeEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireTradeEvent() *TradeEvent {
	return tradeEventPool.Get().(*TradeEvent)
}

// ReleaseTradeEvent returns a TradeEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseTradeEvent(ev *TradeEvent) {
	if ev == nil {
		return
	}
	// Reset all fields to zero values
	ev.EventType = ""
	ev.EventTime = 0
	ev.Symbol = ""
	ev.TradeID = 0
	ev.Price = decimal.Decimal{}
	ev.Quantity = decimal.Decimal{}
	ev.BuyerOrderID = 0
	ev.SellerOrderID = 0
	ev.TradeTime = 0
	ev.IsBuyerMaker = false

	tradeEventPool.Put(ev)
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
// It acquires and releases a batch of events.
func Warmup() {
	const batchSize = 1000

	evs := make([]*TradeEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		evs = append(evs, AcquireTradeEvent())
	}
	for _, ev := range evs {
		ReleaseTradeEvent(ev)
	}
}
