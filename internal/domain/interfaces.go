package domain

import (
	"context"

	"mock_exchange/internal/event"
)

// EventBus defines the publish/subscribe transport the engine and its
// collaborators communicate over. Any in-process broker or out-of-process
// broker satisfies it; delivery is assumed at-least-once and FIFO per
// topic per subscriber.
type EventBus interface {
	Subscribe(topic string) <-chan event.TradeEvent
	Publish(topic string, ev event.TradeEvent)
}

// MarketDataFeed defines the interface for exchange WebSocket connectors
// that turn a live wire protocol into bus trade events.
type MarketDataFeed interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
}

// TradeRepository defines how recorded trade events are persisted and
// read back for post-run analysis.
type TradeRepository interface {
	SaveTrade(rec *TradeRecord) error
	FindBySymbol(symbol string) ([]*TradeRecord, error)
}
