package engine

import (
	"context"
	"log/slog"

	"mock_exchange/internal/bus"
	"mock_exchange/internal/event"
)

// ensureSubscribed lazily subscribes the engine to a symbol's topic on
// the first order for that symbol. Subscriptions are monotonic for the
// process lifetime: the engine never listens to a symbol it holds no
// orders for, and never unsubscribes. Only the engine goroutine touches
// the subscribed set.
func (e *Engine) ensureSubscribed(symbol string) {
	if e.subscribed[symbol] {
		return
	}

	topic := bus.Topic(symbol)
	ch := e.bus.Subscribe(topic)
	e.subscribed[symbol] = true

	go e.forward(e.runCtx, ch)

	slog.Info("subscribed to symbol topic", slog.String("topic", topic))
}

// forward moves bus deliveries for one topic into the engine inbox,
// preserving per-topic FIFO. It blocks on a full inbox rather than
// dropping; loss is the bus's policy, not the engine's.
func (e *Engine) forward(ctx context.Context, ch <-chan event.TradeEvent) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			select {
			case e.inbox <- tickMsg{ev: ev}:
			case <-ctx.Done():
				return
			}
		}
	}
}
