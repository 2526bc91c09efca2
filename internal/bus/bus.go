package bus

import (
	"log/slog"
	"strings"
	"sync"

	"mock_exchange/internal/event"
	"mock_exchange/internal/infra"
)

// TopicPrefix scopes every trade topic. One topic per symbol.
const TopicPrefix = "TRADE_EVENTS:"

// Topic builds the bus topic for a symbol. Symbols are normalized to
// uppercase so "btcusdt" and "BTCUSDT" name the same topic.
func Topic(symbol string) string {
	return TopicPrefix + strings.ToUpper(symbol)
}

// Bus is an in-process topic broker: a channel per subscriber per topic.
// Events are delivered by value, so subscribers never share mutable
// state with the publisher. Delivery is FIFO per topic per subscriber.
//
// Publish never blocks: a subscriber whose buffer is full loses the
// event (counted in metrics). The simulation accepts delivery loss and
// has no retry or reconciliation path.
type Bus struct {
	mu      sync.RWMutex
	subs    map[string][]chan event.TradeEvent
	bufSize int
}

// New creates an empty broker. bufSize is the per-subscriber channel
// buffer; it must be large enough to absorb bursts between reads.
func New(bufSize int) *Bus {
	if bufSize <= 0 {
		bufSize = 1024
	}
	return &Bus{
		subs:    make(map[string][]chan event.TradeEvent),
		bufSize: bufSize,
	}
}

// Subscribe registers a new subscriber on topic and returns its delivery
// channel. Subscriptions live for the process lifetime; there is no
// unsubscribe.
func (b *Bus) Subscribe(topic string) <-chan event.TradeEvent {
	ch := make(chan event.TradeEvent, b.bufSize)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	slog.Debug("bus subscription added", slog.String("topic", topic))
	return ch
}

// Publish fans ev out to every subscriber of topic. A topic with no
// subscribers swallows the event.
func (b *Bus) Publish(topic string, ev event.TradeEvent) {
	b.mu.RLock()
	subs := b.subs[topic]
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default: // DROP
			infra.GlobalMetrics.RecordEventDropped()
		}
	}
}

// SubscriberCount returns the number of subscribers on topic (external read).
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
