package storage

import (
	"context"
	"log/slog"
	"sync"

	"mock_exchange/internal/bus"
	"mock_exchange/internal/domain"
	"mock_exchange/internal/event"
)

// Recorder subscribes to symbol topics and persists every event it sees,
// market ticks and synthetic fills alike. It is just another bus
// subscriber and observes fills exactly the way a strategy process
// would.
type Recorder struct {
	repo   domain.TradeRepository
	bus    domain.EventBus
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRecorder creates a recorder writing through repo.
func NewRecorder(repo domain.TradeRepository, b domain.EventBus) *Recorder {
	return &Recorder{repo: repo, bus: b}
}

// Start subscribes to each symbol's topic and begins recording.
func (r *Recorder) Start(ctx context.Context, symbols []string) {
	ctx, r.cancel = context.WithCancel(ctx)
	for _, symbol := range symbols {
		ch := r.bus.Subscribe(bus.Topic(symbol))
		r.wg.Add(1)
		go r.recordLoop(ctx, ch)
	}
	slog.Info("Recorder started", slog.Int("symbols", len(symbols)))
}

func (r *Recorder) recordLoop(ctx context.Context, ch <-chan event.TradeEvent) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			rec := &domain.TradeRecord{
				Symbol:        ev.Symbol,
				TradeID:       ev.TradeID,
				Price:         ev.Price.String(),
				Quantity:      ev.Quantity.String(),
				BuyerOrderID:  ev.BuyerOrderID,
				SellerOrderID: ev.SellerOrderID,
				EventTime:     ev.EventTime,
				IsFill:        ev.IsFill(),
			}
			if err := r.repo.SaveTrade(rec); err != nil {
				slog.Error("Failed to record trade event", slog.Any("error", err))
			}
		}
	}
}

// Stop halts recording and waits for in-flight writes.
func (r *Recorder) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}
