package service

import (
	"context"
	"sort"
	"sync"

	"mock_exchange/internal/bus"
	"mock_exchange/internal/domain"
	"mock_exchange/internal/event"
)

// MarketWatch manages the observed state of all watched symbols. It is
// an independent bus subscriber: it sees exactly the event stream a
// strategy process would, ticks and synthetic fills interleaved on the
// same topic.
type MarketWatch struct {
	mu    sync.RWMutex
	stats map[string]*domain.MarketStat
	bus   domain.EventBus
	wg    sync.WaitGroup
}

// NewMarketWatch creates a new MarketWatch instance
func NewMarketWatch(b domain.EventBus) *MarketWatch {
	return &MarketWatch{
		stats: make(map[string]*domain.MarketStat),
		bus:   b,
	}
}

// Watch subscribes to each symbol's topic and starts a background
// goroutine per subscription.
func (s *MarketWatch) Watch(ctx context.Context, symbols ...string) {
	for _, symbol := range symbols {
		ch := s.bus.Subscribe(bus.Topic(symbol))
		s.wg.Add(1)
		go s.watchLoop(ctx, ch)
	}
}

func (s *MarketWatch) watchLoop(ctx context.Context, ch <-chan event.TradeEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			s.apply(ev)
		}
	}
}

func (s *MarketWatch) apply(ev event.TradeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stat, ok := s.stats[ev.Symbol]
	if !ok {
		stat = &domain.MarketStat{Symbol: ev.Symbol}
		s.stats[ev.Symbol] = stat
	}

	stat.LastPrice = ev.Price
	stat.LastEventTime = ev.EventTime
	if ev.IsFill() {
		stat.FillsSeen++
		stat.FilledVolume = stat.FilledVolume.Add(ev.Quantity)
	} else {
		stat.TicksSeen++
	}
}

// GetStat returns the observed state for a specific symbol
func (s *MarketWatch) GetStat(symbol string) *domain.MarketStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stat, ok := s.stats[symbol]
	if !ok {
		return nil
	}
	out := *stat // Return copy
	return &out
}

// GetAllStats returns all observed symbols sorted by symbol
func (s *MarketWatch) GetAllStats() []*domain.MarketStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.MarketStat, 0, len(s.stats))
	for _, stat := range s.stats {
		out := *stat
		result = append(result, &out)
	}

	// Sort by symbol for consistent ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})

	return result
}

// Wait blocks until every watch loop has exited.
func (s *MarketWatch) Wait() {
	s.wg.Wait()
}
