package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mock_exchange/internal/bus"
	"mock_exchange/internal/event"
)

func publishTick(b *bus.Bus, symbol, price string, eventTime int64) {
	b.Publish(bus.Topic(symbol), event.TradeEvent{
		EventType: event.EventTypeTrade,
		EventTime: eventTime,
		Symbol:    symbol,
		Price:     decimal.RequireFromString(price),
		Quantity:  decimal.NewFromInt(1),
	})
}

func publishFill(b *bus.Bus, symbol, price, qty string, orderID uint64, eventTime int64) {
	b.Publish(bus.Topic(symbol), event.TradeEvent{
		EventType:     event.EventTypeTrade,
		EventTime:     eventTime,
		Symbol:        symbol,
		Price:         decimal.RequireFromString(price),
		Quantity:      decimal.RequireFromString(qty),
		BuyerOrderID:  orderID,
		SellerOrderID: orderID,
	})
}

func TestMarketWatch_TracksTicksAndFills(t *testing.T) {
	eventBus := bus.New(16)
	watch := NewMarketWatch(eventBus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watch.Watch(ctx, "BTCUSDT")

	publishTick(eventBus, "BTCUSDT", "50000", 1000)
	publishFill(eventBus, "BTCUSDT", "49999", "2", 7, 999)

	time.Sleep(100 * time.Millisecond)

	stat := watch.GetStat("BTCUSDT")
	if stat == nil {
		t.Fatal("BTCUSDT stat should exist")
	}
	if stat.TicksSeen != 1 || stat.FillsSeen != 1 {
		t.Errorf("Expected 1 tick and 1 fill, got %d/%d", stat.TicksSeen, stat.FillsSeen)
	}
	if !stat.FilledVolume.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected filled volume 2, got %s", stat.FilledVolume)
	}
	if stat.LastPrice.String() != "49999" {
		t.Errorf("Expected last price 49999, got %s", stat.LastPrice)
	}
}

func TestMarketWatch_GetAllStatsSorted(t *testing.T) {
	eventBus := bus.New(16)
	watch := NewMarketWatch(eventBus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watch.Watch(ctx, "ETHUSDT", "BTCUSDT")

	publishTick(eventBus, "ETHUSDT", "3000", 1)
	publishTick(eventBus, "BTCUSDT", "50000", 2)

	time.Sleep(100 * time.Millisecond)

	all := watch.GetAllStats()
	if len(all) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(all))
	}
	if all[0].Symbol != "BTCUSDT" || all[1].Symbol != "ETHUSDT" {
		t.Errorf("Stats should be sorted by symbol: %s, %s", all[0].Symbol, all[1].Symbol)
	}
}

func TestMarketWatch_UnknownSymbol(t *testing.T) {
	watch := NewMarketWatch(bus.New(4))
	if stat := watch.GetStat("NOSUCH"); stat != nil {
		t.Errorf("Unknown symbol should return nil, got %+v", stat)
	}
}
