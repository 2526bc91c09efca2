package binance

import (
	"testing"

	"mock_exchange/internal/bus"
)

const sampleAggTrade = `{
  "stream": "xrpusdt@aggTrade",
  "data": {
    "e": "aggTrade",
    "E": 1700000000123,
    "s": "XRPUSDT",
    "a": 12345,
    "p": "0.29510000",
    "q": "100.0",
    "f": 100,
    "l": 105,
    "T": 1700000000120,
    "m": true,
    "M": true
  }
}`

func TestHandleMessage_PublishesTradeEvent(t *testing.T) {
	eventBus := bus.New(4)
	sub := eventBus.Subscribe(bus.Topic("XRPUSDT"))

	w := NewWorker("", []string{"XRPUSDT"}, eventBus)
	w.handleMessage([]byte(sampleAggTrade))

	select {
	case ev := <-sub:
		if ev.Symbol != "XRPUSDT" {
			t.Errorf("Expected XRPUSDT, got %s", ev.Symbol)
		}
		if ev.EventTime != 1700000000123 {
			t.Errorf("Unexpected event time: %d", ev.EventTime)
		}
		if ev.Price.String() != "0.2951" {
			t.Errorf("Unexpected price: %s", ev.Price)
		}
		if ev.BuyerOrderID != 0 || ev.SellerOrderID != 0 {
			t.Error("Market ticks must carry zero order ids")
		}
		if ev.IsFill() {
			t.Error("A market tick must not look like a fill")
		}
	default:
		t.Fatal("Expected a published event")
	}
}

func TestHandleMessage_IgnoresGarbage(t *testing.T) {
	eventBus := bus.New(4)
	sub := eventBus.Subscribe(bus.Topic("XRPUSDT"))

	w := NewWorker("", []string{"XRPUSDT"}, eventBus)
	w.handleMessage([]byte(`not json`))
	w.handleMessage([]byte(`{"stream":"x","data":{"e":"depthUpdate"}}`))

	select {
	case ev := <-sub:
		t.Errorf("No event expected, got %+v", ev)
	default:
	}
}

func TestStreamURL(t *testing.T) {
	w := NewWorker("wss://example.test", []string{"BTCUSDT", "ethusdt"}, bus.New(1))
	want := "wss://example.test/stream?streams=btcusdt@aggTrade/ethusdt@aggTrade"
	if got := w.streamURL(); got != want {
		t.Errorf("streamURL = %s, want %s", got, want)
	}
}
