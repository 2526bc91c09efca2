package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mock_exchange/internal/bus"
	"mock_exchange/internal/domain"
	"mock_exchange/internal/event"
	"mock_exchange/internal/infra"
)

// Engine is the single serialized owner of every per-symbol order book.
// All state mutation happens on the one goroutine running Run, fed by
// the inbox channel, so placements, queries and trade ticks are totally
// ordered per symbol without any lock.
type Engine struct {
	inbox       chan message
	books       map[string]*OrderBook
	subscribed  map[string]bool
	nextOrderID uint64

	bus   domain.EventBus
	clock infra.Clock

	// Set once at the top of Run; forwarder goroutines stop with it.
	runCtx context.Context
}

type message interface{ isMessage() }

type placeOrderMsg struct {
	symbol string
	qty    decimal.Decimal
	price  decimal.Decimal
	side   string
	reply  chan domain.OrderAck
}

type getOrderMsg struct {
	symbol  string
	time    int64
	orderID uint64
	reply   chan getOrderResult
}

type getOrderResult struct {
	order domain.Order
	err   error
}

type tickMsg struct {
	ev event.TradeEvent
}

type snapshotMsg struct {
	symbol string
	reply  chan BookSnapshot
}

func (placeOrderMsg) isMessage() {}
func (getOrderMsg) isMessage()   {}
func (tickMsg) isMessage()       {}
func (snapshotMsg) isMessage()   {}

// New creates an engine bound to an event bus. clock stamps order
// lifecycle times; pass an infra.LogicalClock for reproducible runs.
func New(inboxSize int, eventBus domain.EventBus, clock infra.Clock) *Engine {
	if clock == nil {
		clock = infra.RealClock{}
	}
	return &Engine{
		inbox:       make(chan message, inboxSize),
		books:       make(map[string]*OrderBook),
		subscribed:  make(map[string]bool),
		nextOrderID: 1,
		bus:         eventBus,
		clock:       clock,
	}
}

// Run starts the main event loop. This MUST be run in a single goroutine.
func (e *Engine) Run(ctx context.Context) {
	e.runCtx = ctx
	slog.Info("Engine started (single-thread hotpath)")

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			e.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Engine stopping...")
			return
		case msg := <-e.inbox:
			e.process(msg)
		}
	}
}

func (e *Engine) process(msg message) {
	switch m := msg.(type) {
	case placeOrderMsg:
		m.reply <- e.handlePlaceOrder(m)
	case getOrderMsg:
		m.reply <- e.handleGetOrder(m)
	case tickMsg:
		e.handleTradeEvent(m.ev)
	case snapshotMsg:
		m.reply <- e.handleSnapshot(m.symbol)
	default:
		slog.Warn("Unknown message type", slog.Any("msg", msg))
	}
}

// PlaceOrder submits a limit order and blocks until the engine acks it.
// Malformed input is rejected here, before it reaches the serialized
// state; the engine itself never sees an invalid order.
func (e *Engine) PlaceOrder(symbol string, qty, price decimal.Decimal, side string) (domain.OrderAck, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return domain.OrderAck{}, domain.ErrInvalidSymbol
	}
	if side != domain.SideBuy && side != domain.SideSell {
		return domain.OrderAck{}, fmt.Errorf("%w: %q", domain.ErrInvalidSide, side)
	}
	if !qty.IsPositive() {
		return domain.OrderAck{}, fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, qty)
	}
	if !price.IsPositive() {
		return domain.OrderAck{}, fmt.Errorf("%w: %s", domain.ErrInvalidPrice, price)
	}

	reply := make(chan domain.OrderAck, 1)
	e.inbox <- placeOrderMsg{symbol: symbol, qty: qty, price: price, side: side, reply: reply}
	return <-reply, nil
}

// GetOrder looks up an order by (symbol, created time, id) across the
// live sides and the fill history. A miss is an explicit
// domain.ErrOrderNotFound, never a fault.
func (e *Engine) GetOrder(symbol string, createdTime int64, orderID uint64) (domain.Order, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	reply := make(chan getOrderResult, 1)
	e.inbox <- getOrderMsg{symbol: symbol, time: createdTime, orderID: orderID, reply: reply}
	res := <-reply
	return res.order, res.err
}

func (e *Engine) handlePlaceOrder(m placeOrderMsg) domain.OrderAck {
	id := e.nextID()
	now := e.clock.NowMillis()
	order := &domain.Order{
		Symbol:        m.symbol,
		OrderID:       id,
		ClientOrderID: ClientOrderID(id),
		Side:          m.side,
		Price:         m.price,
		OrigQty:       m.qty,
		ExecutedQty:   decimal.Zero,
		Status:        domain.OrderStatusNew,
		CreatedTime:   now,
		UpdatedTime:   now,
	}

	e.ensureSubscribed(m.symbol)
	e.book(m.symbol).Insert(order)
	infra.GlobalMetrics.RecordOrderPlaced()

	slog.Debug("order placed",
		slog.String("symbol", order.Symbol),
		slog.Uint64("order_id", order.OrderID),
		slog.String("side", order.Side),
		slog.String("price", order.Price.String()))

	return domain.OrderAck{
		Symbol:        order.Symbol,
		OrderID:       order.OrderID,
		ClientOrderID: order.ClientOrderID,
		Side:          order.Side,
		Price:         order.Price,
		OrigQty:       order.OrigQty,
		ExecutedQty:   order.ExecutedQty,
		Status:        order.Status,
		TransactTime:  order.CreatedTime,
	}
}

func (e *Engine) handleGetOrder(m getOrderMsg) getOrderResult {
	book, ok := e.books[m.symbol]
	if !ok {
		return getOrderResult{err: domain.ErrOrderNotFound}
	}
	order, ok := book.Find(m.time, m.orderID)
	if !ok {
		return getOrderResult{err: domain.ErrOrderNotFound}
	}
	return getOrderResult{order: *order}
}

// handleTradeEvent reacts to one market tick: fills every resting order
// the tick price strictly crosses and republishes each as a synthetic
// fill on the symbol topic, buy-side fills before sell-side fills. A
// tick for a symbol with no resting orders is a no-op.
//
// The engine is itself subscribed to that topic, so each fill comes back
// as a tick. Fill price equals the filled order's limit price, and an
// exact-price replay cannot re-cross any remaining order under the
// strict-inequality rule, so the feedback loop terminates.
func (e *Engine) handleTradeEvent(ev event.TradeEvent) {
	start := time.Now()

	book := e.book(ev.Symbol)
	fillTime := ev.EventTime - 1
	filled := book.TakeCrossed(ev.Price, fillTime)

	topic := bus.Topic(ev.Symbol)
	tradeID := ev.EventTime / 1000
	for _, o := range filled {
		fill := event.TradeEvent{
			EventType:     event.EventTypeTrade,
			EventTime:     fillTime,
			Symbol:        o.Symbol,
			TradeID:       tradeID,
			Price:         o.Price,
			Quantity:      o.OrigQty,
			BuyerOrderID:  o.OrderID,
			SellerOrderID: o.OrderID,
			TradeTime:     fillTime,
			IsBuyerMaker:  false,
		}
		e.bus.Publish(topic, fill)
		infra.GlobalMetrics.RecordOrderFilled()
		infra.GlobalMetrics.RecordFillPublished()

		slog.Info("order filled",
			slog.String("symbol", o.Symbol),
			slog.Uint64("order_id", o.OrderID),
			slog.String("limit_price", o.Price.String()),
			slog.String("tick_price", ev.Price.String()))
	}

	infra.GlobalMetrics.RecordTick(time.Since(start).Nanoseconds())
}

func (e *Engine) book(symbol string) *OrderBook {
	book, ok := e.books[symbol]
	if !ok {
		book = NewOrderBook()
		e.books[symbol] = book
	}
	return book
}

// BookSnapshot is a copy of one symbol's book for external reads.
type BookSnapshot struct {
	Symbol   string         `json:"symbol"`
	BuySide  []domain.Order `json:"buy_side"`
	SellSide []domain.Order `json:"sell_side"`
	History  []domain.Order `json:"history"`
}

// Snapshot returns a copy of the book for symbol, taken on the engine
// goroutine so it is consistent with every operation before it.
func (e *Engine) Snapshot(symbol string) BookSnapshot {
	reply := make(chan BookSnapshot, 1)
	e.inbox <- snapshotMsg{symbol: strings.ToUpper(strings.TrimSpace(symbol)), reply: reply}
	return <-reply
}

func (e *Engine) handleSnapshot(symbol string) BookSnapshot {
	snap := BookSnapshot{Symbol: symbol}
	book, ok := e.books[symbol]
	if !ok {
		return snap
	}
	for _, o := range book.BuySide {
		snap.BuySide = append(snap.BuySide, *o)
	}
	for _, o := range book.SellSide {
		snap.SellSide = append(snap.SellSide, *o)
	}
	for _, o := range book.History {
		snap.History = append(snap.History, *o)
	}
	return snap
}

// DumpState writes every book to a file (for post-mortem).
func (e *Engine) DumpState(filename string) {
	slog.Info("Dumping engine state...", slog.String("file", filename))

	data := struct {
		NextOrderID uint64                `json:"next_order_id"`
		Books       map[string]*OrderBook `json:"books"`
	}{
		NextOrderID: e.nextOrderID,
		Books:       e.books,
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
