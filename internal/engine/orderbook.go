package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"mock_exchange/internal/domain"
)

// OrderBook holds the resting orders for one symbol.
//
// Ordering contract: BuySide is strictly descending by price, SellSide
// strictly ascending, and equal-price orders keep their insertion order
// (stable). The crossing scan below depends on this: once one order on a
// side fails the price test, every later order fails it too, so a fill
// touches only the matched prefix plus one order instead of the whole
// side. Any replacement structure must preserve the same observable
// ordering.
type OrderBook struct {
	BuySide  []*domain.Order `json:"buy_side"`
	SellSide []*domain.Order `json:"sell_side"`
	History  []*domain.Order `json:"history"` // Filled orders, most recent first
}

// NewOrderBook creates a new empty order book.
func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// Insert places order into its side container, keeping the sort order.
// Equal-price orders go after existing ones at that price.
func (b *OrderBook) Insert(order *domain.Order) {
	switch order.Side {
	case domain.SideBuy:
		i := sort.Search(len(b.BuySide), func(i int) bool {
			return b.BuySide[i].Price.LessThan(order.Price)
		})
		b.BuySide = insertAt(b.BuySide, i, order)
	case domain.SideSell:
		i := sort.Search(len(b.SellSide), func(i int) bool {
			return b.SellSide[i].Price.GreaterThan(order.Price)
		})
		b.SellSide = insertAt(b.SellSide, i, order)
	}
}

// TakeCrossed removes and returns every order crossed by a tick at price
// p: the BuySide prefix with price strictly above p and the SellSide
// prefix with price strictly below p. Strict inequality is deliberate:
// an order at exactly the tick price keeps resting, which also makes the
// engine's own republished fills inert when they come back as ticks.
//
// Returned orders are already marked FILLED (executed quantity, status,
// updated time set to fillTime) and moved to the front of History, buy
// side first, each prefix in matched order.
func (b *OrderBook) TakeCrossed(p decimal.Decimal, fillTime int64) []*domain.Order {
	nBuy := 0
	for nBuy < len(b.BuySide) && b.BuySide[nBuy].Price.GreaterThan(p) {
		nBuy++
	}
	nSell := 0
	for nSell < len(b.SellSide) && b.SellSide[nSell].Price.LessThan(p) {
		nSell++
	}
	if nBuy == 0 && nSell == 0 {
		return nil
	}

	filled := make([]*domain.Order, 0, nBuy+nSell)
	filled = append(filled, b.BuySide[:nBuy]...)
	filled = append(filled, b.SellSide[:nSell]...)

	for _, o := range filled {
		o.Status = domain.OrderStatusFilled
		o.ExecutedQty = o.OrigQty
		o.UpdatedTime = fillTime
	}

	b.BuySide = b.BuySide[nBuy:]
	b.SellSide = b.SellSide[nSell:]

	history := make([]*domain.Order, 0, len(filled)+len(b.History))
	history = append(history, filled...)
	history = append(history, b.History...)
	b.History = history

	return filled
}

// Find scans BuySide, SellSide and History in that order for the first
// order matching (createdTime, orderID).
func (b *OrderBook) Find(createdTime int64, orderID uint64) (*domain.Order, bool) {
	for _, side := range [][]*domain.Order{b.BuySide, b.SellSide, b.History} {
		for _, o := range side {
			if o.OrderID == orderID && o.CreatedTime == createdTime {
				return o, true
			}
		}
	}
	return nil, false
}

// Size returns the total number of orders the book tracks, resting and
// filled.
func (b *OrderBook) Size() int {
	return len(b.BuySide) + len(b.SellSide) + len(b.History)
}

func insertAt(orders []*domain.Order, i int, order *domain.Order) []*domain.Order {
	orders = append(orders, nil)
	copy(orders[i+1:], orders[i:])
	orders[i] = order
	return orders
}
