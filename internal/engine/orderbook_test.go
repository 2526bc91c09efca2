package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"mock_exchange/internal/domain"
)

func testOrder(id uint64, side, price string) *domain.Order {
	return &domain.Order{
		Symbol:        "BTCUSDT",
		OrderID:       id,
		ClientOrderID: ClientOrderID(id),
		Side:          side,
		Price:         decimal.RequireFromString(price),
		OrigQty:       decimal.NewFromInt(1),
		ExecutedQty:   decimal.Zero,
		Status:        domain.OrderStatusNew,
		CreatedTime:   int64(id),
		UpdatedTime:   int64(id),
	}
}

func prices(orders []*domain.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.Price.String()
	}
	return out
}

func TestInsert_BuySideDescending(t *testing.T) {
	book := NewOrderBook()
	book.Insert(testOrder(1, domain.SideBuy, "10"))
	book.Insert(testOrder(2, domain.SideBuy, "12"))
	book.Insert(testOrder(3, domain.SideBuy, "11"))

	got := prices(book.BuySide)
	want := []string{"12", "11", "10"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("BuySide order: expected %v, got %v", want, got)
		}
	}
}

func TestInsert_SellSideAscending(t *testing.T) {
	book := NewOrderBook()
	book.Insert(testOrder(1, domain.SideSell, "12"))
	book.Insert(testOrder(2, domain.SideSell, "10"))
	book.Insert(testOrder(3, domain.SideSell, "11"))

	got := prices(book.SellSide)
	want := []string{"10", "11", "12"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SellSide order: expected %v, got %v", want, got)
		}
	}
}

func TestInsert_StableForEqualPrices(t *testing.T) {
	book := NewOrderBook()
	book.Insert(testOrder(1, domain.SideBuy, "10"))
	book.Insert(testOrder(2, domain.SideBuy, "10"))
	book.Insert(testOrder(3, domain.SideBuy, "10"))

	for i, want := range []uint64{1, 2, 3} {
		if book.BuySide[i].OrderID != want {
			t.Errorf("Equal-price orders must keep insertion order: pos %d expected id %d, got %d",
				i, want, book.BuySide[i].OrderID)
		}
	}
}

func TestTakeCrossed_BuyPrefixOnly(t *testing.T) {
	book := NewOrderBook()
	book.Insert(testOrder(1, domain.SideBuy, "10"))
	book.Insert(testOrder(2, domain.SideBuy, "12"))

	filled := book.TakeCrossed(decimal.RequireFromString("11"), 999)
	if len(filled) != 1 {
		t.Fatalf("Expected 1 fill, got %d", len(filled))
	}
	if filled[0].OrderID != 2 {
		t.Errorf("Expected order 2 (price=12) filled, got %d", filled[0].OrderID)
	}
	if len(book.BuySide) != 1 || book.BuySide[0].Price.String() != "10" {
		t.Errorf("Order at price=10 should keep resting, BuySide=%v", prices(book.BuySide))
	}
}

func TestTakeCrossed_StrictInequalityBoundary(t *testing.T) {
	p := "0.2952"

	// A BUY at P is not filled by a tick at exactly P.
	book := NewOrderBook()
	book.Insert(testOrder(1, domain.SideBuy, p))
	if filled := book.TakeCrossed(decimal.RequireFromString(p), 1); len(filled) != 0 {
		t.Fatalf("Tick at exactly the limit price must not fill, got %d fills", len(filled))
	}

	// It is filled by any tick strictly below P.
	filled := book.TakeCrossed(decimal.RequireFromString("0.2951"), 2)
	if len(filled) != 1 {
		t.Fatalf("Tick below the limit price must fill, got %d fills", len(filled))
	}

	// Symmetric for SELL: exact price no fill, above fills.
	book = NewOrderBook()
	book.Insert(testOrder(2, domain.SideSell, p))
	if filled := book.TakeCrossed(decimal.RequireFromString(p), 3); len(filled) != 0 {
		t.Fatalf("SELL at exactly the tick price must not fill")
	}
	if filled := book.TakeCrossed(decimal.RequireFromString("0.2953"), 4); len(filled) != 1 {
		t.Fatalf("Tick above the SELL limit price must fill")
	}
}

func TestTakeCrossed_MarksFilledAndArchives(t *testing.T) {
	book := NewOrderBook()
	order := testOrder(7, domain.SideBuy, "0.2952")
	book.Insert(order)

	filled := book.TakeCrossed(decimal.RequireFromString("0.2951"), 1234)
	if len(filled) != 1 {
		t.Fatalf("Expected 1 fill, got %d", len(filled))
	}

	if order.Status != domain.OrderStatusFilled {
		t.Errorf("Expected status FILLED, got %s", order.Status)
	}
	if !order.ExecutedQty.Equal(order.OrigQty) {
		t.Errorf("Executed qty must equal original qty, got %s", order.ExecutedQty)
	}
	if order.UpdatedTime != 1234 {
		t.Errorf("Expected updated time 1234, got %d", order.UpdatedTime)
	}

	if len(book.BuySide) != 0 {
		t.Errorf("BuySide should be empty after fill")
	}
	if len(book.History) != 1 || book.History[0].OrderID != 7 {
		t.Errorf("Filled order should be in history")
	}
}

func TestTakeCrossed_HistoryMostRecentFirst(t *testing.T) {
	book := NewOrderBook()
	book.Insert(testOrder(1, domain.SideBuy, "20"))
	book.TakeCrossed(decimal.RequireFromString("19"), 1)

	book.Insert(testOrder(2, domain.SideBuy, "20"))
	book.TakeCrossed(decimal.RequireFromString("19"), 2)

	if book.History[0].OrderID != 2 || book.History[1].OrderID != 1 {
		t.Errorf("History must be most-recent-first, got ids %d,%d",
			book.History[0].OrderID, book.History[1].OrderID)
	}
}

func TestTakeCrossed_BothSidesOrdering(t *testing.T) {
	book := NewOrderBook()
	book.Insert(testOrder(1, domain.SideBuy, "105"))
	book.Insert(testOrder(2, domain.SideBuy, "110"))
	book.Insert(testOrder(3, domain.SideSell, "90"))
	book.Insert(testOrder(4, domain.SideSell, "95"))

	filled := book.TakeCrossed(decimal.RequireFromString("100"), 1)
	if len(filled) != 4 {
		t.Fatalf("Expected 4 fills, got %d", len(filled))
	}

	// Buy-side fills first (highest crossing price first), then
	// sell-side fills (lowest crossing price first).
	want := []uint64{2, 1, 3, 4}
	for i, id := range want {
		if filled[i].OrderID != id {
			t.Errorf("Fill %d: expected order %d, got %d", i, id, filled[i].OrderID)
		}
	}
}

// Every order placed lives in exactly one of the three containers at
// every step of a mixed insert/cross sequence.
func TestPartitionInvariant(t *testing.T) {
	book := NewOrderBook()
	placed := 0

	checkPartition := func() {
		t.Helper()
		seen := make(map[uint64]int)
		for _, o := range book.BuySide {
			seen[o.OrderID]++
		}
		for _, o := range book.SellSide {
			seen[o.OrderID]++
		}
		for _, o := range book.History {
			seen[o.OrderID]++
			if o.Status != domain.OrderStatusFilled {
				t.Fatalf("History holds non-FILLED order %d", o.OrderID)
			}
		}
		if len(seen) != placed {
			t.Fatalf("Expected %d distinct orders, found %d", placed, len(seen))
		}
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("Order %d appears in %d containers", id, n)
			}
		}
	}

	steps := []struct {
		side  string
		price string
		tick  string
	}{
		{side: domain.SideBuy, price: "101"},
		{side: domain.SideSell, price: "99"},
		{tick: "100"},
		{side: domain.SideBuy, price: "100"},
		{side: domain.SideBuy, price: "102"},
		{tick: "101"},
		{side: domain.SideSell, price: "100"},
		{tick: "100.5"},
	}
	for i, step := range steps {
		if step.tick != "" {
			book.TakeCrossed(decimal.RequireFromString(step.tick), int64(i))
		} else {
			placed++
			book.Insert(testOrder(uint64(placed), step.side, step.price))
		}
		checkPartition()
	}
}

func TestFind_AcrossContainers(t *testing.T) {
	book := NewOrderBook()
	book.Insert(testOrder(1, domain.SideBuy, "10"))
	book.Insert(testOrder(2, domain.SideSell, "20"))
	book.Insert(testOrder(3, domain.SideBuy, "30"))
	book.TakeCrossed(decimal.RequireFromString("25"), 99) // fills orders 3 and 2

	for _, id := range []uint64{1, 2, 3} {
		o, ok := book.Find(int64(id), id)
		if !ok {
			t.Fatalf("Order %d should be findable", id)
		}
		if o.OrderID != id {
			t.Errorf("Found wrong order: %d", o.OrderID)
		}
	}

	if _, ok := book.Find(4, 4); ok {
		t.Error("Unknown order id should not be found")
	}
	// Right id, wrong created time: no match.
	if _, ok := book.Find(999, 1); ok {
		t.Error("Mismatched created time should not match")
	}
}
