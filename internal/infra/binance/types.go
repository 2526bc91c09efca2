package binance

import "github.com/shopspring/decimal"

// streamMessage is the combined-stream envelope Binance wraps every
// payload in.
type streamMessage struct {
	Stream string       `json:"stream"` // e.g. "btcusdt@aggTrade"
	Data   aggTradeData `json:"data"`
}

// aggTradeData represents one aggTrade payload.
type aggTradeData struct {
	EventType    string          `json:"e"` // "aggTrade"
	EventTime    int64           `json:"E"`
	Symbol       string          `json:"s"`
	TradeID      int64           `json:"a"`
	Price        decimal.Decimal `json:"p"`
	Quantity     decimal.Decimal `json:"q"`
	FirstTradeID int64           `json:"f"`
	LastTradeID  int64           `json:"l"`
	TradeTime    int64           `json:"T"`
	IsBuyerMaker bool            `json:"m"`
}
