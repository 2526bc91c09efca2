package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mock_exchange/internal/bus"
	"mock_exchange/internal/domain"
	"mock_exchange/internal/event"
	"mock_exchange/internal/infra"
)

const (
	defaultWSURL = "wss://stream.binance.com:9443"
	maxRetries   = 10
	readTimeout  = 60 * time.Second
)

// Worker handles the Binance aggTrade WebSocket connection and turns the
// live wire protocol into bus trade events, one topic per symbol.
type Worker struct {
	wsURL     string
	symbols   []string
	bus       domain.EventBus
	conn      *websocket.Conn
	mu        sync.RWMutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWorker creates a new Binance gateway worker publishing onto b.
func NewWorker(wsURL string, symbols []string, b domain.EventBus) *Worker {
	if wsURL == "" {
		wsURL = defaultWSURL
	}
	return &Worker{
		wsURL:   wsURL,
		symbols: symbols,
		bus:     b,
	}
}

// Connect starts the WebSocket connection
func (w *Worker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

func (w *Worker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			slog.Warn("Binance connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			delay := infra.CalculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
		}
	}
}

// streamURL builds the combined-stream URL; subscription is part of the
// URL, no subscribe message is needed afterwards.
func (w *Worker) streamURL() string {
	streams := make([]string, len(w.symbols))
	for i, s := range w.symbols {
		streams[i] = strings.ToLower(s) + "@aggTrade"
	}
	return w.wsURL + "/stream?streams=" + strings.Join(streams, "/")
}

func (w *Worker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.DialContext(ctx, w.streamURL(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()
	infra.GlobalMetrics.IncrementConnections()

	slog.Info("Binance connected", slog.Int("streams", len(w.symbols)))
	return nil
}

func (w *Worker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.mu.RLock()
		if w.conn == nil {
			w.mu.RUnlock()
			return
		}
		w.conn.SetReadDeadline(time.Now().Add(readTimeout))
		w.mu.RUnlock()

		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

func (w *Worker) handleMessage(msg []byte) {
	var resp streamMessage
	if json.Unmarshal(msg, &resp) != nil || resp.Data.EventType != "aggTrade" {
		return
	}

	ev := event.AcquireTradeEvent()
	ev.EventType = event.EventTypeTrade
	ev.EventTime = resp.Data.EventTime
	ev.Symbol = strings.ToUpper(resp.Data.Symbol)
	ev.TradeID = resp.Data.TradeID
	ev.Price = resp.Data.Price
	ev.Quantity = resp.Data.Quantity
	ev.TradeTime = resp.Data.TradeTime
	ev.IsBuyerMaker = resp.Data.IsBuyerMaker

	// Publish copies the event into each subscriber channel, so the
	// pooled instance can be released right away.
	w.bus.Publish(bus.Topic(ev.Symbol), *ev)
	event.ReleaseTradeEvent(ev)
}

func (w *Worker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
		infra.GlobalMetrics.DecrementConnections()
	}
	w.connected = false
}

// IsConnected reports whether the socket is currently up.
func (w *Worker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

// Disconnect stops the worker and waits for its goroutines.
func (w *Worker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}
