package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mock_exchange/internal/app"
	"mock_exchange/internal/bus"
	"mock_exchange/internal/engine"
	"mock_exchange/internal/infra"
	"mock_exchange/internal/infra/binance"
	"mock_exchange/internal/infra/storage"
	"mock_exchange/internal/service"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Event Bus + Matching Engine (The Hotpath Loop)
	eventBus := bus.New(cfg.Bus.SubscriberBuffer)
	eng := engine.New(cfg.Engine.InboxSize, eventBus, infra.RealClock{})
	go eng.Run(ctx)
	slog.InfoContext(ctx, "✅ Matching engine started")

	// 5. Market Watch (an independent fill subscriber, like a strategy would be)
	watch := service.NewMarketWatch(eventBus)
	watch.Watch(ctx, cfg.API.Binance.Symbols...)

	// 6. Trade Recorder
	if cfg.Recorder.Enabled && bootstrap.Storage != nil {
		recorder := storage.NewRecorder(bootstrap.Storage, eventBus)
		recorder.Start(ctx, cfg.Recorder.Symbols)
		defer recorder.Stop()
		slog.InfoContext(ctx, "✅ Trade recorder started", slog.Int("symbols", len(cfg.Recorder.Symbols)))
	}

	// 7. Exchange metadata passthrough (no simulator logic applied)
	if cfg.API.Binance.Enabled {
		meta := infra.NewExchangeInfoClient(cfg.API.Binance.RestURL)
		go func() {
			for _, symbol := range cfg.API.Binance.Symbols {
				info, err := meta.ExchangeInfo(ctx, symbol)
				if err != nil {
					slog.Warn("Exchange metadata fetch failed", slog.String("symbol", symbol), slog.Any("error", err))
					continue
				}
				slog.Info("Exchange metadata", slog.String("symbol", symbol), slog.Int("bytes", len(info)))
			}
		}()
	}

	// 8. Binance Market-Data Gateway
	if cfg.API.Binance.Enabled {
		worker := binance.NewWorker(cfg.API.Binance.WSURL, cfg.API.Binance.Symbols, eventBus)
		if err := worker.Connect(ctx); err != nil {
			slog.Error("Failed to connect Binance", slog.Any("error", err))
		}
		defer worker.Disconnect()
		slog.InfoContext(ctx, "✅ BinanceWorker started", slog.Int("symbols", len(cfg.API.Binance.Symbols)))
	}

	slog.InfoContext(ctx, "✨ Mock Exchange fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	snap := infra.GlobalMetrics.Read()
	slog.Info("👋 Shutting down gracefully...",
		slog.Uint64("ticks", snap.TicksProcessed),
		slog.Uint64("orders_placed", snap.OrdersPlaced),
		slog.Uint64("orders_filled", snap.OrdersFilled),
		slog.Uint64("events_dropped", snap.EventsDropped))
}
