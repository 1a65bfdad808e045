// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/events"
	"github.com/danielhkuo/quickly-poll/hub"
	"github.com/danielhkuo/quickly-poll/persist"
	"github.com/danielhkuo/quickly-poll/router"
	"github.com/danielhkuo/quickly-poll/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if cfg.LogFormat == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the snapshot backend and restore saved polls
	backend, err := persist.Open(ctx, cfg)
	if err != nil {
		slog.Error("snapshot backend unavailable", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	seed := persist.LoadOrEmpty(ctx, backend)
	slog.Info("Polls loaded", "backend", backend, "count", len(seed))

	saver := persist.NewSaver(backend)

	// Events go to RabbitMQ when configured; a broker outage never blocks startup
	var pub events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		pub = events.OpenAMQP(cfg.AMQPURL, cfg.AMQPQueues())
	}
	dispatcher := events.NewDispatcher(pub)

	liveHub := hub.New()
	hubCtx, stopHub := context.WithCancel(context.Background())
	go liveHub.Run(hubCtx)

	polls := store.New(seed,
		store.WithObserver(saver.Observe),
		store.WithObserver(dispatcher.Observe),
		store.WithObserver(liveHub.Observe),
	)

	// Create router
	mux := router.NewRouter(polls, liveHub, cfg)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	// Flush background work before exiting
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopHub()
	if err := saver.Close(drainCtx); err != nil {
		slog.Error("final snapshot not written", "error", err)
	}
	if err := dispatcher.Close(drainCtx); err != nil {
		slog.Error("event publisher did not close cleanly", "error", err)
	}
	if err := backend.Close(); err != nil {
		slog.Error("snapshot backend did not close cleanly", "error", err)
	}
}
