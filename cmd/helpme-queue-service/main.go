// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ubco-db/helpme-sub003/lib/clock"
	"github.com/ubco-db/helpme-sub003/lib/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath   string
		socketPath   string
		databasePath string
	)

	flag.StringVar(&configPath, "config", "", "YAML service configuration file")
	flag.StringVar(&socketPath, "socket", "", "Unix socket path (overrides config)")
	flag.StringVar(&databasePath, "database", "", "SQLite journal path (overrides config)")
	flag.Parse()

	config := DefaultServiceConfig()
	if configPath != "" {
		loaded, err := LoadServiceConfig(configPath)
		if err != nil {
			return err
		}
		config = loaded
	}
	if socketPath != "" {
		config.SocketPath = socketPath
	}
	if databasePath != "" {
		config.DatabasePath = databasePath
	}

	level, err := config.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := OpenStore(config.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer store.Close()

	clk := clock.Real()
	queueService, err := NewQueueService(store, clk, NewLogNotifier(logger), logger)
	if err != nil {
		return err
	}

	socketServer := service.NewSocketServer(config.SocketPath, logger)
	queueService.registerActions(socketServer)

	socketDone := make(chan error, 1)
	go func() {
		socketDone <- socketServer.Serve(ctx)
	}()

	go queueService.startTimerLoop(ctx)

	logger.Info("queue service running",
		"socket", config.SocketPath,
		"database", config.DatabasePath,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	// Wait for the socket server to drain active connections.
	if err := <-socketDone; err != nil {
		logger.Error("socket server error", "error", err)
	}

	return nil
}
