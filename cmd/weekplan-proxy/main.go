package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/weekplan/internal/config"
	"github.com/five82/weekplan/internal/proxy"
	"github.com/five82/weekplan/internal/telemetry"
)

// version is set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadProxy()
	if err != nil {
		fmt.Fprintf(os.Stderr, "weekplan-proxy: %v\n", err)
		return 2
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    "weekplan-proxy",
		ServiceVersion: version,
		Endpoint:       cfg.OTLPEndpoint,
	})
	if err != nil {
		log.Error("telemetry setup failed", slog.Any("error", err))
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Warn("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	if err := proxy.Run(ctx, cfg, log); err != nil {
		log.Error("proxy stopped", slog.Any("error", err))
		return 1
	}
	return 0
}
