// schedulectl runs the weekly schedule generation and related operator tasks
// from the command line against the same stores as the server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/app"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability/logging"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs, err := app.InitObservability(ctx, Version, logging.Module("schedulectl"))
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := newRootCmd(openApp).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
