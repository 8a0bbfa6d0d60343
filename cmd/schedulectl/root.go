package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/app"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/config"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/civiltime"
)

// appOpener builds the application for one command invocation.
type appOpener func(ctx context.Context) (*app.App, error)

func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

func newRootCmd(open appOpener) *cobra.Command {
	root := &cobra.Command{
		Use:   "schedulectl",
		Short: "Operate the measurement reminder scheduler",
		Long: `schedulectl runs weekly schedule generation, previews a single user's
schedule and seeds default meal windows.

Configuration is read from the same environment variables as the server.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newGenerateCmd(open),
		newPreviewCmd(open),
		newSeedWindowsCmd(open),
	)

	return root
}

// withApp opens the application, runs fn and closes it again.
func withApp(ctx context.Context, open appOpener, fn func(a *app.App) error) error {
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}

// resolveWeek parses a week key, defaulting to the week after now.
func resolveWeek(converter *civiltime.Converter, key string, now time.Time) (time.Time, error) {
	if key == "" {
		return converter.NextWeekStart(now), nil
	}
	return converter.ParseWeek(key)
}
