package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/app"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/seed"
)

func newSeedWindowsCmd(open appOpener) *cobra.Command {
	var (
		userID string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "seed-windows",
		Short: "Create default meal windows for a user",
		Long: `Seed-windows inserts meal windows for a user from the built-in defaults or
a YAML file. Windows the user already has for the same day, type and meal
are left as they are.

Examples:
  schedulectl seed-windows --user 42
  schedulectl seed-windows --user 42 --file windows.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errUserRequired
			}

			seedFile, err := loadSeed(file)
			if err != nil {
				return err
			}
			windows, err := seedFile.ForUser(userID)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), open, func(a *app.App) error {
				inserted, err := a.MealWindows.InsertMissing(cmd.Context(), windows)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "inserted %d of %d meal windows for user %s\n",
					inserted, len(windows), userID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID to seed")
	cmd.Flags().StringVar(&file, "file", "", "YAML seed file; defaults to the built-in windows")

	return cmd
}

func loadSeed(path string) (*seed.File, error) {
	if path == "" {
		return seed.Defaults()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return seed.Parse(data)
}
