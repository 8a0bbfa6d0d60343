package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/app"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/schedule"
)

func newGenerateCmd(open appOpener) *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate schedules for every user for one week",
		Long: `Generate computes and stores the reminder schedule of every user with meal
windows for the target week. A week that already completed is left untouched.

Examples:
  schedulectl generate
  schedulectl generate --week 2024-01-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), open, func(a *app.App) error {
				weekStart, err := resolveWeek(a.Converter, week, time.Now())
				if err != nil {
					return err
				}

				result, err := a.Service.GenerateWeek(cmd.Context(), weekStart)
				if err != nil {
					return err
				}

				printRunResult(cmd, result)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "target week as the date of its Monday (YYYY-MM-DD); defaults to next week")

	return cmd
}

func printRunResult(cmd *cobra.Command, result *schedule.RunResult) {
	run := result.Run
	out := cmd.OutOrStdout()

	if result.AlreadyCompleted {
		fmt.Fprintf(out, "week %s already completed by run %s\n", run.WeekKey, run.ID)
		return
	}

	fmt.Fprintf(out, "run %s for week %s: %s\n", run.ID, run.WeekKey, run.Status)
	fmt.Fprintf(out, "  users processed:   %d\n", run.UsersProcessed)
	fmt.Fprintf(out, "  users skipped:     %d\n", run.UsersSkipped)
	fmt.Fprintf(out, "  users failed:      %d\n", run.UsersFailed)
	if result.Pending > 0 {
		fmt.Fprintf(out, "  users pending:     %d\n", result.Pending)
	}
	fmt.Fprintf(out, "  schedules created: %d\n", run.SchedulesCreated)
}
