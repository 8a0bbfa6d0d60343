package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/app"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/schedule"
)

var errUserRequired = errors.New("--user is required")

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func newPreviewCmd(open appOpener) *cobra.Command {
	var (
		userID string
		week   string
		legacy bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the schedule one user would get, without writing it",
		Long: `Preview runs the scheduling pipeline for a single user in dry-run mode.
With --legacy the older unweighted filtering pipeline is run over the same
readings instead, for comparison.

Examples:
  schedulectl preview --user 42
  schedulectl preview --user 42 --week 2024-01-15 --legacy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errUserRequired
			}

			return withApp(cmd.Context(), open, func(a *app.App) error {
				weekStart, err := resolveWeek(a.Converter, week, time.Now())
				if err != nil {
					return err
				}

				if legacy {
					schedules, err := a.Service.PreviewLegacy(cmd.Context(), userID, weekStart)
					if err != nil {
						return err
					}
					return printLegacySchedules(cmd.OutOrStdout(), schedules)
				}

				result, err := a.Service.GenerateForUser(cmd.Context(), userID, weekStart, true)
				if err != nil {
					return err
				}
				return printUserResult(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID to preview")
	cmd.Flags().StringVar(&week, "week", "", "target week as the date of its Monday (YYYY-MM-DD); defaults to next week")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "run the legacy filtering pipeline instead")

	return cmd
}

func printUserResult(out io.Writer, result *schedule.UserResult) error {
	fmt.Fprintf(out, "user %s, week %s, mode %s (%d completed weeks)\n",
		result.UserID, result.WeekKey, result.Strategy.Mode, result.Strategy.ScheduledWeeksCount)
	fmt.Fprintf(out, "%d candidates, %d dropped by spacing\n\n", len(result.Candidates), len(result.Dropped))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tTIME\tTYPE\tSOURCE\tCONFIDENCE\tREADINGS\tSCHEDULED AT")
	for _, s := range result.Schedules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%d\t%s\n",
			weekdays[s.DayOfWeek],
			domain.FormatMinuteOfDay(s.MinuteOfDay),
			s.MeasurementType,
			s.Source,
			s.Confidence,
			s.ReadingsCount,
			s.ScheduledAt.Format(time.RFC3339),
		)
	}
	return tw.Flush()
}

func printLegacySchedules(out io.Writer, schedules []domain.Schedule) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tTIME\tTYPE\tSOURCE\tFREQUENCY")
	for _, s := range schedules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			weekdays[s.DayOfWeek],
			domain.FormatMinuteOfDay(s.MinuteOfDay),
			s.MeasurementType,
			s.Source,
			s.Frequency,
		)
	}
	return tw.Flush()
}
