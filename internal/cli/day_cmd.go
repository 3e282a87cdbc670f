package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/staircase/internal/cli/formatter"
	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/spf13/cobra"
)

func newDayCmd(app *App, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Record progress on a day",
	}
	cmd.AddCommand(
		newDayFinishCmd(app, flags, "complete", "Mark a day completed", domain.DayCompleted),
		newDayFinishCmd(app, flags, "fail", "Mark a day failed", domain.DayFailed),
		newDayProgressCmd(app, flags),
	)
	return cmd
}

func newDayFinishCmd(app *App, flags *globalFlags, use, short string, status domain.DayStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <day-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(flags); err != nil {
				return err
			}
			p, err := app.Days.CompleteDay(cmd.Context(), flags.userID, args[0], status)
			if err != nil {
				return fail(cmd, flags, err)
			}
			return render(cmd, flags, mapDayProgressToContract(p), func() string {
				return formatter.FormatDayProgress(p)
			})
		},
	}
}

func newDayProgressCmd(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <day-id> <percent>",
		Short: "Set the completion percentage of a started day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(flags); err != nil {
				return err
			}
			pct, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("percent must be a whole number: %w", err)
			}
			p, err := app.Days.SetDayCompletion(cmd.Context(), flags.userID, args[0], pct)
			if err != nil {
				return fail(cmd, flags, err)
			}
			return render(cmd, flags, mapDayProgressToContract(p), func() string {
				return formatter.FormatDayProgress(p)
			})
		},
	}
}
