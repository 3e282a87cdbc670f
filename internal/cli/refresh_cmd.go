package cli

import (
	"github.com/alexanderramin/staircase/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRefreshCmd(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Resolve the active stage and day, activating the day if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(flags); err != nil {
				return err
			}
			snap, err := app.Progression.Refresh(cmd.Context(), flags.userID)
			if err != nil {
				return fail(cmd, flags, err)
			}
			out := mapSnapshotToContract(snap)
			return render(cmd, flags, out, func() string {
				return formatter.FormatSnapshot(out)
			})
		},
	}
}
