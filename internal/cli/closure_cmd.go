package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/staircase/internal/app"
	"github.com/alexanderramin/staircase/internal/cli/formatter"
	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/spf13/cobra"
)

func newClosureCmd(a *App, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "closure",
		Short: "Work through the closure track",
	}

	cmd.AddCommand(
		closureSubcommand(flags, "done <action-id>", "Mark a closure action done", cobra.ExactArgs(1),
			func(ctx context.Context, userID string, args []string) (*app.ClosureStatus, error) {
				return a.Closure.CompleteClosureAction(ctx, userID, args[0])
			}),
		closureSubcommand(flags, "sign", "Sign the closure agreement", cobra.NoArgs,
			func(ctx context.Context, userID string, _ []string) (*app.ClosureStatus, error) {
				return a.Closure.SignClosureAgreement(ctx, userID)
			}),
		closureSubcommand(flags, "safety <safe|unsafe>", "Record the safety check result", cobra.ExactArgs(1),
			func(ctx context.Context, userID string, args []string) (*app.ClosureStatus, error) {
				if !domain.ValidSafetyResults[args[0]] {
					return nil, fmt.Errorf("safety result must be safe or unsafe, got %q", args[0])
				}
				return a.Closure.RecordSafetyCheck(ctx, userID, domain.SafetyCheckResult(args[0]))
			}),
		closureSubcommand(flags, "status", "Show the closure track", cobra.NoArgs,
			func(ctx context.Context, userID string, _ []string) (*app.ClosureStatus, error) {
				return a.Closure.GetClosureStatus(ctx, userID)
			}),
	)
	return cmd
}

type closureFunc func(ctx context.Context, userID string, args []string) (*app.ClosureStatus, error)

func closureSubcommand(flags *globalFlags, use, short string, args cobra.PositionalArgs, fn closureFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(flags); err != nil {
				return err
			}
			status, err := fn(cmd.Context(), flags.userID, args)
			if err != nil {
				return fail(cmd, flags, err)
			}
			out := mapClosureStatusToContract(status)
			return render(cmd, flags, out, func() string {
				return formatter.FormatClosureStatus(out)
			})
		},
	}
}
