package cli

import (
	"github.com/alexanderramin/staircase/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds the use cases the CLI commands call.
type App struct {
	Progression app.RefreshUseCase
	Days        app.DayCompletionUseCase
	Closure     app.ClosureUseCase
	Catalog     app.ImportCatalogUseCase
}

// globalFlags are persistent flags shared by every subcommand.
type globalFlags struct {
	userID string
	json   bool
}

func (f *globalFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.userID, "user", "u", "", "User ID")
	fs.BoolVar(&f.json, "json", false, "Print results as JSON")
}

// NewRootCmd creates the top-level "staircase" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "staircase",
		Short:         "Staged recovery program: where a user stands and what to do today",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.bind(root.PersistentFlags())

	root.AddCommand(
		newRefreshCmd(app, flags),
		newDayCmd(app, flags),
		newClosureCmd(app, flags),
		newCatalogCmd(app, flags),
	)

	return root
}
