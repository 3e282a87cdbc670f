package cli

import (
	"errors"

	"github.com/alexanderramin/staircase/internal/cli/formatter"
	"github.com/spf13/cobra"
)

var errCatalogInvalid = errors.New("catalog is invalid")

type catalogValidationJSON struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func validationJSON(errs []error, warnings []string) catalogValidationJSON {
	out := catalogValidationJSON{
		Valid:    len(errs) == 0,
		Errors:   make([]string, 0, len(errs)),
		Warnings: append([]string{}, warnings...),
	}
	for _, err := range errs {
		out.Errors = append(out.Errors, err.Error())
	}
	return out
}

func newCatalogCmd(app *App, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the stage and day catalog",
	}
	cmd.AddCommand(newCatalogImportCmd(app, flags), newCatalogValidateCmd(app, flags))
	return cmd
}

func newCatalogImportCmd(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import stages, days and closure actions from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Catalog.ImportCatalog(cmd.Context(), args[0])
			if err != nil {
				return fail(cmd, flags, err)
			}
			return render(cmd, flags, res, func() string {
				return formatter.FormatImportResult(res)
			})
		},
	}
}

func newCatalogValidateCmd(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.yaml>",
		Short: "Check a catalog file without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Catalog.ValidateCatalogFile(cmd.Context(), args[0])
			if err != nil {
				return fail(cmd, flags, err)
			}
			if err := render(cmd, flags, validationJSON(v.Errors, v.Warnings), func() string {
				return formatter.FormatValidation(v)
			}); err != nil {
				return err
			}
			if !v.Valid() {
				return errCatalogInvalid
			}
			return nil
		},
	}
}
