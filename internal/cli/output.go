package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/staircase/internal/contract"
	"github.com/alexanderramin/staircase/internal/progression"
	"github.com/spf13/cobra"
)

func requireUser(flags *globalFlags) error {
	if flags.userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

// render prints v as indented JSON when --json is set and the text form
// otherwise.
func render(cmd *cobra.Command, flags *globalFlags, v any, text func() string) error {
	out := cmd.OutOrStdout()
	if flags.json {
		return writeJSON(out, v)
	}
	_, err := fmt.Fprint(out, text())
	return err
}

// fail reports err as a JSON error body when --json is set, then returns it
// so the process exits non-zero.
func fail(cmd *cobra.Command, flags *globalFlags, err error) error {
	if flags.json {
		body := contract.Error{
			Code:    string(progression.GetCode(err)),
			Message: err.Error(),
		}
		if werr := writeJSON(cmd.OutOrStdout(), body); werr != nil {
			return werr
		}
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
