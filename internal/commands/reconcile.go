package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/recon/internal/importer"
	"github.com/cleared-dev/recon/internal/report"
)

// errUnbalanced is returned in strict mode when the ledger does not add up.
var errUnbalanced = errors.New("ledger does not balance")

type reconcileOptions struct {
	format  string
	output  string
	details bool
	strict  bool
}

func newReconcileCommand(a *app) *cobra.Command {
	var opts reconcileOptions

	cmd := &cobra.Command{
		Use:   "reconcile <table-file>",
		Short: "Reconcile one extracted statement table",
		Long: "Reads a statement table (CSV, or JSON array of rows with null for absent cells),\n" +
			"infers the opening balance and the direction of every transaction, and checks\n" +
			"that initial + money in - money out equals the final balance.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReconcile(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "table format (csv or json); inferred from the extension when empty")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output format (text or json); defaults to output.format from the config")
	cmd.Flags().BoolVar(&opts.details, "details", false, "list every transaction with its inferred direction (text output)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when the ledger does not balance")

	return cmd
}

func (a *app) runReconcile(cmd *cobra.Command, path string, opts reconcileOptions) error {
	raw, err := importer.DefaultRegistry().ReadFile(path, opts.format)
	if err != nil {
		return err
	}

	res, err := reconcileTable(cmd.Context(), a.cfg, raw)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = a.cfg.Output.Format
	}
	if err := a.render(cmd.OutOrStdout(), output, res, opts.details); err != nil {
		return err
	}

	if opts.strict && !res.summary.IsConsistent {
		return errUnbalanced
	}
	return nil
}

func (a *app) render(w io.Writer, output string, res ledgerResult, details bool) error {
	switch output {
	case "json":
		return report.WriteJSON(w, res.summary)
	case "text":
		r, err := report.NewRenderer(a.cfg.Output.Currency)
		if err != nil {
			return err
		}
		if details {
			if err := r.WriteDetail(w, res.rows); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
		return r.WriteText(w, res.summary)
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
