package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/recon/internal/importer"
	"github.com/cleared-dev/recon/internal/logger"
	"github.com/cleared-dev/recon/internal/report"
	"github.com/cleared-dev/recon/internal/runlog"
)

func newBatchCommand(a *app) *cobra.Command {
	var repoDir string
	var strict bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Reconcile every table in import/ and record the runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return a.runBatch(cmd, absDir, strict)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat unbalanced ledgers as failures and leave them in import/")

	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, repoRoot string, strict bool) error {
	out := cmd.OutOrStdout()
	reg := importer.DefaultRegistry()

	files, err := reg.Scan(repoRoot)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No statement tables in import/")
		return nil
	}

	r, err := report.NewRenderer(a.cfg.Output.Currency)
	if err != nil {
		return err
	}

	base := logger.FromContext(cmd.Context())
	entries := make([]runlog.Entry, 0, len(files))
	failed := 0

	for _, f := range files {
		entry := runlog.NewEntry(f.Name, time.Now())
		log := base.With().Str("run_id", entry.RunID.String()).Str("source", f.Name).Logger()
		ctx := logger.WithContext(cmd.Context(), log)

		raw, err := reg.ReadFile(f.Path, f.Format)
		var res ledgerResult
		if err == nil {
			res, err = reconcileTable(ctx, a.cfg, raw)
		}
		if err == nil && strict && !res.summary.IsConsistent {
			err = errUnbalanced
		}
		if err != nil {
			entry.Error = err.Error()
			entry.Rows = len(res.rows)
			entries = append(entries, entry)
			failed++
			log.Error().Err(err).Msg("reconciliation failed")
			fmt.Fprintf(out, "%s: FAILED: %v\n", f.Name, err)
			continue
		}

		entry.Rows = len(res.rows)
		entry.Summary = res.summary

		status := "balanced"
		if !res.summary.IsConsistent {
			status = "NOT balanced"
		}
		fmt.Fprintf(out, "%s: %s (initial %s, in %s, out %s, final %s)\n", f.Name, status,
			r.Amount(res.summary.InitialBalance), r.Amount(res.summary.TotalInflow),
			r.Amount(res.summary.TotalOutflow), r.Amount(res.summary.FinalBalance))

		if err := importer.MarkProcessed(repoRoot, f.Name); err != nil {
			entry.Error = err.Error()
			failed++
			log.Error().Err(err).Msg("table left in import/")
			fmt.Fprintf(out, "%s: FAILED: %v\n", f.Name, err)
		}
		entries = append(entries, entry)
	}

	if err := runlog.Append(repoRoot, entries); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d statements failed", failed, len(files))
	}
	return nil
}
