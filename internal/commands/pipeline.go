package commands

import (
	"context"
	"fmt"

	"github.com/cleared-dev/recon/internal/config"
	"github.com/cleared-dev/recon/internal/logger"
	"github.com/cleared-dev/recon/internal/model"
	"github.com/cleared-dev/recon/internal/reconcile"
	"github.com/cleared-dev/recon/internal/statement"
)

// ledgerResult is a reconciled statement table.
type ledgerResult struct {
	rows    []model.ClassifiedRow
	summary model.Summary
}

// reconcileTable normalizes raw table rows and reconciles the ledger.
func reconcileTable(ctx context.Context, cfg *config.Config, raw [][]string) (ledgerResult, error) {
	log := logger.FromContext(ctx)

	ledger, err := statement.NewNormalizer(cfg.Layout()).Normalize(raw)
	if err != nil {
		return ledgerResult{}, fmt.Errorf("normalizing table: %w", err)
	}
	log.Debug().Int("raw_rows", len(raw)).Int("transactions", len(ledger)).Msg("normalized statement table")

	classified, err := reconcile.Classify(ledger)
	if err != nil {
		return ledgerResult{}, err
	}
	summary, err := reconcile.Summarize(classified)
	if err != nil {
		return ledgerResult{}, err
	}

	log.Info().
		Int("transactions", len(classified)).
		Str("initial", summary.InitialBalance.StringFixed(2)).
		Str("final", summary.FinalBalance.StringFixed(2)).
		Bool("consistent", summary.IsConsistent).
		Msg("reconciled ledger")

	return ledgerResult{rows: classified, summary: summary}, nil
}
