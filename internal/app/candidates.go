package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/store/memory"
	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

// Roster sources reported by LoadCandidates.
const (
	SourceFile     = "file"
	SourceDatabase = "database"
	SourceEmbedded = "embedded"
)

// LoadCandidates builds the in-memory store from the first configured source:
// DATASET_PATH, then the candidates table (when table is non-nil), then the
// embedded roster. Table loads are retried with exponential backoff; invalid
// data is not retried.
func LoadCandidates(ctx context.Context, cfg config.Config, table domain.CandidateSource) (*memory.Store, string, error) {
	var (
		cs     []domain.Candidate
		source string
		err    error
	)
	switch {
	case cfg.DatasetPath != "":
		source = SourceFile
		cs, err = memory.LoadFile(cfg.DatasetPath)
	case table != nil:
		source = SourceDatabase
		cs, err = loadWithRetry(ctx, cfg, table)
	default:
		store, derr := memory.Default()
		if derr != nil {
			return nil, SourceEmbedded, fmt.Errorf("op=app.LoadCandidates: %w", derr)
		}
		observability.SetStoreSize(store.Len())
		return store, SourceEmbedded, nil
	}
	if err != nil {
		return nil, source, fmt.Errorf("op=app.LoadCandidates source=%s: %w", source, err)
	}
	store, err := memory.New(cs)
	if err != nil {
		return nil, source, fmt.Errorf("op=app.LoadCandidates source=%s: %w", source, err)
	}
	observability.SetStoreSize(store.Len())
	return store, source, nil
}

func loadWithRetry(ctx context.Context, cfg config.Config, table domain.CandidateSource) ([]domain.Candidate, error) {
	maxElapsed, initial := cfg.StoreBackoff()
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initial
	bo.MaxElapsedTime = maxElapsed

	var out []domain.Candidate
	attempt := 0
	op := func() error {
		attempt++
		cs, err := table.LoadAll(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, context.Canceled) {
				return backoff.Permanent(err)
			}
			slog.Warn("candidate table load failed; retrying",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return err
		}
		out = cs
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return out, nil
}
