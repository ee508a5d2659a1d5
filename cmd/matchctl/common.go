package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/candidate-matcher/internal/app"
	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/internal/matching"
	"github.com/fairyhunter13/candidate-matcher/internal/usecase"
)

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if ds, _ := cmd.Flags().GetString("dataset"); ds != "" {
		cfg.DatasetPath = ds
	}
	return cfg, nil
}

// newService builds a MatchService over the configured roster. Events are
// never published from the CLI.
func newService(cmd *cobra.Command) (usecase.MatchService, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return usecase.MatchService{}, err
	}
	ctx := cmd.Context()

	var table domain.CandidateSource
	if cfg.DatasetPath == "" && cfg.DBURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return usecase.MatchService{}, err
		}
		defer pool.Close()
		table = postgres.NewCandidateRepo(pool, cfg.CandidatesTable)
	}

	store, _, err := app.LoadCandidates(ctx, cfg, table)
	if err != nil {
		return usecase.MatchService{}, err
	}
	return usecase.NewMatchService(store, matching.DefaultRubric(), nil), nil
}

// readJobDescription takes --text, then --file, then stdin.
func readJobDescription(cmd *cobra.Command, text, file string) (string, error) {
	switch {
	case text != "" && file != "":
		return "", fmt.Errorf("use either --text or --file, not both")
	case text != "":
		return text, nil
	case file != "":
		// #nosec G304 -- path is supplied by the operator
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return string(b), nil
	default:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if compact, _ := cmd.Flags().GetBool("compact"); !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
