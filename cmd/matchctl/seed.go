package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/store/memory"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

func newSeedCmd() *cobra.Command {
	var dbURL, table string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the candidates table with a roster file or the embedded roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if dbURL == "" {
				dbURL = cfg.DBURL
			}
			if dbURL == "" {
				return fmt.Errorf("DB_URL or --db-url is required")
			}
			if table == "" {
				table = cfg.CandidatesTable
			}

			var cs []domain.Candidate
			if cfg.DatasetPath != "" {
				cs, err = memory.LoadFile(cfg.DatasetPath)
			} else {
				var store *memory.Store
				store, err = memory.Default()
				if store != nil {
					cs = store.All()
				}
			}
			if err != nil {
				return err
			}
			// Reject duplicates before touching the table.
			if _, err := memory.New(cs); err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, dbURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := postgres.NewCandidateRepo(pool, table)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := repo.ReplaceAll(ctx, cs); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d candidates into %s\n", len(cs), table)
			return err
		},
	}
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Postgres URL (defaults to DB_URL)")
	cmd.Flags().StringVar(&table, "table", "", "Target table (defaults to CANDIDATES_TABLE)")
	return cmd
}
