package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josepaz/rumbo/config"
	"github.com/josepaz/rumbo/infra/kpi"
	"github.com/josepaz/rumbo/infra/store"
	"github.com/josepaz/rumbo/jobs/ecokpi"
)

var backfillDB string

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Rebuild driver eco KPIs from stored routes",
	RunE:  runBackfill,
}

func init() {
	backfillCmd.Flags().StringVar(&backfillDB, "kpi-db", "kpi.db", "KPI database path")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Store.Backend != "sqlite" {
		return fmt.Errorf("backfill needs a durable store, got %q", cfg.Store.Backend)
	}

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	kpiStore, err := kpi.NewSQLiteStore(backfillDB)
	if err != nil {
		return fmt.Errorf("open kpi db: %w", err)
	}
	defer func() { _ = kpiStore.Close() }()

	routes, err := st.Routes(context.Background())
	if err != nil {
		return fmt.Errorf("load routes: %w", err)
	}
	if err := ecokpi.Backfill(kpiStore, routes); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "backfilled %d routes into %s\n", len(routes), backfillDB)
	return nil
}
