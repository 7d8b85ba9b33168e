package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josepaz/rumbo/app"
	"github.com/josepaz/rumbo/config"
	"github.com/josepaz/rumbo/pkg/export"
)

var optimizeOutput string

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Force one optimization cycle and print the routes created",
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeOutput, "output", "o", "text", "output format: text, json or csv")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "service close: %v\n", cerr)
		}
	}()

	sum, err := svc.Engine.Optimize(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch optimizeOutput {
	case "json":
		return export.WriteJSON(out, sum.Routes)
	case "csv":
		return export.WriteCSV(out, sum.Routes)
	}

	fmt.Fprintf(out, "run %s: %d routes created, %d shipments routed, %d groups skipped, %d pending\n",
		sum.RunID, sum.RoutesCreated, sum.ShipmentsRouted, sum.GroupsSkipped, sum.Pending)
	for _, r := range sum.Routes {
		fmt.Fprintf(out, "  %s %s/%s driver %s (%s): %d stops, %.1f km, %.1f h, efficiency %.0f%%\n",
			r.ID, r.Vehicle, r.Zone, r.Driver.Name, r.Driver.ID,
			len(r.Stops), r.Stats.TotalDistanceKm, r.Stats.TotalHours, r.Stats.EfficiencyPct)
	}
	return nil
}
