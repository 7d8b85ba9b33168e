package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josepaz/rumbo/config"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Print driver pool availability",
	RunE:  runFleet,
}

func init() {
	rootCmd.AddCommand(fleetCmd)
}

func runFleet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	roster := cfg.Fleet.Roster()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d drivers configured\n", len(roster))
	for _, d := range roster {
		fmt.Fprintf(out, "  %s %-20s %-10s %.0fy experience, rating %.1f, %s\n",
			d.ID, d.Name, d.Vehicle, d.ExperienceYears, d.Rating, d.State)
	}
	return nil
}
