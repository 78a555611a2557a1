package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lakbaycli/internal/services"
	"lakbaycli/pkg/contracts/domain"
)

// Monthly flags
var (
	monthlyFormat   string // --format pdf|xlsx|csv
	monthlySnapshot string // --snapshot dashboard JSON file
)

func newMonthlyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Export the monthly dashboard report",
		Long: `Export the monthly dashboard report for the current month.

The dashboard is read from the Lakbay API unless --snapshot names a JSON
file holding a saved dashboard.`,
		Args: cobra.NoArgs,
		RunE: runMonthly,
	}

	cmd.Flags().StringVar(&monthlyFormat, "format", "", "output format: pdf, xlsx, csv (default: reports.default_format)")
	cmd.Flags().StringVar(&monthlySnapshot, "snapshot", "", "dashboard snapshot JSON file")
	return cmd
}

func runMonthly(cmd *cobra.Command, _ []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}

	req := services.MonthlyRequest{Format: monthlyFormat}
	if monthlySnapshot != "" {
		data, err := os.ReadFile(monthlySnapshot)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		var snapshot domain.DashboardSnapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return fmt.Errorf("failed to parse snapshot: %w", err)
		}
		req.Snapshot = &snapshot
	}

	artifact, err := rt.reports.Monthly(cmd.Context(), req, rt.saver)
	if err != nil {
		return err
	}
	rt.printArtifact(cmd, artifact)
	return nil
}
