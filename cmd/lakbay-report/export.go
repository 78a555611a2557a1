package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lakbaycli/internal/exporter"
	"lakbaycli/internal/services"
	"lakbaycli/pkg/contracts/domain"
)

// Export flags
var (
	exportMode     string // --mode current|all|filtered
	exportFormat   string // --format pdf|xlsx|csv
	exportStart    string // --start YYYY-MM-DD
	exportEnd      string // --end YYYY-MM-DD
	exportCategory string // --category
	exportStatus   string // --status active|inactive
	exportRecords  string // --records JSON file of the current page
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <users|events|hotlines>",
		Short: "Export a list page report",
		Long: `Export the users, events or hotlines report.

Modes:
  current   the records in --records, as shown on one page
  all       every record, up to api.all_records_limit
  filtered  either a date range (--start and --end) or a --category

For users and events the category is Active or Inactive. For hotlines it is
one of the hotline categories, Others, or "All Categories".`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringVar(&exportMode, "mode", string(services.ModeAll), "export mode: current, all, filtered")
	cmd.Flags().StringVar(&exportFormat, "format", "", "output format: pdf, xlsx, csv (default: reports.default_format)")
	cmd.Flags().StringVar(&exportStart, "start", "", "start date of a filtered export")
	cmd.Flags().StringVar(&exportEnd, "end", "", "end date of a filtered export")
	cmd.Flags().StringVar(&exportCategory, "category", "", "category of a filtered export")
	cmd.Flags().StringVar(&exportStatus, "status", "", "status of a filtered export: active, inactive")
	cmd.Flags().StringVar(&exportRecords, "records", "", "JSON file with the records of a current page export")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	recordType, err := domain.ParseRecordType(args[0])
	if err != nil || recordType == domain.RecordTypeMonthly {
		return fmt.Errorf("unknown report type %q: use users, events or hotlines", args[0])
	}
	mode, ok := services.ParseExportMode(exportMode)
	if !ok {
		return fmt.Errorf("unknown mode %q: use current, all or filtered", exportMode)
	}

	rt, err := setup(cmd)
	if err != nil {
		return err
	}

	req := services.ExportRequest{
		RecordType: recordType,
		Mode:       mode,
		Format:     exportFormat,
		Params: exporter.ScopeParams{
			StartDate: exportStart,
			EndDate:   exportEnd,
			Category:  exportCategory,
			Status:    exportStatus,
		},
	}
	if mode == services.ModeCurrent && exportRecords != "" {
		if err := readRecords(exportRecords, &req); err != nil {
			return err
		}
	}

	artifact, err := rt.reports.Export(cmd.Context(), req, rt.saver)
	if err != nil {
		return err
	}
	rt.printArtifact(cmd, artifact)
	return nil
}

// readRecords loads a current page from a JSON array file
func readRecords(path string, req *services.ExportRequest) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	switch req.RecordType {
	case domain.RecordTypeUsers:
		err = json.Unmarshal(data, &req.Users)
	case domain.RecordTypeEvents:
		err = json.Unmarshal(data, &req.Events)
	default:
		err = json.Unmarshal(data, &req.Hotlines)
	}
	if err != nil {
		return fmt.Errorf("failed to parse records from %s: %w", path, err)
	}
	return nil
}
