package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var (
	exportOut    string
	exportFormat string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored leads to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		leads, err := st.ListLeads(cmd.Context(), cfg.Pipeline.WorkspaceID, exportLimit, 0)
		if err != nil {
			return err
		}

		records := make([]model.Homeowner, len(leads))
		for i, l := range leads {
			name := strings.TrimSpace(l.FirstName + " " + l.LastName)
			if l.Company != "" {
				name = l.Company
			}
			records[i] = model.Homeowner{
				OwnerName: name,
				Phone:     l.Phone,
				Address:   model.Address{Street: l.Address, City: l.City, State: l.State, Zip: l.Zip},
				Score:     l.Score,
				Priority:  model.Priority(l.Priority),
			}
		}

		switch exportFormat {
		case "csv":
			err = pipeline.ExportCSV(records, exportOut)
		case "xlsx":
			err = pipeline.ExportXLSX(records, exportOut)
		default:
			return eris.Errorf("unknown format %q (want csv or xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}

		fmt.Printf("exported %d leads to %s\n", len(records), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "leads.csv", "output file path")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 10000, "maximum leads to export")
	rootCmd.AddCommand(exportCmd)
}
