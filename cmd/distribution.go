package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/phone"
)

var distributionFile string

var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Show the area-code distribution of a lead CSV",
	Long:  "Reads a CSV with a Phone column and prints an area-code histogram annotated with allow-list membership, for checking filter impact before a run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readPhoneCSV(distributionFile)
		if err != nil {
			return err
		}

		f := phone.NewFilter(cfg.Region.AreaCodes)
		dist := f.Distribution(records)
		if len(dist) == 0 {
			fmt.Println("no parseable phone numbers found")
			return nil
		}

		fmt.Printf("%-10s %8s  %s\n", "Area code", "Count", "Allowed")
		for _, row := range dist {
			allowed := ""
			if row.Allowed {
				allowed = "yes"
			}
			fmt.Printf("%-10s %8d  %s\n", row.AreaCode, row.Count, allowed)
		}
		return nil
	},
}

// readPhoneCSV loads the Phone column of a CSV into bare records.
func readPhoneCSV(path string) ([]model.Homeowner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "distribution: open csv")
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "distribution: read csv")
	}
	if len(rows) == 0 {
		return nil, eris.New("distribution: csv is empty")
	}

	phoneCol := -1
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), "phone") {
			phoneCol = i
			break
		}
	}
	if phoneCol < 0 {
		return nil, eris.New("distribution: csv has no Phone column")
	}

	records := make([]model.Homeowner, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if phoneCol >= len(row) {
			continue
		}
		records = append(records, model.Homeowner{Phone: strings.TrimSpace(row[phoneCol])})
	}
	return records, nil
}

func init() {
	distributionCmd.Flags().StringVar(&distributionFile, "file", "", "path to the lead CSV (required)")
	_ = distributionCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(distributionCmd)
}
