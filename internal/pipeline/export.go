package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// exportColumns defines the ordered lead export columns.
var exportColumns = []string{
	"Name",
	"Phone",
	"Address",
	"City",
	"State",
	"Zip",
	"Home Value",
	"Lot Size (sqft)",
	"Year Built",
	"Score",
	"Priority",
}

// export writes the CSV durability export and its XLSX sibling.
func (p *Pipeline) export(records []model.Homeowner, jobID string) error {
	dir := p.cfg.Pipeline.ExportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "export: create dir")
	}

	csvPath := filepath.Join(dir, fmt.Sprintf("leads_%s.csv", jobID))
	if err := ExportCSV(records, csvPath); err != nil {
		return err
	}
	xlsxPath := filepath.Join(dir, fmt.Sprintf("leads_%s.xlsx", jobID))
	if err := ExportXLSX(records, xlsxPath); err != nil {
		return err
	}

	zap.L().Info("export: files written",
		zap.String("csv", csvPath),
		zap.String("xlsx", xlsxPath),
		zap.Int("records", len(records)),
	)
	return nil
}

// ExportCSV writes scored leads as a CSV file. Every cell is quoted,
// including the header, so the output survives spreadsheet round-trips
// regardless of embedded commas.
func ExportCSV(records []model.Homeowner, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrap(err, "export: create csv file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeQuotedRow(w, exportColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for i := range records {
		if err := writeQuotedRow(w, buildExportRow(&records[i])); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	return eris.Wrap(w.Flush(), "export: flush csv")
}

// writeQuotedRow emits one CSV record with every cell quoted. Embedded
// quotes are doubled per RFC 4180.
func writeQuotedRow(w *bufio.Writer, row []string) error {
	for i, cell := range row {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(cell, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// ExportXLSX writes the same rows as a spreadsheet.
func ExportXLSX(records []model.Homeowner, outputPath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range exportColumns {
		header.AddCell().Value = col
	}
	for i := range records {
		row := sheet.AddRow()
		for _, val := range buildExportRow(&records[i]) {
			row.AddCell().Value = val
		}
	}

	return eris.Wrap(file.Save(outputPath), "export: save xlsx")
}

// buildExportRow maps a record to an export row.
func buildExportRow(h *model.Homeowner) []string {
	return []string{
		h.OwnerName,
		h.Phone,
		h.Address.Street,
		h.Address.City,
		h.Address.State,
		h.Address.Zip,
		formatFloat(h.EstimatedValue),
		formatFloat(h.LotSizeSqft),
		formatInt(h.YearBuilt),
		fmt.Sprintf("%.0f", h.Score),
		string(h.Priority),
	}
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%.0f", v)
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}
