package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func exportRecords() []model.Homeowner {
	return []model.Homeowner{
		{
			OwnerName:      "John Smith",
			Phone:          "4805550100",
			Address:        model.Address{Street: "1 E Main St", City: "Phoenix", State: "AZ", Zip: "85018"},
			EstimatedValue: 2_000_000,
			LotSizeSqft:    45000,
			YearBuilt:      1990,
			Score:          82,
			Priority:       model.PriorityHigh,
		},
		{
			OwnerName: "Desert Holdings LLC",
			Address:   model.Address{Street: "2 E Main St", City: "Phoenix", State: "AZ", Zip: "85018"},
			Score:     40,
			Priority:  model.PriorityLow,
		},
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, ExportCSV(exportRecords(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Name", "Phone", "Address", "City", "State", "Zip",
		"Home Value", "Lot Size (sqft)", "Year Built", "Score", "Priority",
	}, rows[0])
	assert.Equal(t, []string{
		"John Smith", "4805550100", "1 E Main St", "Phoenix", "AZ", "85018",
		"2000000", "45000", "1990", "82", "HIGH",
	}, rows[1])
	// Missing attributes render as empty cells, not zeros.
	assert.Equal(t, "", rows[2][1])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][8])
}

func TestExportCSV_AllCellsQuoted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, ExportCSV(exportRecords(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		`"Name","Phone","Address","City","State","Zip","Home Value","Lot Size (sqft)","Year Built","Score","Priority"`,
		lines[0])
	assert.Equal(t,
		`"John Smith","4805550100","1 E Main St","Phoenix","AZ","85018","2000000","45000","1990","82","HIGH"`,
		lines[1])
	// Empty cells are still quoted.
	assert.True(t, strings.HasPrefix(lines[2], `"Desert Holdings LLC","",`))
}

func TestExportCSV_EscapesEmbeddedQuotes(t *testing.T) {
	records := []model.Homeowner{
		{OwnerName: `Bo "Duke" Smith`, Score: 40, Priority: model.PriorityLow},
	}
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, ExportCSV(records, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Bo ""Duke"" Smith"`)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, `Bo "Duke" Smith`, rows[1][0])
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	require.NoError(t, ExportXLSX(exportRecords(), path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Leads", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Name", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "John Smith", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "HIGH", sheet.Rows[1].Cells[10].Value)
}
