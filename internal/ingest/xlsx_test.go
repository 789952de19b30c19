package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

var standardHeader = []string{
	"Auction ID", "Status", "Minimum Bid", "Bidding Open Date/Time",
	"Attorney", "Debt Amount", "Book/Writ", "OPA", "Address",
}

// createWorkbook writes an xlsx file with two banner rows, the given
// header on row 3, and the given data rows after it.
func createWorkbook(t *testing.T, header []string, dataRows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Auctions")
	require.NoError(t, err)

	addRow := func(cells []string) {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}

	addRow([]string{"Sheriff Sale Results"})
	addRow(nil)
	addRow(header)
	for _, r := range dataRows {
		addRow(r)
	}

	path := filepath.Join(t.TempDir(), "auctions.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadWorkbook_Basic(t *testing.T) {
	path := createWorkbook(t, standardHeader, [][]string{
		{"5501", "Active", "$1,200.00", "2026-09-02 10:00", "Smith & Assoc", "$45,000.00", "2301-4001", "881001234", "123 Market St"},
		{"5502", "Postponed", "$900.00", "2026-09-02 10:00", "Jones LLP", "$12,000.00", "2301-4002", "881001235", "456 Chestnut St"},
	})

	rows, err := ReadWorkbook(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "5501", rows[0].AuctionID)
	assert.Equal(t, "Active", rows[0].Status)
	assert.Equal(t, "$1,200.00", rows[0].MinBid)
	assert.Equal(t, "2026-09-02 10:00", rows[0].OpenDate)
	assert.Equal(t, "Smith & Assoc", rows[0].Attorney)
	assert.Equal(t, "$45,000.00", rows[0].DebtAmount)
	assert.Equal(t, "2301-4001", rows[0].BookWrit)
	assert.Equal(t, "881001234", rows[0].OPA)
	assert.Equal(t, "123 Market St", rows[0].Address)

	assert.Equal(t, "5502", rows[1].AuctionID)
}

func TestReadWorkbook_MissingDebtColumnTolerated(t *testing.T) {
	header := []string{
		"Auction ID", "Status", "Minimum Bid", "Bidding Open Date/Time",
		"Attorney", "Book/Writ", "OPA", "Address",
	}
	path := createWorkbook(t, header, [][]string{
		{"5501", "Active", "$1,200.00", "2026-09-02 10:00", "Smith & Assoc", "2301-4001", "881001234", "123 Market St"},
	})

	rows, err := ReadWorkbook(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].DebtAmount)
	assert.Equal(t, "123 Market St", rows[0].Address)
}

func TestReadWorkbook_MissingRequiredColumn(t *testing.T) {
	header := []string{"Auction ID", "Status", "Minimum Bid"}
	path := createWorkbook(t, header, nil)

	_, err := ReadWorkbook(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required column")
}

func TestReadWorkbook_SkipsRowsWithoutAuctionID(t *testing.T) {
	path := createWorkbook(t, standardHeader, [][]string{
		{"5501", "Active", "", "", "", "", "", "", "123 Market St"},
		{"", "Active", "", "", "", "", "", "", "456 Chestnut St"},
		{"5503", "Active", "", "", "", "", "", "", "789 Pine St"},
	})

	rows, err := ReadWorkbook(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "5501", rows[0].AuctionID)
	assert.Equal(t, "5503", rows[1].AuctionID)
}

func TestReadWorkbook_ShortRowsTolerated(t *testing.T) {
	// A data row with fewer cells than the header must not panic; the
	// missing trailing cells read as empty.
	path := createWorkbook(t, standardHeader, [][]string{
		{"5501", "Active"},
	})

	rows, err := ReadWorkbook(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Address)
}

func TestReadWorkbook_TooFewRows(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Auctions")
	require.NoError(t, err)
	sheet.AddRow().AddCell().SetString("banner only")

	path := filepath.Join(t.TempDir(), "short.xlsx")
	require.NoError(t, f.Save(path))

	_, err = ReadWorkbook(path)
	require.Error(t, err)
}

func TestReadWorkbook_MissingFile(t *testing.T) {
	_, err := ReadWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
}
