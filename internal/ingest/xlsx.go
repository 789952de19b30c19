// Package ingest reads sheriff-sale auction workbooks into auction rows.
package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/auction-mapper/internal/model"
)

// The Bid4Assets export carries two banner rows before the header, so the
// header sits on sheet row 3 (index 2) and data starts on row 4.
const headerRowIndex = 2

// Required column headers, matched exactly.
const (
	colAuctionID = "Auction ID"
	colStatus    = "Status"
	colMinBid    = "Minimum Bid"
	colOpenDate  = "Bidding Open Date/Time"
	colAttorney  = "Attorney"
	colBookWrit  = "Book/Writ"
	colOPA       = "OPA"
	colAddress   = "Address"

	// Optional; absent in older exports.
	colDebtAmount = "Debt Amount"
)

// ReadWorkbook parses the first sheet of a sheriff-sale workbook into
// auction rows. Rows whose Auction ID cell is empty are skipped.
func ReadWorkbook(path string) ([]model.AuctionRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) <= headerRowIndex {
		return nil, eris.Errorf("ingest: sheet has %d rows, header expected on row %d", len(sheet.Rows), headerRowIndex+1)
	}

	headers := rowToStrings(sheet.Rows[headerRowIndex])
	zap.L().Debug("ingest: found headers", zap.Strings("headers", headers))

	idx, err := columnIndex(headers)
	if err != nil {
		return nil, err
	}

	var rows []model.AuctionRow
	for _, row := range sheet.Rows[headerRowIndex+1:] {
		cells := rowToStrings(row)

		r := model.AuctionRow{
			AuctionID:  cellAt(cells, idx.auctionID),
			Status:     cellAt(cells, idx.status),
			MinBid:     cellAt(cells, idx.minBid),
			OpenDate:   cellAt(cells, idx.openDate),
			Attorney:   cellAt(cells, idx.attorney),
			DebtAmount: cellAt(cells, idx.debtAmount),
			BookWrit:   cellAt(cells, idx.bookWrit),
			OPA:        cellAt(cells, idx.opa),
			Address:    cellAt(cells, idx.address),
		}
		if r.AuctionID == "" {
			continue
		}
		rows = append(rows, r)
	}

	zap.L().Info("ingest: workbook loaded",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

type columns struct {
	auctionID  int
	status     int
	minBid     int
	openDate   int
	attorney   int
	bookWrit   int
	opa        int
	address    int
	debtAmount int // -1 when the column is absent
}

func columnIndex(headers []string) (columns, error) {
	find := func(name string) (int, error) {
		for i, h := range headers {
			if strings.TrimSpace(h) == name {
				return i, nil
			}
		}
		return -1, eris.Errorf("ingest: required column %q not found", name)
	}

	var idx columns
	var err error
	if idx.auctionID, err = find(colAuctionID); err != nil {
		return idx, err
	}
	if idx.status, err = find(colStatus); err != nil {
		return idx, err
	}
	if idx.minBid, err = find(colMinBid); err != nil {
		return idx, err
	}
	if idx.openDate, err = find(colOpenDate); err != nil {
		return idx, err
	}
	if idx.attorney, err = find(colAttorney); err != nil {
		return idx, err
	}
	if idx.bookWrit, err = find(colBookWrit); err != nil {
		return idx, err
	}
	if idx.opa, err = find(colOPA); err != nil {
		return idx, err
	}
	if idx.address, err = find(colAddress); err != nil {
		return idx, err
	}

	if idx.debtAmount, err = find(colDebtAmount); err != nil {
		idx.debtAmount = -1
		zap.L().Warn("ingest: 'Debt Amount' column not found, debts default to empty")
	}

	return idx, nil
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
