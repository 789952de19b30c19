// Package export writes resolved auction records to the three output
// artifacts: a processed workbook, a GeoJSON feature collection, and an
// interactive HTML map.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/auction-mapper/internal/model"
)

var workbookHeader = []string{
	"Auction ID", "Status", "Minimum Bid", "Open Date",
	"Attorney", "Debt Amount", "Book/Writ", "OPA", "Address",
	"Neighborhood", "Lat", "Lng", "Phila Link", "Bid4Assets Link", "Google Street View",
}

// WriteWorkbook writes every record, resolved or not, to a single-sheet
// workbook. Unresolved records get empty Lat/Lng cells.
func WriteWorkbook(path string, records []model.ResolvedRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Auctions")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range workbookHeader {
		header.AddCell().SetString(h)
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(r.AuctionID)
		row.AddCell().SetString(r.Status)
		row.AddCell().SetString(r.MinBid)
		row.AddCell().SetString(r.OpenDate)
		row.AddCell().SetString(r.Attorney)
		row.AddCell().SetString(r.DebtAmount)
		row.AddCell().SetString(r.BookWrit)
		row.AddCell().SetString(r.OPA)
		row.AddCell().SetString(r.Address)
		row.AddCell().SetString(r.Neighborhood)

		latCell, lngCell := row.AddCell(), row.AddCell()
		if r.Coordinate != nil {
			latCell.SetFloat(r.Coordinate.Latitude)
			lngCell.SetFloat(r.Coordinate.Longitude)
		}

		row.AddCell().SetString(r.PhilaLink)
		row.AddCell().SetString(r.Bid4AssetsLink)
		row.AddCell().SetString(r.StreetViewLink)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}

	zap.L().Info("export: workbook written",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return nil
}
