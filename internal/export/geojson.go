package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/auction-mapper/internal/model"
)

// WriteGeoJSON writes resolved records as a Point FeatureCollection.
// Records without a coordinate carry no geometry and are skipped.
func WriteGeoJSON(path string, records []model.ResolvedRecord) error {
	fc := &geojson.FeatureCollection{}

	for _, r := range records {
		if r.Coordinate == nil {
			continue
		}

		point := geom.NewPointFlat(geom.XY, []float64{r.Coordinate.Longitude, r.Coordinate.Latitude})
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   point,
			Properties: featureProperties(r),
		})
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "export: write geojson")
	}

	zap.L().Info("export: geojson written",
		zap.String("path", path),
		zap.Int("features", len(fc.Features)),
	)
	return nil
}

func featureProperties(r model.ResolvedRecord) map[string]interface{} {
	return map[string]interface{}{
		"auction_id":      r.AuctionID,
		"status":          r.Status,
		"min_bid":         r.MinBid,
		"open_date":       r.OpenDate,
		"attorney":        r.Attorney,
		"debt_amount":     r.DebtAmount,
		"book_writ":       r.BookWrit,
		"opa":             r.OPA,
		"address":         r.Address,
		"neighborhood":    r.Neighborhood,
		"phila_link":      r.PhilaLink,
		"bid4assets_link": r.Bid4AssetsLink,
		"streetview":      r.StreetViewLink,
	}
}
