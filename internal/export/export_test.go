package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/auction-mapper/internal/model"
)

func resolvedRecord(id, address, status, neighborhood string, lat, lng float64) model.ResolvedRecord {
	r := model.ResolvedRecord{
		AuctionID:    id,
		Status:       status,
		Address:      address,
		Neighborhood: neighborhood,
		Coordinate:   &model.Coordinate{Latitude: lat, Longitude: lng},
	}
	r.DeriveLinks()
	return r
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	records := []model.ResolvedRecord{
		resolvedRecord("5501", "123 Market St", "Active", "Old City", 39.95, -75.16),
		{AuctionID: "5502", Address: "1 Nowhere Ln", Neighborhood: model.UnknownNeighborhood},
	}

	require.NoError(t, WriteWorkbook(path, records))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	require.Len(t, sheet.Rows, 3)

	header := sheet.Rows[0]
	assert.Equal(t, "Auction ID", header.Cells[0].String())
	assert.Equal(t, "Lat", header.Cells[10].String())

	first := sheet.Rows[1]
	assert.Equal(t, "5501", first.Cells[0].String())
	assert.Equal(t, "Old City", first.Cells[9].String())
	lat, err := first.Cells[10].Float()
	require.NoError(t, err)
	assert.InDelta(t, 39.95, lat, 1e-9)

	// Unresolved records still appear, with empty coordinate cells.
	second := sheet.Rows[2]
	assert.Equal(t, "5502", second.Cells[0].String())
	assert.Empty(t, second.Cells[10].String())
	assert.Empty(t, second.Cells[11].String())
}

func TestWriteGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.geojson")
	records := []model.ResolvedRecord{
		resolvedRecord("5501", "123 Market St", "Active", "Old City", 39.95, -75.16),
		{AuctionID: "5502", Address: "1 Nowhere Ln"},
	}

	require.NoError(t, WriteGeoJSON(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1, "unresolved records carry no feature")

	feat := fc.Features[0]
	assert.Equal(t, "Feature", feat.Type)
	assert.Equal(t, "Point", feat.Geometry.Type)
	require.Len(t, feat.Geometry.Coordinates, 2)
	assert.InDelta(t, -75.16, feat.Geometry.Coordinates[0], 1e-9, "GeoJSON order is lng, lat")
	assert.InDelta(t, 39.95, feat.Geometry.Coordinates[1], 1e-9)
	assert.Equal(t, "5501", feat.Properties["auction_id"])
	assert.Equal(t, "Old City", feat.Properties["neighborhood"])
	assert.Equal(t, "https://www.bid4assets.com/auction/index/5501", feat.Properties["bid4assets_link"])
}

func TestWriteGeoJSON_EmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.geojson")

	require.NoError(t, WriteGeoJSON(path, []model.ResolvedRecord{{AuctionID: "1"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FeatureCollection")
}

func TestWriteMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	records := []model.ResolvedRecord{
		resolvedRecord("5501", "123 Market St", "Active", "Old City", 39.9500, -75.1600),
		resolvedRecord("5502", "125 Market St", "Sold", "Old City", 39.9501, -75.1600),
		resolvedRecord("5503", "9 Frankford Ave", "Postponed", "Fishtown", 39.9700, -75.1300),
		{AuctionID: "5504", Address: "1 Nowhere Ln"},
	}

	require.NoError(t, WriteMap(path, records, 300))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "leaflet")
	assert.Contains(t, page, "Old City (2)")
	assert.Contains(t, page, "Fishtown (1)")
	// The two Old City records sit well within 300ft and collapse into a
	// red cluster marker.
	assert.Contains(t, page, `"color":"red"`)
	assert.Contains(t, page, "Properties Cluster (2 nearby)")
	// The Fishtown single keeps its status color.
	assert.Contains(t, page, `"color":"orange"`)
	assert.NotContains(t, page, "1 Nowhere Ln")
}

func TestWriteMap_NoResolvedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")

	require.NoError(t, WriteMap(path, []model.ResolvedRecord{{AuctionID: "1"}}, 300))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no map file without coordinates")
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "green", statusColor("Sold"))
	assert.Equal(t, "gray", statusColor("Withdrawn"))
	assert.Equal(t, "gray", statusColor("Cancelled by Court"))
	assert.Equal(t, "orange", statusColor("Postponed"))
	assert.Equal(t, "blue", statusColor("Active"))
	assert.Equal(t, "blue", statusColor(""))
}
