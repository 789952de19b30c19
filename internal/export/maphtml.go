package export

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/auction-mapper/internal/cluster"
	"github.com/sells-group/auction-mapper/internal/model"
)

// mapMarker is one Leaflet marker, either a single property or the
// centroid of a proximity cluster.
type mapMarker struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Color        string  `json:"color"`
	Neighborhood string  `json:"neighborhood"`
	Tooltip      string  `json:"tooltip"`
	Popup        string  `json:"popup"`
}

type legendEntry struct {
	Name  string
	Count int
}

type mapPage struct {
	CenterLat float64
	CenterLng float64
	Markers   template.JS
	Legend    []legendEntry
}

// WriteMap renders resolved records to an interactive HTML map with one
// toggleable layer per neighborhood and proximity clusters collapsed into
// centroid markers. With no resolved records nothing is written.
func WriteMap(path string, records []model.ResolvedRecord, thresholdFeet float64) error {
	var valid []model.ResolvedRecord
	for _, r := range records {
		if r.Coordinate != nil {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		zap.L().Warn("export: no resolved coordinates, skipping map")
		return nil
	}

	var centerLat, centerLng float64
	for _, r := range valid {
		centerLat += r.Coordinate.Latitude
		centerLng += r.Coordinate.Longitude
	}
	centerLat /= float64(len(valid))
	centerLng /= float64(len(valid))

	groups := make(map[string][]model.ResolvedRecord)
	for _, r := range valid {
		groups[r.Neighborhood] = append(groups[r.Neighborhood], r)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var markers []mapMarker
	legend := make([]legendEntry, 0, len(names))

	for _, name := range names {
		group := groups[name]
		legend = append(legend, legendEntry{Name: name, Count: len(group)})

		for _, c := range cluster.Properties(group, thresholdFeet) {
			if len(c) == 1 {
				markers = append(markers, singleMarker(c[0]))
				continue
			}
			markers = append(markers, clusterMarker(c, name))
		}
	}

	payload, err := json.Marshal(markers)
	if err != nil {
		return eris.Wrap(err, "export: marshal markers")
	}

	out, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create map file")
	}
	defer out.Close() //nolint:errcheck

	page := mapPage{
		CenterLat: centerLat,
		CenterLng: centerLng,
		Markers:   template.JS(payload),
		Legend:    legend,
	}
	if err := mapTemplate.Execute(out, page); err != nil {
		return eris.Wrap(err, "export: render map")
	}

	zap.L().Info("export: map written",
		zap.String("path", path),
		zap.Int("markers", len(markers)),
		zap.Int("neighborhoods", len(legend)),
	)
	return nil
}

// statusColor maps an auction status to a marker color.
func statusColor(status string) string {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "sold"):
		return "green"
	case strings.Contains(s, "withdrawn"), strings.Contains(s, "cancelled"):
		return "gray"
	case strings.Contains(s, "postponed"):
		return "orange"
	default:
		return "blue"
	}
}

func singleMarker(r model.ResolvedRecord) mapMarker {
	var b strings.Builder
	fmt.Fprintf(&b, "<h4>%s</h4>", html.EscapeString(r.Address))
	fmt.Fprintf(&b, "<strong>Auction ID:</strong> %s<br>", html.EscapeString(r.AuctionID))
	fmt.Fprintf(&b, "<strong>Neighborhood:</strong> %s<br>", html.EscapeString(r.Neighborhood))
	fmt.Fprintf(&b, "<strong>Status:</strong> %s<br>", html.EscapeString(r.Status))
	if r.MinBid != "" {
		fmt.Fprintf(&b, "<strong>Start Price:</strong> %s<br>", html.EscapeString(r.MinBid))
	}
	if r.OpenDate != "" {
		fmt.Fprintf(&b, "<strong>Auction Opens:</strong> %s<br>", html.EscapeString(r.OpenDate))
	}
	if r.DebtAmount != "" {
		fmt.Fprintf(&b, "<strong>Debt:</strong> %s<br>", html.EscapeString(r.DebtAmount))
	}
	if r.Bid4AssetsLink != "" {
		fmt.Fprintf(&b, `<a href="%s" target="_blank">View Auction</a><br>`, html.EscapeString(r.Bid4AssetsLink))
	}
	if r.PhilaLink != "" {
		fmt.Fprintf(&b, `<a href="%s" target="_blank">Property Records</a><br>`, html.EscapeString(r.PhilaLink))
	}
	if r.StreetViewLink != "" {
		fmt.Fprintf(&b, `<a href="%s" target="_blank">Street View</a>`, html.EscapeString(r.StreetViewLink))
	}

	return mapMarker{
		Lat:          r.Coordinate.Latitude,
		Lng:          r.Coordinate.Longitude,
		Color:        statusColor(r.Status),
		Neighborhood: r.Neighborhood,
		Tooltip:      fmt.Sprintf("%s - %s", r.Address, r.Status),
		Popup:        b.String(),
	}
}

func clusterMarker(c cluster.Cluster, neighborhood string) mapMarker {
	var lat, lng float64
	for _, r := range c {
		lat += r.Coordinate.Latitude
		lng += r.Coordinate.Longitude
	}
	lat /= float64(len(c))
	lng /= float64(len(c))

	var b strings.Builder
	fmt.Fprintf(&b, "<h4>Properties Cluster (%d nearby)</h4>", len(c))
	for _, r := range c {
		fmt.Fprintf(&b, "<div><strong>%s</strong><br><small>Auction: %s | Status: %s</small>",
			html.EscapeString(r.Address), html.EscapeString(r.AuctionID), html.EscapeString(r.Status))
		if r.Bid4AssetsLink != "" {
			fmt.Fprintf(&b, `<br><a href="%s" target="_blank">View Auction</a>`, html.EscapeString(r.Bid4AssetsLink))
		}
		b.WriteString("</div>")
	}

	return mapMarker{
		Lat:          lat,
		Lng:          lng,
		Color:        "red",
		Neighborhood: neighborhood,
		Tooltip:      fmt.Sprintf("Cluster: %d properties nearby", len(c)),
		Popup:        b.String(),
	}
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Auction Map</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
#legend {
  position: fixed; bottom: 50px; left: 50px; z-index: 1000;
  background: white; padding: 10px 14px; border-radius: 6px;
  box-shadow: 0 1px 5px rgba(0,0,0,0.4);
  font-family: Arial, sans-serif; font-size: 13px;
  max-height: 60%; overflow-y: auto;
}
#legend h3 { margin: 0 0 8px; font-size: 14px; }
</style>
</head>
<body>
<div id="map"></div>
<div id="legend">
<h3>Neighborhoods</h3>
{{range .Legend}}<label><input type="checkbox" value="{{.Name}}" checked> {{.Name}} ({{.Count}})</label><br>
{{end}}</div>
<script>
var markers = {{.Markers}};

var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLng}}], 12);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

var groups = {};
markers.forEach(function (m) {
  var g = groups[m.neighborhood];
  if (!g) {
    g = groups[m.neighborhood] = L.layerGroup().addTo(map);
  }
  L.circleMarker([m.lat, m.lng], {
    radius: 7,
    color: m.color,
    fillColor: m.color,
    fillOpacity: 0.85
  }).bindTooltip(m.tooltip).bindPopup(m.popup, {maxWidth: 400}).addTo(g);
});

document.querySelectorAll('#legend input').forEach(function (box) {
  box.addEventListener('change', function () {
    var g = groups[box.value];
    if (!g) return;
    if (box.checked) {
      map.addLayer(g);
    } else {
      map.removeLayer(g);
    }
  });
});
</script>
</body>
</html>
`))
