// Package cluster groups resolved records into proximity clusters for map
// display.
package cluster

import (
	"math"

	"github.com/sells-group/auction-mapper/internal/model"
)

const (
	earthRadiusMiles = 3959
	feetPerMile      = 5280
)

// DistanceFeet returns the great-circle distance between two coordinates
// in feet, via the haversine formula.
func DistanceFeet(a, b model.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lng1 := a.Longitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	lng2 := b.Longitude * math.Pi / 180

	dlat := lat2 - lat1
	dlng := lng2 - lng1

	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlng/2), 2)
	c := 2 * math.Asin(math.Sqrt(h))

	return c * earthRadiusMiles * feetPerMile
}

// Cluster is an ordered group of records joined by single-link proximity:
// every member is within the threshold of at least one other member, so
// two members may themselves be farther apart than the threshold. That
// chaining is intentional and relied on by the map legend.
type Cluster []model.ResolvedRecord

// Properties groups records into proximity clusters. Records without a
// coordinate are excluded entirely. Iteration is in input order: each
// unvisited record anchors a new cluster, then a single forward scan
// absorbs every later unvisited record within thresholdFeet of any record
// already in the cluster. Singleton clusters are emitted.
func Properties(records []model.ResolvedRecord, thresholdFeet float64) []Cluster {
	if len(records) == 0 {
		return nil
	}

	var clusters []Cluster
	visited := make(map[int]bool, len(records))

	for i, rec := range records {
		if visited[i] || rec.Coordinate == nil {
			continue
		}

		c := Cluster{rec}
		visited[i] = true

		for j := i + 1; j < len(records); j++ {
			if visited[j] || records[j].Coordinate == nil {
				continue
			}
			if withinOfAny(c, *records[j].Coordinate, thresholdFeet) {
				c = append(c, records[j])
				visited[j] = true
			}
		}

		clusters = append(clusters, c)
	}

	return clusters
}

// withinOfAny reports whether p lies within thresholdFeet of at least one
// cluster member. Linking through any one member is what lets clusters
// chain beyond the threshold end to end.
func withinOfAny(c Cluster, p model.Coordinate, thresholdFeet float64) bool {
	for _, member := range c {
		if DistanceFeet(*member.Coordinate, p) <= thresholdFeet {
			return true
		}
	}
	return false
}
