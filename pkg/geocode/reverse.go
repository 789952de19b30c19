package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/sells-group/auction-mapper/internal/model"
)

// reverseResponse is the Nominatim /reverse jsonv2 payload, reduced to the
// address fields carrying the neighborhood name.
type reverseResponse struct {
	Address struct {
		Residential   string `json:"residential"`
		Neighbourhood string `json:"neighbourhood"`
	} `json:"address"`
}

// Neighborhood resolves a coordinate to a neighborhood name. A nil
// coordinate returns "Unknown" with no lookup. Lookup failures also return
// "Unknown" but are never cached, so a later run can retry; only found
// names are written to the cache.
func (r *Resolver) Neighborhood(ctx context.Context, coord *model.Coordinate) string {
	if coord == nil {
		return model.UnknownNeighborhood
	}

	log := zap.L().With(
		zap.Float64("lat", coord.Latitude),
		zap.Float64("lng", coord.Longitude),
	)

	if name, err := r.store.GetNeighborhood(ctx, *coord); err == nil && name != "" {
		return name
	} else if err != nil {
		log.Warn("neighborhood: cache lookup failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(ctx, r.reverseTimeout)
	defer cancel()

	params := url.Values{
		"format": {"jsonv2"},
		"lat":    {fmt.Sprintf("%v", coord.Latitude)},
		"lon":    {fmt.Sprintf("%v", coord.Longitude)},
	}
	body, err := r.get(ctx, r.nominatimBaseURL+"/reverse?"+params.Encode())
	if err != nil {
		log.Debug("neighborhood: reverse lookup failed", zap.Error(err))
		return model.UnknownNeighborhood
	}

	var resp reverseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Debug("neighborhood: parse reverse response failed", zap.Error(err))
		return model.UnknownNeighborhood
	}

	// Prefer the residential field, fall back to neighbourhood.
	name := resp.Address.Residential
	if name == "" {
		name = resp.Address.Neighbourhood
	}
	if name == "" {
		return model.UnknownNeighborhood
	}

	if err := r.store.PutNeighborhood(ctx, *coord, name); err != nil {
		log.Warn("neighborhood: cache write failed", zap.Error(err))
	}
	log.Debug("neighborhood: resolved", zap.String("neighborhood", name))
	return name
}
