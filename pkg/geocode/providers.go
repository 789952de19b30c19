package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/auction-mapper/internal/model"
)

// aisResponse is the AIS parcel lookup payload. Geometry coordinates are
// [lng, lat] per GeoJSON convention.
type aisResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// flexFloat accepts JSON numbers encoded as either numbers or strings.
// Nominatim returns lat/lon as strings in jsonv2 format.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return eris.Wrapf(err, "geocode: parse float %q", s)
	}
	*f = flexFloat(v)
	return nil
}

// searchResult is one element of the Nominatim /search response array.
type searchResult struct {
	Lat flexFloat `json:"lat"`
	Lon flexFloat `json:"lon"`
}

// parcelLookup queries the AIS parcel endpoint by OPA account number.
func (r *Resolver) parcelLookup(ctx context.Context, parcelID string) (*model.Coordinate, error) {
	if err := r.parcelLimiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: parcel rate limit")
	}

	reqURL := fmt.Sprintf("%s/%s?gatekeeperKey=%s", r.aisBaseURL, url.PathEscape(parcelID), url.QueryEscape(r.gatekeeperKey))
	body, err := r.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp aisResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "geocode: parse parcel response")
	}
	if len(resp.Features) == 0 {
		return nil, eris.Errorf("geocode: no parcel features for %s", parcelID)
	}

	coords := resp.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return nil, eris.Errorf("geocode: malformed parcel geometry for %s", parcelID)
	}

	return &model.Coordinate{Latitude: coords[1], Longitude: coords[0]}, nil
}

// search queries the Nominatim /search endpoint with arbitrary query text
// (a full address or a bare zip code).
func (r *Resolver) search(ctx context.Context, query string) (*model.Coordinate, error) {
	if err := r.nominatimLimiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim rate limit")
	}

	params := url.Values{
		"q":      {query},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}
	body, err := r.get(ctx, r.nominatimBaseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "geocode: parse search response")
	}
	if len(results) == 0 {
		return nil, eris.Errorf("geocode: no search results for %q", query)
	}

	return &model.Coordinate{
		Latitude:  float64(results[0].Lat),
		Longitude: float64(results[0].Lon),
	}, nil
}

// get issues a GET with the fixed identifying header and returns the body
// of a 200 response.
func (r *Resolver) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: status %d", resp.StatusCode)
	}

	return body, nil
}
