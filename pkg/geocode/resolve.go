package geocode

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"github.com/sells-group/auction-mapper/internal/model"
)

// zipPattern extracts the first standalone 5-digit run from an address.
var zipPattern = regexp.MustCompile(`\b(\d{5})\b`)

// step is one strategy in the fallback chain. It returns a coordinate or
// nil; all transport and parse failures are swallowed inside the step.
type step struct {
	name string
	run  func(ctx context.Context, q model.AddressQuery) *model.Coordinate
}

// Resolve runs the fallback chain for one query: cache, parcel lookup,
// full-address search, zip-code search. It returns nil when every step
// fails; it never returns an error, so one bad address can never abort a
// batch. Failures are not cached; an unresolved address retries the full
// chain on a later run.
func (r *Resolver) Resolve(ctx context.Context, q model.AddressQuery) *model.Coordinate {
	log := zap.L().With(zap.String("address", q.RawAddress))

	if cached, err := r.store.GetCoordinate(ctx, q.RawAddress); err == nil && cached != nil {
		return cached
	} else if err != nil {
		log.Warn("geocode: cache lookup failed", zap.Error(err))
	}

	steps := []step{
		{name: "parcel", run: r.resolveParcel},
		{name: "address", run: r.resolveAddress},
		{name: "zip", run: r.resolveZip},
	}

	for _, s := range steps {
		if coord := s.run(ctx, q); coord != nil {
			log.Debug("geocode: resolved",
				zap.String("step", s.name),
				zap.Float64("lat", coord.Latitude),
				zap.Float64("lng", coord.Longitude),
			)
			return coord
		}
	}

	log.Debug("geocode: unresolved after all fallbacks")
	return nil
}

// resolveParcel looks the query up by OPA parcel ID. Skipped when the
// query has no parcel ID; never retried on failure.
func (r *Resolver) resolveParcel(ctx context.Context, q model.AddressQuery) *model.Coordinate {
	if q.ParcelID == "" {
		return nil
	}

	coord, err := r.parcelLookup(ctx, q.ParcelID)
	if err != nil {
		zap.L().Debug("geocode: parcel lookup failed",
			zap.String("parcel_id", q.ParcelID),
			zap.Error(err),
		)
		return nil
	}

	r.cacheCoordinate(ctx, q.RawAddress, *coord)
	return coord
}

// resolveAddress searches Nominatim with the full raw address.
func (r *Resolver) resolveAddress(ctx context.Context, q model.AddressQuery) *model.Coordinate {
	coord, err := r.search(ctx, q.RawAddress)
	if err != nil {
		zap.L().Debug("geocode: address search failed",
			zap.String("address", q.RawAddress),
			zap.Error(err),
		)
		return nil
	}

	r.cacheCoordinate(ctx, q.RawAddress, *coord)
	return coord
}

// resolveZip extracts a 5-digit zip from the raw address and searches for
// that. The result is cached under the zip string, not the address, so
// every address in that zip shares one cache entry.
func (r *Resolver) resolveZip(ctx context.Context, q model.AddressQuery) *model.Coordinate {
	m := zipPattern.FindStringSubmatch(q.RawAddress)
	if m == nil {
		zap.L().Debug("geocode: no zip code in address", zap.String("address", q.RawAddress))
		return nil
	}
	zip := m[1]

	coord, err := r.search(ctx, zip)
	if err != nil {
		zap.L().Debug("geocode: zip search failed",
			zap.String("zip", zip),
			zap.Error(err),
		)
		return nil
	}

	r.cacheCoordinate(ctx, zip, *coord)
	return coord
}

// cacheCoordinate stores a successful result. A cache write failure only
// costs a future network call, so it is logged and dropped.
func (r *Resolver) cacheCoordinate(ctx context.Context, key string, coord model.Coordinate) {
	if err := r.store.PutCoordinate(ctx, key, coord); err != nil {
		zap.L().Warn("geocode: cache write failed", zap.String("key", key), zap.Error(err))
	}
}
