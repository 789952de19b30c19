// Package cache provides the durable geocode cache: two append-only
// namespaces mapping query text to coordinates and exact coordinates to
// neighborhood names. Keys are never updated once written.
package cache

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/auction-mapper/internal/config"
	"github.com/sells-group/auction-mapper/internal/model"
)

// Store defines the persistence interface for the geocode and neighborhood
// caches. Lookups are exact-match only; a miss is (nil, nil) / ("", nil),
// never an error. Writes are first-write-wins: a repeated put for an
// existing key is a no-op.
type Store interface {
	// Geocode cache: arbitrary query text (raw address or zip code) to coordinate.
	GetCoordinate(ctx context.Context, key string) (*model.Coordinate, error)
	PutCoordinate(ctx context.Context, key string, coord model.Coordinate) error

	// Neighborhood cache: exact coordinate pair to neighborhood name.
	GetNeighborhood(ctx context.Context, coord model.Coordinate) (string, error)
	PutNeighborhood(ctx context.Context, coord model.Coordinate, name string) error

	// Stats returns the row counts of the two namespaces.
	Stats(ctx context.Context) (coordinates int, neighborhoods int, err error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the Store configured by cfg.
func Open(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}
