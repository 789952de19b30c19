package cache

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/auction-mapper/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the cache, satisfied by
// pgxmock in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool, for deployments where the
// cache is shared between hosts.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool (used by tests).
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query TEXT PRIMARY KEY,
	lat   DOUBLE PRECISION NOT NULL,
	lng   DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS neighborhood_cache (
	lat          DOUBLE PRECISION NOT NULL,
	lng          DOUBLE PRECISION NOT NULL,
	neighborhood TEXT NOT NULL,
	PRIMARY KEY (lat, lng)
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetCoordinate(ctx context.Context, key string) (*model.Coordinate, error) {
	var c model.Coordinate
	err := s.pool.QueryRow(ctx,
		`SELECT lat, lng FROM geocode_cache WHERE query = $1`, key,
	).Scan(&c.Latitude, &c.Longitude)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get coordinate")
	}

	zap.L().Debug("geocode cache hit", zap.String("query", key))
	return &c, nil
}

func (s *PostgresStore) PutCoordinate(ctx context.Context, key string, coord model.Coordinate) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO geocode_cache (query, lat, lng) VALUES ($1, $2, $3)
		 ON CONFLICT (query) DO NOTHING`,
		key, coord.Latitude, coord.Longitude,
	)
	return eris.Wrap(err, "postgres: put coordinate")
}

func (s *PostgresStore) GetNeighborhood(ctx context.Context, coord model.Coordinate) (string, error) {
	var name string
	err := s.pool.QueryRow(ctx,
		`SELECT neighborhood FROM neighborhood_cache WHERE lat = $1 AND lng = $2`,
		coord.Latitude, coord.Longitude,
	).Scan(&name)
	if eris.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrap(err, "postgres: get neighborhood")
	}
	return name, nil
}

func (s *PostgresStore) PutNeighborhood(ctx context.Context, coord model.Coordinate, name string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO neighborhood_cache (lat, lng, neighborhood) VALUES ($1, $2, $3)
		 ON CONFLICT (lat, lng) DO NOTHING`,
		coord.Latitude, coord.Longitude, name,
	)
	return eris.Wrap(err, "postgres: put neighborhood")
}

func (s *PostgresStore) Stats(ctx context.Context) (int, int, error) {
	var coords, hoods int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM geocode_cache`).Scan(&coords); err != nil {
		return 0, 0, eris.Wrap(err, "postgres: count geocode_cache")
	}
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM neighborhood_cache`).Scan(&hoods); err != nil {
		return 0, 0, eris.Wrap(err, "postgres: count neighborhood_cache")
	}
	return coords, hoods, nil
}
