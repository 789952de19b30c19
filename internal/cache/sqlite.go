package cache

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/auction-mapper/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query TEXT PRIMARY KEY,
	lat   REAL NOT NULL,
	lng   REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS neighborhood_cache (
	lat          REAL NOT NULL,
	lng          REAL NOT NULL,
	neighborhood TEXT NOT NULL,
	PRIMARY KEY (lat, lng)
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetCoordinate(ctx context.Context, key string) (*model.Coordinate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT lat, lng FROM geocode_cache WHERE query = ?`, key,
	)

	var c model.Coordinate
	err := row.Scan(&c.Latitude, &c.Longitude)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get coordinate")
	}

	zap.L().Debug("geocode cache hit", zap.String("query", key))
	return &c, nil
}

// PutCoordinate stores a coordinate under the given query text. Existing
// keys are left untouched; the cache is first-write-wins.
func (s *SQLiteStore) PutCoordinate(ctx context.Context, key string, coord model.Coordinate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO geocode_cache (query, lat, lng) VALUES (?, ?, ?)
		 ON CONFLICT (query) DO NOTHING`,
		key, coord.Latitude, coord.Longitude,
	)
	return eris.Wrap(err, "sqlite: put coordinate")
}

func (s *SQLiteStore) GetNeighborhood(ctx context.Context, coord model.Coordinate) (string, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT neighborhood FROM neighborhood_cache WHERE lat = ? AND lng = ?`,
		coord.Latitude, coord.Longitude,
	)

	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrap(err, "sqlite: get neighborhood")
	}

	zap.L().Debug("neighborhood cache hit",
		zap.Float64("lat", coord.Latitude),
		zap.Float64("lng", coord.Longitude),
		zap.String("neighborhood", name),
	)
	return name, nil
}

func (s *SQLiteStore) PutNeighborhood(ctx context.Context, coord model.Coordinate, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO neighborhood_cache (lat, lng, neighborhood) VALUES (?, ?, ?)
		 ON CONFLICT (lat, lng) DO NOTHING`,
		coord.Latitude, coord.Longitude, name,
	)
	return eris.Wrap(err, "sqlite: put neighborhood")
}

func (s *SQLiteStore) Stats(ctx context.Context) (int, int, error) {
	var coords, hoods int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM geocode_cache`).Scan(&coords); err != nil {
		return 0, 0, eris.Wrap(err, "sqlite: count geocode_cache")
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM neighborhood_cache`).Scan(&hoods); err != nil {
		return 0, 0, eris.Wrap(err, "sqlite: count neighborhood_cache")
	}
	return coords, hoods, nil
}
