// Package pipeline expands auction rows into per-property units and
// resolves each unit to a coordinate and neighborhood with bounded
// concurrency.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/auction-mapper/internal/model"
)

// Geocoder resolves an address query to a coordinate and a coordinate to a
// neighborhood name.
type Geocoder interface {
	Resolve(ctx context.Context, q model.AddressQuery) *model.Coordinate
	Neighborhood(ctx context.Context, coord *model.Coordinate) string
}

// Pipeline fans resolution work out over a bounded worker pool.
type Pipeline struct {
	geocoder Geocoder
	workers  int
}

// New returns a pipeline running at most workers resolutions concurrently.
func New(geocoder Geocoder, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{geocoder: geocoder, workers: workers}
}

// Run expands rows into units and resolves every unit. Results come back
// in unit order regardless of completion order. Individual resolution
// failures produce records with a nil coordinate; only context
// cancellation returns an error.
func (p *Pipeline) Run(ctx context.Context, rows []model.AuctionRow) ([]model.ResolvedRecord, error) {
	units := Expand(rows)
	runID := uuid.NewString()

	zap.L().Info("pipeline: starting resolution",
		zap.String("run_id", runID),
		zap.Int("rows", len(rows)),
		zap.Int("units", len(units)),
		zap.Int("workers", p.workers),
	)

	results := make([]model.ResolvedRecord, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, unit := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			log := zap.L().With(
				zap.String("run_id", runID),
				zap.String("address", unit.Address),
			)

			coord := p.geocoder.Resolve(gctx, model.AddressQuery{
				RawAddress: unit.Address,
				ParcelID:   unit.OPA,
			})

			neighborhood := model.UnknownNeighborhood
			if coord != nil {
				neighborhood = p.geocoder.Neighborhood(gctx, coord)
			}

			rec := model.ResolvedRecord{
				AuctionID:    unit.AuctionID,
				Status:       unit.Status,
				MinBid:       unit.MinBid,
				OpenDate:     unit.OpenDate,
				Attorney:     unit.Attorney,
				DebtAmount:   unit.DebtAmount,
				BookWrit:     unit.BookWrit,
				OPA:          unit.OPA,
				Address:      unit.Address,
				Coordinate:   coord,
				Neighborhood: neighborhood,
			}
			rec.DeriveLinks()
			results[i] = rec

			if coord == nil {
				log.Debug("pipeline: unit unresolved")
			} else {
				log.Debug("pipeline: unit resolved",
					zap.Float64("lat", coord.Latitude),
					zap.Float64("lng", coord.Longitude),
					zap.String("neighborhood", neighborhood),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolved := 0
	for i := range results {
		if results[i].Coordinate != nil {
			resolved++
		}
	}
	zap.L().Info("pipeline: resolution complete",
		zap.String("run_id", runID),
		zap.Int("resolved", resolved),
		zap.Int("unresolved", len(results)-resolved),
	)

	return results, nil
}
