package main

import (
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/auction-mapper/internal/cache"
	"github.com/sells-group/auction-mapper/internal/export"
	"github.com/sells-group/auction-mapper/internal/ingest"
	"github.com/sells-group/auction-mapper/internal/pipeline"
	"github.com/sells-group/auction-mapper/pkg/geocode"
)

var (
	processWorkbookOut string
	processGeoJSONOut  string
	processMapOut      string
	processWorkers     int
)

var processCmd = &cobra.Command{
	Use:   "process <workbook.xlsx>",
	Short: "Geocode a sheriff-sale workbook and write all outputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		input := args[0]
		outs := outputPaths(input, processWorkbookOut, processGeoJSONOut, processMapOut)

		store, err := cache.Open(ctx, cfg.Cache)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		rows, err := ingest.ReadWorkbook(input)
		if err != nil {
			return err
		}

		workers := processWorkers
		if workers == 0 {
			workers = cfg.Pipeline.Workers
		}

		resolver := geocode.FromConfig(store, cfg.Geocode)
		records, err := pipeline.New(resolver, workers).Run(ctx, rows)
		if err != nil {
			return err
		}

		if err := export.WriteWorkbook(outs.workbook, records); err != nil {
			return err
		}
		if err := export.WriteGeoJSON(outs.geojson, records); err != nil {
			return err
		}
		if err := export.WriteMap(outs.mapHTML, records, cfg.Cluster.ThresholdFeet); err != nil {
			return err
		}

		zap.L().Info("processing complete",
			zap.String("workbook", outs.workbook),
			zap.String("geojson", outs.geojson),
			zap.String("map", outs.mapHTML),
		)
		return nil
	},
}

type outputSet struct {
	workbook string
	geojson  string
	mapHTML  string
}

// outputPaths derives output file names from the input workbook unless
// overridden by flags: <base>_Processed.xlsx, <base>.geojson, <base>.html.
func outputPaths(input, workbook, geojson, mapHTML string) outputSet {
	base := strings.TrimSuffix(input, filepath.Ext(input))

	outs := outputSet{
		workbook: base + "_Processed.xlsx",
		geojson:  base + ".geojson",
		mapHTML:  base + ".html",
	}
	if workbook != "" {
		outs.workbook = workbook
	}
	if geojson != "" {
		outs.geojson = geojson
	}
	if mapHTML != "" {
		outs.mapHTML = mapHTML
	}
	return outs
}

func init() {
	processCmd.Flags().StringVar(&processWorkbookOut, "output", "", "processed workbook path (default <input>_Processed.xlsx)")
	processCmd.Flags().StringVar(&processGeoJSONOut, "geojson", "", "GeoJSON output path (default <input>.geojson)")
	processCmd.Flags().StringVar(&processMapOut, "map", "", "HTML map output path (default <input>.html)")
	processCmd.Flags().IntVar(&processWorkers, "workers", 0, "concurrent geocoding workers (default from config)")
	rootCmd.AddCommand(processCmd)
}
