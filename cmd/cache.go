package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/auction-mapper/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the geocode cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cached coordinate and neighborhood counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := cache.Open(ctx, cfg.Cache)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		coords, hoods, err := store.Stats(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("coordinates:   %d\n", coords)
		cmd.Printf("neighborhoods: %d\n", hoods)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}
