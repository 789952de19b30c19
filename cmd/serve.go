package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/auction-mapper/internal/cache"
	"github.com/sells-group/auction-mapper/internal/model"
	"github.com/sells-group/auction-mapper/pkg/geocode"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for ad-hoc address resolution",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := cache.Open(ctx, cfg.Cache)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		resolver := geocode.FromConfig(store, cfg.Geocode)
		mux := newServeMux(store, resolver)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newServeMux(store cache.Store, resolver *geocode.Resolver) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck
	})

	mux.HandleFunc("GET /cache/stats", func(w http.ResponseWriter, r *http.Request) {
		coords, hoods, err := store.Stats(r.Context())
		if err != nil {
			http.Error(w, `{"error":"stats unavailable"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{ //nolint:errcheck
			"coordinates":   coords,
			"neighborhoods": hoods,
		})
	})

	mux.HandleFunc("POST /resolve", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Address string `json:"address"`
			OPA     string `json:"opa"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Address == "" {
			http.Error(w, `{"error":"address is required"}`, http.StatusBadRequest)
			return
		}

		coord := resolver.Resolve(r.Context(), model.AddressQuery{
			RawAddress: req.Address,
			ParcelID:   req.OPA,
		})

		resp := struct {
			Address      string            `json:"address"`
			Coordinate   *model.Coordinate `json:"coordinate,omitempty"`
			Neighborhood string            `json:"neighborhood"`
		}{
			Address:      req.Address,
			Coordinate:   coord,
			Neighborhood: model.UnknownNeighborhood,
		}
		if coord != nil {
			resp.Neighborhood = resolver.Neighborhood(r.Context(), coord)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
