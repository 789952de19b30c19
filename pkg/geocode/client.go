// Package geocode resolves street addresses to coordinates via the
// Philadelphia AIS parcel API (primary) and Nominatim (fallback), and
// coordinates to neighborhood names via Nominatim reverse lookup. All
// results are backed by the persistent cache.
package geocode

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/auction-mapper/internal/cache"
	"github.com/sells-group/auction-mapper/internal/config"
)

const defaultUserAgent = "AuctionMapper/1.0 (auctions@sellsadvisors.com)"

// Resolver runs the geocode fallback chain and neighborhood reverse lookup.
type Resolver struct {
	store      cache.Store
	httpClient *http.Client

	aisBaseURL       string
	gatekeeperKey    string
	nominatimBaseURL string
	userAgent        string

	// Politeness limiters, one per provider. The Nominatim limiter is
	// shared by the address-search and zip-search steps; reverse lookups
	// are not limited.
	parcelLimiter    *rate.Limiter
	nominatimLimiter *rate.Limiter

	reverseTimeout time.Duration
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithAIS sets the parcel provider base URL and gatekeeper key.
func WithAIS(baseURL, key string) Option {
	return func(r *Resolver) {
		r.aisBaseURL = baseURL
		r.gatekeeperKey = key
	}
}

// WithNominatimBaseURL sets the Nominatim base URL (for testing).
func WithNominatimBaseURL(baseURL string) Option {
	return func(r *Resolver) {
		r.nominatimBaseURL = baseURL
	}
}

// WithUserAgent sets the identifying client header sent on every request.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = hc
	}
}

// WithLimiters overrides the per-provider politeness limiters. Tests pass
// rate.NewLimiter(rate.Inf, 1) for zero delay.
func WithLimiters(parcel, nominatim *rate.Limiter) Option {
	return func(r *Resolver) {
		r.parcelLimiter = parcel
		r.nominatimLimiter = nominatim
	}
}

// WithReverseTimeout sets the per-call timeout for reverse lookups.
func WithReverseTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.reverseTimeout = d
	}
}

// NewResolver creates a Resolver backed by the given cache store.
func NewResolver(store cache.Store, opts ...Option) *Resolver {
	r := &Resolver{
		store:            store,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		aisBaseURL:       "https://api.phila.gov/ais_doc/v1/search",
		nominatimBaseURL: "https://nominatim.openstreetmap.org",
		userAgent:        defaultUserAgent,
		parcelLimiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		nominatimLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		reverseTimeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromConfig creates a Resolver configured from the application config.
func FromConfig(store cache.Store, cfg config.GeocodeConfig) *Resolver {
	opts := []Option{
		WithAIS(cfg.AISBaseURL, cfg.GatekeeperKey),
		WithNominatimBaseURL(cfg.NominatimBaseURL),
		WithLimiters(
			rate.NewLimiter(rate.Every(time.Duration(cfg.ParcelDelayMS)*time.Millisecond), 1),
			rate.NewLimiter(rate.Every(time.Duration(cfg.NominatimDelayMS)*time.Millisecond), 1),
		),
		WithReverseTimeout(time.Duration(cfg.ReverseTimeoutSecs) * time.Second),
		WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.RequestTimeoutSecs) * time.Second}),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	return NewResolver(store, opts...)
}
