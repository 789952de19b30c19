package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Cluster  ClusterConfig  `yaml:"cluster" mapstructure:"cluster"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CacheConfig configures the persistent geocode cache backend.
type CacheConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	Path        string `yaml:"path" mapstructure:"path"`     // sqlite file path
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// GeocodeConfig configures the geocoding providers.
type GeocodeConfig struct {
	AISBaseURL       string `yaml:"ais_base_url" mapstructure:"ais_base_url"`
	GatekeeperKey    string `yaml:"gatekeeper_key" mapstructure:"gatekeeper_key"`
	NominatimBaseURL string `yaml:"nominatim_base_url" mapstructure:"nominatim_base_url"`
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`

	// Minimum spacing between successive requests to each provider.
	ParcelDelayMS    int `yaml:"parcel_delay_ms" mapstructure:"parcel_delay_ms"`
	NominatimDelayMS int `yaml:"nominatim_delay_ms" mapstructure:"nominatim_delay_ms"`

	ReverseTimeoutSecs int `yaml:"reverse_timeout_secs" mapstructure:"reverse_timeout_secs"`
	RequestTimeoutSecs int `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

// PipelineConfig configures the resolution pipeline.
type PipelineConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ClusterConfig configures proximity clustering on the map output.
type ClusterConfig struct {
	ThresholdFeet float64 `yaml:"threshold_feet" mapstructure:"threshold_feet"`
}

// ServerConfig configures the map preview server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AUCTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.path", "geocode_cache.db")
	v.SetDefault("geocode.ais_base_url", "https://api.phila.gov/ais_doc/v1/search")
	v.SetDefault("geocode.nominatim_base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "AuctionMapper/1.0 (auctions@sellsadvisors.com)")
	v.SetDefault("geocode.parcel_delay_ms", 500)
	v.SetDefault("geocode.nominatim_delay_ms", 1000)
	v.SetDefault("geocode.reverse_timeout_secs", 5)
	v.SetDefault("geocode.request_timeout_secs", 30)
	v.SetDefault("pipeline.workers", 5)
	v.SetDefault("cluster.threshold_feet", 300)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
