package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/four-pillars/internal/common"
)

// Default values used when neither the config file nor the environment sets a key.
const (
	DefaultDatabasePath    = "~/.local/share/pillars/pillars.db"
	DefaultGeocoderURL     = "https://nominatim.openstreetmap.org"
	DefaultGeocoderAgent   = "four-pillars/1.0 (constitution classifier)"
	DefaultGeocoderTimeout = 10 * time.Second
	DefaultGeocoderRetries = 2
	DefaultServerAddr      = ":8080"
	DefaultCertDir         = "~/.config/pillars/certs"
	DefaultBatchWorkers    = 4
	DefaultReportStyle     = "auto"
)

// Config holds the resolved application configuration.
type Config struct {
	DatabasePath    string
	GeocoderURL     string
	GeocoderAgent   string
	ServerAddr      string
	CertDir         string
	ReportStyle     string
	GeocoderTimeout time.Duration
	GeocoderRetries int
	BatchWorkers    int
	Offline         bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DatabasePath:    DefaultDatabasePath,
		GeocoderURL:     DefaultGeocoderURL,
		GeocoderAgent:   DefaultGeocoderAgent,
		GeocoderTimeout: DefaultGeocoderTimeout,
		GeocoderRetries: DefaultGeocoderRetries,
		ServerAddr:      DefaultServerAddr,
		CertDir:         DefaultCertDir,
		BatchWorkers:    DefaultBatchWorkers,
		ReportStyle:     DefaultReportStyle,
	}
}

// Load builds the configuration from viper.
// It follows this precedence:
// 1. Viper configuration (flags, config file or PILLARS_ env vars)
// 2. Direct environment variables (NOMINATIM_URL, NOMINATIM_USER_AGENT)
// 3. Default values
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	config := DefaultConfig()

	if s := v.GetString("database.path"); s != "" {
		config.DatabasePath = s
	}
	if s := v.GetString("geocoder.base_url"); s != "" {
		config.GeocoderURL = s
	}
	if s := v.GetString("geocoder.user_agent"); s != "" {
		config.GeocoderAgent = s
	}
	if v.IsSet("geocoder.timeout") {
		config.GeocoderTimeout = v.GetDuration("geocoder.timeout")
	}
	if v.IsSet("geocoder.retries") {
		config.GeocoderRetries = v.GetInt("geocoder.retries")
	}
	config.Offline = v.GetBool("geocoder.offline")
	if s := v.GetString("server.addr"); s != "" {
		config.ServerAddr = s
	}
	if s := v.GetString("server.cert_dir"); s != "" {
		config.CertDir = s
	}
	if v.IsSet("batch.workers") {
		config.BatchWorkers = v.GetInt("batch.workers")
	}
	if s := v.GetString("report.style"); s != "" {
		config.ReportStyle = s
	}

	// Override with direct environment variables if not set
	if !v.IsSet("geocoder.base_url") {
		if s := os.Getenv("NOMINATIM_URL"); s != "" {
			config.GeocoderURL = s
		}
	}
	if !v.IsSet("geocoder.user_agent") {
		if s := os.Getenv("NOMINATIM_USER_AGENT"); s != "" {
			config.GeocoderAgent = s
		}
	}

	config.DatabasePath = ExpandPath(config.DatabasePath)
	config.CertDir = ExpandPath(config.CertDir)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database path must not be empty", common.ErrInvalidConfig)
	}
	if c.GeocoderTimeout <= 0 {
		return fmt.Errorf("%w: geocoder timeout must be positive", common.ErrInvalidConfig)
	}
	if c.GeocoderRetries < 0 {
		return fmt.Errorf("%w: geocoder retries must not be negative", common.ErrInvalidConfig)
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("%w: batch workers must be positive", common.ErrInvalidConfig)
	}
	switch c.ReportStyle {
	case "auto", "dark", "light", "notty":
	default:
		return fmt.Errorf("%w: unknown report style %q", common.ErrInvalidConfig, c.ReportStyle)
	}
	return nil
}
