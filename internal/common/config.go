package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment  string             `toml:"environment"` // "development" or "production"
	Server       ServerConfig       `toml:"server"`
	Logging      LoggingConfig      `toml:"logging"`
	Search       SearchConfig       `toml:"search"`
	Photos       PhotosConfig       `toml:"photos"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
	Cache        CacheConfig        `toml:"cache"`
	Connectivity ConnectivityConfig `toml:"connectivity"`
	Location     LocationConfig     `toml:"location"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// SearchConfig contains search endpoint configuration
type SearchConfig struct {
	Endpoint       string        `toml:"endpoint"`        // Remote search endpoint URL
	RequestTimeout time.Duration `toml:"request_timeout"` // HTTP request timeout
	PageSize       int           `toml:"page_size"`       // Provider page size; a short page signals exhaustion
	MinRating      float64       `toml:"min_rating"`      // Places below this rating are filtered out
	Country        string        `toml:"country"`         // Optional country bias sent with every request
	RatePerSecond  int           `toml:"rate_per_second"` // Politeness limit towards the search endpoint
}

// PhotosConfig contains image retrieval configuration
type PhotosConfig struct {
	BaseURL        string        `toml:"base_url"`        // Image provider base URL
	MaxWidthPx     int           `toml:"max_width_px"`    // Maximum requested image width
	MaxHeightPx    int           `toml:"max_height_px"`   // Maximum requested image height
	RequestTimeout time.Duration `toml:"request_timeout"` // HTTP request timeout for image fetches
	RatePerSecond  int           `toml:"rate_per_second"` // Politeness limit towards the image host
}

// RateLimitConfig bounds how many search submissions may start within the
// rolling window. Each acquired slot expires independently SlotTTL after it
// was acquired.
type RateLimitConfig struct {
	Capacity int           `toml:"capacity"` // Maximum concurrent slots
	SlotTTL  time.Duration `toml:"slot_ttl"` // Lifetime of each acquired slot
}

// CacheConfig bounds the in-memory image cache
type CacheConfig struct {
	Capacity int `toml:"capacity"` // Maximum cached images
}

// ConnectivityConfig controls the reachability probe
type ConnectivityConfig struct {
	ProbeURL      string        `toml:"probe_url"`      // Endpoint probed for reachability
	ProbeInterval time.Duration `toml:"probe_interval"` // How often to probe
	ProbeTimeout  time.Duration `toml:"probe_timeout"`  // Per-probe HTTP timeout
}

// LocationConfig is the fallback position fix used when a search request
// enables location bias without supplying coordinates. Both coordinates must
// be set for the fix to count as available.
type LocationConfig struct {
	Latitude  *float64 `toml:"latitude"`
	Longitude *float64 `toml:"longitude"`
	Locality  string   `toml:"locality"` // Human-readable locality label
}

// NewDefaultConfig returns a config populated with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Search: SearchConfig{
			RequestTimeout: 30 * time.Second,
			PageSize:       20,
			MinRating:      3.0,
			RatePerSecond:  5,
		},
		Photos: PhotosConfig{
			BaseURL:        "https://places.googleapis.com/v1",
			MaxWidthPx:     800,
			MaxHeightPx:    800,
			RequestTimeout: 30 * time.Second,
			RatePerSecond:  10,
		},
		RateLimit: RateLimitConfig{
			Capacity: 10,
			SlotTTL:  60 * time.Second,
		},
		Cache: CacheConfig{
			Capacity: 100,
		},
		Connectivity: ConnectivityConfig{
			ProbeURL:      "https://clients3.google.com/generate_204",
			ProbeInterval: 15 * time.Second,
			ProbeTimeout:  5 * time.Second,
		},
	}
}

// LoadFromFile loads configuration from a single TOML file
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration by merging defaults, config files in
// order (later files override earlier ones), and environment variables.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LOCI_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("LOCI_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LOCI_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if endpoint := os.Getenv("LOCI_SEARCH_ENDPOINT"); endpoint != "" {
		config.Search.Endpoint = endpoint
	}
	if country := os.Getenv("LOCI_SEARCH_COUNTRY"); country != "" {
		config.Search.Country = country
	}

	if base := os.Getenv("LOCI_PHOTOS_BASE_URL"); base != "" {
		config.Photos.BaseURL = base
	}

	if level := os.Getenv("LOCI_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
