// Package config loads the CLI configuration from .env files and the
// environment. The library itself takes no configuration beyond functional
// options; everything here belongs to cmd/neogo.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything cmd/neogo reads from the environment.
type Config struct {
	// Dataset location. DatasetURI is either a local directory, an
	// s3://bucket/prefix URI, or a minio://bucket/prefix URI.
	DatasetURI string
	NEOFile    string
	CADFile    string

	// CacheDir caches remote datasets on local disk. Empty disables caching.
	CacheDir string

	// CatalogTable is the DynamoDB table holding published snapshot versions.
	CatalogTable string

	// MinIO connection, used for minio:// dataset URIs.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	// JPL API tuning for the fetch command.
	APIRequestsPerSecond float64
	FetchWindowYears     int
	FetchConcurrency     int

	// Logging
	LogLevel  slog.Level
	LogFormat string // text or json
}

// Load reads .env (current directory, then parent) and the environment and
// returns a validated configuration. Every setting has a default; a missing
// .env file is not an error.
func Load() (*Config, error) {
	for _, path := range []string{".env", "../.env"} {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	cfg := &Config{
		DatasetURI:   getEnvOrDefault("NEOGO_DATASET_URI", "./data"),
		NEOFile:      getEnvOrDefault("NEOGO_NEO_FILE", "neos.csv"),
		CADFile:      getEnvOrDefault("NEOGO_CAD_FILE", "cad.json"),
		CacheDir:     os.Getenv("NEOGO_CACHE_DIR"),
		CatalogTable: getEnvOrDefault("NEOGO_CATALOG_TABLE", "neogo-snapshots"),

		MinioEndpoint:  getEnvOrDefault("NEOGO_MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: os.Getenv("NEOGO_MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("NEOGO_MINIO_SECRET_KEY"),
		MinioUseSSL:    getEnvOrDefault("NEOGO_MINIO_USE_SSL", "false") == "true",

		LogFormat: getEnvOrDefault("NEOGO_LOG_FORMAT", "text"),
	}

	var err error

	cfg.APIRequestsPerSecond, err = parseFloat("NEOGO_API_RPS", "2")
	if err != nil {
		return nil, err
	}

	cfg.FetchWindowYears, err = parseInt("NEOGO_FETCH_WINDOW_YEARS", "10")
	if err != nil {
		return nil, err
	}

	cfg.FetchConcurrency, err = parseInt("NEOGO_FETCH_CONCURRENCY", "4")
	if err != nil {
		return nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnvOrDefault("NEOGO_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid NEOGO_LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that Load could not reject while parsing.
func (c *Config) Validate() error {
	if c.DatasetURI == "" {
		return fmt.Errorf("NEOGO_DATASET_URI is required")
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid NEOGO_LOG_FORMAT %q: expected text or json", c.LogFormat)
	}

	if c.APIRequestsPerSecond <= 0 {
		return fmt.Errorf("NEOGO_API_RPS must be positive")
	}

	if c.FetchWindowYears < 1 {
		return fmt.Errorf("NEOGO_FETCH_WINDOW_YEARS must be at least 1")
	}

	if c.FetchConcurrency < 1 {
		return fmt.Errorf("NEOGO_FETCH_CONCURRENCY must be at least 1")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseFloat(key, defaultValue string) (float64, error) {
	v, err := strconv.ParseFloat(getEnvOrDefault(key, defaultValue), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseInt(key, defaultValue string) (int, error) {
	v, err := strconv.Atoi(getEnvOrDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
