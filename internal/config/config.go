// Package config loads application configuration.
//
// Sources, lowest to highest priority:
//  1. built-in defaults
//  2. an optional YAML file (CONFIG_PATH, or config.yaml in the working directory)
//  3. environment variables
package config

import (
	"time"
)

// ConfigPathEnvVar names the variable pointing at the YAML file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Corpus    CorpusConfig    `koanf:"corpus"`
	Spotify   SpotifyConfig   `koanf:"spotify"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL string `koanf:"url"` // empty: serve an in-memory corpus
}

type CorpusConfig struct {
	DatasetPath string `koanf:"dataset_path"`
	WordNetPath string `koanf:"wordnet_path"` // wn_s.pl for the in-memory thesaurus
}

type SpotifyConfig struct {
	ClientID      string        `koanf:"client_id"`
	ClientSecret  string        `koanf:"client_secret"`
	Concurrency   int           `koanf:"concurrency"`
	EnrichTimeout time.Duration `koanf:"enrich_timeout"`
}

// Enabled reports whether metadata enrichment can run.
func (c SpotifyConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type RecommendConfig struct {
	TargetNormalization string `koanf:"target_normalization"`
	MoodRegions         int    `koanf:"mood_regions"`
	MinRegionSize       int    `koanf:"min_region_size"`
}

type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"` // 0 disables
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ShutdownTimeout: 10 * time.Second,
		},
		Corpus: CorpusConfig{
			DatasetPath: "data/muse_v3.csv",
		},
		Spotify: SpotifyConfig{
			Concurrency:   4,
			EnrichTimeout: 3 * time.Second,
		},
		Recommend: RecommendConfig{
			TargetNormalization: "identity",
			MoodRegions:         6,
			MinRegionSize:       3,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
