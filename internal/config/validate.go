package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/justestif/go-mood-recommender/internal/recommend"
)

// Validate checks the configuration for values the application cannot run
// with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must be set"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Database.URL == "" && c.Corpus.DatasetPath == "" {
		errs = append(errs, errors.New("either database.url or corpus.dataset_path must be set"))
	}
	if (c.Spotify.ClientID == "") != (c.Spotify.ClientSecret == "") {
		errs = append(errs, errors.New("spotify.client_id and spotify.client_secret must be set together"))
	}
	if c.Spotify.Concurrency <= 0 {
		errs = append(errs, errors.New("spotify.concurrency must be positive"))
	}
	if c.Spotify.EnrichTimeout <= 0 {
		errs = append(errs, errors.New("spotify.enrich_timeout must be positive"))
	}
	if _, err := recommend.ParsePolicy(c.Recommend.TargetNormalization); err != nil {
		errs = append(errs, fmt.Errorf("recommend.target_normalization: %w", err))
	}
	if c.Recommend.MoodRegions <= 0 {
		errs = append(errs, errors.New("recommend.mood_regions must be positive"))
	}
	if c.Recommend.MinRegionSize < 0 {
		errs = append(errs, errors.New("recommend.min_region_size must not be negative"))
	}
	if c.Security.RateLimitRequests < 0 {
		errs = append(errs, errors.New("security.rate_limit_requests must not be negative"))
	}
	if c.Security.RateLimitRequests > 0 && c.Security.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("security.rate_limit_window must be positive when rate limiting"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
