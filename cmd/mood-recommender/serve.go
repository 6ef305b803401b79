package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justestif/go-mood-recommender/internal/auth"
	"github.com/justestif/go-mood-recommender/internal/config"
	"github.com/justestif/go-mood-recommender/internal/enrich"
	"github.com/justestif/go-mood-recommender/internal/logging"
	"github.com/justestif/go-mood-recommender/internal/metrics"
	"github.com/justestif/go-mood-recommender/internal/moodmap"
	"github.com/justestif/go-mood-recommender/internal/recommend"
	"github.com/justestif/go-mood-recommender/internal/spotify"
	"github.com/justestif/go-mood-recommender/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.With("serve")

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	policy, err := recommend.ParsePolicy(cfg.Recommend.TargetNormalization)
	if err != nil {
		return err
	}
	scorer := recommend.NewScorer(b.songs,
		recommend.WithNormalization(policy),
		recommend.WithLogger(logging.With("recommend")),
	)

	moods, err := buildMoodMap(ctx, b, cfg)
	if err != nil {
		// The API works without regions; only /api/moods is affected.
		log.Warn().Err(err).Msg("mood regions unavailable")
	}

	opts := []web.HandlerOption{
		web.WithMoodMap(moods),
		web.WithLogger(logging.With("web")),
	}
	if b.db != nil {
		opts = append(opts, web.WithHealthCheck(b.db.Ping))
	}
	if cfg.Spotify.Enabled() {
		enricher, err := newEnricher(ctx, cfg)
		if err != nil {
			return err
		}
		opts = append(opts, web.WithEnricher(enricher))
		log.Info().Int("concurrency", cfg.Spotify.Concurrency).Msg("spotify enrichment enabled")
	} else {
		log.Info().Msg("spotify credentials not set, enrichment disabled")
	}

	server := web.NewServer(web.ServerConfig{
		Addr:              cfg.Server.Addr,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		CORSOrigins:       cfg.Security.CORSOrigins,
		RateLimitRequests: cfg.Security.RateLimitRequests,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		Logger:            logging.With("http"),
	}, web.NewHandlers(scorer, b.newResolver(), opts...))

	return server.Run(ctx)
}

// buildMoodMap clusters the whole corpus and updates the corpus gauges.
func buildMoodMap(ctx context.Context, b *backend, cfg *config.Config) (*moodmap.Map, error) {
	songs, err := b.songs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing songs: %w", err)
	}
	metrics.CorpusSongs.Set(float64(len(songs)))

	m, err := moodmap.Build(songs, moodmap.Config{
		Regions:       cfg.Recommend.MoodRegions,
		MinRegionSize: cfg.Recommend.MinRegionSize,
	})
	if err != nil {
		return nil, err
	}
	metrics.MoodRegions.Set(float64(len(m.Regions)))
	return m, nil
}

func newEnricher(ctx context.Context, cfg *config.Config) (*enrich.Enricher, error) {
	a, err := auth.New(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("spotify auth: %w", err)
	}

	provider := spotify.New(a.Client(ctx),
		spotify.WithConcurrency(cfg.Spotify.Concurrency),
		spotify.WithLogger(logging.With("spotify")),
	)
	return enrich.New(provider,
		enrich.WithTimeout(cfg.Spotify.EnrichTimeout),
		enrich.WithLogger(logging.With("enrich")),
	), nil
}
