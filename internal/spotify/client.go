// Package spotify looks up track metadata from the Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-recommender/internal/metrics"
)

const (
	// maxTracksPerRequest is the Spotify limit for GET /tracks.
	maxTracksPerRequest = 50

	// DefaultConcurrency is the number of chunks fetched at once.
	DefaultConcurrency = 4
)

// TrackInfo is the metadata attached to a recommendation.
type TrackInfo struct {
	PreviewURL  string `json:"preview_url,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
	AlbumName   string `json:"album_name,omitempty"`
	AlbumImage  string `json:"album_image,omitempty"`
	DurationMs  int    `json:"duration_ms,omitempty"`
	Popularity  int    `json:"popularity"`
}

// TrackFetcher is the part of the Spotify API the client needs.
// *spotify.Client implements it.
type TrackFetcher interface {
	GetTracks(ctx context.Context, ids []spotify.ID, opts ...spotify.RequestOption) ([]*spotify.FullTrack, error)
}

// BreakerSettings tunes the circuit breaker around chunk fetches.
type BreakerSettings struct {
	FailureThreshold uint32
	Timeout          time.Duration
}

// Client batches metadata lookups. Safe for concurrent use.
type Client struct {
	api         TrackFetcher
	concurrency int
	breaker     *gobreaker.CircuitBreaker[[]*spotify.FullTrack]
	log         zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithConcurrency sets the number of chunks fetched concurrently.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithBreaker replaces the default circuit breaker settings.
func WithBreaker(s BreakerSettings) Option {
	return func(c *Client) {
		c.breaker = newBreaker(s, c)
	}
}

// New creates a client over an authenticated API.
func New(api TrackFetcher, opts ...Option) *Client {
	c := &Client{
		api:         api,
		concurrency: DefaultConcurrency,
		log:         zerolog.Nop(),
	}
	c.breaker = newBreaker(BreakerSettings{FailureThreshold: 5, Timeout: 30 * time.Second}, c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newBreaker(s BreakerSettings, c *Client) *gobreaker.CircuitBreaker[[]*spotify.FullTrack] {
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.NewCircuitBreaker[[]*spotify.FullTrack](gobreaker.Settings{
		Name:    "spotify-tracks",
		Timeout: s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("breaker", name).Stringer("from", from).Stringer("to", to).Msg("circuit breaker state changed")
			metrics.EnrichmentBreakerState.Set(float64(to))
		},
	})
}

// BatchLookup returns metadata keyed by Spotify ID. Empty and unknown IDs
// get no entry. Chunks that fail are logged and skipped, so the error is
// only non-nil when ctx ends first.
func (c *Client) BatchLookup(ctx context.Context, ids []string) (map[string]TrackInfo, error) {
	result := make(map[string]TrackInfo)

	var unique []spotify.ID
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, spotify.ID(id))
	}
	if len(unique) == 0 {
		return result, nil
	}

	var batches [][]spotify.ID
	for i := 0; i < len(unique); i += maxTracksPerRequest {
		batches = append(batches, unique[i:min(i+maxTracksPerRequest, len(unique))])
	}

	workCh := make(chan []spotify.ID, len(batches))
	for _, b := range batches {
		workCh <- b
	}
	close(workCh)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for i := 0; i < min(c.concurrency, len(batches)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range workCh {
				if ctx.Err() != nil {
					continue
				}

				tracks, err := c.breaker.Execute(func() ([]*spotify.FullTrack, error) {
					return c.api.GetTracks(ctx, batch)
				})
				if err != nil {
					outcome := "error"
					if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
						outcome = "breaker_open"
					}
					metrics.RecordEnrichmentChunk(outcome)
					c.log.Warn().Err(err).Int("ids", len(batch)).Msg("track lookup failed")
					continue
				}
				metrics.RecordEnrichmentChunk("ok")

				mu.Lock()
				for _, t := range tracks {
					if t == nil {
						continue
					}
					result[t.ID.String()] = convertTrack(t)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// convertTrack copies the fields a recommendation exposes.
func convertTrack(t *spotify.FullTrack) TrackInfo {
	info := TrackInfo{
		PreviewURL:  t.PreviewURL,
		ExternalURL: t.ExternalURLs["spotify"],
		AlbumName:   t.Album.Name,
		DurationMs:  int(t.Duration),
		Popularity:  int(t.Popularity),
	}
	if len(t.Album.Images) > 0 {
		info.AlbumImage = t.Album.Images[0].URL
	}
	return info
}
