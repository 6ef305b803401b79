// Package enrich attaches external track metadata to a ranked page.
package enrich

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/justestif/go-mood-recommender/internal/metrics"
	"github.com/justestif/go-mood-recommender/internal/recommend"
	"github.com/justestif/go-mood-recommender/internal/spotify"
)

// DefaultTimeout bounds one page's metadata lookup.
const DefaultTimeout = 3 * time.Second

// MetadataProvider looks up metadata for external track IDs. IDs it does not
// know get no entry.
type MetadataProvider interface {
	BatchLookup(ctx context.Context, ids []string) (map[string]spotify.TrackInfo, error)
}

// Recommendation is a scored song with optional metadata.
type Recommendation struct {
	recommend.ScoredSong
	Info *spotify.TrackInfo
}

// Enricher decorates pages with provider metadata. It never fails: missing
// or failed lookups leave Info nil.
type Enricher struct {
	provider MetadataProvider
	timeout  time.Duration
	log      zerolog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithTimeout sets the per-page lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Enricher) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the enricher logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Enricher) {
		e.log = l
	}
}

// New creates an enricher. A nil provider disables lookups.
func New(provider MetadataProvider, opts ...Option) *Enricher {
	e := &Enricher{
		provider: provider,
		timeout:  DefaultTimeout,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns items in order with metadata attached where available.
func (e *Enricher) Enrich(ctx context.Context, items []recommend.ScoredSong) []Recommendation {
	out := Wrap(items)
	if e == nil || e.provider == nil || len(items) == 0 {
		return out
	}

	var ids []string
	for _, item := range items {
		if item.Song.SpotifyID != nil && *item.Song.SpotifyID != "" {
			ids = append(ids, *item.Song.SpotifyID)
		}
	}
	if len(ids) == 0 {
		return out
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	infos, err := e.provider.BatchLookup(ctx, ids)
	metrics.RecordEnrichment(time.Since(start))
	if err != nil {
		e.log.Warn().Err(err).Int("ids", len(ids)).Msg("metadata lookup incomplete")
	}

	for i := range out {
		id := out[i].Song.SpotifyID
		if id == nil {
			continue
		}
		if info, ok := infos[*id]; ok {
			out[i].Info = &info
		}
	}
	return out
}

// Wrap converts scored songs to recommendations without metadata.
func Wrap(items []recommend.ScoredSong) []Recommendation {
	out := make([]Recommendation, len(items))
	for i, item := range items {
		out[i] = Recommendation{ScoredSong: item}
	}
	return out
}
