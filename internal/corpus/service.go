package corpus

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/justestif/go-mood-recommender/internal/catalog"
)

// Store persists a corpus. ReplaceAll swaps the whole song set atomically.
type Store interface {
	Count(ctx context.Context) (int, error)
	ReplaceAll(ctx context.Context, songs []catalog.Song) error
}

// BuildRecorder keeps a log of corpus builds.
type BuildRecorder interface {
	Record(ctx context.Context, b Build) error
}

// Build describes one ingestion run.
type Build struct {
	ID        uuid.UUID
	Source    string
	Songs     int
	Dropped   int
	Skipped   bool
	StartedAt time.Time
	BuiltAt   time.Time
}

// Service loads datasets into a Store.
type Service struct {
	store    Store
	recorder BuildRecorder
	log      zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder records every completed build.
func WithRecorder(r BuildRecorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// NewService creates an ingestion service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest parses r and replaces the stored corpus. Unless force is set, a
// store that already holds songs is left untouched and the build is marked
// Skipped.
func (s *Service) Ingest(ctx context.Context, r io.Reader, source string, force bool) (*Build, error) {
	build := Build{
		ID:        uuid.New(),
		Source:    source,
		StartedAt: time.Now(),
	}
	log := s.log.With().Str("build_id", build.ID.String()).Str("source", source).Logger()

	if !force {
		count, err := s.store.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting songs: %w", err)
		}
		if count > 0 {
			log.Info().Int("songs", count).Msg("corpus already initialized, skipping ingestion")
			build.Skipped = true
			build.Songs = count
			build.BuiltAt = time.Now()
			return &build, nil
		}
	}

	ds, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	if err := s.store.ReplaceAll(ctx, ds.Songs); err != nil {
		return nil, fmt.Errorf("storing corpus: %w", err)
	}

	build.Songs = len(ds.Songs)
	build.Dropped = ds.Dropped
	build.BuiltAt = time.Now()

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, build); err != nil {
			return nil, fmt.Errorf("recording build: %w", err)
		}
	}

	log.Info().
		Int("songs", build.Songs).
		Int("dropped", build.Dropped).
		Dur("took", build.BuiltAt.Sub(build.StartedAt)).
		Msg("corpus ingested")
	return &build, nil
}
