package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/justestif/go-mood-recommender/internal/catalog"
	"github.com/justestif/go-mood-recommender/internal/config"
	"github.com/justestif/go-mood-recommender/internal/corpus"
	"github.com/justestif/go-mood-recommender/internal/db"
	"github.com/justestif/go-mood-recommender/internal/logging"
	"github.com/justestif/go-mood-recommender/internal/recommend"
	"github.com/justestif/go-mood-recommender/internal/vad"
	"github.com/justestif/go-mood-recommender/internal/wordnet"
)

// songStore is a corpus that can also list every song.
type songStore interface {
	recommend.Corpus
	All(ctx context.Context) ([]catalog.Song, error)
}

// backend is the corpus and thesaurus a command runs against: Postgres when
// database.url is set, otherwise an in-memory corpus read from the dataset.
type backend struct {
	songs     songStore
	thesaurus vad.Thesaurus // nil when no WordNet data is available
	db        *db.DB
}

func (b *backend) Close() {
	if b.db != nil {
		b.db.Close()
	}
}

// openBackend builds the backend described by cfg.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	log := logging.With("backend")

	if cfg.Database.URL == "" {
		return openMemory(cfg, log)
	}

	database, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	b := &backend{songs: database.Songs(), db: database}

	if cfg.Corpus.DatasetPath != "" {
		if err := seedDatabase(ctx, database, cfg.Corpus.DatasetPath, log); err != nil {
			database.Close()
			return nil, err
		}
	}

	n, err := database.Synsets().Count(ctx)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("counting synsets: %w", err)
	}
	if n > 0 {
		b.thesaurus = database.Synsets()
		log.Info().Int("senses", n).Msg("using stored wordnet synsets")
		return b, nil
	}

	if cfg.Corpus.WordNetPath != "" {
		idx, err := loadWordNet(cfg.Corpus.WordNetPath)
		if err != nil {
			database.Close()
			return nil, err
		}
		b.thesaurus = idx
		log.Info().Int("senses", idx.Len()).Msg("using wordnet file")
	}
	return b, nil
}

func openDatabase(ctx context.Context, url string) (*db.DB, error) {
	database, err := db.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return database, nil
}

// seedDatabase ingests the dataset into an empty database. A populated
// database or a missing file is left alone.
func seedDatabase(ctx context.Context, database *db.DB, path string, log zerolog.Logger) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("dataset not found, serving stored corpus")
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	svc := corpus.NewService(
		database.Songs(),
		corpus.WithRecorder(database.Builds()),
		corpus.WithLogger(logging.With("corpus")),
	)
	if _, err := svc.Ingest(ctx, f, path, false); err != nil {
		return fmt.Errorf("seeding corpus: %w", err)
	}
	return nil
}

func openMemory(cfg *config.Config, log zerolog.Logger) (*backend, error) {
	f, err := os.Open(cfg.Corpus.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	ds, err := corpus.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", cfg.Corpus.DatasetPath, err)
	}
	log.Info().
		Str("path", cfg.Corpus.DatasetPath).
		Int("songs", len(ds.Songs)).
		Int("dropped", ds.Dropped).
		Msg("loaded in-memory corpus")

	b := &backend{songs: catalog.NewMemory(ds.Songs)}
	if cfg.Corpus.WordNetPath != "" {
		idx, err := loadWordNet(cfg.Corpus.WordNetPath)
		if err != nil {
			return nil, err
		}
		b.thesaurus = idx
	}
	return b, nil
}

func loadWordNet(path string) (*wordnet.Index, error) {
	senses, err := readWordNet(path)
	if err != nil {
		return nil, err
	}
	return wordnet.NewIndex(senses), nil
}

func readWordNet(path string) ([]wordnet.Sense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wordnet file: %w", err)
	}
	defer f.Close()

	senses, err := wordnet.ParseProlog(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return senses, nil
}

// newResolver wires the resolver to the backend thesaurus, if any.
func (b *backend) newResolver() *vad.Resolver {
	opts := []vad.Option{vad.WithLogger(logging.With("vad"))}
	if b.thesaurus != nil {
		opts = append(opts, vad.WithThesaurus(b.thesaurus))
	}
	return vad.NewResolver(nil, opts...)
}
