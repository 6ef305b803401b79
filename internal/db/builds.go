package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-mood-recommender/internal/corpus"
)

// BuildRepository keeps the corpus build log.
type BuildRepository struct {
	pool *pgxpool.Pool
}

// Record stores a completed build.
func (r *BuildRepository) Record(ctx context.Context, b corpus.Build) error {
	query := `
		INSERT INTO corpus_builds (id, source, songs, dropped, started_at, built_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, b.ID, b.Source, b.Songs, b.Dropped, b.StartedAt, b.BuiltAt)
	if err != nil {
		return fmt.Errorf("recording build: %w", err)
	}
	return nil
}

// Latest returns the most recent build.
func (r *BuildRepository) Latest(ctx context.Context) (*corpus.Build, error) {
	query := `
		SELECT id, source, songs, dropped, started_at, built_at
		FROM corpus_builds
		ORDER BY built_at DESC
		LIMIT 1
	`
	var b corpus.Build
	err := r.pool.QueryRow(ctx, query).Scan(&b.ID, &b.Source, &b.Songs, &b.Dropped, &b.StartedAt, &b.BuiltAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest build: %w", err)
	}
	return &b, nil
}
