package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-mood-recommender/internal/catalog"
)

// SongRepository handles song corpus operations.
type SongRepository struct {
	pool *pgxpool.Pool
}

// FindByTag returns songs carrying tag, in ID order.
func (r *SongRepository) FindByTag(ctx context.Context, tag string) ([]catalog.Song, error) {
	query := `
		SELECT ` + songSelect + `
		FROM songs s
		WHERE EXISTS (SELECT 1 FROM song_tags st WHERE st.song_id = s.id AND st.tag = $1)
		ORDER BY s.id
	`
	rows, err := r.pool.Query(ctx, query, catalog.NormalizeTag(tag))
	if err != nil {
		return nil, fmt.Errorf("querying songs by tag: %w", err)
	}
	defer rows.Close()

	var songs []catalog.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning song: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// FindByAnyTag returns songs carrying at least one of tags with the number of
// distinct tags each one matched, in ID order.
func (r *SongRepository) FindByAnyTag(ctx context.Context, tags []string) ([]catalog.TagMatch, error) {
	tags = catalog.NormalizeTags(tags)
	if len(tags) == 0 {
		return nil, nil
	}

	query := `
		WITH matched AS (
			SELECT song_id, COUNT(DISTINCT tag) AS matches
			FROM song_tags
			WHERE tag = ANY($1::text[])
			GROUP BY song_id
		)
		SELECT ` + songSelect + `, m.matches
		FROM songs s
		JOIN matched m ON m.song_id = s.id
		ORDER BY s.id
	`
	rows, err := r.pool.Query(ctx, query, tags)
	if err != nil {
		return nil, fmt.Errorf("querying songs by tags: %w", err)
	}
	defer rows.Close()

	var matches []catalog.TagMatch
	for rows.Next() {
		var count int
		song, err := scanSong(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scanning song: %w", err)
		}
		matches = append(matches, catalog.TagMatch{Song: song, Matches: count})
	}
	return matches, rows.Err()
}

// ListDistinctTags returns every tag in sorted order.
func (r *SongRepository) ListDistinctTags(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT tag FROM song_tags ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning tags: %w", err)
	}
	return tags, nil
}

// All returns every song in ID order.
func (r *SongRepository) All(ctx context.Context) ([]catalog.Song, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+songSelect+` FROM songs s ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("querying songs: %w", err)
	}
	defer rows.Close()

	var songs []catalog.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning song: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// Count returns the number of stored songs.
func (r *SongRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM songs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting songs: %w", err)
	}
	return n, nil
}

// ReplaceAll swaps the stored corpus for songs in a single transaction.
func (r *SongRepository) ReplaceAll(ctx context.Context, songs []catalog.Song) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `TRUNCATE songs, song_tags`); err != nil {
		return fmt.Errorf("clearing songs: %w", err)
	}

	for _, c := range chunks(len(songs), copyBatchSize) {
		batch := songs[c[0]:c[1]]

		songRows := make([][]any, len(batch))
		var tagRows [][]any
		for i, s := range batch {
			songRows[i] = songRow(s)
			for pos, tag := range catalog.NormalizeTags(s.Tags) {
				tagRows = append(tagRows, []any{s.ID, tag, pos})
			}
		}

		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"songs"}, songColumns, pgx.CopyFromRows(songRows)); err != nil {
			return fmt.Errorf("copying songs: %w", err)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"song_tags"}, songTagColumns, pgx.CopyFromRows(tagRows)); err != nil {
			return fmt.Errorf("copying song tags: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing corpus: %w", err)
	}
	return nil
}
