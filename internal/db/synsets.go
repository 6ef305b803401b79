package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-mood-recommender/internal/vad"
	"github.com/justestif/go-mood-recommender/internal/wordnet"
)

// SynsetRepository stores WordNet senses and serves them as a thesaurus.
type SynsetRepository struct {
	pool *pgxpool.Pool
}

// ReplaceAll swaps the stored senses for senses in a single transaction.
func (r *SynsetRepository) ReplaceAll(ctx context.Context, senses []wordnet.Sense) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `TRUNCATE synsets`); err != nil {
		return fmt.Errorf("clearing synsets: %w", err)
	}

	for _, c := range chunks(len(senses), copyBatchSize) {
		rows := make([][]any, 0, c[1]-c[0])
		for _, s := range senses[c[0]:c[1]] {
			rows = append(rows, []any{
				s.SynsetID, s.WordNumber, s.Lemma, s.Key(), string(s.POS), s.SenseNumber, s.TagCount,
			})
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"synsets"}, synsetColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("copying synsets: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing synsets: %w", err)
	}
	return nil
}

// Count returns the number of stored senses.
func (r *SynsetRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM synsets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting synsets: %w", err)
	}
	return n, nil
}

// Synsets implements vad.Thesaurus. It loads every synset containing one of
// the word's candidate base forms and orders them exactly as wordnet.Index
// does.
func (r *SynsetRepository) Synsets(ctx context.Context, word string, adjectivesOnly bool) ([]vad.Synset, error) {
	keys := wordnet.Candidates(word, adjectivesOnly)
	if len(keys) == 0 {
		return nil, nil
	}

	query := `
		SELECT synset_id, w_num, lemma, pos, sense_number, tag_count
		FROM synsets
		WHERE synset_id IN (SELECT synset_id FROM synsets WHERE lemma_key = ANY($1::text[]))
	`
	rows, err := r.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("querying synsets: %w", err)
	}
	defer rows.Close()

	var senses []wordnet.Sense
	for rows.Next() {
		var (
			s   wordnet.Sense
			pos string
		)
		if err := rows.Scan(&s.SynsetID, &s.WordNumber, &s.Lemma, &pos, &s.SenseNumber, &s.TagCount); err != nil {
			return nil, fmt.Errorf("scanning sense: %w", err)
		}
		if pos != "" {
			s.POS = wordnet.POS(pos[0])
		}
		senses = append(senses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading senses: %w", err)
	}

	return wordnet.NewIndex(senses).Synsets(ctx, word, adjectivesOnly)
}
