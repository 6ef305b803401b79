package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/justestif/go-mood-recommender/internal/catalog"
	"github.com/justestif/go-mood-recommender/internal/vad"
)

// songSelect lists song columns plus the ordered tag array.
const songSelect = `
	s.id, s.track, s.artist, s.genre, s.spotify_id,
	s.valence_raw, s.arousal_raw, s.dominance_raw,
	s.valence, s.arousal, s.dominance,
	COALESCE(
		(SELECT array_agg(t.tag ORDER BY t.position) FROM song_tags t WHERE t.song_id = s.id),
		'{}'::text[]
	)`

var (
	songColumns = []string{
		"id", "track", "artist", "genre", "spotify_id",
		"valence_raw", "arousal_raw", "dominance_raw",
		"valence", "arousal", "dominance",
	}
	songTagColumns = []string{"song_id", "tag", "position"}
	synsetColumns  = []string{"synset_id", "w_num", "lemma", "lemma_key", "pos", "sense_number", "tag_count"}
)

// scanSong scans a row selected with songSelect, followed by extra.
func scanSong(row pgx.Row, extra ...any) (catalog.Song, error) {
	var (
		s          catalog.Song
		raw, normd vad.Triple
	)
	dest := []any{
		&s.ID, &s.Track, &s.Artist, &s.Genre, &s.SpotifyID,
		&raw.Valence, &raw.Arousal, &raw.Dominance,
		&normd.Valence, &normd.Arousal, &normd.Dominance,
		&s.Tags,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return catalog.Song{}, err
	}
	s.Raw, s.Normalized = raw, normd
	return s, nil
}

func songRow(s catalog.Song) []any {
	return []any{
		s.ID, s.Track, s.Artist, s.Genre, s.SpotifyID,
		s.Raw.Valence, s.Raw.Arousal, s.Raw.Dominance,
		s.Normalized.Valence, s.Normalized.Arousal, s.Normalized.Dominance,
	}
}
