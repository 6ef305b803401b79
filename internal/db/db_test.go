package db

import (
	"slices"
	"strings"
	"testing"

	"github.com/justestif/go-mood-recommender/internal/catalog"
	"github.com/justestif/go-mood-recommender/internal/vad"
)

func TestChunks(t *testing.T) {
	tests := []struct {
		n, size int
		want    [][2]int
	}{
		{0, 1000, nil},
		{1, 1000, [][2]int{{0, 1}}},
		{1000, 1000, [][2]int{{0, 1000}}},
		{2500, 1000, [][2]int{{0, 1000}, {1000, 2000}, {2000, 2500}}},
	}
	for _, tt := range tests {
		if got := chunks(tt.n, tt.size); !slices.Equal(got, tt.want) {
			t.Errorf("chunks(%d, %d) = %v, want %v", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestSongRowMatchesColumns(t *testing.T) {
	genre := "rock"
	s := catalog.Song{
		ID:         7,
		Track:      "Song",
		Artist:     "Artist",
		Genre:      &genre,
		Raw:        vad.Triple{Valence: 5, Arousal: 4, Dominance: 3},
		Normalized: vad.Triple{Valence: 0.5, Arousal: 0.4, Dominance: 0.3},
	}

	row := songRow(s)
	if len(row) != len(songColumns) {
		t.Fatalf("songRow has %d values for %d columns", len(row), len(songColumns))
	}
	if row[0] != int64(7) || row[5] != 5.0 || row[10] != 0.3 {
		t.Errorf("songRow = %v", row)
	}
}

func TestSchemaCreatesTables(t *testing.T) {
	for _, table := range []string{"songs", "song_tags", "synsets", "corpus_builds"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Errorf("schema is missing table %s", table)
		}
	}
	for _, col := range append(slices.Clone(songColumns), synsetColumns...) {
		if !strings.Contains(schema, col) {
			t.Errorf("schema is missing column %s", col)
		}
	}
}
