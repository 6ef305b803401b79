// Package corpus builds the song corpus from a tabular dataset and loads it
// into storage.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/justestif/go-mood-recommender/internal/catalog"
	"github.com/justestif/go-mood-recommender/internal/vad"
)

// Dataset column names (MuSe layout).
const (
	ColTrack     = "track"
	ColArtist    = "artist"
	ColGenre     = "genre"
	ColSpotifyID = "spotify_id"
	ColSeeds     = "seeds"
	ColValence   = "valence_tags"
	ColArousal   = "arousal_tags"
	ColDominance = "dominance_tags"
)

var (
	// ErrEmptyDataset is returned when no usable rows remain.
	ErrEmptyDataset = errors.New("dataset has no usable rows")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")
)

// Dataset is the parsed, normalized corpus.
type Dataset struct {
	Songs   []catalog.Song
	Dropped int // rows without track or artist
}

// row is one CSV record before normalization.
type row struct {
	track, artist    string
	genre, spotifyID *string
	tags             []string
	valence, arousal *float64
	dominance        *float64
}

// Read parses a CSV dataset. Rows without a track or artist are dropped,
// missing VAD cells are filled with their column mean, and normalized triples
// are computed over every kept row. IDs are assigned 1..n in file order.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{ColTrack, ColArtist, ColSeeds, ColValence, ColArousal, ColDominance} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var rows []row
	dropped := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		rw := row{
			track:     get(ColTrack),
			artist:    get(ColArtist),
			genre:     optional(get(ColGenre)),
			spotifyID: optional(get(ColSpotifyID)),
			tags:      catalog.NormalizeTags(ParseSeeds(get(ColSeeds))),
			valence:   parseFloat(get(ColValence)),
			arousal:   parseFloat(get(ColArousal)),
			dominance: parseFloat(get(ColDominance)),
		}
		if rw.track == "" || rw.artist == "" {
			dropped++
			continue
		}
		rows = append(rows, rw)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	fillV := mean(rows, func(r row) *float64 { return r.valence })
	fillA := mean(rows, func(r row) *float64 { return r.arousal })
	fillD := mean(rows, func(r row) *float64 { return r.dominance })

	raws := make([]vad.Triple, len(rows))
	for i, rw := range rows {
		raws[i] = vad.Triple{
			Valence:   valueOr(rw.valence, fillV),
			Arousal:   valueOr(rw.arousal, fillA),
			Dominance: valueOr(rw.dominance, fillD),
		}
	}
	normalized := catalog.MinMax(raws)

	songs := make([]catalog.Song, len(rows))
	for i, rw := range rows {
		songs[i] = catalog.Song{
			ID:         int64(i + 1),
			Track:      rw.track,
			Artist:     rw.artist,
			Genre:      rw.genre,
			SpotifyID:  rw.spotifyID,
			Tags:       rw.tags,
			Raw:        raws[i],
			Normalized: normalized[i],
		}
	}

	return &Dataset{Songs: songs, Dropped: dropped}, nil
}

// ParseSeeds parses a list literal such as "['happy', 'sad']".
func ParseSeeds(s string) []string {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "'", "")

	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	return &s
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func mean(rows []row, field func(row) *float64) float64 {
	var sum float64
	n := 0
	for _, r := range rows {
		if v := field(r); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
