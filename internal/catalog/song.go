// Package catalog defines the song corpus and its in-memory implementation.
package catalog

import (
	"strings"

	"github.com/justestif/go-mood-recommender/internal/vad"
)

// Song is an immutable corpus entry.
type Song struct {
	ID         int64
	Track      string
	Artist     string
	Genre      *string // nullable
	SpotifyID  *string // nullable
	Tags       []string
	Raw        vad.Triple // source scale
	Normalized vad.Triple // corpus-wide min-max, each axis in [0,1]
}

// HasTag reports whether the song carries tag (already normalized).
func (s Song) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagMatch is a song with the number of distinct requested tags it carries.
type TagMatch struct {
	Song    Song
	Matches int
}

// NormalizeTag trims and lowercases a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes tags, dropping empties and duplicates while
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// MinMax scales each axis of raws to [0,1] over the whole slice. An axis with
// zero range maps to 0, the same result a min-max scaler gives for a constant
// feature.
func MinMax(raws []vad.Triple) []vad.Triple {
	out := make([]vad.Triple, len(raws))
	if len(raws) == 0 {
		return out
	}

	lo, hi := raws[0], raws[0]
	for _, r := range raws[1:] {
		lo.Valence, hi.Valence = min(lo.Valence, r.Valence), max(hi.Valence, r.Valence)
		lo.Arousal, hi.Arousal = min(lo.Arousal, r.Arousal), max(hi.Arousal, r.Arousal)
		lo.Dominance, hi.Dominance = min(lo.Dominance, r.Dominance), max(hi.Dominance, r.Dominance)
	}

	for i, r := range raws {
		out[i] = vad.Triple{
			Valence:   scale(r.Valence, lo.Valence, hi.Valence),
			Arousal:   scale(r.Arousal, lo.Arousal, hi.Arousal),
			Dominance: scale(r.Dominance, lo.Dominance, hi.Dominance),
		}
	}
	return out
}

func scale(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
