package moodmap

import "github.com/justestif/go-mood-recommender/internal/vad"

// regionName describes a centroid using a 2x2 valence/arousal quadrant with
// a dominance modifier.
//
// Quadrants:
//   - High Valence + High Arousal = "Upbeat & Energetic"
//   - High Valence + Low Arousal  = "Calm & Content"
//   - Low Valence  + High Arousal = "Tense & Agitated"
//   - Low Valence  + Low Arousal  = "Sad & Subdued"
//
// Dominance above 0.65 appends "(Assertive)", below 0.35 "(Vulnerable)".
func regionName(c vad.Triple) string {
	highValence := c.Valence > 0.5
	highArousal := c.Arousal > 0.5

	var base string
	switch {
	case highValence && highArousal:
		base = "Upbeat & Energetic"
	case highValence && !highArousal:
		base = "Calm & Content"
	case !highValence && highArousal:
		base = "Tense & Agitated"
	default:
		base = "Sad & Subdued"
	}

	switch {
	case c.Dominance > 0.65:
		return base + " (Assertive)"
	case c.Dominance < 0.35:
		return base + " (Vulnerable)"
	}
	return base
}
