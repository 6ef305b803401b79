package recommend

import (
	"fmt"

	"github.com/justestif/go-mood-recommender/internal/vad"
)

// Policy decides how a raw query target is mapped into the corpus's
// normalized VAD space.
type Policy string

const (
	// PolicyIdentity uses the raw values unchanged.
	PolicyIdentity Policy = "identity"

	// PolicySinglePointMinMax min-max scales the target against itself, which
	// sends every axis to 0. Kept for parity with deployments that relied on it.
	PolicySinglePointMinMax Policy = "single-point-minmax"

	// PolicyRatingScale maps a 1-7 rating onto [0,1], clamping out of range
	// values.
	PolicyRatingScale Policy = "rating-scale"
)

// ParsePolicy validates a policy name. Empty means PolicyIdentity.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case "":
		return PolicyIdentity, nil
	case PolicyIdentity, PolicySinglePointMinMax, PolicyRatingScale:
		return p, nil
	default:
		return "", fmt.Errorf("unknown target normalization %q", s)
	}
}

// Target is an optional query point. It only takes part in scoring when all
// three axes are set; a partial target is treated as absent.
type Target struct {
	Valence   *float64
	Arousal   *float64
	Dominance *float64

	// Normalized marks values already in [0,1] (for example a resolved
	// emotion word). The policy is skipped for them.
	Normalized bool
}

// NewTarget returns a complete target.
func NewTarget(valence, arousal, dominance float64) Target {
	return Target{Valence: &valence, Arousal: &arousal, Dominance: &dominance}
}

// NormalizedTarget returns a complete target that bypasses the policy.
func NormalizedTarget(t vad.Triple) Target {
	target := NewTarget(t.Valence, t.Arousal, t.Dominance)
	target.Normalized = true
	return target
}

// Complete reports whether every axis is set.
func (t Target) Complete() bool {
	return t.Valence != nil && t.Arousal != nil && t.Dominance != nil
}

// resolve returns the point to compare songs against, or nil when the
// target does not take part in scoring.
func (t Target) resolve(p Policy) *vad.Triple {
	if !t.Complete() {
		return nil
	}
	raw := vad.Triple{Valence: *t.Valence, Arousal: *t.Arousal, Dominance: *t.Dominance}
	if t.Normalized {
		return &raw
	}

	var out vad.Triple
	switch p {
	case PolicySinglePointMinMax:
		// one observation per axis: min == max, so the scaled value is 0
	case PolicyRatingScale:
		out = vad.Triple{
			Valence:   ratingScale(raw.Valence),
			Arousal:   ratingScale(raw.Arousal),
			Dominance: ratingScale(raw.Dominance),
		}
	default:
		out = raw
	}
	return &out
}

func ratingScale(v float64) float64 {
	return min(max((v-1)/6, 0), 1)
}
