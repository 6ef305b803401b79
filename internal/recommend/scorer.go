// Package recommend ranks songs by tag match and distance in VAD space.
package recommend

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/rs/zerolog"

	"github.com/justestif/go-mood-recommender/internal/catalog"
	"github.com/justestif/go-mood-recommender/internal/vad"
)

// Scoring weights.
const (
	axisWeight    = 0.3
	matchWeight   = 0.4
	emotionWeight = 0.6

	// MaxEmotionScore is the emotion score of a song sitting exactly on the
	// target.
	MaxEmotionScore = 3 * axisWeight
)

// Corpus is the read-only song store the scorer ranks.
type Corpus interface {
	FindByTag(ctx context.Context, tag string) ([]catalog.Song, error)
	FindByAnyTag(ctx context.Context, tags []string) ([]catalog.TagMatch, error)
	ListDistinctTags(ctx context.Context) ([]string, error)
}

// Status tells a found page from a "no matches" outcome.
type Status int

const (
	StatusFound Status = iota
	StatusNotFound
)

func (s Status) String() string {
	if s == StatusNotFound {
		return "not_found"
	}
	return "found"
}

// ScoredSong is a song with its ranking scores.
type ScoredSong struct {
	Song         catalog.Song
	Score        float64
	EmotionScore float64
	// Similarity is EmotionScore rescaled so an exact hit is 1.
	Similarity float64
	TagMatches int
}

// Result is one page of a ranking.
type Result struct {
	Status Status
	Items  []ScoredSong
	Page   Page
	Total  int // candidates before paging
}

// Scorer ranks the corpus. Safe for concurrent use.
type Scorer struct {
	corpus Corpus
	policy Policy
	log    zerolog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithNormalization sets the target normalization policy.
func WithNormalization(p Policy) Option {
	return func(s *Scorer) {
		s.policy = p
	}
}

// WithLogger sets the scorer logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scorer) {
		s.log = l
	}
}

// NewScorer creates a scorer over corpus.
func NewScorer(corpus Corpus, opts ...Option) *Scorer {
	s := &Scorer{
		corpus: corpus,
		policy: PolicyIdentity,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the target normalization policy in use.
func (s *Scorer) Policy() Policy {
	return s.policy
}

// Tags returns every tag in the corpus, sorted.
func (s *Scorer) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.corpus.ListDistinctTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// RecommendByTag ranks songs carrying tag. Each score is the emotion score,
// or 1 without a target. A page past the end is Found with no items.
func (s *Scorer) RecommendByTag(ctx context.Context, tag string, page Page, target Target) (*Result, error) {
	tag = catalog.NormalizeTag(tag)
	if err := validateQuery(query{Tags: nonEmpty(tag), Page: page}); err != nil {
		return nil, err
	}

	songs, err := s.corpus.FindByTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("finding songs by tag: %w", err)
	}

	point := target.resolve(s.policy)
	scored := make([]ScoredSong, len(songs))
	for i, song := range songs {
		emotion := emotionScore(song.Normalized, point)
		scored[i] = ScoredSong{
			Song:         song,
			Score:        emotion,
			EmotionScore: emotion,
			Similarity:   similarity(emotion, point),
			TagMatches:   1,
		}
	}

	items := rankAndPage(scored, page)
	s.log.Debug().
		Str("tag", tag).
		Int("candidates", len(scored)).
		Int("returned", len(items)).
		Bool("target", point != nil).
		Msg("ranked single tag")

	return &Result{Status: StatusFound, Items: items, Page: page, Total: len(scored)}, nil
}

// RecommendByTags ranks songs carrying any of tags. Score is
// matches*0.4 + emotion*0.6. An empty page is StatusNotFound.
func (s *Scorer) RecommendByTags(ctx context.Context, tags []string, page Page, target Target) (*Result, error) {
	tags = catalog.NormalizeTags(tags)
	if err := validateQuery(query{Tags: tags, Page: page}); err != nil {
		return nil, err
	}

	matches, err := s.corpus.FindByAnyTag(ctx, tags)
	if err != nil {
		return nil, fmt.Errorf("finding songs by tags: %w", err)
	}

	point := target.resolve(s.policy)
	scored := make([]ScoredSong, len(matches))
	for i, m := range matches {
		emotion := emotionScore(m.Song.Normalized, point)
		scored[i] = ScoredSong{
			Song:         m.Song,
			Score:        float64(m.Matches)*matchWeight + emotion*emotionWeight,
			EmotionScore: emotion,
			Similarity:   similarity(emotion, point),
			TagMatches:   m.Matches,
		}
	}

	items := rankAndPage(scored, page)
	s.log.Debug().
		Strs("tags", tags).
		Int("candidates", len(scored)).
		Int("returned", len(items)).
		Bool("target", point != nil).
		Msg("ranked multiple tags")

	status := StatusFound
	if len(items) == 0 {
		status = StatusNotFound
	}
	return &Result{Status: status, Items: items, Page: page, Total: len(scored)}, nil
}

func emotionScore(song vad.Triple, target *vad.Triple) float64 {
	if target == nil {
		return 1
	}
	return axisWeight*(1-math.Abs(song.Valence-target.Valence)) +
		axisWeight*(1-math.Abs(song.Arousal-target.Arousal)) +
		axisWeight*(1-math.Abs(song.Dominance-target.Dominance))
}

func similarity(emotion float64, target *vad.Triple) float64 {
	if target == nil {
		return 1
	}
	return emotion / MaxEmotionScore
}

// rankAndPage sorts by score descending, ties by song ID, and cuts the page.
func rankAndPage(scored []ScoredSong, page Page) []ScoredSong {
	slices.SortStableFunc(scored, func(a, b ScoredSong) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Song.ID, b.Song.ID)
	})

	// Compare page numbers before multiplying so huge pages cannot overflow.
	pages := (len(scored) + page.Size - 1) / page.Size
	if page.Number-1 >= pages {
		return []ScoredSong{}
	}
	start := page.Offset()
	end := min(start+page.Size, len(scored))
	return scored[start:end]
}

func nonEmpty(tag string) []string {
	if tag == "" {
		return []string{}
	}
	return []string{tag}
}
