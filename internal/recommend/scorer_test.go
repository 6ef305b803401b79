package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/justestif/go-mood-recommender/internal/catalog"
	"github.com/justestif/go-mood-recommender/internal/vad"
)

// mockCorpus implements Corpus on top of catalog.Memory, with an optional
// injected failure.
type mockCorpus struct {
	*catalog.Memory
	err error
}

func (m *mockCorpus) FindByTag(ctx context.Context, tag string) ([]catalog.Song, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Memory.FindByTag(ctx, tag)
}

func (m *mockCorpus) FindByAnyTag(ctx context.Context, tags []string) ([]catalog.TagMatch, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Memory.FindByAnyTag(ctx, tags)
}

func song(id int64, normalized vad.Triple, tags ...string) catalog.Song {
	return catalog.Song{
		ID:         id,
		Track:      fmt.Sprintf("Track %d", id),
		Artist:     "Artist",
		Tags:       tags,
		Normalized: normalized,
	}
}

func newCorpus(songs ...catalog.Song) *mockCorpus {
	return &mockCorpus{Memory: catalog.NewMemory(songs)}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRecommendByTagUniformWithoutTarget(t *testing.T) {
	c := newCorpus(
		song(3, vad.Triple{Valence: 0.1}, "happy"),
		song(1, vad.Triple{Valence: 0.9}, "happy"),
		song(2, vad.Triple{Valence: 0.5}, "happy", "sad"),
		song(4, vad.Triple{}, "sad"),
	)
	s := NewScorer(c)

	res, err := s.RecommendByTag(context.Background(), " HAPPY ", Page{Number: 1, Size: 10}, Target{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusFound || len(res.Items) != 3 {
		t.Fatalf("got status %v with %d items, want found with 3", res.Status, len(res.Items))
	}
	for i, item := range res.Items {
		if item.Score != 1 {
			t.Errorf("item %d score = %v, want 1", i, item.Score)
		}
		if item.Song.ID != int64(i+1) {
			t.Errorf("item %d id = %d, want %d (ties ordered by id)", i, item.Song.ID, i+1)
		}
	}
}

func TestRecommendByTagPartialTargetIsAbsent(t *testing.T) {
	c := newCorpus(song(1, vad.Triple{Valence: 0.2}, "calm"))
	s := NewScorer(c)

	v := 0.9
	res, err := s.RecommendByTag(context.Background(), "calm", Page{Number: 1, Size: 10}, Target{Valence: &v})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Items[0].Score != 1 {
		t.Errorf("score = %v, want 1 for partial target", res.Items[0].Score)
	}
}

func TestRecommendByTagTargetAtSongPoint(t *testing.T) {
	point := vad.Triple{Valence: 0.4, Arousal: 0.7, Dominance: 0.2}
	c := newCorpus(
		song(1, vad.Triple{Valence: 1, Arousal: 0, Dominance: 1}, "dreamy"),
		song(2, point, "dreamy"),
	)
	s := NewScorer(c)

	res, err := s.RecommendByTag(context.Background(), "dreamy", Page{Number: 1, Size: 10}, NormalizedTarget(point))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top := res.Items[0]
	if top.Song.ID != 2 {
		t.Fatalf("top song = %d, want 2", top.Song.ID)
	}
	if !approx(top.EmotionScore, MaxEmotionScore) || !approx(top.Similarity, 1) {
		t.Errorf("emotion = %v, similarity = %v; want %v and 1", top.EmotionScore, top.Similarity, MaxEmotionScore)
	}
	if res.Items[1].Score >= top.Score {
		t.Errorf("farther song scored %v >= %v", res.Items[1].Score, top.Score)
	}
}

func TestRecommendByTagPagination(t *testing.T) {
	var songs []catalog.Song
	for i := 1; i <= 15; i++ {
		songs = append(songs, song(int64(i), vad.Triple{Valence: float64(i) / 15}, "sad"))
	}
	s := NewScorer(newCorpus(songs...))
	target := NormalizedTarget(vad.Triple{})
	ctx := context.Background()

	all, err := s.RecommendByTag(ctx, "sad", Page{Number: 1, Size: 50}, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := s.RecommendByTag(ctx, "sad", Page{Number: 1, Size: 10}, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.RecommendByTag(ctx, "sad", Page{Number: 2, Size: 10}, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Items) != 10 || len(second.Items) != 5 {
		t.Fatalf("page sizes = %d, %d; want 10, 5", len(first.Items), len(second.Items))
	}
	if second.Total != 15 {
		t.Errorf("Total = %d, want 15", second.Total)
	}
	for i, item := range append(first.Items, second.Items...) {
		if item.Song.ID != all.Items[i].Song.ID {
			t.Errorf("position %d: id %d, want %d", i, item.Song.ID, all.Items[i].Song.ID)
		}
	}

	third, err := s.RecommendByTag(ctx, "sad", Page{Number: 3, Size: 10}, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.Status != StatusFound || len(third.Items) != 0 {
		t.Errorf("page past the end = %v with %d items, want found and empty", third.Status, len(third.Items))
	}
}

func TestRecommendHugePageNumber(t *testing.T) {
	s := NewScorer(newCorpus(
		song(1, vad.Triple{}, "happy"),
		song(2, vad.Triple{}, "happy", "sad"),
		song(3, vad.Triple{}, "sad"),
	))
	ctx := context.Background()
	page := Page{Number: math.MaxInt64, Size: 2}

	single, err := s.RecommendByTag(ctx, "happy", page, Target{})
	if err != nil {
		t.Fatalf("RecommendByTag: unexpected error: %v", err)
	}
	if single.Status != StatusFound || len(single.Items) != 0 || single.Total != 2 {
		t.Errorf("RecommendByTag = %v with %d items (total %d), want found, empty, total 2",
			single.Status, len(single.Items), single.Total)
	}

	multi, err := s.RecommendByTags(ctx, []string{"happy", "sad"}, page, Target{})
	if err != nil {
		t.Fatalf("RecommendByTags: unexpected error: %v", err)
	}
	if multi.Status != StatusNotFound || len(multi.Items) != 0 {
		t.Errorf("RecommendByTags = %v with %d items, want not found and empty", multi.Status, len(multi.Items))
	}

	last, err := s.RecommendByTags(ctx, []string{"happy", "sad"}, Page{Number: 2, Size: 2}, Target{})
	if err != nil {
		t.Fatalf("RecommendByTags: unexpected error: %v", err)
	}
	if len(last.Items) != 1 {
		t.Errorf("last partial page has %d items, want 1", len(last.Items))
	}
}

func TestRecommendByTags(t *testing.T) {
	same := vad.Triple{Valence: 0.5, Arousal: 0.5, Dominance: 0.5}
	c := newCorpus(
		song(1, same, "happy"),
		song(2, same, "happy", "calm"),
		song(3, same, "sad"),
	)
	s := NewScorer(c)

	res, err := s.RecommendByTags(context.Background(), []string{"happy", "calm", "excited"}, Page{Number: 1, Size: 10}, Target{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusFound || len(res.Items) != 2 {
		t.Fatalf("got %v with %d items", res.Status, len(res.Items))
	}

	top, next := res.Items[0], res.Items[1]
	if top.Song.ID != 2 || top.TagMatches != 2 {
		t.Errorf("top = song %d with %d matches, want song 2 with 2", top.Song.ID, top.TagMatches)
	}
	if !approx(top.Score, 2*0.4+0.6) || !approx(next.Score, 0.4+0.6) {
		t.Errorf("scores = %v, %v", top.Score, next.Score)
	}
}

func TestRecommendByTagsNotFound(t *testing.T) {
	s := NewScorer(newCorpus(song(1, vad.Triple{}, "happy")))

	res, err := s.RecommendByTags(context.Background(), []string{"unknown", "missing"}, Page{Number: 1, Size: 10}, Target{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusNotFound || len(res.Items) != 0 {
		t.Errorf("got %v with %d items, want not found", res.Status, len(res.Items))
	}

	res, err = s.RecommendByTags(context.Background(), []string{"happy"}, Page{Number: 2, Size: 10}, Target{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusNotFound {
		t.Errorf("page past the end = %v, want not found", res.Status)
	}
}

func TestValidation(t *testing.T) {
	s := NewScorer(newCorpus(song(1, vad.Triple{}, "happy")))
	ctx := context.Background()

	tests := []struct {
		name      string
		tags      []string
		page      Page
		wantField string
	}{
		{"page zero", []string{"happy"}, Page{Number: 0, Size: 10}, "page.number"},
		{"page size zero", []string{"happy"}, Page{Number: 1, Size: 0}, "page.size"},
		{"page size too large", []string{"happy"}, Page{Number: 1, Size: 51}, "page.size"},
		{"no tags", []string{" ", ""}, Page{Number: 1, Size: 10}, "tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RecommendByTags(ctx, tt.tags, tt.page, Target{})
			if !errors.Is(err, ErrInvalidQuery) {
				t.Fatalf("error = %v, want ErrInvalidQuery", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Fields[0].Field != tt.wantField {
				t.Errorf("fields = %+v, want %s", ve, tt.wantField)
			}
		})
	}

	if _, err := s.RecommendByTag(ctx, "  ", Page{Number: 1, Size: 10}, Target{}); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("blank tag error = %v, want ErrInvalidQuery", err)
	}
	if _, err := s.RecommendByTag(ctx, "happy", Page{Number: 1, Size: 50}, Target{}); err != nil {
		t.Errorf("page size 50 rejected: %v", err)
	}
}

func TestCorpusFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	c := newCorpus()
	c.err = storeErr
	s := NewScorer(c)

	_, err := s.RecommendByTag(context.Background(), "happy", Page{Number: 1, Size: 10}, Target{})
	if !errors.Is(err, storeErr) || errors.Is(err, ErrInvalidQuery) {
		t.Errorf("error = %v, want wrapped storage error", err)
	}
}

func TestTargetPolicies(t *testing.T) {
	target := NewTarget(4, 7, 1)

	tests := []struct {
		policy Policy
		want   vad.Triple
	}{
		{PolicyIdentity, vad.Triple{Valence: 4, Arousal: 7, Dominance: 1}},
		{PolicySinglePointMinMax, vad.Triple{}},
		{PolicyRatingScale, vad.Triple{Valence: 0.5, Arousal: 1, Dominance: 0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			got := target.resolve(tt.policy)
			if got == nil || *got != tt.want {
				t.Errorf("resolve = %v, want %v", got, tt.want)
			}
		})
	}

	pre := NormalizedTarget(vad.Triple{Valence: 0.3, Arousal: 0.6, Dominance: 0.9})
	if got := pre.resolve(PolicySinglePointMinMax); *got != (vad.Triple{Valence: 0.3, Arousal: 0.6, Dominance: 0.9}) {
		t.Errorf("normalized target changed by policy: %v", got)
	}

	if got := (Target{}).resolve(PolicyIdentity); got != nil {
		t.Errorf("empty target resolved to %v", got)
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{
		"":                    PolicyIdentity,
		"identity":            PolicyIdentity,
		"single-point-minmax": PolicySinglePointMinMax,
		"rating-scale":        PolicyRatingScale,
	} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParsePolicy("zscore"); err == nil {
		t.Error("ParsePolicy(zscore) should fail")
	}
}

func TestSinglePointMinMaxScoring(t *testing.T) {
	c := newCorpus(
		song(1, vad.Triple{Valence: 1, Arousal: 1, Dominance: 1}, "lively"),
		song(2, vad.Triple{}, "lively"),
	)
	s := NewScorer(c, WithNormalization(PolicySinglePointMinMax))

	res, err := s.RecommendByTag(context.Background(), "lively", Page{Number: 1, Size: 10}, NewTarget(6, 6, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Every target collapses to the origin, so the song at 0,0,0 wins.
	if res.Items[0].Song.ID != 2 || !approx(res.Items[0].Score, MaxEmotionScore) {
		t.Errorf("top = %d with %v", res.Items[0].Song.ID, res.Items[0].Score)
	}
}

func TestTags(t *testing.T) {
	s := NewScorer(newCorpus(song(1, vad.Triple{}, "sad", "calm"), song(2, vad.Triple{}, "angry")))

	tags, err := s.Tags(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"angry", "calm", "sad"}
	if fmt.Sprint(tags) != fmt.Sprint(want) {
		t.Errorf("Tags = %v, want %v", tags, want)
	}
}
