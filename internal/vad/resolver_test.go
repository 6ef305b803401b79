package vad

import (
	"context"
	"errors"
	"testing"
)

// mockThesaurus implements Thesaurus for testing.
type mockThesaurus struct {
	adjectives map[string][]Synset
	all        map[string][]Synset
	err        error
	calls      int
}

func (m *mockThesaurus) Synsets(_ context.Context, word string, adjectivesOnly bool) ([]Synset, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if adjectivesOnly {
		return m.adjectives[word], nil
	}
	return m.all[word], nil
}

func newMockThesaurus() *mockThesaurus {
	return &mockThesaurus{
		adjectives: map[string][]Synset{
			"joyous": {
				{ID: "joyous.a.01", Lemmas: []string{"joyous", "joyful"}},
			},
			"cheerful": {
				{ID: "cheerful.a.01", Lemmas: []string{"cheerful"}},
				{ID: "cheerful.s.02", Lemmas: []string{"cheery", "happy"}},
			},
			"tranquil": {
				{ID: "tranquil.s.01", Lemmas: []string{"tranquil", "serenely_calm"}},
			},
		},
		all: map[string][]Synset{
			"joyous": {
				{ID: "joyous.a.01", Lemmas: []string{"joyous", "joyful"}},
			},
			"affection": {
				{ID: "affection.n.01", Lemmas: []string{"affection", "affectionateness", "fondness"}},
				{ID: "love.n.01", Lemmas: []string{"love"}},
			},
		},
	}
}

func TestResolveExact(t *testing.T) {
	r := NewResolver(nil)

	got := r.Resolve(context.Background(), "happy")
	want := Triple{0.9, 0.7, 0.6}
	if got != want {
		t.Errorf("Resolve(happy) = %v, want %v", got, want)
	}

	got = r.Resolve(context.Background(), "  HAPPY\t")
	if got != want {
		t.Errorf("Resolve(  HAPPY) = %v, want %v", got, want)
	}
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name        string
		word        string
		wantSource  Source
		wantMatched string
	}{
		{"exact", "sad", SourceExact, "sad"},
		{"first synset lemma", "joyous", SourceSynonym, "joyful"},
		{"lemma from a later synset", "cheerful", SourceRelated, "happy"},
		{"partial lemma follows lexicon order", "tranquil", SourceSynonymPartial, "calm"},
		{"falls back to all senses", "affection", SourceRelated, "love"},
		{"word partially matches a key", "sadness", SourcePartial, "sad"},
		{"unknown word is neutral", "qwrtp", SourceNeutral, ""},
		{"empty word is neutral", "   ", SourceNeutral, ""},
	}

	r := NewResolver(nil, WithThesaurus(newMockThesaurus()))
	lex := DefaultLexicon()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Explain(context.Background(), tt.word)
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if got.Matched != tt.wantMatched {
				t.Errorf("Matched = %q, want %q", got.Matched, tt.wantMatched)
			}

			want := Neutral
			if tt.wantMatched != "" {
				want, _ = lex.Lookup(tt.wantMatched)
			}
			if got.Triple != want {
				t.Errorf("Triple = %v, want %v", got.Triple, want)
			}
		})
	}
}

func TestExplainThesaurusFailure(t *testing.T) {
	th := &mockThesaurus{err: errors.New("connection refused")}
	r := NewResolver(nil, WithThesaurus(th))

	got := r.Explain(context.Background(), "xqj")
	if got.Source != SourceNeutral || got.Triple != Neutral {
		t.Errorf("Explain(xqj) = %+v, want neutral", got)
	}

	got = r.Explain(context.Background(), "depressed mood")
	if got.Source != SourcePartial || got.Matched != "depressed" {
		t.Errorf("Explain(depressed mood) = %+v, want partial match on depressed", got)
	}

	if th.calls == 0 {
		t.Error("thesaurus was never consulted")
	}
}

func TestExplainAdjectivesFirst(t *testing.T) {
	th := newMockThesaurus()
	r := NewResolver(nil, WithThesaurus(th))

	// "joyous" has adjective senses, so the all-senses lookup must not run.
	th.calls = 0
	r.Explain(context.Background(), "joyous")
	if th.calls != 1 {
		t.Errorf("thesaurus calls = %d, want 1", th.calls)
	}

	th.calls = 0
	r.Explain(context.Background(), "affection")
	if th.calls != 2 {
		t.Errorf("thesaurus calls = %d, want 2", th.calls)
	}
}

func TestResolveAlwaysInRange(t *testing.T) {
	r := NewResolver(nil, WithThesaurus(newMockThesaurus()))
	words := []string{
		"", "happy", "HAPPY", "xyzzy", "joyous", "cheerful", "angry!!",
		"unhappiness", "💥", "a", "super calm and peaceful", "tranquil",
	}

	for _, w := range words {
		got := r.Resolve(context.Background(), w)
		for _, v := range []float64{got.Valence, got.Arousal, got.Dominance} {
			if v < 0 || v > 1 {
				t.Errorf("Resolve(%q) = %v, axis out of [0,1]", w, got)
			}
		}
	}
}

func TestLexiconOrder(t *testing.T) {
	lex := NewLexicon([]Entry{
		{Word: "Calm", Triple: Triple{0.7, 0.2, 0.5}},
		{Word: "calm", Triple: Triple{0, 0, 0}},
		{Word: " ", Triple: Triple{1, 1, 1}},
		{Word: "serene", Triple: Triple{0.8, 0.2, 0.5}},
	})

	if lex.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", lex.Len())
	}
	got, ok := lex.Lookup("calm")
	if !ok || got != (Triple{0.7, 0.2, 0.5}) {
		t.Errorf("Lookup(calm) = %v, %v; want first definition", got, ok)
	}

	e, ok := lex.Partial("serenely_calm")
	if !ok || e.Word != "calm" {
		t.Errorf("Partial(serenely_calm) = %v, want calm (first in order)", e.Word)
	}

	if _, ok := lex.Partial(""); ok {
		t.Error("Partial(\"\") should not match")
	}
}

func TestDefaultLexiconInRange(t *testing.T) {
	for _, e := range DefaultLexicon().Entries() {
		for _, v := range []float64{e.Triple.Valence, e.Triple.Arousal, e.Triple.Dominance} {
			if v < 0 || v > 1 {
				t.Errorf("lexicon entry %q = %v, axis out of [0,1]", e.Word, e.Triple)
			}
		}
	}
}
