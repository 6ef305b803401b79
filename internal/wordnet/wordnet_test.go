package wordnet

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/justestif/go-mood-recommender/internal/vad"
)

const sample = `% WordNet prolog sample
s(301148283,1,'happy',a,1,37).
s(301149494,1,'felicitous',s,1,2).
s(301149494,2,'happy',s,2,0).
s(301800349,1,'glad',s,1,0).
s(301800349,2,'happy',s,3,0).
s(107526757,1,'happiness',n,1,15).
s(107526757,2,'felicity',n,1,0).
s(302565583,1,'joyous',s,1,0).
s(302565583,2,'joyful',s,2,0).
s(302565583,3,'elated',s,1,0).
s(104484432,1,'jack-o''-lantern',n,1,0).
s(107555863,1,'sadness',n,1,5).
s(107555863,2,'unhappiness',n,1,3).
s(107555863,3,'feeling blue',n,1,0).
s(201785971,1,'sadden',v,1,0).
`

func TestParseProlog(t *testing.T) {
	senses, err := ParseProlog(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(senses) != 15 {
		t.Fatalf("got %d senses, want 15", len(senses))
	}

	first := senses[0]
	want := Sense{SynsetID: 301148283, WordNumber: 1, Lemma: "happy", POS: Adjective, SenseNumber: 1, TagCount: 37}
	if first != want {
		t.Errorf("first sense = %+v, want %+v", first, want)
	}

	var lantern, blue Sense
	for _, s := range senses {
		switch s.SynsetID {
		case 104484432:
			lantern = s
		case 107555863:
			if s.WordNumber == 3 {
				blue = s
			}
		}
	}
	if lantern.Lemma != "jack-o'-lantern" {
		t.Errorf("escaped quote lemma = %q, want %q", lantern.Lemma, "jack-o'-lantern")
	}
	if blue.Lemma != "feeling_blue" {
		t.Errorf("multiword lemma = %q, want %q", blue.Lemma, "feeling_blue")
	}
}

func TestParsePrologMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"unterminated word", "s(1,1,'happy,a,1,0)."},
		{"missing fields", "s(1,1,'happy',a)."},
		{"bad synset id", "s(x,1,'happy',a,1,0)."},
		{"bad sense number", "s(1,1,'happy',a,one,0)."},
		{"no word", "s(1)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProlog(strings.NewReader(tt.line))
			if !errors.Is(err, ErrMalformedLine) {
				t.Errorf("error = %v, want ErrMalformedLine", err)
			}
		})
	}
}

func TestBaseForms(t *testing.T) {
	tests := []struct {
		word string
		pos  POS
		want []string
	}{
		{"happier", Adjective, []string{"happier", "happi", "happie"}},
		{"saddest", Satellite, []string{"saddest", "sadd", "sadde"}},
		{"feelings", Noun, []string{"feelings", "feeling"}},
		{"boxes", Noun, []string{"boxes", "boxe", "box"}},
		{"cried", Verb, []string{"cried", "crie", "cri"}},
		{"calm", Adverb, []string{"calm"}},
		{"  ", Noun, nil},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := BaseForms(tt.word, tt.pos)
			if !slices.Equal(got, tt.want) {
				t.Errorf("BaseForms(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestIndexSynsets(t *testing.T) {
	senses, err := ParseProlog(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	idx := NewIndex(senses)

	got, err := idx.Synsets(context.Background(), "Happy", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIDs := []string{"301148283", "301149494", "301800349"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d synsets, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("synset %d = %s, want %s", i, got[i].ID, id)
		}
	}
	if !slices.Equal(got[2].Lemmas, []string{"glad", "happy"}) {
		t.Errorf("lemmas = %v, want [glad happy]", got[2].Lemmas)
	}

	// Lemmas come back in word-number order, not file order.
	got, _ = idx.Synsets(context.Background(), "elated", true)
	if len(got) != 1 || !slices.Equal(got[0].Lemmas, []string{"joyous", "joyful", "elated"}) {
		t.Errorf("elated synsets = %+v", got)
	}

	// Adjective-only lookups ignore noun senses.
	got, _ = idx.Synsets(context.Background(), "sadness", true)
	if len(got) != 0 {
		t.Errorf("adjective lookup of a noun = %+v, want none", got)
	}
	got, _ = idx.Synsets(context.Background(), "sadness", false)
	if len(got) != 1 || got[0].ID != "107555863" {
		t.Errorf("all-senses lookup = %+v", got)
	}
}

func TestIndexBaseForms(t *testing.T) {
	idx := NewIndex([]Sense{
		{SynsetID: 1, WordNumber: 1, Lemma: "happy", POS: Adjective, SenseNumber: 1},
		{SynsetID: 2, WordNumber: 1, Lemma: "feeling", POS: Noun, SenseNumber: 1},
		{SynsetID: 3, WordNumber: 1, Lemma: "feel", POS: Verb, SenseNumber: 1},
	})

	got, _ := idx.Synsets(context.Background(), "feelings", false)
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("feelings = %+v, want synset 2", got)
	}

	// "happier" only reduces to happi/happie, which are not in the index.
	got, _ = idx.Synsets(context.Background(), "happier", true)
	if len(got) != 0 {
		t.Errorf("happier = %+v, want none", got)
	}
}

func TestIndexFeedsResolver(t *testing.T) {
	senses, err := ParseProlog(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := vad.NewResolver(nil, vad.WithThesaurus(NewIndex(senses)))

	got := r.Explain(context.Background(), "elated")
	if got.Source != vad.SourceSynonym || got.Matched != "joyful" {
		t.Errorf("Explain(elated) = %+v, want synonym joyful", got)
	}

	got = r.Explain(context.Background(), "sadden")
	if got.Source != vad.SourceSynonymPartial || got.Matched != "sad" {
		t.Errorf("Explain(sadden) = %+v, want synonym-partial sad", got)
	}

	got = r.Explain(context.Background(), "felicity")
	if got.Source != vad.SourceNeutral {
		t.Errorf("Explain(felicity) = %+v, want neutral", got)
	}
}
