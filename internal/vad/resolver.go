package vad

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Source names the fallback step that produced a resolution.
type Source string

const (
	SourceExact          Source = "exact"
	SourceSynonym        Source = "synonym"
	SourceSynonymPartial Source = "synonym-partial"
	SourceRelated        Source = "related"
	SourcePartial        Source = "partial"
	SourceNeutral        Source = "neutral"
)

// Synset is one synonym set, lemmas in thesaurus order.
type Synset struct {
	ID     string
	Lemmas []string
}

// Thesaurus looks up synonym sets for a word. When adjectivesOnly is set,
// only adjective senses (including satellites) are returned.
type Thesaurus interface {
	Synsets(ctx context.Context, word string, adjectivesOnly bool) ([]Synset, error)
}

// Resolution is a resolved triple plus how it was found.
type Resolution struct {
	Word    string `json:"word"`
	Triple  Triple `json:"vad"`
	Source  Source `json:"source"`
	Matched string `json:"matched,omitempty"` // lexicon word that supplied the triple
}

// Resolver resolves free-text emotion words to VAD triples. It never fails:
// thesaurus errors count as "no match" for the step that hit them.
type Resolver struct {
	lexicon   *Lexicon
	thesaurus Thesaurus
	log       zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThesaurus enables the synonym steps of the fallback chain.
func WithThesaurus(t Thesaurus) Option {
	return func(r *Resolver) {
		r.thesaurus = t
	}
}

// WithLogger sets the logger used for absorbed lookup failures.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// NewResolver creates a resolver over the given lexicon.
// A nil lexicon means DefaultLexicon.
func NewResolver(lexicon *Lexicon, opts ...Option) *Resolver {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	r := &Resolver{
		lexicon: lexicon,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the VAD triple for word.
func (r *Resolver) Resolve(ctx context.Context, word string) Triple {
	return r.Explain(ctx, word).Triple
}

// Explain resolves word and reports which step matched.
//
// Steps, first hit wins:
//  1. exact lexicon match
//  2. exact match of a lemma from the first synset (adjective senses preferred)
//  3. partial match of a first-synset lemma against lexicon words
//  4. exact match of a lemma from any synset
//  5. partial match of the word itself
//  6. Neutral
func (r *Resolver) Explain(ctx context.Context, word string) Resolution {
	w := strings.ToLower(strings.TrimSpace(word))
	res := Resolution{Word: w}

	if t, ok := r.lexicon.Lookup(w); ok {
		res.Triple, res.Source, res.Matched = t, SourceExact, w
		return res
	}
	if w == "" {
		res.Triple, res.Source = Neutral, SourceNeutral
		return res
	}

	if synsets := r.synsets(ctx, w); len(synsets) > 0 {
		first := synsets[0].Lemmas

		for _, lemma := range first {
			if t, ok := r.lexicon.Lookup(lemma); ok {
				res.Triple, res.Source, res.Matched = t, SourceSynonym, lemma
				return res
			}
		}

		for _, lemma := range first {
			if e, ok := r.lexicon.Partial(lemma); ok {
				res.Triple, res.Source, res.Matched = e.Triple, SourceSynonymPartial, e.Word
				return res
			}
		}

		for _, s := range synsets {
			for _, lemma := range s.Lemmas {
				if t, ok := r.lexicon.Lookup(lemma); ok {
					res.Triple, res.Source, res.Matched = t, SourceRelated, lemma
					return res
				}
			}
		}
	}

	if e, ok := r.lexicon.Partial(w); ok {
		res.Triple, res.Source, res.Matched = e.Triple, SourcePartial, e.Word
		return res
	}

	res.Triple, res.Source = Neutral, SourceNeutral
	return res
}

// synsets queries the thesaurus, adjective senses first, then all senses.
// Errors are logged and treated as no synsets.
func (r *Resolver) synsets(ctx context.Context, word string) []Synset {
	if r.thesaurus == nil {
		return nil
	}

	synsets, err := r.thesaurus.Synsets(ctx, word, true)
	if err != nil {
		r.log.Debug().Err(err).Str("word", word).Msg("adjective synset lookup failed")
		synsets = nil
	}
	if len(synsets) > 0 {
		return synsets
	}

	synsets, err = r.thesaurus.Synsets(ctx, word, false)
	if err != nil {
		r.log.Debug().Err(err).Str("word", word).Msg("synset lookup failed")
		return nil
	}
	return synsets
}
