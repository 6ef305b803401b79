package wordnet

import (
	"context"
	"slices"
	"strconv"

	"github.com/justestif/go-mood-recommender/internal/vad"
)

// Index is an in-memory thesaurus built from parsed senses.
// It is read-only after construction.
type Index struct {
	byKey  map[string][]Sense
	lemmas map[int64][]string
}

// NewIndex builds an index. Senses of a word are ordered by sense number and
// lemmas of a synset by word number.
func NewIndex(senses []Sense) *Index {
	idx := &Index{
		byKey:  make(map[string][]Sense),
		lemmas: make(map[int64][]string),
	}

	sorted := slices.Clone(senses)
	slices.SortStableFunc(sorted, func(a, b Sense) int {
		if a.SynsetID != b.SynsetID {
			if a.SynsetID < b.SynsetID {
				return -1
			}
			return 1
		}
		return a.WordNumber - b.WordNumber
	})
	for _, s := range sorted {
		idx.lemmas[s.SynsetID] = append(idx.lemmas[s.SynsetID], s.Lemma)
		idx.byKey[s.Key()] = append(idx.byKey[s.Key()], s)
	}
	for key := range idx.byKey {
		slices.SortStableFunc(idx.byKey[key], func(a, b Sense) int {
			return a.SenseNumber - b.SenseNumber
		})
	}
	return idx
}

// Len returns the number of distinct synsets.
func (idx *Index) Len() int {
	return len(idx.lemmas)
}

// Synsets implements vad.Thesaurus.
func (idx *Index) Synsets(_ context.Context, word string, adjectivesOnly bool) ([]vad.Synset, error) {
	var out []vad.Synset
	seen := make(map[int64]bool)

	for _, pos := range SearchOrder(adjectivesOnly) {
		for _, form := range BaseForms(word, pos) {
			for _, s := range idx.byKey[form] {
				if !s.POS.matches(pos) || seen[s.SynsetID] {
					continue
				}
				seen[s.SynsetID] = true
				out = append(out, vad.Synset{
					ID:     strconv.FormatInt(s.SynsetID, 10),
					Lemmas: slices.Clone(idx.lemmas[s.SynsetID]),
				})
			}
		}
	}
	return out, nil
}
