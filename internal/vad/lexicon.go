// Package vad maps emotion words to points in valence/arousal/dominance space.
package vad

import "strings"

// Triple is a point in VAD space. Lexicon values lie in [0,1] on every axis.
type Triple struct {
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
}

// Neutral is returned when nothing in the fallback chain matches.
var Neutral = Triple{Valence: 0.5, Arousal: 0.5, Dominance: 0.5}

// Entry is one curated lexicon word.
type Entry struct {
	Word   string
	Triple Triple
}

// Lexicon is an ordered word list. Partial matching walks it front to back,
// so the order decides which key wins when several could match.
type Lexicon struct {
	entries []Entry
	index   map[string]int
}

// NewLexicon builds a lexicon from entries in the given order.
// Words are lowercased and trimmed; later duplicates are ignored.
func NewLexicon(entries []Entry) *Lexicon {
	l := &Lexicon{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		word := strings.ToLower(strings.TrimSpace(e.Word))
		if word == "" {
			continue
		}
		if _, dup := l.index[word]; dup {
			continue
		}
		l.index[word] = len(l.entries)
		l.entries = append(l.entries, Entry{Word: word, Triple: e.Triple})
	}
	return l
}

// Lookup returns the triple for an exact word.
func (l *Lexicon) Lookup(word string) (Triple, bool) {
	i, ok := l.index[word]
	if !ok {
		return Triple{}, false
	}
	return l.entries[i].Triple, true
}

// Partial returns the first entry (in lexicon order) whose word contains s
// or is contained in s.
func (l *Lexicon) Partial(s string) (Entry, bool) {
	if s == "" {
		return Entry{}, false
	}
	for _, e := range l.entries {
		if strings.Contains(e.Word, s) || strings.Contains(s, e.Word) {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the lexicon in order.
func (l *Lexicon) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of words.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// DefaultLexicon returns the curated emotion lexicon.
func DefaultLexicon() *Lexicon {
	return NewLexicon([]Entry{
		// High valence
		{"happy", Triple{0.9, 0.7, 0.6}},
		{"peaceful", Triple{0.8, 0.2, 0.5}},
		{"calm", Triple{0.7, 0.2, 0.5}},
		{"relaxed", Triple{0.7, 0.3, 0.5}},
		{"joyful", Triple{0.9, 0.8, 0.6}},
		{"content", Triple{0.8, 0.4, 0.5}},
		{"serene", Triple{0.8, 0.2, 0.5}},
		{"love", Triple{0.9, 0.6, 0.5}},

		// Low valence
		{"sad", Triple{0.2, 0.3, 0.3}},
		{"angry", Triple{0.2, 0.8, 0.7}},
		{"fear", Triple{0.2, 0.7, 0.3}},
		{"anxious", Triple{0.3, 0.7, 0.3}},
		{"depressed", Triple{0.1, 0.3, 0.2}},
		{"melancholic", Triple{0.3, 0.4, 0.3}},
		{"gloomy", Triple{0.2, 0.3, 0.3}},

		// High arousal
		{"excited", Triple{0.8, 0.9, 0.6}},
		{"energetic", Triple{0.7, 0.9, 0.7}},
		{"dynamic", Triple{0.7, 0.8, 0.6}},
		{"lively", Triple{0.8, 0.8, 0.6}},
		{"powerful", Triple{0.6, 0.8, 0.8}},

		// Low arousal
		{"sleepy", Triple{0.5, 0.2, 0.3}},
		{"tired", Triple{0.3, 0.2, 0.3}},
		{"gentle", Triple{0.7, 0.3, 0.4}},
		{"soft", Triple{0.6, 0.2, 0.4}},

		// High dominance
		{"confident", Triple{0.7, 0.6, 0.8}},
		{"strong", Triple{0.6, 0.7, 0.8}},
		{"dominant", Triple{0.5, 0.7, 0.9}},

		// Low dominance
		{"weak", Triple{0.3, 0.3, 0.2}},
		{"submissive", Triple{0.4, 0.3, 0.1}},
		{"vulnerable", Triple{0.3, 0.4, 0.2}},

		// Mixed
		{"nostalgic", Triple{0.6, 0.4, 0.5}},
		{"bittersweet", Triple{0.5, 0.4, 0.4}},
		{"mysterious", Triple{0.5, 0.6, 0.5}},
		{"dreamy", Triple{0.7, 0.3, 0.4}},
		{"romantic", Triple{0.8, 0.5, 0.5}},
	})
}
