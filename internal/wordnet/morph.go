package wordnet

import "strings"

type substitution struct {
	suffix, replacement string
}

// Detachment rules from WordNet's morphy, per part of speech.
var substitutions = map[POS][]substitution{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"ves", "f"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Adjective: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
}

// BaseForms returns candidate base forms of word for pos: the word itself
// first, then each detachment in rule order, without duplicates. Candidates
// are not checked against the dictionary.
func BaseForms(word string, pos POS) []string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil
	}
	if pos == Satellite {
		pos = Adjective
	}

	forms := []string{word}
	seen := map[string]bool{word: true}
	for _, sub := range substitutions[pos] {
		if !strings.HasSuffix(word, sub.suffix) {
			continue
		}
		form := strings.TrimSuffix(word, sub.suffix) + sub.replacement
		if form == "" || seen[form] {
			continue
		}
		seen[form] = true
		forms = append(forms, form)
	}
	return forms
}

// SearchOrder lists the parts of speech searched for a lookup. Adjective
// covers satellites too.
func SearchOrder(adjectivesOnly bool) []POS {
	if adjectivesOnly {
		return []POS{Adjective}
	}
	return []POS{Noun, Verb, Adjective, Adverb}
}

// matches reports whether a sense's type belongs to the searched pos.
func (p POS) matches(search POS) bool {
	if search == Adjective {
		return p == Adjective || p == Satellite
	}
	return p == search
}

// Candidates returns every lookup key a Synsets call for word may probe.
func Candidates(word string, adjectivesOnly bool) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, pos := range SearchOrder(adjectivesOnly) {
		for _, form := range BaseForms(word, pos) {
			if !seen[form] {
				seen[form] = true
				keys = append(keys, form)
			}
		}
	}
	return keys
}
