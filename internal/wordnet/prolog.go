// Package wordnet reads the WordNet prolog distribution and serves synonym
// sets for the VAD resolver.
package wordnet

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// POS is a WordNet synset type.
type POS byte

const (
	Noun      POS = 'n'
	Verb      POS = 'v'
	Adjective POS = 'a'
	Satellite POS = 's' // adjective satellite
	Adverb    POS = 'r'
)

// ErrMalformedLine is returned for s/6 facts that cannot be parsed.
var ErrMalformedLine = errors.New("malformed wordnet line")

// Sense is one word in one synset, as listed in wn_s.pl.
type Sense struct {
	SynsetID    int64
	WordNumber  int    // position of the word inside its synset
	Lemma       string // lemma name, spaces replaced with underscores
	POS         POS
	SenseNumber int // rank of this synset among the word's senses
	TagCount    int
}

// Key is the lookup form of the lemma.
func (s Sense) Key() string {
	return strings.ToLower(s.Lemma)
}

// ParseProlog reads s/6 facts from a wn_s.pl file. Lines that are not s/6
// facts (comments, blank lines) are skipped.
func ParseProlog(r io.Reader) ([]Sense, error) {
	var senses []Sense

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "s(") {
			continue
		}
		sense, err := parseFact(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		senses = append(senses, sense)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading wordnet file: %w", err)
	}
	return senses, nil
}

// parseFact parses s(synset_id,w_num,'word',ss_type,sense_number,tag_count).
func parseFact(line string) (Sense, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(line, "s("), ").")

	idStr, rest, ok := strings.Cut(body, ",")
	if !ok {
		return Sense{}, fmt.Errorf("%w: missing synset id", ErrMalformedLine)
	}
	wnumStr, rest, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasPrefix(rest, "'") {
		return Sense{}, fmt.Errorf("%w: missing word", ErrMalformedLine)
	}

	word, rest, err := unquote(rest)
	if err != nil {
		return Sense{}, err
	}

	fields := strings.Split(strings.TrimPrefix(rest, ","), ",")
	if len(fields) != 3 || len(fields[0]) != 1 {
		return Sense{}, fmt.Errorf("%w: expected ss_type,sense_number,tag_count", ErrMalformedLine)
	}

	synsetID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return Sense{}, fmt.Errorf("%w: synset id %q", ErrMalformedLine, idStr)
	}
	wnum, err := strconv.Atoi(wnumStr)
	if err != nil {
		return Sense{}, fmt.Errorf("%w: word number %q", ErrMalformedLine, wnumStr)
	}
	senseNum, err := strconv.Atoi(fields[1])
	if err != nil {
		return Sense{}, fmt.Errorf("%w: sense number %q", ErrMalformedLine, fields[1])
	}
	tagCount, err := strconv.Atoi(fields[2])
	if err != nil {
		return Sense{}, fmt.Errorf("%w: tag count %q", ErrMalformedLine, fields[2])
	}

	return Sense{
		SynsetID:    synsetID,
		WordNumber:  wnum,
		Lemma:       strings.ReplaceAll(word, " ", "_"),
		POS:         POS(fields[0][0]),
		SenseNumber: senseNum,
		TagCount:    tagCount,
	}, nil
}

// unquote reads a single-quoted prolog atom, in which a doubled quote stands
// for one quote, and returns the atom and whatever follows the closing quote.
func unquote(s string) (string, string, error) {
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			sb.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			sb.WriteByte('\'')
			i++
			continue
		}
		return sb.String(), s[i+1:], nil
	}
	return "", "", fmt.Errorf("%w: unterminated word", ErrMalformedLine)
}
