package catalog

import (
	"context"
	"slices"
	"sort"
)

// Memory is a read-only in-memory corpus. Safe for concurrent use.
type Memory struct {
	songs []Song
	byTag map[string][]int
}

// NewMemory indexes songs by tag. Songs are kept in ID order.
func NewMemory(songs []Song) *Memory {
	m := &Memory{
		songs: slices.Clone(songs),
		byTag: make(map[string][]int),
	}
	slices.SortStableFunc(m.songs, func(a, b Song) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	for i, s := range m.songs {
		for _, tag := range NormalizeTags(s.Tags) {
			m.byTag[tag] = append(m.byTag[tag], i)
		}
	}
	return m
}

// FindByTag returns songs carrying tag.
func (m *Memory) FindByTag(_ context.Context, tag string) ([]Song, error) {
	idxs := m.byTag[NormalizeTag(tag)]
	songs := make([]Song, len(idxs))
	for i, idx := range idxs {
		songs[i] = m.songs[idx]
	}
	return songs, nil
}

// FindByAnyTag returns songs carrying at least one of tags, with the number of
// distinct tags matched.
func (m *Memory) FindByAnyTag(_ context.Context, tags []string) ([]TagMatch, error) {
	counts := make(map[int]int)
	for _, tag := range NormalizeTags(tags) {
		for _, idx := range m.byTag[tag] {
			counts[idx]++
		}
	}

	idxs := make([]int, 0, len(counts))
	for idx := range counts {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	matches := make([]TagMatch, len(idxs))
	for i, idx := range idxs {
		matches[i] = TagMatch{Song: m.songs[idx], Matches: counts[idx]}
	}
	return matches, nil
}

// ListDistinctTags returns every tag in sorted order.
func (m *Memory) ListDistinctTags(_ context.Context) ([]string, error) {
	tags := make([]string, 0, len(m.byTag))
	for tag := range m.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// All returns every song in ID order.
func (m *Memory) All(_ context.Context) ([]Song, error) {
	return slices.Clone(m.songs), nil
}

// Len returns the number of songs.
func (m *Memory) Len() int {
	return len(m.songs)
}
