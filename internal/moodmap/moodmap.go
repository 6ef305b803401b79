// Package moodmap partitions the corpus into named mood regions of VAD space.
package moodmap

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/go-mood-recommender/internal/catalog"
	"github.com/justestif/go-mood-recommender/internal/vad"
)

// Config holds region detection parameters.
type Config struct {
	Regions       int // Number of k-means clusters (default: 6)
	MinRegionSize int // Smaller clusters count as outliers
}

// DefaultConfig returns the recommended default configuration.
func DefaultConfig() Config {
	return Config{
		Regions:       6,
		MinRegionSize: 3,
	}
}

// topTagCount is the number of tags listed per region.
const topTagCount = 3

// Region is a cluster of songs with similar normalized VAD.
type Region struct {
	Name     string     `json:"name"`
	Centroid vad.Triple `json:"centroid"`
	Size     int        `json:"size"`
	TopTags  []string   `json:"top_tags"`
}

// Map is the set of regions computed for a corpus. Read-only once built.
type Map struct {
	Regions  []Region `json:"regions"`
	Outliers int      `json:"outliers"`
}

// songObservation wraps a Song to implement clusters.Observation.
type songObservation struct {
	song   *catalog.Song
	coords clusters.Coordinates
}

func (o songObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o songObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Build groups songs by normalized VAD using k-means. With fewer songs than
// regions every song is an outlier. Regions are ordered by size, largest
// first.
func Build(songs []catalog.Song, cfg Config) (*Map, error) {
	if cfg.Regions <= 0 {
		cfg.Regions = DefaultConfig().Regions
	}
	if len(songs) < cfg.Regions {
		return &Map{Outliers: len(songs)}, nil
	}

	var obs clusters.Observations
	for i := range songs {
		n := songs[i].Normalized
		obs = append(obs, songObservation{
			song:   &songs[i],
			coords: clusters.Coordinates{n.Valence, n.Arousal, n.Dominance},
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.Regions)
	if err != nil {
		return nil, fmt.Errorf("partitioning songs: %w", err)
	}

	m := &Map{}
	for _, cluster := range result {
		var members []*catalog.Song
		for _, o := range cluster.Observations {
			if so, ok := o.(songObservation); ok {
				members = append(members, so.song)
			}
		}

		if len(members) == 0 || len(members) < cfg.MinRegionSize {
			m.Outliers += len(members)
			continue
		}

		centroid := vad.Triple{
			Valence:   cluster.Center[0],
			Arousal:   cluster.Center[1],
			Dominance: cluster.Center[2],
		}
		m.Regions = append(m.Regions, Region{
			Name:     regionName(centroid),
			Centroid: centroid,
			Size:     len(members),
			TopTags:  topTags(members, topTagCount),
		})
	}

	slices.SortFunc(m.Regions, func(a, b Region) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return m, nil
}

// Nearest returns the region whose centroid is closest to t.
func (m *Map) Nearest(t vad.Triple) (Region, bool) {
	if m == nil || len(m.Regions) == 0 {
		return Region{}, false
	}

	best, bestDist := 0, math.Inf(1)
	for i, r := range m.Regions {
		d := clusters.Coordinates{r.Centroid.Valence, r.Centroid.Arousal, r.Centroid.Dominance}.
			Distance(clusters.Coordinates{t.Valence, t.Arousal, t.Dominance})
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return m.Regions[best], true
}

// topTags returns the n most frequent tags among songs, ties alphabetical.
func topTags(songs []*catalog.Song, n int) []string {
	counts := make(map[string]int)
	for _, s := range songs {
		for _, tag := range s.Tags {
			counts[tag]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	slices.SortFunc(tags, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	return tags[:min(n, len(tags))]
}
