package moodmap

import (
	"fmt"
	"strings"
)

// FormatSummary returns a human-readable summary of the regions.
func FormatSummary(m *Map) string {
	var sb strings.Builder

	total := m.Outliers
	for _, r := range m.Regions {
		total += r.Size
	}

	if len(m.Regions) == 0 {
		sb.WriteString(fmt.Sprintf("No mood regions found from %d songs\n", total))
		return sb.String()
	}

	regionWord := "region"
	if len(m.Regions) > 1 {
		regionWord = "regions"
	}
	sb.WriteString(fmt.Sprintf("Found %d mood %s from %d songs", len(m.Regions), regionWord, total))
	if m.Outliers > 0 {
		sb.WriteString(fmt.Sprintf(" (%d outliers)", m.Outliers))
	}
	sb.WriteString("\n\n")

	for i, r := range m.Regions {
		sb.WriteString(fmt.Sprintf("%d. %s (%d songs)\n", i+1, r.Name, r.Size))
		sb.WriteString(fmt.Sprintf("   VAD: %.2f / %.2f / %.2f\n", r.Centroid.Valence, r.Centroid.Arousal, r.Centroid.Dominance))
		if len(r.TopTags) > 0 {
			sb.WriteString(fmt.Sprintf("   Tags: %s\n", strings.Join(r.TopTags, ", ")))
		}
	}
	return sb.String()
}
