package analysis

import (
	"github.com/KaramelBytes/airq-cli/internal/aqi"
	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// Classify assigns the AQI category of every reading from its PM2.5 value.
func Classify(t *dataset.Table) {
	for i := range t.Readings {
		r := &t.Readings[i]
		r.Category = aqi.Categorize(r.PM25)
	}
}

// CategoryCount is the number of readings in one category.
type CategoryCount struct {
	Category aqi.Category `json:"category"`
	Count    int          `json:"count"`
}

// CategoryCounts tallies all six categories in ordinal order, zeros included.
func CategoryCounts(t *dataset.Table) []CategoryCount {
	counts := make([]CategoryCount, len(aqi.Categories))
	for i, c := range aqi.Categories {
		counts[i].Category = c
	}
	for i := range t.Readings {
		c := t.Readings[i].Category
		if int(c) >= 0 && int(c) < len(counts) {
			counts[c].Count++
		}
	}
	return counts
}
