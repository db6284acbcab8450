package analysis

import (
	"fmt"
	"slices"
	"time"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// GroupKey derives the partition key of a reading.
type GroupKey func(r *dataset.Reading) string

// ByStation groups readings per monitoring station.
func ByStation(r *dataset.Reading) string { return r.Station }

// ByDate groups readings per calendar date (YYYY-MM-DD).
func ByDate(r *dataset.Reading) string { return r.Date() }

// MeanByGroup averages col within each group. Missing values are skipped.
func MeanByGroup(t *dataset.Table, key GroupKey, col dataset.Column) (Series[string], error) {
	acc := map[string]*meanAcc{}
	for i := range t.Readings {
		r := &t.Readings[i]
		k := key(r)
		a := acc[k]
		if a == nil {
			a = &meanAcc{}
			acc[k] = a
		}
		a.add(r.Value(col))
	}
	s := seriesFromAcc(acc)
	if len(s) == 0 {
		return nil, fmt.Errorf("mean of %s by group: %w", col, ErrNoData)
	}
	return s, nil
}

// FilterStation returns a table holding copies of the station's readings.
func FilterStation(t *dataset.Table, station string) *dataset.Table {
	out := &dataset.Table{Name: t.Name}
	for _, r := range t.Readings {
		if r.Station == station {
			out.Readings = append(out.Readings, r)
		}
	}
	return out
}

// Stations returns the distinct station ids in sorted order.
func Stations(t *dataset.Table) []string {
	seen := map[string]struct{}{}
	var out []string
	for i := range t.Readings {
		s := t.Readings[i].Station
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// FirstDate returns midnight of the earliest calendar date in the table.
func FirstDate(t *dataset.Table) (time.Time, error) {
	if t.Len() == 0 {
		return time.Time{}, fmt.Errorf("first date: %w", ErrNoData)
	}
	first := t.Readings[0].Timestamp
	for _, r := range t.Readings[1:] {
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
	}
	y, m, d := first.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, first.Location()), nil
}
