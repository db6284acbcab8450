package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// ErrNoObservations is returned when a column has nothing to take a median from.
var ErrNoObservations = errors.New("cannot impute column with no observations")

// TargetColumns are the columns imputed and clamped by Clean.
var TargetColumns = dataset.NumericColumns

// ColumnClean records what Clean did to one column.
type ColumnClean struct {
	Column  dataset.Column `json:"column"`
	Missing int            `json:"missing"`
	Fill    float64        `json:"fill"`
	Clamped int            `json:"clamped"`
}

// CleanSummary lists per-column cleaning results in processing order.
type CleanSummary struct {
	Columns []ColumnClean `json:"columns"`
}

// Clean fills missing values with the column median and clamps every value to
// be non-negative, mutating t in place. Medians are taken from the observed
// values before any fill. If any column has no observations, t is untouched.
func Clean(t *dataset.Table, cols []dataset.Column) (CleanSummary, error) {
	fills := make([]float64, len(cols))
	for i, c := range cols {
		m, ok := median(observed(t, c))
		if !ok {
			return CleanSummary{}, fmt.Errorf("column %s: %w", c, ErrNoObservations)
		}
		fills[i] = m
	}

	sum := CleanSummary{Columns: make([]ColumnClean, 0, len(cols))}
	for i, c := range cols {
		cc := ColumnClean{Column: c, Fill: fills[i]}
		for j := range t.Readings {
			r := &t.Readings[j]
			v := r.Value(c)
			if math.IsNaN(v) {
				v = fills[i]
				cc.Missing++
			}
			if v < 0 {
				v = 0
				cc.Clamped++
			}
			r.Set(c, v)
		}
		sum.Columns = append(sum.Columns, cc)
	}
	return sum, nil
}

// observed returns the non-missing values of a column.
func observed(t *dataset.Table, c dataset.Column) []float64 {
	out := make([]float64, 0, t.Len())
	for i := range t.Readings {
		if v := t.Readings[i].Value(c); !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
