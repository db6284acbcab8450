package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of one numeric column.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

// ColumnStats pairs a column with its summary for reports.
type ColumnStats struct {
	Column  dataset.Column `json:"column"`
	Summary Summary        `json:"summary"`
}

// Describe computes count, mean, sample standard deviation, min, quartiles and
// max over the non-missing values of col. Std is 0 with fewer than two values.
func Describe(t *dataset.Table, col dataset.Column) (Summary, error) {
	vals := observed(t, col)
	if len(vals) == 0 {
		return Summary{}, fmt.Errorf("describe %s: %w", col, ErrNoData)
	}
	sort.Float64s(vals)
	s := Summary{
		Count: len(vals),
		Min:   vals[0],
		Max:   vals[len(vals)-1],
		Q25:   quantile(vals, 0.25),
		Q50:   quantile(vals, 0.5),
		Q75:   quantile(vals, 0.75),
	}
	if len(vals) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(vals, nil)
	} else {
		s.Mean = vals[0]
	}
	return s, nil
}

// median of unsorted values; false when there are none.
func median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return quantile(cp, 0.5), true
}

// quantile uses linear interpolation between closest ranks on sorted input.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
