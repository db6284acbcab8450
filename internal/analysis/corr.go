package analysis

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix is a symmetric Pearson correlation matrix. Entries touching a
// zero-variance column are NaN.
type CorrMatrix struct {
	Columns []dataset.Column
	Values  [][]float64
}

// At returns the coefficient for columns i and j; false when undefined.
func (m *CorrMatrix) At(i, j int) (float64, bool) {
	v := m.Values[i][j]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Index returns the position of c in the matrix, or -1.
func (m *CorrMatrix) Index(c dataset.Column) int {
	for i, col := range m.Columns {
		if col == c {
			return i
		}
	}
	return -1
}

// MarshalJSON writes undefined coefficients as null.
func (m *CorrMatrix) MarshalJSON() ([]byte, error) {
	vals := make([][]*float64, len(m.Values))
	for i := range m.Values {
		vals[i] = make([]*float64, len(m.Values[i]))
		for j := range m.Values[i] {
			if v, ok := m.At(i, j); ok {
				vals[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Columns []dataset.Column `json:"columns"`
		Values  [][]*float64     `json:"values"`
	}{m.Columns, vals})
}

// CorrelationMatrix computes pairwise Pearson coefficients over rows where
// both columns are present.
func CorrelationMatrix(t *dataset.Table, cols []dataset.Column) (*CorrMatrix, error) {
	if t.Len() == 0 {
		return nil, fmt.Errorf("correlation matrix: %w", ErrNoData)
	}
	n := len(cols)
	m := &CorrMatrix{Columns: append([]dataset.Column(nil), cols...), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pearson(t.Values(cols[i]), t.Values(cols[j]))
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	// rounding can push |r| just past 1
	return math.Max(-1, math.Min(1, r))
}
