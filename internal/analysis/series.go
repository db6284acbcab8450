package analysis

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-gota/gota/series"
)

// ErrNoData is returned when an aggregation has no matching rows.
var ErrNoData = errors.New("no data")

// Point is one aggregated value; Count is the number of readings behind it.
type Point[K cmp.Ordered] struct {
	Key   K       `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Series is a key-sorted sequence of aggregated points.
type Series[K cmp.Ordered] []Point[K]

// ArgMax returns the point with the largest value. Ties go to the smallest key.
func (s Series[K]) ArgMax() (Point[K], error) {
	return s.extreme(func(v, best float64) bool { return v > best })
}

// ArgMin returns the point with the smallest value. Ties go to the smallest key.
func (s Series[K]) ArgMin() (Point[K], error) {
	return s.extreme(func(v, best float64) bool { return v < best })
}

func (s Series[K]) extreme(better func(v, best float64) bool) (Point[K], error) {
	if len(s) == 0 {
		return Point[K]{}, ErrNoData
	}
	best := s[0]
	for _, p := range s[1:] {
		if better(p.Value, best.Value) || (p.Value == best.Value && p.Key < best.Key) {
			best = p
		}
	}
	return best, nil
}

// Lookup returns the value stored under key.
func (s Series[K]) Lookup(key K) (float64, bool) {
	for _, p := range s {
		if p.Key == key {
			return p.Value, true
		}
	}
	return 0, false
}

// FilterThreshold keeps the points whose value satisfies "value op threshold",
// preserving order. Supported operators: > >= < <= == !=.
func FilterThreshold[K cmp.Ordered](s Series[K], op series.Comparator, threshold float64) (Series[K], error) {
	cmpFn, err := comparator(op)
	if err != nil {
		return nil, err
	}
	out := Series[K]{}
	for _, p := range s {
		if cmpFn(p.Value, threshold) {
			out = append(out, p)
		}
	}
	return out, nil
}

func comparator(op series.Comparator) (func(a, b float64) bool, error) {
	switch op {
	case series.Greater:
		return func(a, b float64) bool { return a > b }, nil
	case series.GreaterEq:
		return func(a, b float64) bool { return a >= b }, nil
	case series.Less:
		return func(a, b float64) bool { return a < b }, nil
	case series.LessEq:
		return func(a, b float64) bool { return a <= b }, nil
	case series.Eq:
		return func(a, b float64) bool { return a == b }, nil
	case series.Neq:
		return func(a, b float64) bool { return a != b }, nil
	}
	return nil, fmt.Errorf("unsupported comparison operator %q (use >, >=, <, <=, ==, !=)", op)
}

// ParseOperator validates a user supplied comparison operator.
func ParseOperator(s string) (series.Comparator, error) {
	op := series.Comparator(s)
	if _, err := comparator(op); err != nil {
		return "", err
	}
	return op, nil
}

type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.sum += v
	m.n++
}

// seriesFromAcc drops groups without observations and sorts by key.
func seriesFromAcc[K cmp.Ordered](acc map[K]*meanAcc) Series[K] {
	out := make(Series[K], 0, len(acc))
	for k, a := range acc {
		if a.n == 0 {
			continue
		}
		out = append(out, Point[K]{Key: k, Value: a.sum / float64(a.n), Count: a.n})
	}
	slices.SortFunc(out, func(a, b Point[K]) int { return cmp.Compare(a.Key, b.Key) })
	return out
}
