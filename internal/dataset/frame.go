package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	timeRounding    = time.Second
)

var timestampLayouts = []string{
	timestampLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04",
	"2006/01/02 15:04:05", "2006/01/02 15:04", "1/2/2006 15:04", "1/2/2006 15:04:05", "2006-01-02",
}

var errNotFinite = errors.New("value is not finite")

// FromFrame converts an all-string DataFrame into a Table, validating the schema first.
// Row numbers in errors assume one line per frame row after the header.
func FromFrame(df dataframe.DataFrame, name string, opt Options) (*Table, error) {
	return fromSheet(&Sheet{Frame: df}, name, opt)
}

func fromSheet(sh *Sheet, name string, opt Options) (*Table, error) {
	df := sh.Frame
	bound, err := bindColumns(df.Names())
	if err != nil {
		return nil, err
	}
	var cols [fieldCount]series.Series
	for f := field(0); f < fieldCount; f++ {
		cols[f] = df.Col(bound[f])
		if cols[f].Err != nil {
			return nil, fmt.Errorf("column %s: %w", bound[f], cols[f].Err)
		}
	}

	t := &Table{Name: name, Readings: make([]Reading, 0, df.Nrow())}
	reject := func(err error) error {
		if !opt.SkipInvalid {
			return err
		}
		t.Rejected++
		t.Warnings = append(t.Warnings, fmt.Sprintf("rejected %v", err))
		return nil
	}
	// records dropped by the source are interleaved by line so the first bad row wins
	pending := sh.Rejected
	for i := 0; i < df.Nrow(); i++ {
		row := sh.row(i)
		for len(pending) > 0 && pending[0].Row < row {
			if err := reject(pending[0]); err != nil {
				return nil, err
			}
			pending = pending[1:]
		}
		r, err := parseRow(i, row, bound, cols)
		if err != nil {
			if err := reject(err); err != nil {
				return nil, err
			}
			continue
		}
		t.Readings = append(t.Readings, r)
	}
	for _, pe := range pending {
		if err := reject(pe); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseRow(i, row int, bound [fieldCount]string, cols [fieldCount]series.Series) (Reading, error) {
	var r Reading

	station, na := cell(cols[fieldStation], i)
	if na || station == "" {
		return r, &ParseError{Row: row, Column: bound[fieldStation], Value: station, Err: errors.New("station is empty")}
	}
	r.Station = station

	raw, na := cell(cols[fieldTimestamp], i)
	if na {
		return r, &ParseError{Row: row, Column: bound[fieldTimestamp], Err: errors.New("timestamp is empty")}
	}
	ts, err := parseTimestamp(raw)
	if err != nil {
		return r, &ParseError{Row: row, Column: bound[fieldTimestamp], Value: raw, Err: err}
	}
	r.Timestamp = ts

	for _, c := range NumericColumns {
		f := numericField(c)
		raw, na := cell(cols[f], i)
		if na {
			r.Set(c, math.NaN())
			continue
		}
		v, err := parseNumber(raw)
		if err != nil {
			return r, &ParseError{Row: row, Column: bound[f], Value: raw, Err: err}
		}
		r.Set(c, v)
	}
	return r, nil
}

// cell returns the trimmed text of a cell and whether it is missing.
func cell(s series.Series, i int) (string, bool) {
	e := s.Elem(i)
	if e.IsNA() {
		return "", true
	}
	v := strings.TrimSpace(e.String())
	for _, m := range missingMarkers {
		if v == m {
			return "", true
		}
	}
	return v, false
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errNotFinite
	}
	return v, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, l := range timestampLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp layout")
}
