package analysis

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gota/gota/series"
	"github.com/google/uuid"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// Options tunes a pipeline run.
type Options struct {
	// FocusStation is the station whose daily PM2.5 means are tested against DailyThreshold.
	FocusStation   string
	DailyThreshold float64
	ThresholdOp    series.Comparator
	HourlyStation  string
	// HourlyDay selects the day to resample; zero means the first date in the table.
	HourlyDay   time.Time
	SampleRows  int
	Pollutants  []dataset.Column
	CorrColumns []dataset.Column
}

// DefaultOptions returns the standard analysis settings.
func DefaultOptions() Options {
	return Options{
		FocusStation:   "S003",
		DailyThreshold: 50,
		ThresholdOp:    series.Greater,
		HourlyStation:  "S001",
		SampleRows:     5,
		Pollutants:     append([]dataset.Column(nil), dataset.Pollutants...),
		CorrColumns:    append([]dataset.Column(nil), dataset.NumericColumns...),
	}
}

// Analyze runs clean, classify and every aggregation over t and assembles the
// report. t is cleaned in place. Any stage failure aborts the run.
func Analyze(t *dataset.Table, opt Options) (*Report, error) {
	if t.Len() == 0 {
		return nil, fmt.Errorf("analyze %s: %w", t.Name, ErrNoData)
	}
	if opt.ThresholdOp == "" {
		opt.ThresholdOp = series.Greater
	}
	if len(opt.Pollutants) == 0 {
		opt.Pollutants = dataset.Pollutants
	}
	if len(opt.CorrColumns) == 0 {
		opt.CorrColumns = dataset.NumericColumns
	}

	rep := &Report{
		RunID:        uuid.New().String(),
		Name:         t.Name,
		GeneratedAt:  time.Now().UTC(),
		Rows:         t.Len(),
		Rejected:     t.Rejected,
		Stations:     Stations(t),
		SampleHeader: dataset.Header,
	}
	rep.Warnings = append(rep.Warnings, t.Warnings...)
	for i := 0; i < opt.SampleRows && i < t.Len(); i++ {
		rep.Samples = append(rep.Samples, t.Readings[i].Record())
	}

	cs, err := Clean(t, TargetColumns)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	rep.Cleaning = cs
	for _, c := range cs.Columns {
		if c.Missing > 0 || c.Clamped > 0 {
			slog.Debug("cleaned column", "column", c.Column.String(), "filled", c.Missing, "fill", c.Fill, "clamped", c.Clamped)
		}
	}

	Classify(t)
	rep.Categories = CategoryCounts(t)

	for _, c := range opt.Pollutants {
		s, err := Describe(t, c)
		if err != nil {
			return nil, err
		}
		rep.Describe = append(rep.Describe, ColumnStats{Column: c, Summary: s})
	}

	if rep.Corr, err = CorrelationMatrix(t, opt.CorrColumns); err != nil {
		return nil, err
	}
	for i := range rep.Corr.Columns {
		if _, ok := rep.Corr.At(i, i); !ok {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s is constant; its correlations are undefined", rep.Corr.Columns[i]))
		}
	}

	if rep.StationPM25, err = MeanByGroup(t, ByStation, dataset.PM25); err != nil {
		return nil, err
	}
	if rep.HighestPM25, err = rep.StationPM25.ArgMax(); err != nil {
		return nil, err
	}
	if rep.StationO3, err = MeanByGroup(t, ByStation, dataset.O3); err != nil {
		return nil, err
	}
	if rep.LowestO3, err = rep.StationO3.ArgMin(); err != nil {
		return nil, err
	}

	focus := FilterStation(t, opt.FocusStation)
	if focus.Len() == 0 {
		return nil, fmt.Errorf("focus station %s: %w", opt.FocusStation, ErrNoData)
	}
	daily, err := MeanByGroup(focus, ByDate, dataset.PM25)
	if err != nil {
		return nil, fmt.Errorf("focus station %s: %w", opt.FocusStation, err)
	}
	exceed, err := FilterThreshold(daily, opt.ThresholdOp, opt.DailyThreshold)
	if err != nil {
		return nil, err
	}
	rep.Focus = DailyExceedance{
		Station:     opt.FocusStation,
		Operator:    string(opt.ThresholdOp),
		Threshold:   opt.DailyThreshold,
		Daily:       daily,
		Exceedances: exceed,
	}
	slog.Debug("daily exceedances", "station", opt.FocusStation, "days", len(daily), "exceeding", len(exceed))

	day := opt.HourlyDay
	if day.IsZero() {
		if day, err = FirstDate(t); err != nil {
			return nil, err
		}
	}
	hours, err := ResampleHourly(t, opt.HourlyStation, day, dataset.PM25)
	if err != nil {
		return nil, err
	}
	peak, err := hours.ArgMax()
	if err != nil {
		return nil, err
	}
	rep.Hourly = HourlyProfile{
		Station: opt.HourlyStation,
		Day:     day.Format(dataset.DateLayout),
		Hours:   hours,
		Peak:    peak,
	}

	slog.Debug("analysis complete", "run_id", rep.RunID, "rows", rep.Rows, "stations", len(rep.Stations))
	return rep, nil
}
