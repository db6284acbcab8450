// Package export writes analysis reports to spreadsheet workbooks.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/airq-cli/internal/analysis"
)

// Sheet names in workbook order.
const (
	SheetSummary     = "Summary"
	SheetSamples     = "Samples"
	SheetCleaning    = "Cleaning"
	SheetDescribe    = "Describe"
	SheetCorrelation = "Correlation"
	SheetStations    = "Stations"
	SheetDaily       = "Daily"
	SheetHourly      = "Hourly"
	SheetCategories  = "Categories"
)

type sheet struct {
	name string
	rows [][]any
}

// WriteXLSX saves rep as a workbook with one sheet per report section.
func WriteXLSX(rep *analysis.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := buildSheets(rep)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("add sheet %s: %w", s.name, err)
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			return err
		}
	}
	if err := f.SaveAs(filepath.Clean(path)); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, name string, rows [][]any) error {
	for r, row := range rows {
		for c, val := range row {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, val); err != nil {
				return fmt.Errorf("sheet %s cell %s: %w", name, cell, err)
			}
		}
	}
	return nil
}

func buildSheets(rep *analysis.Report) []sheet {
	summary := [][]any{
		{"Field", "Value"},
		{"Run", rep.RunID},
		{"File", rep.Name},
		{"Generated", rep.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Rows", rep.Rows},
		{"Rejected", rep.Rejected},
		{"Stations", len(rep.Stations)},
		{"Highest mean PM2.5 station", rep.HighestPM25.Key},
		{"Highest mean PM2.5", rep.HighestPM25.Value},
		{"Lowest mean O3 station", rep.LowestO3.Key},
		{"Lowest mean O3", rep.LowestO3.Value},
	}
	for _, w := range rep.Warnings {
		summary = append(summary, []any{"Warning", w})
	}

	samples := [][]any{toAny(rep.SampleHeader)}
	for _, row := range rep.Samples {
		samples = append(samples, toAny(row))
	}

	cleaning := [][]any{{"Column", "Missing", "Fill", "Clamped"}}
	for _, c := range rep.Cleaning.Columns {
		cleaning = append(cleaning, []any{c.Column.String(), c.Missing, c.Fill, c.Clamped})
	}

	describe := [][]any{{"Column", "Unit", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"}}
	for _, d := range rep.Describe {
		s := d.Summary
		describe = append(describe, []any{d.Column.String(), d.Column.Unit(), s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max})
	}

	var corr [][]any
	if rep.Corr != nil {
		head := []any{""}
		for _, c := range rep.Corr.Columns {
			head = append(head, c.String())
		}
		corr = append(corr, head)
		for i, c := range rep.Corr.Columns {
			row := []any{c.String()}
			for j := range rep.Corr.Columns {
				if v, ok := rep.Corr.At(i, j); ok {
					row = append(row, v)
				} else {
					row = append(row, nil)
				}
			}
			corr = append(corr, row)
		}
	}

	stations := [][]any{{"Station", "Mean PM2.5", "Mean O3", "Readings"}}
	for _, p := range rep.StationPM25 {
		o3, _ := rep.StationO3.Lookup(p.Key)
		stations = append(stations, []any{p.Key, p.Value, o3, p.Count})
	}

	daily := [][]any{{"Date", "Mean PM2.5", fmt.Sprintf("Exceeds (%s %g)", rep.Focus.Operator, rep.Focus.Threshold)}}
	for _, p := range rep.Focus.Daily {
		_, hit := rep.Focus.Exceedances.Lookup(p.Key)
		daily = append(daily, []any{p.Key, p.Value, hit})
	}

	hourly := [][]any{{"Hour", "Mean PM2.5", "Readings"}}
	for _, p := range rep.Hourly.Hours {
		hourly = append(hourly, []any{p.Key, p.Value, p.Count})
	}

	cats := [][]any{{"Category", "Readings"}}
	for _, c := range rep.Categories {
		cats = append(cats, []any{c.Category.String(), c.Count})
	}

	return []sheet{
		{SheetSummary, summary},
		{SheetSamples, samples},
		{SheetCleaning, cleaning},
		{SheetDescribe, describe},
		{SheetCorrelation, corr},
		{SheetStations, stations},
		{SheetDaily, daily},
		{SheetHourly, hourly},
		{SheetCategories, cats},
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
