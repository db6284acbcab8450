package analysis

import (
	"fmt"
	"strings"
	"time"
)

// Report is the result of one Analyze run.
type Report struct {
	RunID        string          `json:"run_id"`
	Name         string          `json:"name"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Rows         int             `json:"rows"`
	Rejected     int             `json:"rejected,omitempty"`
	Stations     []string        `json:"stations"`
	SampleHeader []string        `json:"sample_header"`
	Samples      [][]string      `json:"samples"`
	Cleaning     CleanSummary    `json:"cleaning"`
	Describe     []ColumnStats   `json:"describe"`
	Corr         *CorrMatrix     `json:"correlation"`
	StationPM25  Series[string]  `json:"station_mean_pm25"`
	HighestPM25  Point[string]   `json:"highest_pm25_station"`
	StationO3    Series[string]  `json:"station_mean_o3"`
	LowestO3     Point[string]   `json:"lowest_o3_station"`
	Focus        DailyExceedance `json:"daily_exceedances"`
	Hourly       HourlyProfile   `json:"hourly_profile"`
	Categories   []CategoryCount `json:"aqi_categories"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// DailyExceedance holds a station's daily PM2.5 means and the days passing the threshold test.
type DailyExceedance struct {
	Station     string         `json:"station"`
	Operator    string         `json:"operator"`
	Threshold   float64        `json:"threshold"`
	Daily       Series[string] `json:"daily"`
	Exceedances Series[string] `json:"exceedances"`
}

// HourlyProfile is the hourly PM2.5 profile of one station on one day.
type HourlyProfile struct {
	Station string      `json:"station"`
	Day     string      `json:"day"`
	Hours   Series[int] `json:"hours"`
	Peak    Point[int]  `json:"peak"`
}

// Markdown renders the report as sectioned text for terminals and prompts.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Rejected > 0 {
		b.WriteString(fmt.Sprintf("Rows: %d (rejected %d)\n", r.Rows, r.Rejected))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Stations: %d (%s)\n", len(r.Stations), strings.Join(r.Stations, ", ")))
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		writeRow(&b, r.SampleHeader)
		sep := make([]string, len(r.SampleHeader))
		for i := range sep {
			sep[i] = "---"
		}
		writeRow(&b, sep)
		for _, row := range r.Samples {
			writeRow(&b, row)
		}
	}

	if len(r.Cleaning.Columns) > 0 {
		b.WriteString("\n[CLEANING]\n")
		for _, c := range r.Cleaning.Columns {
			b.WriteString(fmt.Sprintf("- %s: missing %d filled with median %.4g; clamped %d\n", c.Column, c.Missing, c.Fill, c.Clamped))
		}
	}

	if len(r.Describe) > 0 {
		b.WriteString("\n[DESCRIPTIVE STATISTICS]\n")
		for _, d := range r.Describe {
			s := d.Summary
			b.WriteString(fmt.Sprintf("- %s [%s]: count %d, mean %.4g, std %.4g, min %.4g, 25%% %.4g, 50%% %.4g, 75%% %.4g, max %.4g\n",
				d.Column, d.Column.Unit(), s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max))
		}
	}

	if r.Corr != nil && len(r.Corr.Columns) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		head := []string{""}
		for _, c := range r.Corr.Columns {
			head = append(head, c.String())
		}
		writeRow(&b, head)
		for i, c := range r.Corr.Columns {
			row := []string{c.String()}
			for j := range r.Corr.Columns {
				if v, ok := r.Corr.At(i, j); ok {
					row = append(row, fmt.Sprintf("%.3f", v))
				} else {
					row = append(row, "n/a")
				}
			}
			writeRow(&b, row)
		}
	}

	if len(r.StationPM25) > 0 {
		b.WriteString("\n[STATION MEANS]\n")
		for _, p := range r.StationPM25 {
			o3, _ := r.StationO3.Lookup(p.Key)
			b.WriteString(fmt.Sprintf("- %s: PM2.5 %.4g, O3 %.4g (n=%d)\n", p.Key, p.Value, o3, p.Count))
		}
		b.WriteString(fmt.Sprintf("Highest mean PM2.5: %s (%.4g)\n", r.HighestPM25.Key, r.HighestPM25.Value))
		b.WriteString(fmt.Sprintf("Lowest mean O3: %s (%.4g)\n", r.LowestO3.Key, r.LowestO3.Value))
	}

	if r.Focus.Station != "" {
		b.WriteString("\n[DAILY EXCEEDANCES]\n")
		b.WriteString(fmt.Sprintf("Station %s, daily mean PM2.5 %s %.4g\n", r.Focus.Station, r.Focus.Operator, r.Focus.Threshold))
		if len(r.Focus.Exceedances) == 0 {
			b.WriteString("- none\n")
		}
		for _, p := range r.Focus.Exceedances {
			b.WriteString(fmt.Sprintf("- %s: %.4g\n", p.Key, p.Value))
		}
	}

	if len(r.Hourly.Hours) > 0 {
		b.WriteString("\n[HOURLY PROFILE]\n")
		b.WriteString(fmt.Sprintf("Station %s on %s\n", r.Hourly.Station, r.Hourly.Day))
		for _, p := range r.Hourly.Hours {
			b.WriteString(fmt.Sprintf("- %02d:00 %.4g\n", p.Key, p.Value))
		}
		b.WriteString(fmt.Sprintf("Peak: %02d:00 (%.4g)\n", r.Hourly.Peak.Key, r.Hourly.Peak.Value))
	}

	if len(r.Categories) > 0 {
		b.WriteString("\n[AQI CATEGORIES]\n")
		for _, c := range r.Categories {
			b.WriteString(fmt.Sprintf("- %s: %d\n", c.Category, c.Count))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(strings.ReplaceAll(c, "|", "\\|"))
	}
	b.WriteString(" |\n")
}
