package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KaramelBytes/airq-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/airq-cli/internal/config"
	"github.com/KaramelBytes/airq-cli/internal/dataset"
	"github.com/KaramelBytes/airq-cli/internal/export"
	"github.com/KaramelBytes/airq-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaStation       string
	anaThreshold     float64
	anaOperator      string
	anaHourlyStation string
	anaDay           string
	anaSampleRows    int
	anaSkipInvalid   bool
	anaSheetName     string
	anaFormat        string
	anaXLSXPath      string
	anaOutPath       string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run the full air-quality analysis on a CSV/TSV/XLSX dataset",
	Long: `Load the dataset, impute missing values with column medians, clamp negatives to zero,
classify PM2.5 readings and report statistics, correlations, station means, daily
exceedances for the focus station and the hourly PM2.5 profile of one station.

The file defaults to data_path from the configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := currentConfig()
		if err != nil {
			return err
		}
		c := applyAnalyzeFlags(cmd, *base)
		path := c.DataPath
		if len(args) == 1 {
			path = args[0]
		}
		opt, err := analysisOptions(&c)
		if err != nil {
			return err
		}
		format := strings.ToLower(strings.TrimSpace(c.Output))
		if format != "text" && format != "json" {
			return fmt.Errorf("unsupported --output: %s (use text or json)", c.Output)
		}

		t, err := dataset.Load(path, dataset.Options{SheetName: c.SheetName, SkipInvalid: c.SkipInvalidRows})
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		slog.Info("loaded dataset", "file", t.Name, "rows", t.Len(), "rejected", t.Rejected)
		for _, w := range t.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}

		rep, err := analysis.Analyze(t, opt)
		if err != nil {
			return err
		}

		var out []byte
		if format == "json" {
			if out, err = utils.PrettyJSON(rep); err != nil {
				return err
			}
		} else {
			out = []byte(rep.Markdown())
		}

		if anaOutPath != "" {
			if err := utils.SafeWriteFile(anaOutPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutPath)
		} else {
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
		}
		if anaXLSXPath != "" {
			if err := export.WriteXLSX(rep, anaXLSXPath); err != nil {
				return fmt.Errorf("export xlsx: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote workbook to %s\n", anaXLSXPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaStation, "station", "", "focus station for daily exceedances (overrides focus_station)")
	analyzeCmd.Flags().Float64Var(&anaThreshold, "threshold", 0, "daily mean PM2.5 threshold (overrides daily_threshold)")
	analyzeCmd.Flags().StringVar(&anaOperator, "op", "", "threshold comparison: >, >=, <, <=, ==, != (overrides threshold_op)")
	analyzeCmd.Flags().StringVar(&anaHourlyStation, "hourly-station", "", "station for the hourly profile (overrides hourly_station)")
	analyzeCmd.Flags().StringVar(&anaDay, "day", "", "day for the hourly profile, YYYY-MM-DD (default: first day in the data)")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 0, "number of raw rows to include in the report")
	analyzeCmd.Flags().BoolVar(&anaSkipInvalid, "skip-invalid", false, "reject malformed rows with a warning instead of failing")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet", "", "XLSX: sheet name to read (default: first sheet)")
	analyzeCmd.Flags().StringVarP(&anaFormat, "output", "o", "", "report format: text or json")
	analyzeCmd.Flags().StringVar(&anaXLSXPath, "xlsx", "", "also export the report as an XLSX workbook to this path")
	analyzeCmd.Flags().StringVar(&anaOutPath, "out", "", "write the report to this file instead of stdout")
}

// applyAnalyzeFlags overlays explicitly set flags on a copy of the configuration.
func applyAnalyzeFlags(cmd *cobra.Command, c cfgpkg.Global) cfgpkg.Global {
	f := cmd.Flags()
	if f.Changed("station") {
		c.FocusStation = anaStation
	}
	if f.Changed("threshold") {
		c.DailyThreshold = anaThreshold
	}
	if f.Changed("op") {
		c.ThresholdOp = anaOperator
	}
	if f.Changed("hourly-station") {
		c.HourlyStation = anaHourlyStation
	}
	if f.Changed("day") {
		c.HourlyDay = anaDay
	}
	if f.Changed("sample-rows") {
		c.SampleRows = anaSampleRows
	}
	if f.Changed("skip-invalid") {
		c.SkipInvalidRows = anaSkipInvalid
	}
	if f.Changed("sheet") {
		c.SheetName = anaSheetName
	}
	if f.Changed("output") {
		c.Output = anaFormat
	}
	return c
}

func analysisOptions(c *cfgpkg.Global) (analysis.Options, error) {
	opt := analysis.DefaultOptions()
	if c.FocusStation != "" {
		opt.FocusStation = c.FocusStation
	}
	if c.HourlyStation != "" {
		opt.HourlyStation = c.HourlyStation
	}
	opt.DailyThreshold = c.DailyThreshold
	if c.ThresholdOp != "" {
		op, err := analysis.ParseOperator(c.ThresholdOp)
		if err != nil {
			return opt, err
		}
		opt.ThresholdOp = op
	}
	if c.HourlyDay != "" {
		day, err := time.Parse(dataset.DateLayout, c.HourlyDay)
		if err != nil {
			return opt, fmt.Errorf("invalid hourly day %q (use YYYY-MM-DD): %w", c.HourlyDay, err)
		}
		opt.HourlyDay = day
	}
	if c.SampleRows < 0 {
		return opt, fmt.Errorf("invalid sample rows: %d", c.SampleRows)
	}
	opt.SampleRows = c.SampleRows
	return opt, nil
}
