package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/airq-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/airq-cli/internal/config"
	"github.com/KaramelBytes/airq-cli/internal/dataset"
	"github.com/KaramelBytes/airq-cli/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set airq configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "focus_station: %s\n", cfg.FocusStation)
		fmt.Fprintf(out, "daily_threshold: %g\n", cfg.DailyThreshold)
		fmt.Fprintf(out, "threshold_op: %s\n", cfg.ThresholdOp)
		fmt.Fprintf(out, "hourly_station: %s\n", cfg.HourlyStation)
		if cfg.HourlyDay != "" {
			fmt.Fprintf(out, "hourly_day: %s\n", cfg.HourlyDay)
		}
		fmt.Fprintf(out, "skip_invalid_rows: %t\n", cfg.SkipInvalidRows)
		fmt.Fprintf(out, "sample_rows: %d\n", cfg.SampleRows)
		fmt.Fprintf(out, "output: %s\n", cfg.Output)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Only the config file and defaults are written back. AIRQ_* environment
variables and .env entries are not saved.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "data_path":
		c.DataPath = val
	case "sheet_name":
		c.SheetName = val
	case "focus_station":
		c.FocusStation = val
	case "daily_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for daily_threshold: %w", err)
		}
		c.DailyThreshold = f
	case "threshold_op":
		if _, err := analysis.ParseOperator(val); err != nil {
			return err
		}
		c.ThresholdOp = val
	case "hourly_station":
		c.HourlyStation = val
	case "hourly_day":
		if val != "" {
			if _, err := time.Parse(dataset.DateLayout, val); err != nil {
				return fmt.Errorf("invalid hourly_day %q (use YYYY-MM-DD)", val)
			}
		}
		c.HourlyDay = val
	case "skip_invalid_rows":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for skip_invalid_rows: %v", val)
		}
		c.SkipInvalidRows = b
	case "sample_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for sample_rows: %v", val)
		}
		c.SampleRows = i
	case "output":
		switch strings.ToLower(val) {
		case "text", "json":
			c.Output = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid output: %s (use text or json)", val)
		}
	case "log_level":
		if _, err := logging.ParseLevel(val); err != nil {
			return err
		}
		c.LogLevel = val
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
