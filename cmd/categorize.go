package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/airq-cli/internal/aqi"
	"github.com/spf13/cobra"
)

var catBreakpoints bool

var categorizeCmd = &cobra.Command{
	Use:   "categorize <pm25>...",
	Short: "Print the AQI category for PM2.5 concentrations (µg/m³)",
	Args: func(cmd *cobra.Command, args []string) error {
		if catBreakpoints {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if catBreakpoints {
			lower := "0"
			for _, bp := range aqi.Breakpoints {
				fmt.Fprintf(out, "%s - %g: %s\n", lower, bp.Upper, bp.Category)
				lower = fmt.Sprintf("> %g", bp.Upper)
			}
			fmt.Fprintf(out, "%s: %s\n", lower, aqi.Hazardous)
			return nil
		}
		for _, a := range args {
			v, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
			if err != nil {
				return fmt.Errorf("invalid PM2.5 value %q: %w", a, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("invalid PM2.5 value %q: not a finite number", a)
			}
			fmt.Fprintf(out, "%g\t%s\n", v, aqi.Categorize(v))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categorizeCmd)
	categorizeCmd.Flags().BoolVar(&catBreakpoints, "breakpoints", false, "list the category breakpoints instead")
}
