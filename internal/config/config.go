package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`

	// Analysis
	FocusStation   string  `mapstructure:"focus_station" yaml:"focus_station"`
	DailyThreshold float64 `mapstructure:"daily_threshold" yaml:"daily_threshold"`
	ThresholdOp    string  `mapstructure:"threshold_op" yaml:"threshold_op"`
	HourlyStation  string  `mapstructure:"hourly_station" yaml:"hourly_station"`
	// HourlyDay is a YYYY-MM-DD date; empty means the first day in the data.
	HourlyDay       string `mapstructure:"hourly_day" yaml:"hourly_day"`
	SkipInvalidRows bool   `mapstructure:"skip_invalid_rows" yaml:"skip_invalid_rows"`
	SampleRows      int    `mapstructure:"sample_rows" yaml:"sample_rows"`

	// Output and logging
	Output    string `mapstructure:"output" yaml:"output"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// DefaultPath returns ~/.airq/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".airq", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.airq/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from defaults, config file and env.
// Precedence: env (AIRQ_*, including a local .env) > config file > defaults.
// Command flags are applied on top by the caller.
func Load(cfgFile string) (*Global, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := newViper()
	v.SetEnvPrefix("AIRQ")
	v.AutomaticEnv()
	return read(v, cfgFile)
}

// LoadFile loads defaults and the config file only, ignoring the environment.
func LoadFile(cfgFile string) (*Global, error) {
	return read(newViper(), cfgFile)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("data_path", "air_quality_data.csv")
	v.SetDefault("sheet_name", "")
	v.SetDefault("focus_station", "S003")
	v.SetDefault("daily_threshold", 50.0)
	v.SetDefault("threshold_op", ">")
	v.SetDefault("hourly_station", "S001")
	v.SetDefault("hourly_day", "")
	v.SetDefault("skip_invalid_rows", false)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("output", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	return v
}

func read(v *viper.Viper, cfgFile string) (*Global, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// the file is optional, but a broken one is an error
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
