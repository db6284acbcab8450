package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataPath != "air_quality_data.csv" || c.FocusStation != "S003" || c.HourlyStation != "S001" {
		t.Fatalf("defaults = %+v", c)
	}
	if c.DailyThreshold != 50 || c.ThresholdOp != ">" || c.SampleRows != 5 || c.Output != "text" {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "airq.yaml")
	data := "focus_station: S002\ndaily_threshold: 35.5\nskip_invalid_rows: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AIRQ_DAILY_THRESHOLD", "40")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.FocusStation != "S002" || !c.SkipInvalidRows {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.DailyThreshold != 40 {
		t.Fatalf("daily_threshold = %v, want env override 40", c.DailyThreshold)
	}
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "airq.yaml")
	if err := os.WriteFile(path, []byte("focus_station: S002\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AIRQ_FOCUS_STATION", "S777")
	t.Setenv("AIRQ_SAMPLE_ROWS", "9")

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.FocusStation != "S002" {
		t.Fatalf("focus_station = %q, want file value S002", c.FocusStation)
	}
	if c.SampleRows != 5 {
		t.Fatalf("sample_rows = %d, want default 5", c.SampleRows)
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("AIRQ_HOURLY_STATION=S009\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	// register cleanup, then clear so godotenv can set it
	t.Setenv("AIRQ_HOURLY_STATION", "")
	os.Unsetenv("AIRQ_HOURLY_STATION")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HourlyStation != "S009" {
		t.Fatalf("hourly_station = %q, want S009", c.HourlyStation)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.FocusStation != "S003" {
		t.Fatalf("focus_station = %q, want default", c.FocusStation)
	}
}

func TestLoadBrokenFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("focus_station: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	in := &Global{DataPath: "readings.xlsx", SheetName: "Data", FocusStation: "S010", DailyThreshold: 25,
		ThresholdOp: ">=", HourlyStation: "S004", HourlyDay: "2024-03-02", SampleRows: 3, Output: "json",
		LogLevel: "debug", LogFormat: "json"}
	if err := Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *out != *in {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}
