package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

var csvRows = []string{
	"Station ID,Timestamp,PM2.5,PM10,O3,NO2,Temperature,Humidity",
	"S001,2025-07-15 00:00:00,10.5,20,30,15,22.5,60",
	"S001,2025-07-15 01:00:00,,22,NA,16,22.0,61",
	"S002,2025-07-15 00:00:00,-3,18,28,14,21.0,",
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "air_quality_data.csv", strings.Join(csvRows, "\n"))
	tbl, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Name != "air_quality_data.csv" {
		t.Fatalf("name = %q", tbl.Name)
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.Len())
	}
	r0 := tbl.Readings[0]
	if r0.Station != "S001" || r0.PM25 != 10.5 || r0.Humidity != 60 {
		t.Fatalf("first reading = %+v", r0)
	}
	want := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	if !r0.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", r0.Timestamp, want)
	}
	if !math.IsNaN(tbl.Readings[1].PM25) || !math.IsNaN(tbl.Readings[1].O3) {
		t.Fatalf("expected NaN for missing cells, got %+v", tbl.Readings[1])
	}
	if tbl.Readings[2].PM25 != -3 {
		t.Fatalf("negative values must survive loading, got %v", tbl.Readings[2].PM25)
	}
	if got := tbl.Missing(PM25); got != 1 {
		t.Fatalf("missing PM2.5 = %d, want 1", got)
	}
	if got := tbl.Missing(Humidity); got != 1 {
		t.Fatalf("missing Humidity = %d, want 1", got)
	}
	if tbl.Readings[1].Date() != "2025-07-15" {
		t.Fatalf("date = %s", tbl.Readings[1].Date())
	}
}

func TestLoadTSVWithHeaderAliases(t *testing.T) {
	body := "station_id\ttimestamp\tpm25\tpm_10\tozone\tno2\ttemp\thumidity\n" +
		"S009\t2025-07-16T08:00:00Z\t1\t2\t3\t4\t5\t6\n"
	p := writeFile(t, "aliases.tsv", body)
	tbl, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := tbl.Readings[0]
	if r.Station != "S009" || r.PM10 != 2 || r.O3 != 3 || r.Temperature != 5 {
		t.Fatalf("reading = %+v", r)
	}
	if r.Timestamp.Hour() != 8 {
		t.Fatalf("hour = %d", r.Timestamp.Hour())
	}
}

func TestLoadMissingColumnFailsFast(t *testing.T) {
	p := writeFile(t, "bad.csv", "Station ID,Timestamp,PM2.5\nS001,2025-07-15 00:00:00,1\n")
	_, err := Load(p, Options{})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	for _, name := range []string{"PM10", "O3", "NO2", "Temperature", "Humidity"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error should name %s: %v", name, err)
		}
	}
}

func TestLoadSourceUnavailable(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
	_, err = Load(writeFile(t, "empty.csv", ""), Options{})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("empty file err = %v, want ErrSourceUnavailable", err)
	}
}

func TestLoadMalformedRowPolicy(t *testing.T) {
	rows := append([]string{}, csvRows...)
	rows = append(rows,
		"S003,not-a-date,1,2,3,4,5,6",
		"S003,2025-07-15 02:00:00,abc,2,3,4,5,6",
	)
	p := writeFile(t, "malformed.csv", strings.Join(rows, "\n"))

	_, err := Load(p, Options{})
	if !errors.Is(err, ErrUnparsableValue) {
		t.Fatalf("strict load err = %v, want ErrUnparsableValue", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Row != 5 || pe.Column != "Timestamp" || pe.Value != "not-a-date" {
		t.Fatalf("parse error = %+v", pe)
	}

	tbl, err := Load(p, Options{SkipInvalid: true})
	if err != nil {
		t.Fatalf("skip-invalid load: %v", err)
	}
	if tbl.Len() != 3 || tbl.Rejected != 2 {
		t.Fatalf("rows = %d rejected = %d, want 3 and 2", tbl.Len(), tbl.Rejected)
	}
	if len(tbl.Warnings) != 2 || !strings.Contains(tbl.Warnings[1], "PM2.5") {
		t.Fatalf("warnings = %#v", tbl.Warnings)
	}
}

func TestLoadWrongFieldCount(t *testing.T) {
	rows := append([]string{}, csvRows...)
	rows = append(rows,
		"S003,2025-07-15 02:00:00,1,2,3",
		"S003,2025-07-15 03:00:00,1,2,3,4,5,6,7",
		"S003,2025-07-15 04:00:00,1,2,3,4,5,6",
	)
	p := writeFile(t, "ragged.csv", strings.Join(rows, "\n"))

	_, err := Load(p, Options{})
	if errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, ErrUnparsableValue) {
		t.Fatalf("strict load err = %v, want ErrUnparsableValue", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Row != 5 || pe.Column != "NO2" {
		t.Fatalf("parse error = %+v, want row 5 column NO2", pe)
	}

	tbl, err := Load(p, Options{SkipInvalid: true})
	if err != nil {
		t.Fatalf("skip-invalid load: %v", err)
	}
	if tbl.Len() != 4 || tbl.Rejected != 2 {
		t.Fatalf("rows = %d rejected = %d, want 4 and 2", tbl.Len(), tbl.Rejected)
	}
	if len(tbl.Warnings) != 2 || !strings.Contains(tbl.Warnings[0], "row 5") ||
		!strings.Contains(tbl.Warnings[1], "row 6") || !strings.Contains(tbl.Warnings[1], "expected 8 fields, got 9") {
		t.Fatalf("warnings = %#v", tbl.Warnings)
	}
	if last := tbl.Readings[3]; last.Station != "S003" || last.Humidity != 6 {
		t.Fatalf("last reading = %+v", last)
	}
}

func TestLoadReportsFirstBadLine(t *testing.T) {
	// a bad timestamp before a ragged row is the one reported
	rows := append([]string{}, csvRows...)
	rows = append(rows,
		"S003,not-a-date,1,2,3,4,5,6",
		"S003,2025-07-15 02:00:00,1,2",
	)
	_, err := Load(writeFile(t, "order.csv", strings.Join(rows, "\n")), Options{})
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Row != 5 || pe.Column != "Timestamp" {
		t.Fatalf("err = %v, want row 5 Timestamp", err)
	}
}

func TestLoadRowIsSourceLine(t *testing.T) {
	body := csvRows[0] + "\n" +
		"\"S0\n01\",2025-07-15 00:00:00,1,2,3,4,5,6\n" + // lines 2-3
		"\n" + // line 4
		"S001,yesterday,1,2,3,4,5,6\n" // line 5
	p := writeFile(t, "lines.csv", body)

	_, err := Load(p, Options{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if pe.Row != 5 || pe.Value != "yesterday" {
		t.Fatalf("parse error = %+v, want row 5", pe)
	}

	tbl, err := Load(p, Options{SkipInvalid: true})
	if err != nil {
		t.Fatalf("skip-invalid load: %v", err)
	}
	if tbl.Len() != 1 || tbl.Readings[0].Station != "S0\n01" {
		t.Fatalf("readings = %+v", tbl.Readings)
	}
	if len(tbl.Warnings) != 1 || !strings.Contains(tbl.Warnings[0], "row 5, column Timestamp") {
		t.Fatalf("warnings = %#v", tbl.Warnings)
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Readings"
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	header := []interface{}{"Station ID", "Timestamp", "PM2.5", "PM10", "O3", "NO2", "Temperature", "Humidity"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("header: %v", err)
	}
	ts := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	row := []interface{}{"S001", ts, 40.5, 80, 25, 30, 24.5, 55}
	if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
		t.Fatalf("row: %v", err)
	}
	// trailing empty cells are trimmed by excelize and must become missing values
	short := []interface{}{"S002", "2025-07-15 11:00:00", 12}
	if err := f.SetSheetRow(sheet, "A3", &short); err != nil {
		t.Fatalf("row: %v", err)
	}
	p := filepath.Join(t.TempDir(), "readings.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save: %v", err)
	}

	tbl, err := Load(p, Options{SheetName: "readings"})
	if err != nil {
		t.Fatalf("Load xlsx: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if !tbl.Readings[0].Timestamp.Equal(ts) {
		t.Fatalf("timestamp = %v, want %v", tbl.Readings[0].Timestamp, ts)
	}
	if tbl.Readings[0].PM25 != 40.5 {
		t.Fatalf("pm25 = %v", tbl.Readings[0].PM25)
	}
	if !math.IsNaN(tbl.Readings[1].PM10) || !math.IsNaN(tbl.Readings[1].Humidity) {
		t.Fatalf("short row should be padded with missing values: %+v", tbl.Readings[1])
	}

	_, err = Load(p, Options{SheetName: "Other"})
	if !errors.Is(err, ErrSourceUnavailable) || !strings.Contains(err.Error(), "Readings") {
		t.Fatalf("unknown sheet err = %v", err)
	}
}

func TestParseColumn(t *testing.T) {
	tests := map[string]Column{
		"pm25":        PM25,
		"PM2.5":       PM25,
		"o3":          O3,
		"Temperature": Temperature,
		"rh":          Humidity,
	}
	for in, want := range tests {
		got, err := ParseColumn(in)
		if err != nil || got != want {
			t.Errorf("ParseColumn(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseColumn("station"); err == nil {
		t.Errorf("station is not a numeric column")
	}
}

func TestReadingRecord(t *testing.T) {
	p := writeFile(t, "air.csv", strings.Join(csvRows, "\n"))
	tbl, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rec := tbl.Readings[1].Record()
	want := []string{"S001", "2025-07-15 01:00:00", "NaN", "22", "NaN", "16", "22", "61"}
	if len(rec) != len(Header) {
		t.Fatalf("record has %d fields, header %d", len(rec), len(Header))
	}
	for i := range want {
		if rec[i] != want[i] {
			t.Fatalf("record[%d] = %q, want %q (record %v)", i, rec[i], want[i], rec)
		}
	}
}
