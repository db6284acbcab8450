package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/airq-cli/internal/aqi"
)

// DateLayout formats the calendar date used for daily grouping.
const DateLayout = "2006-01-02"

// Column identifies one of the numeric measurement columns of a Reading.
type Column int

const (
	PM25 Column = iota
	PM10
	O3
	NO2
	Temperature
	Humidity
)

// NumericColumns lists every numeric column in header order.
var NumericColumns = []Column{PM25, PM10, O3, NO2, Temperature, Humidity}

// Pollutants are the concentration columns (environmental readings excluded).
var Pollutants = []Column{PM25, PM10, O3, NO2}

var columnNames = [...]string{
	PM25:        "PM2.5",
	PM10:        "PM10",
	O3:          "O3",
	NO2:         "NO2",
	Temperature: "Temperature",
	Humidity:    "Humidity",
}

var columnUnits = [...]string{
	PM25:        "µg/m³",
	PM10:        "µg/m³",
	O3:          "ppb",
	NO2:         "ppb",
	Temperature: "°C",
	Humidity:    "%",
}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnNames) {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// Unit returns the measurement unit shown next to values in reports.
func (c Column) Unit() string {
	if c < 0 || int(c) >= len(columnUnits) {
		return ""
	}
	return columnUnits[c]
}

func (c Column) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseColumn resolves a user supplied column name ("pm25", "PM2.5", "no2", ...).
func ParseColumn(name string) (Column, error) {
	key := normalizeHeader(name)
	for _, c := range NumericColumns {
		for _, alias := range fieldAliases[numericField(c)] {
			if key == alias {
				return c, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown column %q (use one of: %s)", name, strings.Join(columnNames[:], ", "))
}

// Reading is one row of the dataset. Numeric fields hold NaN while missing;
// after cleaning none of them is NaN or negative.
type Reading struct {
	Station     string       `json:"station"`
	Timestamp   time.Time    `json:"timestamp"`
	PM25        float64      `json:"pm25"`
	PM10        float64      `json:"pm10"`
	O3          float64      `json:"o3"`
	NO2         float64      `json:"no2"`
	Temperature float64      `json:"temperature"`
	Humidity    float64      `json:"humidity"`
	Category    aqi.Category `json:"aqi_category"`
}

// Value returns the value of a numeric column.
func (r *Reading) Value(c Column) float64 {
	switch c {
	case PM25:
		return r.PM25
	case PM10:
		return r.PM10
	case O3:
		return r.O3
	case NO2:
		return r.NO2
	case Temperature:
		return r.Temperature
	case Humidity:
		return r.Humidity
	}
	return math.NaN()
}

// Set assigns the value of a numeric column.
func (r *Reading) Set(c Column, v float64) {
	switch c {
	case PM25:
		r.PM25 = v
	case PM10:
		r.PM10 = v
	case O3:
		r.O3 = v
	case NO2:
		r.NO2 = v
	case Temperature:
		r.Temperature = v
	case Humidity:
		r.Humidity = v
	}
}

// Header names the fields of Record in order.
var Header = []string{"Station ID", "Timestamp", "PM2.5", "PM10", "O3", "NO2", "Temperature", "Humidity"}

// Record renders the reading as text cells matching Header. Missing values print as NaN.
func (r *Reading) Record() []string {
	rec := make([]string, 0, len(Header))
	rec = append(rec, r.Station, r.Timestamp.Format(timestampLayout))
	for _, c := range NumericColumns {
		rec = append(rec, strconv.FormatFloat(r.Value(c), 'f', -1, 64))
	}
	return rec
}

// Date is the calendar date of the reading in its own location.
func (r *Reading) Date() string { return r.Timestamp.Format(DateLayout) }

// Table is the in-memory dataset threaded through every pipeline stage.
type Table struct {
	Name     string
	Readings []Reading
	// Rejected counts rows dropped by the skip-invalid policy.
	Rejected int
	Warnings []string
}

// Len returns the number of readings.
func (t *Table) Len() int { return len(t.Readings) }

// Missing counts NaN values in a column.
func (t *Table) Missing(c Column) int {
	n := 0
	for i := range t.Readings {
		if math.IsNaN(t.Readings[i].Value(c)) {
			n++
		}
	}
	return n
}

// Values copies a column into a new slice.
func (t *Table) Values(c Column) []float64 {
	out := make([]float64, len(t.Readings))
	for i := range t.Readings {
		out[i] = t.Readings[i].Value(c)
	}
	return out
}
