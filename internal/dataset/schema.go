package dataset

import (
	"fmt"
	"strings"
)

type field int

const (
	fieldStation field = iota
	fieldTimestamp
	fieldPM25
	fieldPM10
	fieldO3
	fieldNO2
	fieldTemperature
	fieldHumidity
	fieldCount
)

var fieldHeaders = [fieldCount]string{
	fieldStation:     "Station ID",
	fieldTimestamp:   "Timestamp",
	fieldPM25:        "PM2.5",
	fieldPM10:        "PM10",
	fieldO3:          "O3",
	fieldNO2:         "NO2",
	fieldTemperature: "Temperature",
	fieldHumidity:    "Humidity",
}

// Aliases are compared against normalized headers.
var fieldAliases = [fieldCount][]string{
	fieldStation:     {"stationid", "station"},
	fieldTimestamp:   {"timestamp", "datetime", "time"},
	fieldPM25:        {"pm25"},
	fieldPM10:        {"pm10"},
	fieldO3:          {"o3", "ozone"},
	fieldNO2:         {"no2"},
	fieldTemperature: {"temperature", "temp"},
	fieldHumidity:    {"humidity", "rh"},
}

func numericField(c Column) field { return fieldPM25 + field(c) }

// normalizeHeader lowercases and drops spaces, '_', '-' and '.', so
// "Station ID", "station_id" and "PM2.5"/"pm25" compare equal.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-', '.', '\u00a0':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func matchField(header string) (field, bool) {
	key := normalizeHeader(header)
	for f := field(0); f < fieldCount; f++ {
		for _, alias := range fieldAliases[f] {
			if key == alias {
				return f, true
			}
		}
	}
	return 0, false
}

// bindColumns maps each required field to the source header that carries it.
// The first matching header wins; any unbound field fails the load.
func bindColumns(headers []string) ([fieldCount]string, error) {
	var bound [fieldCount]string
	var seen [fieldCount]bool
	for _, h := range headers {
		f, ok := matchField(h)
		if !ok || seen[f] {
			continue
		}
		bound[f] = h
		seen[f] = true
	}
	var missing []string
	for f := field(0); f < fieldCount; f++ {
		if !seen[f] {
			missing = append(missing, fieldHeaders[f])
		}
	}
	if len(missing) > 0 {
		return bound, fmt.Errorf("%w: %s (found: %s)", ErrMissingColumn, strings.Join(missing, ", "), strings.Join(headers, ", "))
	}
	return bound, nil
}
