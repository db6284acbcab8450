package analysis

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// ResampleHourly restricts the table to one station and calendar day and
// averages col per hour of day. Only hours with readings appear in the result.
func ResampleHourly(t *dataset.Table, station string, day time.Time, col dataset.Column) (Series[int], error) {
	date := day.Format(dataset.DateLayout)
	acc := map[int]*meanAcc{}
	for i := range t.Readings {
		r := &t.Readings[i]
		if r.Station != station || r.Date() != date {
			continue
		}
		h := r.Timestamp.Hour()
		a := acc[h]
		if a == nil {
			a = &meanAcc{}
			acc[h] = a
		}
		a.add(r.Value(col))
	}
	s := seriesFromAcc(acc)
	if len(s) == 0 {
		return nil, fmt.Errorf("hourly %s for station %s on %s: %w", col, station, date, ErrNoData)
	}
	return s, nil
}
