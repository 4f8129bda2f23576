package mappers

import (
	"fmt"
	"time"

	"github.com/rowflow/rowflow/row"
)

// FallbackTimeFormat is tried whenever a timestamp fails to parse with the
// configured format; inputs mix sub-second and whole-second stamps.
const FallbackTimeFormat = "20060102T150405"

func parseTimeCol(r row.Row, col, format string) (time.Time, error) {
	s, err := stringCol(r, col)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(format, s)
	if err != nil {
		t, err = time.Parse(FallbackTimeFormat, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("error parsing time column %q: %w", col, err)
		}
	}
	return t, nil
}

// WeekHour extracts the weekday abbreviation and hour from a timestamp
// column.
type WeekHour struct {
	timeCol       string
	format        string
	weekdayResult string
	hourResult    string
}

func NewWeekHour(timeCol, format, weekdayResult, hourResult string) WeekHour {
	return WeekHour{timeCol: timeCol, format: format, weekdayResult: weekdayResult, hourResult: hourResult}
}

func (m WeekHour) Map(r row.Row) ([]row.Row, error) {
	t, err := parseTimeCol(r, m.timeCol, m.format)
	if err != nil {
		return nil, err
	}
	nr := row.Copy(r)
	nr[m.weekdayResult] = t.Format("Mon")
	nr[m.hourResult] = t.Hour()
	return []row.Row{nr}, nil
}
