package reducers

import (
	"fmt"
	"time"

	"github.com/rowflow/rowflow/mappers"
	"github.com/rowflow/rowflow/row"
)

// Speed aggregates total road length and total elapsed time over the group
// and emits length / time (km/h). Timestamps parse with the configured
// format, falling back to mappers.FallbackTimeFormat.
type Speed struct {
	lengthCol  string
	enterCol   string
	leaveCol   string
	timeFormat string
	result     string
}

func NewSpeed(lengthCol, enterCol, leaveCol, timeFormat, result string) Speed {
	return Speed{lengthCol: lengthCol, enterCol: enterCol, leaveCol: leaveCol, timeFormat: timeFormat, result: result}
}

func (s Speed) Reduce(keyCols []string, _ row.Tuple, rows []row.Row) ([]row.Row, error) {
	lengthTotal := 0.0
	hoursTotal := 0.0

	for _, r := range rows {
		enter, err := s.parseTime(r, s.enterCol)
		if err != nil {
			return nil, err
		}
		leave, err := s.parseTime(r, s.leaveCol)
		if err != nil {
			return nil, err
		}

		length, err := numberCol(r, s.lengthCol)
		if err != nil {
			return nil, err
		}

		hoursTotal += leave.Sub(enter).Hours()
		lengthTotal += length
	}

	if hoursTotal == 0 {
		return nil, mappers.ErrDivisionByZero
	}

	nr := keyRow(keyCols, rows)
	nr[s.result] = lengthTotal / hoursTotal
	return []row.Row{nr}, nil
}

func (s Speed) parseTime(r row.Row, col string) (time.Time, error) {
	v, ok := r[col]
	if !ok {
		return time.Time{}, fmt.Errorf("column %q: %w", col, row.ErrMissingColumn)
	}
	str, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("column %q is not a string timestamp (%T)", col, v)
	}
	t, err := time.Parse(s.timeFormat, str)
	if err != nil {
		t, err = time.Parse(mappers.FallbackTimeFormat, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("error parsing time column %q: %w", col, err)
		}
	}
	return t, nil
}
