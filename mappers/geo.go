package mappers

import (
	"fmt"
	"math"

	"github.com/rowflow/rowflow/row"
)

const earthRadiusKm = 6371.0

// Length computes the haversine great-circle distance in kilometers between
// two [lon, lat] coordinate columns. Rows that already carry the result
// column pass through untouched.
type Length struct {
	start  string
	end    string
	result string
}

func NewLength(start, end, result string) Length {
	return Length{start: start, end: end, result: result}
}

func (m Length) Map(r row.Row) ([]row.Row, error) {
	if _, ok := r[m.result]; ok {
		return []row.Row{r}, nil
	}

	lon1, lat1, err := coord(r, m.start)
	if err != nil {
		return nil, err
	}
	lon2, lat2, err := coord(r, m.end)
	if err != nil {
		return nil, err
	}

	nr := row.Copy(r)
	nr[m.result] = haversine(lon1, lat1, lon2, lat2)
	return []row.Row{nr}, nil
}

func coord(r row.Row, col string) (lon, lat float64, err error) {
	v, ok := r[col]
	if !ok {
		return 0, 0, fmt.Errorf("column %q: %w", col, row.ErrMissingColumn)
	}
	seq, ok := v.([]any)
	if !ok || len(seq) != 2 {
		return 0, 0, fmt.Errorf("column %q is not a [lon, lat] pair (%T)", col, v)
	}
	lon, ok = row.AsFloat(seq[0])
	if !ok {
		return 0, 0, fmt.Errorf("column %q has a non-numeric longitude", col)
	}
	lat, ok = row.AsFloat(seq[1])
	if !ok {
		return 0, 0, fmt.Errorf("column %q has a non-numeric latitude", col)
	}
	return lon, lat, nil
}

func haversine(lon1, lat1, lon2, lat2 float64) float64 {
	lon1, lat1 = radians(lon1), radians(lat1)
	lon2, lat2 = radians(lon2), radians(lat2)

	dlon := lon2 - lon1
	dlat := lat2 - lat1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))
	return c * earthRadiusKm
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
