package row

import (
	"errors"
	"fmt"
)

type (
	// Row is one record flowing through a pipeline: column name to a
	// dynamically-typed value (int64/float64, string, or []any sequence).
	// Rows in one stream need not share a column set.
	Row map[string]any

	// Tuple is an ordered list of values extracted from a Row by a fixed
	// column list, used for grouping, ordering, and joining.
	Tuple []any
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrNonOrderable  = errors.New("non-orderable key")
)

func Copy(in Row) Row {
	out := make(Row, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Key extracts the key tuple for cols. A column absent from the row is a
// run-time error, not a silent nil.
func Key(r Row, cols []string) (Tuple, error) {
	t := make(Tuple, len(cols))
	for i, col := range cols {
		v, ok := r[col]
		if !ok {
			return nil, fmt.Errorf("column %q: %w", col, ErrMissingColumn)
		}
		t[i] = v
	}
	return t, nil
}
