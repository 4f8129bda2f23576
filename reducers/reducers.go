// Package reducers is the standard library of Reducer strategies. Each one
// receives a single contiguous group of rows sharing a key tuple.
package reducers

import (
	"fmt"

	"github.com/rowflow/rowflow/row"
)

// keyRow builds the output row skeleton carrying the group's key columns.
func keyRow(keyCols []string, rows []row.Row) row.Row {
	nr := make(row.Row, len(keyCols)+1)
	if len(rows) > 0 {
		for _, col := range keyCols {
			nr[col] = rows[0][col]
		}
	}
	return nr
}

func numberCol(r row.Row, col string) (float64, error) {
	v, ok := r[col]
	if !ok {
		return 0, fmt.Errorf("column %q: %w", col, row.ErrMissingColumn)
	}
	f, ok := row.AsFloat(v)
	if !ok {
		return 0, fmt.Errorf("column %q is not numeric (%T)", col, v)
	}
	return f, nil
}

// First yields only the first row of each group.
type First struct{}

func (First) Reduce(_ []string, _ row.Tuple, rows []row.Row) ([]row.Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	return []row.Row{rows[0]}, nil
}

// Count emits one row per group with the group's row count.
type Count struct {
	column string
}

func NewCount(column string) Count {
	return Count{column: column}
}

func (c Count) Reduce(keyCols []string, _ row.Tuple, rows []row.Row) ([]row.Row, error) {
	nr := keyRow(keyCols, rows)
	nr[c.column] = int64(len(rows))
	return []row.Row{nr}, nil
}

// Sum emits one row per group with the sum of a column. The sum stays an
// integer while every value is one.
type Sum struct {
	column string
}

func NewSum(column string) Sum {
	return Sum{column: column}
}

func (s Sum) Reduce(keyCols []string, _ row.Tuple, rows []row.Row) ([]row.Row, error) {
	intSum := int64(0)
	floatSum := 0.0
	allInts := true
	for _, r := range rows {
		f, err := numberCol(r, s.column)
		if err != nil {
			return nil, err
		}
		if i, isInt := row.AsInt(r[s.column]); isInt {
			intSum += i
		} else {
			allInts = false
		}
		floatSum += f
	}

	nr := keyRow(keyCols, rows)
	if allInts {
		nr[s.column] = intSum
	} else {
		nr[s.column] = floatSum
	}
	return []row.Row{nr}, nil
}

// CountUnique emits one row per group with the count of distinct values of a
// column. Numeric values that compare equal count once (1 and 1.0).
type CountUnique struct {
	column string
	result string
}

func NewCountUnique(column, result string) CountUnique {
	return CountUnique{column: column, result: result}
}

func (c CountUnique) Reduce(keyCols []string, _ row.Tuple, rows []row.Row) ([]row.Row, error) {
	seen := make(map[any]struct{}, len(rows))
	for _, r := range rows {
		v, ok := r[c.column]
		if !ok {
			return nil, fmt.Errorf("column %q: %w", c.column, row.ErrMissingColumn)
		}
		seen[distinctKey(v)] = struct{}{}
	}

	nr := keyRow(keyCols, rows)
	nr[c.result] = int64(len(seen))
	return []row.Row{nr}, nil
}

// distinctKey folds the numeric kinds together and keeps sequence values
// hashable.
func distinctKey(v any) any {
	if f, ok := row.AsFloat(v); ok {
		return f
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%T %v", v, v)
}
