// Package mappers is the standard library of Mapper strategies.
package mappers

import (
	"fmt"

	"github.com/rowflow/rowflow/row"
)

// Identity yields exactly the row passed.
type Identity struct{}

func (Identity) Map(r row.Row) ([]row.Row, error) {
	return []row.Row{r}, nil
}

// Filter drops rows that don't satisfy the condition.
type Filter struct {
	cond func(r row.Row) bool
}

func NewFilter(cond func(r row.Row) bool) Filter {
	return Filter{cond: cond}
}

func (m Filter) Map(r row.Row) ([]row.Row, error) {
	if m.cond(r) {
		return []row.Row{r}, nil
	}
	return nil, nil
}

// Project keeps only the named columns.
type Project struct {
	columns []string
}

func NewProject(columns ...string) Project {
	return Project{columns: columns}
}

func (m Project) Map(r row.Row) ([]row.Row, error) {
	nr := make(row.Row, len(m.columns))
	for _, col := range m.columns {
		v, ok := r[col]
		if !ok {
			return nil, fmt.Errorf("column %q: %w", col, row.ErrMissingColumn)
		}
		nr[col] = v
	}
	return []row.Row{nr}, nil
}

func stringCol(r row.Row, col string) (string, error) {
	v, ok := r[col]
	if !ok {
		return "", fmt.Errorf("column %q: %w", col, row.ErrMissingColumn)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("column %q is not a string (%T)", col, v)
	}
	return s, nil
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
