package graph

import "github.com/rowflow/rowflow/row"

type (
	// Mapper transforms one row into zero or more rows. Zero rows filters,
	// several rows split. Mappers hold no per-row state.
	Mapper interface {
		Map(r row.Row) ([]row.Row, error)
	}

	// Reducer folds one contiguous group of rows sharing key into zero or
	// more rows. keyCols names the columns key was extracted from.
	Reducer interface {
		Reduce(keyCols []string, key row.Tuple, rows []row.Row) ([]row.Row, error)
	}

	// Joiner combines one key's group from each side of a sort-merge join.
	// Either side may be empty (unmatched key); the four join strategies
	// differ only in how they treat those calls.
	Joiner interface {
		Join(keyCols []string, left, right []row.Row) ([]row.Row, error)
	}
)
