package mappers

import (
	"regexp"
	"strings"

	"github.com/rowflow/rowflow/row"
)

var punctuationRe = regexp.MustCompile(`[^\s\w]|_`)

// FilterPunctuation strips every non-word, non-space character from a column.
type FilterPunctuation struct {
	column string
}

func NewFilterPunctuation(column string) FilterPunctuation {
	return FilterPunctuation{column: column}
}

func (m FilterPunctuation) Map(r row.Row) ([]row.Row, error) {
	s, err := stringCol(r, m.column)
	if err != nil {
		return nil, err
	}
	nr := row.Copy(r)
	nr[m.column] = punctuationRe.ReplaceAllString(s, "")
	return []row.Row{nr}, nil
}

// LowerCase replaces a column value with its lower-cased form.
type LowerCase struct {
	column string
}

func NewLowerCase(column string) LowerCase {
	return LowerCase{column: column}
}

func (m LowerCase) Map(r row.Row) ([]row.Row, error) {
	s, err := stringCol(r, m.column)
	if err != nil {
		return nil, err
	}
	nr := row.Copy(r)
	nr[m.column] = strings.ToLower(s)
	return []row.Row{nr}, nil
}

// Split fans one row out into one row per token of a column.
type Split struct {
	column string
	sep    *regexp.Regexp
}

// NewSplit splits on runs of whitespace.
func NewSplit(column string) Split {
	return Split{column: column, sep: regexp.MustCompile(`\s+`)}
}

// NewSplitPattern splits on a regular expression.
func NewSplitPattern(column, pattern string) (Split, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Split{}, err
	}
	return Split{column: column, sep: re}, nil
}

func (m Split) Map(r row.Row) ([]row.Row, error) {
	s, err := stringCol(r, m.column)
	if err != nil {
		return nil, err
	}
	parts := m.sep.Split(s, -1)
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	out := make([]row.Row, 0, len(parts))
	for _, part := range parts {
		nr := row.Copy(r)
		nr[m.column] = part
		out = append(out, nr)
	}
	return out, nil
}
