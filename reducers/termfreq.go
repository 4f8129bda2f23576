package reducers

import (
	"fmt"

	"github.com/rowflow/rowflow/row"
)

// TermFrequency emits one row per distinct value of a column within the
// group, with frequency = occurrences / group size. Output rows follow
// first-occurrence order.
type TermFrequency struct {
	wordsColumn string
	result      string
}

func NewTermFrequency(wordsColumn, result string) TermFrequency {
	return TermFrequency{wordsColumn: wordsColumn, result: result}
}

func (tf TermFrequency) Reduce(keyCols []string, _ row.Tuple, rows []row.Row) ([]row.Row, error) {
	counts := make(map[any]int, len(rows))
	var order []any
	values := make(map[any]any)

	for _, r := range rows {
		v, ok := r[tf.wordsColumn]
		if !ok {
			return nil, fmt.Errorf("column %q: %w", tf.wordsColumn, row.ErrMissingColumn)
		}
		k := distinctKey(v)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
			values[k] = v
		}
		counts[k]++
	}

	total := len(rows)
	base := keyRow(keyCols, rows)
	out := make([]row.Row, 0, len(order))
	for _, k := range order {
		nr := row.Copy(base)
		nr[tf.wordsColumn] = values[k]
		nr[tf.result] = float64(counts[k]) / float64(total)
		out = append(out, nr)
	}
	return out, nil
}
