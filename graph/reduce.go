package graph

import (
	"iter"

	"github.com/rowflow/rowflow/row"
)

type groupItem struct {
	key  row.Tuple
	rows []row.Row
}

// groups yields maximal runs of consecutive rows sharing a key tuple.
// Grouping is positional: if a key reappears after a different key, it forms
// a second, distinct group. With no keys the whole input is one group.
func groups(src iter.Seq2[row.Row, error], keys []string) iter.Seq2[groupItem, error] {
	return func(yield func(groupItem, error) bool) {
		var cur groupItem
		started := false
		for r, err := range src {
			if err != nil {
				yield(groupItem{}, err)
				return
			}
			k, err := row.Key(r, keys)
			if err != nil {
				yield(groupItem{}, err)
				return
			}
			if started && row.TuplesEqual(k, cur.key) {
				cur.rows = append(cur.rows, r)
				continue
			}
			if started && !yield(cur, nil) {
				return
			}
			cur = groupItem{key: k, rows: []row.Row{r}}
			started = true
		}
		if started {
			yield(cur, nil)
		}
	}
}

type reduceOp struct {
	up      Operation
	reducer Reducer
	keys    []string
}

func (o reduceOp) Rows(sources Sources) iter.Seq2[row.Row, error] {
	return func(yield func(row.Row, error) bool) {
		emit := func(key row.Tuple, rows []row.Row) bool {
			out, err := o.reducer.Reduce(o.keys, key, rows)
			if err != nil {
				yield(nil, err)
				return false
			}
			for _, r := range out {
				if !yield(r, nil) {
					return false
				}
			}
			return true
		}

		if len(o.keys) == 0 {
			// Single group over the whole input, invoked even when empty.
			var all []row.Row
			for r, err := range o.up.Rows(sources) {
				if err != nil {
					yield(nil, err)
					return
				}
				all = append(all, r)
			}
			emit(row.Tuple{}, all)
			return
		}

		for g, err := range groups(o.up.Rows(sources), o.keys) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !emit(g.key, g.rows) {
				return
			}
		}
	}
}
