package reducers

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/rowflow/rowflow/row"
)

// TopN retains the n rows with the largest value of a column, using a
// bounded min-heap keyed by (value, first-seen index) so ties keep the
// earliest row. Output is sorted descending by value, earliest first among
// equals. O(group size * log n).
type TopN struct {
	column string
	n      int
}

func NewTopN(column string, n int) TopN {
	return TopN{column: column, n: n}
}

type topEntry struct {
	r         row.Row
	val       any
	firstSeen int
}

type topHeap struct {
	entries []topEntry
	err     error
}

func (h *topHeap) Len() int { return len(h.entries) }

// Min-heap: the smallest (value, first-seen) pair sits on top, so the
// weakest retained row is the one a larger newcomer evicts.
func (h *topHeap) Less(i, j int) bool {
	c, err := row.CompareValues(h.entries[i].val, h.entries[j].val)
	if err != nil {
		if h.err == nil {
			h.err = err
		}
		return false
	}
	if c != 0 {
		return c < 0
	}
	return h.entries[i].firstSeen < h.entries[j].firstSeen
}

func (h *topHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *topHeap) Push(x any) { h.entries = append(h.entries, x.(topEntry)) }

func (h *topHeap) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	h.entries = old[:n-1]
	return e
}

func (t TopN) Reduce(_ []string, _ row.Tuple, rows []row.Row) ([]row.Row, error) {
	h := &topHeap{}
	for i, r := range rows {
		v, ok := r[t.column]
		if !ok {
			return nil, fmt.Errorf("column %q: %w", t.column, row.ErrMissingColumn)
		}

		if h.Len() < t.n {
			heap.Push(h, topEntry{r: r, val: v, firstSeen: i})
			if h.err != nil {
				return nil, h.err
			}
			continue
		}
		if t.n == 0 {
			break
		}

		c, err := row.CompareValues(v, h.entries[0].val)
		if err != nil {
			return nil, err
		}
		if c > 0 {
			h.entries[0] = topEntry{r: r, val: v, firstSeen: i}
			heap.Fix(h, 0)
			if h.err != nil {
				return nil, h.err
			}
		}
	}

	kept := h.entries
	var sortErr error
	sort.SliceStable(kept, func(i, j int) bool {
		c, err := row.CompareValues(kept[i].val, kept[j].val)
		if err != nil {
			if sortErr == nil {
				sortErr = err
			}
			return false
		}
		if c != 0 {
			return c > 0
		}
		return kept[i].firstSeen < kept[j].firstSeen
	})
	if sortErr != nil {
		return nil, sortErr
	}

	out := make([]row.Row, 0, len(kept))
	for _, e := range kept {
		out = append(out, e.r)
	}
	return out, nil
}
