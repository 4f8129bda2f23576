package extsort

import (
	"container/heap"

	"github.com/rowflow/rowflow/row"
)

// The k-way merge holds one head row per active run. Ordering is by
// (head key tuple, run index); the run index tie-break is what keeps the
// merge stable across runs, since runs are numbered in input order.

type mergeItem struct {
	r      row.Row
	t      row.Tuple
	runIdx int
}

type mergeHeap struct {
	items []mergeItem
	err   error
}

func (h *mergeHeap) Len() int { return len(h.items) }

func (h *mergeHeap) Less(i, j int) bool {
	c, err := row.CompareTuples(h.items[i].t, h.items[j].t)
	if err != nil {
		if h.err == nil {
			h.err = err
		}
		return false
	}
	if c != 0 {
		return c < 0
	}
	return h.items[i].runIdx < h.items[j].runIdx
}

func (h *mergeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *mergeHeap) Push(x any) { h.items = append(h.items, x.(mergeItem)) }

func (h *mergeHeap) Pop() any {
	old := h.items
	n := len(old)
	it := old[n-1]
	h.items = old[:n-1]
	return it
}

func mergeRuns(readers []*runReader, keys []string, yield func(row.Row, error) bool) {
	h := &mergeHeap{}
	for i, rd := range readers {
		it, ok, err := headItem(rd, keys, i)
		if err != nil {
			yield(nil, err)
			return
		}
		if ok {
			h.items = append(h.items, it)
		}
	}
	heap.Init(h)
	if h.err != nil {
		yield(nil, h.err)
		return
	}

	for h.Len() > 0 {
		it := heap.Pop(h).(mergeItem)
		if h.err != nil {
			yield(nil, h.err)
			return
		}
		if !yield(it.r, nil) {
			return
		}

		next, ok, err := headItem(readers[it.runIdx], keys, it.runIdx)
		if err != nil {
			yield(nil, err)
			return
		}
		if ok {
			heap.Push(h, next)
			if h.err != nil {
				yield(nil, h.err)
				return
			}
		}
	}
}

// headItem loads the next head row of run i, releasing the run's backing
// file the moment it is exhausted.
func headItem(rd *runReader, keys []string, i int) (mergeItem, bool, error) {
	r, ok, err := rd.next()
	if err != nil {
		return mergeItem{}, false, err
	}
	if !ok {
		rd.release()
		return mergeItem{}, false, nil
	}
	t, err := row.Key(r, keys)
	if err != nil {
		return mergeItem{}, false, err
	}
	return mergeItem{r: r, t: t, runIdx: i}, true, nil
}
