package graph

import (
	"iter"

	"github.com/rowflow/rowflow/row"
)

// joinOp is a synchronized two-pointer merge over the group sequences of two
// streams, both of which must already be sorted ascending, and grouped, by
// the join keys. O(N+M) group steps; each matched pair is handed to the
// Joiner whole.
type joinOp struct {
	left   Operation
	right  Operation
	joiner Joiner
	keys   []string
}

func (o joinOp) Rows(sources Sources) iter.Seq2[row.Row, error] {
	return func(yield func(row.Row, error) bool) {
		nextLeft, stopLeft := iter.Pull2(groups(o.left.Rows(sources), o.keys))
		defer stopLeft()
		nextRight, stopRight := iter.Pull2(groups(o.right.Rows(sources), o.keys))
		defer stopRight()

		emit := func(left, right []row.Row) bool {
			out, err := o.joiner.Join(o.keys, left, right)
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

		lg, lerr, lok := nextLeft()
		rg, rerr, rok := nextRight()

		for lok && rok {
			if lerr != nil {
				yield(nil, lerr)
				return
			}
			if rerr != nil {
				yield(nil, rerr)
				return
			}

			c, err := row.CompareTuples(lg.key, rg.key)
			if err != nil {
				yield(nil, err)
				return
			}
			switch {
			case c < 0:
				if !emit(lg.rows, nil) {
					return
				}
				lg, lerr, lok = nextLeft()
			case c > 0:
				if !emit(nil, rg.rows) {
					return
				}
				rg, rerr, rok = nextRight()
			default:
				if !emit(lg.rows, rg.rows) {
					return
				}
				lg, lerr, lok = nextLeft()
				rg, rerr, rok = nextRight()
			}
		}

		for lok {
			if lerr != nil {
				yield(nil, lerr)
				return
			}
			if !emit(lg.rows, nil) {
				return
			}
			lg, lerr, lok = nextLeft()
		}
		for rok {
			if rerr != nil {
				yield(nil, rerr)
				return
			}
			if !emit(nil, rg.rows) {
				return
			}
			rg, rerr, rok = nextRight()
		}
	}
}
