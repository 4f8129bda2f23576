// Package graph composes row operations into immutable, reusable pipelines.
//
// A Graph is a persistent value: every builder call returns a new Graph
// wrapping the previous one, so two graphs may share a prefix and be joined
// back together. Running a graph never mutates it; each Run produces an
// independent, single-use, lazily evaluated row sequence.
package graph

import (
	"errors"
	"fmt"
	"iter"

	"github.com/rowflow/rowflow/extsort"
	"github.com/rowflow/rowflow/row"
)

var ErrMissingSource = errors.New("missing source")

type (
	// Sources maps a source name to a factory producing a fresh row
	// sequence. This is the only coupling point to ingestion adapters.
	Sources map[string]func() iter.Seq2[row.Row, error]

	// Operation transforms its upstream inputs (resolved against the named
	// sources at run time) into a lazily produced row sequence.
	Operation interface {
		Rows(sources Sources) iter.Seq2[row.Row, error]
	}

	Graph struct {
		op Operation
	}
)

// New wraps a custom Operation into a Graph.
func New(op Operation) *Graph {
	return &Graph{op: op}
}

// FromSource starts a graph that reads the named source supplied to Run.
func FromSource(name string) *Graph {
	return &Graph{op: sourceOp{name: name}}
}

// FromFile starts a graph that reads path line by line through parse on
// every run.
func FromFile(path string, parse func(line string) (row.Row, error)) *Graph {
	return &Graph{op: fileOp{path: path, parse: parse}}
}

func (g *Graph) Map(m Mapper) *Graph {
	return &Graph{op: mapOp{up: g.op, mapper: m}}
}

// Reduce groups contiguous equal-key runs and invokes r once per group. No
// keys collapses the whole input into a single group.
func (g *Graph) Reduce(r Reducer, keys ...string) *Graph {
	return &Graph{op: reduceOp{up: g.op, reducer: r, keys: keys}}
}

// Sort establishes the ascending, stable key order Reduce and Join require,
// using the default external sort configuration.
func (g *Graph) Sort(keys ...string) *Graph {
	return g.SortWith(extsort.Config{}, keys...)
}

func (g *Graph) SortWith(cfg extsort.Config, keys ...string) *Graph {
	return &Graph{op: sortOp{up: g.op, keys: keys, cfg: cfg}}
}

// Join merges this graph with other under j. Both sides must already be
// sorted and grouped by keys.
func (g *Graph) Join(j Joiner, other *Graph, keys ...string) *Graph {
	return &Graph{op: joinOp{left: g.op, right: other.op, joiner: j, keys: keys}}
}

// Run resolves sources and drives the terminal operation. The returned
// sequence is forward-only and single-use; run again for a fresh one.
func (g *Graph) Run(sources Sources) iter.Seq2[row.Row, error] {
	return g.op.Rows(sources)
}

type sourceOp struct {
	name string
}

func (o sourceOp) Rows(sources Sources) iter.Seq2[row.Row, error] {
	return func(yield func(row.Row, error) bool) {
		factory, ok := sources[o.name]
		if !ok {
			yield(nil, fmt.Errorf("source %q: %w", o.name, ErrMissingSource))
			return
		}
		for r, err := range factory() {
			if !yield(r, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}
