package graph

import (
	"bufio"
	"fmt"
	"iter"
	"os"

	"github.com/rowflow/rowflow/extsort"
	"github.com/rowflow/rowflow/row"
)

const maxLineBytes = 1 << 20

type fileOp struct {
	path  string
	parse func(line string) (row.Row, error)
}

func (o fileOp) Rows(_ Sources) iter.Seq2[row.Row, error] {
	return func(yield func(row.Row, error) bool) {
		f, err := os.Open(o.path)
		if err != nil {
			yield(nil, fmt.Errorf("error in os.Open: %w", err))
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			r, err := o.parse(scanner.Text())
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(r, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("error scanning %s: %w", o.path, err))
		}
	}
}

type mapOp struct {
	up     Operation
	mapper Mapper
}

func (o mapOp) Rows(sources Sources) iter.Seq2[row.Row, error] {
	return func(yield func(row.Row, error) bool) {
		for r, err := range o.up.Rows(sources) {
			if err != nil {
				yield(nil, err)
				return
			}
			out, err := o.mapper.Map(r)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, outRow := range out {
				if !yield(outRow, nil) {
					return
				}
			}
		}
	}
}

type sortOp struct {
	up   Operation
	keys []string
	cfg  extsort.Config
}

func (o sortOp) Rows(sources Sources) iter.Seq2[row.Row, error] {
	return extsort.Sort(o.up.Rows(sources), o.keys, o.cfg)
}
