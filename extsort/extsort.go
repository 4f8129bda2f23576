// Package extsort provides the bounded-memory external merge sort that
// establishes the ascending, stable key order Reduce and Join require.
package extsort

import (
	"fmt"
	"iter"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/rowflow/rowflow/gologger"
	"github.com/rowflow/rowflow/row"
	"github.com/rowflow/rowflow/utils"
)

var (
	logger   = gologger.NewLogger()
	validate = validator.New()
)

// DefaultMaxRowsPerRun bounds the in-memory working set when the caller does
// not set one. Any positive run size is conforming; only the output order is
// contractual.
const DefaultMaxRowsPerRun = 8192

type Config struct {
	// MaxRowsPerRun is the number of rows sorted in memory before the run
	// spills to disk. Zero means DefaultMaxRowsPerRun.
	MaxRowsPerRun int `validate:"gte=1"`
	// TempDir holds spill runs for the duration of one sort. Empty means
	// the OS temp dir.
	TempDir string
}

func (c Config) withDefaults() Config {
	if c.MaxRowsPerRun == 0 {
		c.MaxRowsPerRun = int(utils.GetEnvOrDefaultInt("SORT_MAX_ROWS_PER_RUN", DefaultMaxRowsPerRun))
	}
	return c
}

// Sort produces the rows of src in ascending order of their key tuple over
// keys. The sort is stable: rows with equal keys keep their input order, no
// matter how the input is cut into runs. All spill storage lives under one
// temp dir whose removal is deferred, so it is released on completion, on
// error, and when the consumer abandons the output sequence mid-iteration.
func Sort(src iter.Seq2[row.Row, error], keys []string, cfg Config) iter.Seq2[row.Row, error] {
	return func(yield func(row.Row, error) bool) {
		cfg = cfg.withDefaults()
		if err := validate.Struct(cfg); err != nil {
			yield(nil, fmt.Errorf("invalid sort config: %w", err))
			return
		}

		dir, err := os.MkdirTemp(cfg.TempDir, "rowflow-sort-"+utils.GenRandomShortID()+"-")
		if err != nil {
			yield(nil, fmt.Errorf("error in os.MkdirTemp: %w", err))
			return
		}
		defer os.RemoveAll(dir)

		paths, totalRows, err := spillRuns(src, keys, cfg.MaxRowsPerRun, dir)
		if err != nil {
			yield(nil, err)
			return
		}
		logger.Debug().Int("runs", len(paths)).Int("rows", totalRows).Str("dir", dir).Msg("spilled sorted runs")

		readers := make([]*runReader, len(paths))
		for i, path := range paths {
			rd, err := openRun(path)
			if err != nil {
				yield(nil, err)
				return
			}
			readers[i] = rd
		}
		defer func() {
			for _, rd := range readers {
				rd.release()
			}
		}()

		mergeRuns(readers, keys, yield)
	}
}

type runEntry struct {
	r row.Row
	t row.Tuple
}

// spillRuns partitions src into runs of at most maxRows rows, stably sorts
// each run in memory, and writes it to its own file under dir. Returns the
// run file paths in input order.
func spillRuns(src iter.Seq2[row.Row, error], keys []string, maxRows int, dir string) ([]string, int, error) {
	var paths []string
	totalRows := 0
	buf := make([]runEntry, 0, maxRows)

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := sortRun(buf); err != nil {
			return err
		}
		path, err := writeRun(dir, buf)
		if err != nil {
			return err
		}
		paths = append(paths, path)
		totalRows += len(buf)
		buf = buf[:0]
		return nil
	}

	for r, err := range src {
		if err != nil {
			return nil, 0, err
		}
		t, err := row.Key(r, keys)
		if err != nil {
			return nil, 0, err
		}
		buf = append(buf, runEntry{r: r, t: t})
		if len(buf) >= maxRows {
			if err := flush(); err != nil {
				return nil, 0, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, 0, err
	}
	return paths, totalRows, nil
}

func sortRun(buf []runEntry) error {
	var sortErr error
	sort.SliceStable(buf, func(i, j int) bool {
		c, err := row.CompareTuples(buf[i].t, buf[j].t)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c < 0
	})
	return sortErr
}
