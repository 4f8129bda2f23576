package extsort

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rowflow/rowflow/row"
	"github.com/rowflow/rowflow/utils"
)

func init() {
	// Sequence values travel inside the row's interface slots.
	gob.Register([]any{})
}

// writeRun spills one sorted run. File names are k-sortable so the spill dir
// lists in creation (run) order.
func writeRun(dir string, entries []runEntry) (string, error) {
	path := filepath.Join(dir, utils.GenKSortedID("run-"))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error in os.Create: %w", err)
	}
	w := bufio.NewWriter(f)
	enc := gob.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e.r); err != nil {
			f.Close()
			return "", fmt.Errorf("error encoding spill row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("error flushing spill run: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing spill run: %w", err)
	}
	return path, nil
}

type runReader struct {
	path string
	f    *os.File
	dec  *gob.Decoder
}

func openRun(path string) (*runReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error in os.Open: %w", err)
	}
	return &runReader{path: path, f: f, dec: gob.NewDecoder(bufio.NewReader(f))}, nil
}

// next returns the run's next row, or ok=false once the run is exhausted.
func (rr *runReader) next() (row.Row, bool, error) {
	if rr.f == nil {
		return nil, false, nil
	}
	var r row.Row
	if err := rr.dec.Decode(&r); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error decoding spill row: %w", err)
	}
	return r, true, nil
}

// release closes and deletes the run's backing file. Idempotent; called as
// soon as the merge drains the run, and again via defer for safety.
func (rr *runReader) release() {
	if rr.f == nil {
		return
	}
	rr.f.Close()
	os.Remove(rr.path)
	rr.f = nil
}
