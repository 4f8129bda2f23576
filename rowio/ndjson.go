// Package rowio holds the ingestion and egestion adapters at the engine
// boundary: newline-delimited JSON, parquet files, S3 objects, and Postgres
// queries. The engine itself only ever sees row sequences.
package rowio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/danthegoodman1/gojsonutils"

	"github.com/rowflow/rowflow/row"
)

const maxLineBytes = 1 << 20

var (
	ErrMalformedLine = errors.New("malformed input line")
	ErrNotFlatMap    = errors.New("not a flat map")
)

// ParseLine decodes one NDJSON record into a Row. Nested objects are
// flattened into dotted column names; integers stay integers.
func ParseLine(line string) (row.Row, error) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedLine, err.Error())
	}
	jsonMap, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: line is not a JSON object", ErrMalformedLine)
	}

	flat, err := gojsonutils.Flatten(jsonMap, nil)
	if err != nil {
		return nil, fmt.Errorf("error flattening JSON map: %w", err)
	}
	flatMap, ok := flat.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %+v", ErrNotFlatMap, flat)
	}

	r := make(row.Row, len(flatMap))
	for k, v := range flatMap {
		r[k] = normalizeJSONValue(v)
	}
	return r, nil
}

// normalizeJSONValue turns json.Number into int64 when integral, float64
// otherwise, so key typing survives ingestion.
func normalizeJSONValue(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return f
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalizeJSONValue(e)
		}
		return out
	}
	return v
}

// ScanRows lazily parses NDJSON records from r. The sequence is single-use;
// wrap the open in a factory for re-runnable sources.
func ScanRows(r io.Reader) iter.Seq2[row.Row, error] {
	return func(yield func(row.Row, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			rr, err := ParseLine(line)
			if !yield(rr, err) {
				return
			}
			if err != nil {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("error scanning ndjson: %w", err))
		}
	}
}

// FileSource is a re-runnable named source reading an NDJSON file. The file
// opens on every run and closes when its sequence ends or is abandoned.
func FileSource(path string) func() iter.Seq2[row.Row, error] {
	return func() iter.Seq2[row.Row, error] {
		return func(yield func(row.Row, error) bool) {
			f, err := os.Open(path)
			if err != nil {
				yield(nil, fmt.Errorf("error in os.Open: %w", err))
				return
			}
			defer f.Close()
			for r, err := range ScanRows(f) {
				if !yield(r, err) {
					return
				}
				if err != nil {
					return
				}
			}
		}
	}
}

// SliceSource is a re-runnable named source over in-memory rows.
func SliceSource(rows []row.Row) func() iter.Seq2[row.Row, error] {
	return func() iter.Seq2[row.Row, error] {
		return func(yield func(row.Row, error) bool) {
			for _, r := range rows {
				if !yield(r, nil) {
					return
				}
			}
		}
	}
}

// WriteNDJSON drains rows into w, one JSON record per line. Returns the
// number of rows written.
func WriteNDJSON(w io.Writer, rows iter.Seq2[row.Row, error]) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for r, err := range rows {
		if err != nil {
			return n, err
		}
		b, err := json.Marshal(r)
		if err != nil {
			return n, fmt.Errorf("error in json.Marshal: %w", err)
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return n, fmt.Errorf("error writing ndjson: %w", err)
		}
		n++
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("error flushing ndjson: %w", err)
	}
	return n, nil
}
