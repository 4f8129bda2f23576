package rowio

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/rowflow/rowflow/row"
)

// WriteParquet drains rows into w as a parquet file. The schema is inferred
// from the rows, which means buffering them all before the writer opens.
// Returns the number of rows written.
func WriteParquet(w io.Writer, rows iter.Seq2[row.Row, error]) (int64, error) {
	acc := NewParquetAccumulator()
	var buffered []row.Row
	for r, err := range rows {
		if err != nil {
			return 0, err
		}
		acc.WriteRow(r)
		buffered = append(buffered, r)
	}

	parquetSchema, err := acc.GetSchemaString()
	if err != nil {
		return 0, fmt.Errorf("error in GetSchemaString: %w", err)
	}

	pw, err := writer.NewJSONWriterFromWriter(parquetSchema, w, 4)
	if err != nil {
		return 0, fmt.Errorf("error in NewJSONWriterFromWriter: %w", err)
	}

	var n int64
	for _, r := range buffered {
		rowBytes, err := json.Marshal(r)
		if err != nil {
			return n, fmt.Errorf("error in json.Marshal of row: %w", err)
		}
		if err := pw.Write(rowBytes); err != nil {
			return n, fmt.Errorf("error in pw.Write for row %s: %w", string(rowBytes), err)
		}
		n++
	}
	if err := pw.WriteStop(); err != nil {
		return n, fmt.Errorf("error in pw.WriteStop: %w", err)
	}
	return n, nil
}

// WriteParquetFile writes rows to a parquet file on the local filesystem.
func WriteParquetFile(path string, rows iter.Seq2[row.Row, error]) (int64, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return 0, fmt.Errorf("error in NewLocalFileWriter: %w", err)
	}

	n, err := WriteParquet(fw, rows)
	if err != nil {
		fw.Close()
		return n, err
	}
	if err := fw.Close(); err != nil {
		return n, fmt.Errorf("error closing parquet file: %w", err)
	}
	return n, nil
}
