package rowio

import (
	"strings"
	"testing"

	"github.com/rowflow/rowflow/row"
)

func TestAccumulatorInfersTypes(t *testing.T) {
	acc := NewParquetAccumulator()
	acc.WriteRow(row.Row{
		"word":  "hello",
		"count": int64(3),
		"tf":    0.5,
		"tags":  []any{"a", "b"},
	})

	names := acc.GetColumnNames()
	types := acc.GetColumnTypes()
	if len(names) != 4 || len(types) != 4 {
		t.Fatalf("expected 4 columns, got names=%v types=%v", names, types)
	}

	byName := map[string]string{}
	for i, n := range names {
		byName[n] = types[i]
	}
	if byName["Word"] != "string" {
		t.Fatalf("Word type = %q", byName["Word"])
	}
	if byName["Count"] != "int" {
		t.Fatalf("Count type = %q", byName["Count"])
	}
	if byName["Tf"] != "float" {
		t.Fatalf("Tf type = %q", byName["Tf"])
	}
	if byName["Tags"] != "list(string)" {
		t.Fatalf("Tags type = %q", byName["Tags"])
	}
}

func TestAccumulatorFirstTypeWins(t *testing.T) {
	acc := NewParquetAccumulator()
	acc.WriteRow(row.Row{"n": int64(1)})
	acc.WriteRow(row.Row{"n": "later"})

	types := acc.GetColumnTypes()
	if len(types) != 1 || types[0] != "int" {
		t.Fatalf("types = %v", types)
	}
}

func TestAccumulatorEmptyListDeferred(t *testing.T) {
	acc := NewParquetAccumulator()
	acc.WriteRow(row.Row{"tags": []any{}})
	if len(acc.GetColumnNames()) != 0 {
		t.Fatalf("empty list should not produce a column yet, got %v", acc.GetColumnNames())
	}
	acc.WriteRow(row.Row{"tags": []any{int64(1)}})
	types := acc.GetColumnTypes()
	if len(types) != 1 || types[0] != "list(int)" {
		t.Fatalf("types = %v", types)
	}
}

func TestSchemaStringShape(t *testing.T) {
	acc := NewParquetAccumulator()
	acc.WriteRow(row.Row{"word": "x", "count": int64(1)})

	s, err := acc.GetSchemaString()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s, "name=parquet_go_root, repetitiontype=REQUIRED") {
		t.Fatalf("missing root tag: %s", s)
	}
	if !strings.Contains(s, "type=INT64") {
		t.Fatalf("missing INT64 column: %s", s)
	}
	if !strings.Contains(s, "type=BYTE_ARRAY, convertedtype=UTF8") {
		t.Fatalf("missing string column: %s", s)
	}
}
