package joiners

import (
	"testing"

	"github.com/rowflow/rowflow/row"
)

var (
	leftGroup = []row.Row{
		{"id": int64(1), "speed": int64(5), "note": "l"},
	}
	rightGroup = []row.Row{
		{"id": int64(1), "cost": int64(80), "note": "r"},
	}
)

func TestInnerMatched(t *testing.T) {
	out, err := NewInner().Join([]string{"id"}, leftGroup, rightGroup)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("got %v", out)
	}
	r := out[0]
	if r["id"] != int64(1) || r["speed"] != int64(5) || r["cost"] != int64(80) {
		t.Fatalf("got %v", r)
	}
	if r["note_1"] != "l" || r["note_2"] != "r" {
		t.Fatalf("shared column not suffixed: %v", r)
	}
	if _, ok := r["note"]; ok {
		t.Fatalf("unsuffixed shared column leaked: %v", r)
	}
}

func TestInnerUnmatched(t *testing.T) {
	out, err := NewInner().Join([]string{"id"}, leftGroup, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("inner join emitted unmatched rows: %v", out)
	}
}

func TestInnerCrossProduct(t *testing.T) {
	left := []row.Row{{"id": int64(1), "a": "x"}, {"id": int64(1), "a": "y"}}
	right := []row.Row{{"id": int64(1), "b": "p"}, {"id": int64(1), "b": "q"}, {"id": int64(1), "b": "r"}}
	out, err := NewInner().Join([]string{"id"}, left, right)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 6 {
		t.Fatalf("expected 6 pairs, got %d", len(out))
	}
	// left-major order
	if out[0]["a"] != "x" || out[0]["b"] != "p" {
		t.Fatalf("first pair = %v", out[0])
	}
	if out[3]["a"] != "y" || out[3]["b"] != "p" {
		t.Fatalf("fourth pair = %v", out[3])
	}
}

func TestLeftKeepsUnmatchedLeft(t *testing.T) {
	out, err := NewLeft().Join([]string{"id"}, leftGroup, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0]["speed"] != int64(5) {
		t.Fatalf("got %v", out)
	}

	out, err = NewLeft().Join([]string{"id"}, nil, rightGroup)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("left join emitted right-only rows: %v", out)
	}
}

func TestRightKeepsUnmatchedRight(t *testing.T) {
	out, err := NewRight().Join([]string{"id"}, nil, rightGroup)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0]["cost"] != int64(80) {
		t.Fatalf("got %v", out)
	}

	out, err = NewRight().Join([]string{"id"}, leftGroup, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("right join emitted left-only rows: %v", out)
	}
}

func TestOuterKeepsBothSides(t *testing.T) {
	out, err := NewOuter().Join([]string{"id"}, leftGroup, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0]["speed"] != int64(5) {
		t.Fatalf("got %v", out)
	}

	out, err = NewOuter().Join([]string{"id"}, nil, rightGroup)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0]["cost"] != int64(80) {
		t.Fatalf("got %v", out)
	}
}

func TestCustomSuffixes(t *testing.T) {
	out, err := NewInnerSuffixed("_left", "_right").Join([]string{"id"}, leftGroup, rightGroup)
	if err != nil {
		t.Fatal(err)
	}
	if out[0]["note_left"] != "l" || out[0]["note_right"] != "r" {
		t.Fatalf("got %v", out[0])
	}
}
