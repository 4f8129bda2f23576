package mappers

import (
	"errors"
	"math"
	"testing"

	"github.com/rowflow/rowflow/row"
)

func mapOne(t *testing.T, m interface {
	Map(row.Row) ([]row.Row, error)
}, r row.Row) row.Row {
	t.Helper()
	out, err := m.Map(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	return out[0]
}

func approxEq(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestFilterPunctuation(t *testing.T) {
	got := mapOne(t, NewFilterPunctuation("text"), row.Row{"text": "Hello, my little WORLD!"})
	if got["text"] != "Hello my little WORLD" {
		t.Fatalf("text = %q", got["text"])
	}
}

func TestFilterPunctuationKeepsInputIntact(t *testing.T) {
	in := row.Row{"text": "a, b"}
	mapOne(t, NewFilterPunctuation("text"), in)
	if in["text"] != "a, b" {
		t.Fatalf("input mutated: %q", in["text"])
	}
}

func TestLowerCase(t *testing.T) {
	got := mapOne(t, NewLowerCase("text"), row.Row{"text": "HeLLo"})
	if got["text"] != "hello" {
		t.Fatalf("text = %q", got["text"])
	}
}

func TestSplitFansOut(t *testing.T) {
	out, err := NewSplit("text").Map(row.Row{"doc_id": int64(1), "text": "one two  three"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 rows, got %v", out)
	}
	for i, w := range []string{"one", "two", "three"} {
		if out[i]["text"] != w {
			t.Fatalf("token %d = %q, expected %q", i, out[i]["text"], w)
		}
		if out[i]["doc_id"] != int64(1) {
			t.Fatalf("token %d lost doc_id", i)
		}
	}
}

func TestSplitPattern(t *testing.T) {
	m, err := NewSplitPattern("csv", `,`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := m.Map(row.Row{"csv": "a,b,c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[2]["csv"] != "c" {
		t.Fatalf("got %v", out)
	}
}

func TestFilter(t *testing.T) {
	m := NewFilter(func(r row.Row) bool { return r["keep"] == true })
	out, err := m.Map(row.Row{"keep": false})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected row dropped, got %v", out)
	}
	out, err = m.Map(row.Row{"keep": true})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("expected row kept, got %v", out)
	}
}

func TestProject(t *testing.T) {
	got := mapOne(t, NewProject("a"), row.Row{"a": int64(1), "b": int64(2)})
	if len(got) != 1 || got["a"] != int64(1) {
		t.Fatalf("got %v", got)
	}
}

func TestProjectMissingColumn(t *testing.T) {
	_, err := NewProject("nope").Map(row.Row{"a": int64(1)})
	if !errors.Is(err, row.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLog(t *testing.T) {
	cases := []struct {
		arg  any
		want float64
	}{
		{int64(1), 0},
		{int64(34), 3.526360},
		{0.5, -0.693147181},
	}
	for _, c := range cases {
		got := mapOne(t, NewLog("arg", "log"), row.Row{"arg": c.arg})
		if !approxEq(got["log"].(float64), c.want, 0.001) {
			t.Fatalf("log(%v) = %v, expected %v", c.arg, got["log"], c.want)
		}
	}
}

func TestDivide(t *testing.T) {
	got := mapOne(t, NewDivide("nom", "denom", "frac"), row.Row{"nom": int64(1), "denom": int64(3)})
	if !approxEq(got["frac"].(float64), 1.0/3.0, 0.001) {
		t.Fatalf("frac = %v", got["frac"])
	}

	got = mapOne(t, NewDivide("nom", "denom", "frac"), row.Row{"nom": int64(10), "denom": int64(5)})
	if !approxEq(got["frac"].(float64), 2, 0.001) {
		t.Fatalf("frac = %v", got["frac"])
	}
}

func TestDivideByZero(t *testing.T) {
	_, err := NewDivide("nom", "denom", "frac").Map(row.Row{"nom": int64(1), "denom": int64(0)})
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestProductKeepsIntegers(t *testing.T) {
	got := mapOne(t, NewProduct("p", "a", "b"), row.Row{"a": int64(3), "b": int64(4)})
	if got["p"] != int64(12) {
		t.Fatalf("p = %#v, expected int64 12", got["p"])
	}

	got = mapOne(t, NewProduct("p", "a", "b"), row.Row{"a": int64(3), "b": 0.5})
	if !approxEq(got["p"].(float64), 1.5, 1e-9) {
		t.Fatalf("p = %#v, expected 1.5", got["p"])
	}
}

func TestWeekHour(t *testing.T) {
	cases := []struct {
		time    string
		weekday string
		hour    int
	}{
		{"20171022T131828.330000", "Sun", 13},
		{"20171011T161458.927000", "Wed", 16},
		{"20171018T110540.664000", "Wed", 11},
		{"20171010T184917.569000", "Tue", 18},
	}
	m := NewWeekHour("time", "20060102T150405.000000", "weekday", "hour")
	for _, c := range cases {
		got := mapOne(t, m, row.Row{"time": c.time})
		if got["weekday"] != c.weekday || got["hour"] != c.hour {
			t.Fatalf("%s: got %v/%v, expected %s/%d", c.time, got["weekday"], got["hour"], c.weekday, c.hour)
		}
	}
}

func TestWeekHourFallbackFormat(t *testing.T) {
	m := NewWeekHour("time", "20060102T150405.000000", "weekday", "hour")
	got := mapOne(t, m, row.Row{"time": "20171022T131828"})
	if got["weekday"] != "Sun" || got["hour"] != 13 {
		t.Fatalf("got %v/%v", got["weekday"], got["hour"])
	}
}

func TestLengthHaversine(t *testing.T) {
	cases := []struct {
		start, end []any
		want       float64
	}{
		{[]any{37.7457925491035, 55.649487976916134}, []any{37.74583127349615, 55.64946475904435}, 0.003545},
		{[]any{37.796916626393795, 55.71529174223542}, []any{37.796895168721676, 55.71521601174027}, 0.008527},
		{[]any{37.603422570973635, 55.77562338206917}, []any{37.60357637889683, 55.77564806677401}, 0.01000},
		{[]any{37.38734079524875, 55.79634306952357}, []any{37.38734926097095, 55.79626637510955}, 0.0085444},
	}
	m := NewLength("start", "end", "length")
	for i, c := range cases {
		got := mapOne(t, m, row.Row{"start": c.start, "end": c.end})
		l := got["length"].(float64)
		if math.Abs(l-c.want)/c.want > 0.001 {
			t.Fatalf("case %d: length = %v, expected %v", i, l, c.want)
		}
	}
}

func TestLengthPassThrough(t *testing.T) {
	in := row.Row{"start": []any{0.0, 0.0}, "end": []any{1.0, 1.0}, "length": 42.0}
	got := mapOne(t, NewLength("start", "end", "length"), in)
	if got["length"] != 42.0 {
		t.Fatalf("length = %v, expected pass-through 42", got["length"])
	}
}
