package pipelines

import (
	"fmt"
	"iter"
	"math"
	"testing"

	"github.com/rowflow/rowflow/graph"
	"github.com/rowflow/rowflow/row"
)

func fromSlice(rows []row.Row) func() iter.Seq2[row.Row, error] {
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

func collect(t *testing.T, g *graph.Graph, sources graph.Sources) []row.Row {
	t.Helper()
	var out []row.Row
	for r, err := range g.Run(sources) {
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, r)
	}
	return out
}

func relEq(got, want, tol float64) bool {
	if want == 0 {
		return math.Abs(got) <= tol
	}
	return math.Abs(got-want)/math.Abs(want) <= tol
}

func TestWordCount(t *testing.T) {
	docs := []row.Row{
		{"doc_id": int64(1), "text": "hello, my little WORLD"},
		{"doc_id": int64(2), "text": "Hello, my little little hell"},
	}

	g := WordCount(graph.FromSource("docs"), "text", "count")
	got := collect(t, g, graph.Sources{"docs": fromSlice(docs)})

	expected := []struct {
		text  string
		count int64
	}{
		{"hell", 1},
		{"world", 1},
		{"hello", 2},
		{"my", 2},
		{"little", 3},
	}
	if len(got) != len(expected) {
		t.Fatalf("got %d rows: %v", len(got), got)
	}
	for i, e := range expected {
		if got[i]["text"] != e.text || got[i]["count"] != e.count {
			t.Fatalf("row %d: got %v, expected %s=%d", i, got[i], e.text, e.count)
		}
	}
}

func TestWordCountRerunnable(t *testing.T) {
	docs := []row.Row{{"doc_id": int64(1), "text": "a b a"}}
	g := WordCount(graph.FromSource("docs"), "text", "count")
	sources := graph.Sources{"docs": fromSlice(docs)}

	for run := 0; run < 2; run++ {
		got := collect(t, g, sources)
		if len(got) != 2 || got[0]["text"] != "b" || got[1]["count"] != int64(2) {
			t.Fatalf("run %d: got %v", run, got)
		}
	}
}

func TestInvertedIndex(t *testing.T) {
	docs := []row.Row{
		{"doc_id": int64(1), "text": "hello little world"},
		{"doc_id": int64(2), "text": "little little world"},
		{"doc_id": int64(3), "text": "hello hello world"},
	}

	g := InvertedIndex(graph.FromSource("docs"), "doc_id", "text", "tf_idf")
	got := collect(t, g, graph.Sources{"docs": fromSlice(docs)})

	idf := math.Log(3.0 / 2.0)
	expected := map[string]float64{
		"1|hello":  (1.0 / 3.0) * idf,
		"3|hello":  (2.0 / 3.0) * idf,
		"1|little": (1.0 / 3.0) * idf,
		"2|little": (2.0 / 3.0) * idf,
		"1|world":  0,
		"2|world":  0,
		"3|world":  0,
	}
	if len(got) != len(expected) {
		t.Fatalf("got %d rows: %v", len(got), got)
	}
	for _, r := range got {
		k := fmt.Sprintf("%v|%v", r["doc_id"], r["text"])
		want, ok := expected[k]
		if !ok {
			t.Fatalf("unexpected pair %s: %v", k, r)
		}
		if !relEq(r["tf_idf"].(float64), want, 1e-6) {
			t.Fatalf("%s: tf_idf = %v, expected %v", k, r["tf_idf"], want)
		}
		if len(r) != 3 {
			t.Fatalf("extra columns survived projection: %v", r)
		}
	}

	// top documents come first within each word
	for i := 1; i < len(got); i++ {
		if got[i]["text"] != got[i-1]["text"] {
			continue
		}
		if got[i]["tf_idf"].(float64) > got[i-1]["tf_idf"].(float64) {
			t.Fatalf("word %v not ranked descending: %v then %v", got[i]["text"], got[i-1], got[i])
		}
	}
}

func TestPMI(t *testing.T) {
	docs := []row.Row{
		{"doc_id": int64(1), "text": "apple apple banana banana banana"},
		{"doc_id": int64(2), "text": "apple apple apple cherry cherry"},
	}

	g := PMI(graph.FromSource("docs"), "doc_id", "text", "pmi")
	got := collect(t, g, graph.Sources{"docs": fromSlice(docs)})

	expected := []struct {
		doc  int64
		text string
		pmi  float64
	}{
		{1, "banana", math.Log(2)},  // (3/5) / (3/10)
		{1, "apple", math.Log(0.8)}, // (2/5) / (5/10)
		{2, "cherry", math.Log(2)},  // (2/5) / (2/10)
		{2, "apple", math.Log(1.2)}, // (3/5) / (5/10)
	}
	if len(got) != len(expected) {
		t.Fatalf("got %d rows: %v", len(got), got)
	}
	for i, e := range expected {
		r := got[i]
		if r["doc_id"] != e.doc || r["text"] != e.text {
			t.Fatalf("row %d: got %v, expected %d/%s", i, r, e.doc, e.text)
		}
		if !relEq(r["pmi"].(float64), e.pmi, 1e-6) {
			t.Fatalf("row %d: pmi = %v, expected %v", i, r["pmi"], e.pmi)
		}
	}
}

func TestPMIFiltersShortAndRareWords(t *testing.T) {
	docs := []row.Row{
		// "tiny" is too short, "unique" appears once
		{"doc_id": int64(1), "text": "tiny tiny unique doubled doubled"},
	}

	g := PMI(graph.FromSource("docs"), "doc_id", "text", "pmi")
	got := collect(t, g, graph.Sources{"docs": fromSlice(docs)})

	if len(got) != 1 || got[0]["text"] != "doubled" {
		t.Fatalf("got %v", got)
	}
}

func TestAverageSpeed(t *testing.T) {
	times := []row.Row{
		{"edge_id": int64(1), "enter_time": "20171023T081946.239000", "leave_time": "20171023T081946.540000"},
		{"edge_id": int64(2), "enter_time": "20171025T110545.219000", "leave_time": "20171025T110552.555000"},
	}
	lengths := []row.Row{
		{"edge_id": int64(1), "start": []any{37.7457925491035, 55.649487976916134}, "end": []any{37.74583127349615, 55.64946475904435}},
		{"edge_id": int64(2), "start": []any{37.796916626393795, 55.71529174223542}, "end": []any{37.796895168721676, 55.71521601174027}},
	}

	g := AverageSpeed(graph.FromSource("times"), graph.FromSource("lengths"), DefaultAverageSpeedColumns())
	got := collect(t, g, graph.Sources{
		"times":   fromSlice(times),
		"lengths": fromSlice(lengths),
	})

	expected := []struct {
		weekday string
		hour    int
		speed   float64
	}{
		{"Mon", 8, 42.3987},
		{"Wed", 11, 4.18446},
	}
	if len(got) != len(expected) {
		t.Fatalf("got %d rows: %v", len(got), got)
	}
	for i, e := range expected {
		r := got[i]
		if r["weekday"] != e.weekday || r["hour"] != e.hour {
			t.Fatalf("row %d: got %v, expected %s/%d", i, r, e.weekday, e.hour)
		}
		if !relEq(r["speed"].(float64), e.speed, 0.005) {
			t.Fatalf("row %d: speed = %v, expected %v", i, r["speed"], e.speed)
		}
	}
}
