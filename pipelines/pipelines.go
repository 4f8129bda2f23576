// Package pipelines holds prebuilt analytic graphs: word counting, tf-idf
// inverted indexing, pointwise mutual information, and average road speed.
// Each builder takes the input graph so callers decide where rows come from.
package pipelines

import (
	"github.com/rowflow/rowflow/graph"
	"github.com/rowflow/rowflow/joiners"
	"github.com/rowflow/rowflow/mappers"
	"github.com/rowflow/rowflow/reducers"
	"github.com/rowflow/rowflow/row"
)

// WordCount counts occurrences of every word in textCol across all rows.
// Output rows carry textCol and countCol, ordered by ascending count then
// word.
func WordCount(input *graph.Graph, textCol, countCol string) *graph.Graph {
	return input.
		Map(mappers.NewFilterPunctuation(textCol)).
		Map(mappers.NewLowerCase(textCol)).
		Map(mappers.NewSplit(textCol)).
		Sort(textCol).
		Reduce(reducers.NewCount(countCol), textCol).
		Sort(countCol, textCol)
}

// InvertedIndex scores every word/document pair with tf-idf and keeps the
// top 3 documents per word.
func InvertedIndex(input *graph.Graph, docCol, textCol, resultCol string) *graph.Graph {
	docCount := input.
		Map(mappers.NewProject(docCol)).
		Reduce(reducers.NewCountUnique(docCol, "n_docs"))

	words := input.
		Map(mappers.NewFilterPunctuation(textCol)).
		Map(mappers.NewLowerCase(textCol)).
		Map(mappers.NewSplit(textCol))

	frequency := words.
		Sort(docCol).
		Reduce(reducers.NewTermFrequency(textCol, "freq"), docCol).
		Sort(textCol)

	presence := words.
		Sort(textCol).
		Reduce(reducers.NewCountUnique(docCol, "presence_in_docs"), textCol).
		Sort(textCol)

	return docCount.
		Join(joiners.NewInner(), frequency).
		Join(joiners.NewInner(), presence, textCol).
		Map(mappers.NewDivide("n_docs", "presence_in_docs", "fraction")).
		Map(mappers.NewLog("fraction", "log")).
		Map(mappers.NewProduct(resultCol, "freq", "log")).
		Map(mappers.NewProject(docCol, textCol, resultCol)).
		Sort(textCol).
		Reduce(reducers.NewTopN(resultCol, 3), textCol)
}

// PMI ranks, for every document, the top 10 words by pointwise mutual
// information. Only words longer than four characters appearing at least
// twice in the document participate.
func PMI(input *graph.Graph, docCol, textCol, resultCol string) *graph.Graph {
	words := input.
		Map(mappers.NewFilterPunctuation(textCol)).
		Map(mappers.NewLowerCase(textCol)).
		Map(mappers.NewSplit(textCol)).
		Map(mappers.NewFilter(func(r row.Row) bool {
			s, ok := r[textCol].(string)
			return ok && len([]rune(s)) > 4
		})).
		Sort(docCol, textCol)

	filtered := words.
		Sort(docCol, textCol).
		Reduce(reducers.NewCount("count"), docCol, textCol).
		Map(mappers.NewFilter(func(r row.Row) bool {
			n, ok := r["count"].(int64)
			return ok && n >= 2
		})).
		Map(mappers.NewProject(docCol, textCol)).
		Join(joiners.NewInner(), words, docCol, textCol)

	frequency := filtered.
		Reduce(reducers.NewTermFrequency(textCol, "freq"), docCol).
		Sort(textCol)

	frequencyAll := filtered.
		Reduce(reducers.NewTermFrequency(textCol, "freq_all")).
		Sort(textCol)

	return frequency.
		Join(joiners.NewInner(), frequencyAll, textCol).
		Map(mappers.NewDivide("freq", "freq_all", "fraq")).
		Map(mappers.NewLog("fraq", resultCol)).
		Map(mappers.NewProject(docCol, textCol, resultCol)).
		Sort(docCol, resultCol, textCol).
		Reduce(reducers.NewTopN(resultCol, 10), docCol)
}

// AverageSpeedTimeFormat parses the traffic log timestamps, microsecond
// precision with a plain-seconds fallback inside the reducers.
const AverageSpeedTimeFormat = "20060102T150405.000000"

// AverageSpeedColumns names the inputs and outputs of AverageSpeed so
// callers with differently shaped feeds can remap them.
type AverageSpeedColumns struct {
	EnterTime  string
	LeaveTime  string
	EdgeID     string
	StartCoord string
	EndCoord   string
	Weekday    string
	Hour       string
	Speed      string
}

func DefaultAverageSpeedColumns() AverageSpeedColumns {
	return AverageSpeedColumns{
		EnterTime:  "enter_time",
		LeaveTime:  "leave_time",
		EdgeID:     "edge_id",
		StartCoord: "start",
		EndCoord:   "end",
		Weekday:    "weekday",
		Hour:       "hour",
		Speed:      "speed",
	}
}

// AverageSpeed computes the mean traversal speed in km/h per (weekday, hour)
// bucket from a stream of edge traversal times and a stream of edge
// geometries.
func AverageSpeed(timeInput, lengthInput *graph.Graph, cols AverageSpeedColumns) *graph.Graph {
	times := timeInput.
		Map(mappers.NewWeekHour(cols.EnterTime, AverageSpeedTimeFormat, cols.Weekday, cols.Hour)).
		Sort(cols.EdgeID)

	lengths := lengthInput.
		Map(mappers.NewLength(cols.StartCoord, cols.EndCoord, "length")).
		Sort(cols.EdgeID)

	return times.
		Join(joiners.NewInner(), lengths, cols.EdgeID).
		Sort(cols.Weekday, cols.Hour).
		Reduce(reducers.NewSpeed("length", cols.EnterTime, cols.LeaveTime, AverageSpeedTimeFormat, cols.Speed), cols.Weekday, cols.Hour)
}
