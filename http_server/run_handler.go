package http_server

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rowflow/rowflow/graph"
	"github.com/rowflow/rowflow/pipelines"
	"github.com/rowflow/rowflow/row"
	"github.com/rowflow/rowflow/rowio"
)

type (
	RunReqBody struct {
		// Line-delimited JSON (NDJSON)
		RowsString *string
		// Array of JSON rows
		Rows []map[string]any

		DocColumn    string
		TextColumn   string
		ResultColumn string
	}

	RunStats struct {
		Pipeline string
		NumRows  int64
		TimeMS   int64
	}
)

// pipelineBuilders names every pipeline runnable over a single posted row
// stream. Each builder binds the "input" source.
var pipelineBuilders = map[string]func(body RunReqBody) *graph.Graph{
	"word_count": func(body RunReqBody) *graph.Graph {
		return pipelines.WordCount(graph.FromSource("input"), body.TextColumn, body.ResultColumn)
	},
	"inverted_index": func(body RunReqBody) *graph.Graph {
		return pipelines.InvertedIndex(graph.FromSource("input"), body.DocColumn, body.TextColumn, body.ResultColumn)
	},
	"pmi": func(body RunReqBody) *graph.Graph {
		return pipelines.PMI(graph.FromSource("input"), body.DocColumn, body.TextColumn, body.ResultColumn)
	},
}

func (s *HTTPServer) ListPipelinesHandler(c *CustomContext) error {
	names := make([]string, 0, len(pipelineBuilders))
	for name := range pipelineBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return c.JSON(http.StatusOK, names)
}

func (s *HTTPServer) RunHandler(c *CustomContext) error {
	start := time.Now()

	pipeline := c.Param("pipeline")
	builder, ok := pipelineBuilders[pipeline]
	if !ok {
		return c.String(http.StatusNotFound, fmt.Sprintf("unknown pipeline %q", pipeline))
	}

	var reqBody RunReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	if reqBody.DocColumn == "" {
		reqBody.DocColumn = "doc_id"
	}
	if reqBody.TextColumn == "" {
		reqBody.TextColumn = "text"
	}
	if reqBody.ResultColumn == "" {
		reqBody.ResultColumn = defaultResultColumn(pipeline)
	}

	defer c.Request().Body.Close()

	rows, err := extractRows(reqBody)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	if len(rows) == 0 {
		return c.String(http.StatusBadRequest, "no rows found")
	}

	g := builder(reqBody)

	var b bytes.Buffer
	numRows, err := rowio.WriteNDJSON(&b, g.Run(graph.Sources{
		"input": rowio.SliceSource(rows),
	}))
	if err != nil {
		return c.InternalError(err, "error running pipeline")
	}

	logger := zerolog.Ctx(c.Request().Context())
	logger.Debug().Str("pipeline", pipeline).Int64("numRows", numRows).Int64("timeMS", time.Since(start).Milliseconds()).Msg("ran pipeline")

	c.Response().Header().Set("X-Pipeline-Rows", fmt.Sprint(numRows))
	return c.Blob(http.StatusOK, "application/x-ndjson", b.Bytes())
}

func defaultResultColumn(pipeline string) string {
	switch pipeline {
	case "inverted_index":
		return "tf_idf"
	case "pmi":
		return "pmi"
	default:
		return "count"
	}
}

func extractRows(reqBody RunReqBody) ([]row.Row, error) {
	var rows []row.Row
	if reqBody.RowsString != nil {
		for r, err := range rowio.ScanRows(strings.NewReader(*reqBody.RowsString)) {
			if err != nil {
				return nil, err
			}
			rows = append(rows, r)
		}
		return rows, nil
	}

	for _, raw := range reqBody.Rows {
		r := make(row.Row, len(raw))
		for k, v := range raw {
			r[k] = normalizeBoundValue(v)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// normalizeBoundValue restores integer typing lost to the JSON binder, which
// decodes every number as float64.
func normalizeBoundValue(v any) any {
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalizeBoundValue(e)
		}
		return out
	}
	return v
}
