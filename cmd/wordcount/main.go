package main

import (
	"flag"
	"os"

	"github.com/rowflow/rowflow/gologger"
	"github.com/rowflow/rowflow/graph"
	"github.com/rowflow/rowflow/pipelines"
	"github.com/rowflow/rowflow/rowio"
)

var logger = gologger.NewLogger()

func main() {
	input := flag.String("i", "", "input NDJSON file path")
	output := flag.String("o", "", "output NDJSON file path, - for stdout")
	textColumn := flag.String("text-column", "text", "column holding the text to count")
	countColumn := flag.String("count-column", "count", "column to write counts into")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(2)
	}

	g := pipelines.WordCount(graph.FromFile(*input, rowio.ParseLine), *textColumn, *countColumn)

	out := os.Stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			logger.Error().Err(err).Msg("error creating output file")
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	n, err := rowio.WriteNDJSON(out, g.Run(nil))
	if err != nil {
		logger.Error().Err(err).Msg("error running word count")
		os.Exit(1)
	}
	logger.Info().Int64("rows", n).Str("input", *input).Msg("word count complete")
}
