// Command analyze computes a seller performance report for a dataset file
// without a running server or database.
package main

import (
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/go-faster/errors"

	"github.com/xanter/salesboard/internal/dataset"
	"github.com/xanter/salesboard/internal/export"
	"github.com/xanter/salesboard/internal/report"
)

func main() {
	var (
		inputFile  string
		format     string
		outputFile string
	)

	flag.StringVar(&inputFile, "input", "", "path to the dataset JSON file (plain or gzipped)")
	flag.StringVar(&format, "format", "json", "output format: json, csv or xlsx")
	flag.StringVar(&outputFile, "output", "", "output file path (defaults to stdout)")
	flag.Parse()

	if inputFile == "" {
		slog.Error("input file is required: set --input")
		os.Exit(1)
	}

	if err := run(inputFile, format, outputFile); err != nil {
		slog.Error("analyze failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(inputFile, format, outputFile string) error {
	data, err := dataset.Load(inputFile)
	if err != nil {
		return errors.Wrap(err, "load dataset")
	}

	reports, err := report.Analyze(data, report.DefaultOptions())
	if err != nil {
		return errors.Wrap(err, "analyze")
	}

	out := io.Writer(os.Stdout)
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return errors.Wrap(err, "create output file")
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}

	switch format {
	case "json":
		return export.WriteJSON(out, reports)
	case "csv":
		return export.WriteCSV(out, reports)
	case "xlsx":
		return export.WriteXLSX(out, reports)
	default:
		return errors.Errorf("unknown format %q", format)
	}
}
