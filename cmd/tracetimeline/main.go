// tracetimeline renders a CSV trace of I/O requests as a timeline: one bar
// per request on its io_type row, colored by latency. It prints the time
// range covered by the trace and opens the chart in a browser.
//
// Usage:
//
//	tracetimeline [-v] [-o chart.html] [-style style.yaml] trace.csv
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"wasi.team/timeline/config"
	"wasi.team/timeline/timeline"
	"wasi.team/timeline/trace"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main with injectable outputs; it returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {

	// use configuration from environment variables for defaults
	conf, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "ERR: %s\n", err)
		return 1
	}

	a, err := cmdline(args, conf, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	} else if err != nil {
		return 2
	}
	if a.Version {
		fmt.Fprintln(stdout, config.Version)
		return 0
	}

	logger, err := conf.NewLogger()
	if err != nil {
		fmt.Fprintf(stderr, "ERR: %s\n", err)
		return 1
	}
	defer logger.Sync()

	if err := plot(a, conf, stdout, logger); err != nil {
		logger.Error("tracetimeline failed", zap.String("file", a.Filename), zap.Error(err))
		return 1
	}
	return 0
}

// plot is the straight line: read the trace, print its range, render the chart.
func plot(a Args, conf config.Configuration, stdout io.Writer, logger *zap.Logger) error {
	logger.Debug("arguments", zap.Any("args", a))

	style := timeline.DefaultStyle(conf.Width)
	style.Height = 400
	style.BarWidth = 0.3
	if a.Style != "" {
		var err error
		if style, err = timeline.LoadStyle(a.Style, style); err != nil {
			return err
		}
	}

	table, err := trace.Load(a.Filename, trace.IOTraceSchema)
	if err != nil {
		return err
	}
	logger.Debug("loaded trace",
		zap.String("file", a.Filename),
		zap.Int("rows", table.Len()),
		zap.Strings("columns", table.Frame.ColumnNames()),
	)

	r, err := table.Range()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, r)

	chart := timeline.FromTable(table, a.Filename, style).
		ColorByValue(trace.IOTraceSchema.Color).
		ClampTo(r)

	path, err := chart.Display(timeline.Target{File: a.Output, Dir: conf.OutputDir, Open: a.Open})
	if err != nil {
		return err
	}
	logger.Info("rendered timeline", zap.String("path", path), zap.Bool("opened", a.Open))
	return nil
}
