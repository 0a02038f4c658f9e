// timelinedemo renders a fixed set of tasks as a timeline with the rows
// ordered by their total length, shortest at the bottom.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"wasi.team/timeline/config"
	"wasi.team/timeline/timeline"
	"wasi.team/timeline/trace"
)

// edit this table to change the chart
var tasks = []struct {
	Task, Start, End string
}{
	{"Task A", "2023-08-01", "2023-08-10"},
	{"Task B", "2023-08-15", "2023-08-25"},
	{"Task C", "2023-09-05", "2023-09-15"},
}

func main() {

	conf, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		os.Exit(1)
	}
	logger, err := conf.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	chart := demoChart(timeline.DefaultStyle(conf.Width))
	path, err := chart.Display(timeline.Target{Dir: conf.OutputDir, Open: conf.Open})
	if err != nil {
		logger.Fatal("rendering demo failed", zap.Error(err))
	}
	logger.Info("rendered timeline", zap.String("path", path))
}

func demoChart(style timeline.Style) *timeline.Chart {
	chart := &timeline.Chart{Title: "Broken Bar Chart", Style: style}
	for _, t := range tasks {
		chart.Bars = append(chart.Bars, timeline.Bar{
			Category: t.Task,
			Start:    must(trace.ParseTimestamp(t.Start)),
			End:      must(trace.ParseTimestamp(t.End)),
		})
	}
	if err := chart.OrderTotalAscending(); err != nil {
		panic(err)
	}
	return chart
}

func must[T any](v T, e error) T {
	if e != nil {
		panic(e)
	}
	return v
}
