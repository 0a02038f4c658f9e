// Package timeline turns trace rows into a Gantt-style chart: one horizontal
// bar per row on a category axis, spanning its start and end along a time
// axis. Charts render to SVG or PNG with go-chart and are displayed as a
// small HTML page.
package timeline

import (
	"fmt"
	"slices"
	"time"

	"wasi.team/timeline/trace"
)

// Bar is a single interval on the chart.
type Bar struct {
	Category string
	Start    time.Time
	End      time.Time
	Color    trace.Value
}

// Chart holds everything needed to draw a timeline.
type Chart struct {
	Title string
	Bars  []Bar

	// Categories in axis order from bottom to top. Empty means order of
	// first appearance in Bars.
	Categories []string

	// Range clamps the time axis; nil spans all bars.
	Range *trace.Range

	// ColorBy names the value bars are colored by. Bars are drawn in a single
	// color when it is empty.
	ColorBy string
	// NumericColor selects a continuous color scale over a discrete palette.
	NumericColor bool

	Style Style
}

// FromTable creates a chart with one bar per table row.
func FromTable(table *trace.Table, title string, style Style) *Chart {
	bars := make([]Bar, table.Len())
	for i, row := range table.Rows {
		bars[i] = Bar{Category: row.Category, Start: row.Start, End: row.End, Color: row.Color}
	}
	return &Chart{
		Title:        title,
		Bars:         bars,
		NumericColor: table.NumericColor,
		Style:        style,
	}
}

// ClampTo fixes the time axis to the given range.
func (c *Chart) ClampTo(r trace.Range) *Chart {
	c.Range = &r
	return c
}

// ColorByValue colors the bars by their Color value and labels the legend.
func (c *Chart) ColorByValue(name string) *Chart {
	c.ColorBy = name
	return c
}

// categories returns the axis order, falling back to first appearance.
func (c *Chart) categories() []string {
	if len(c.Categories) > 0 {
		return c.Categories
	}
	cats := []string{}
	for _, b := range c.Bars {
		if !slices.Contains(cats, b.Category) {
			cats = append(cats, b.Category)
		}
	}
	return cats
}

// timeRange returns the clamped range or the extent of all bars.
func (c *Chart) timeRange() (trace.Range, error) {
	if c.Range != nil {
		return *c.Range, nil
	}
	if len(c.Bars) == 0 {
		return trace.Range{}, fmt.Errorf("chart has no bars")
	}
	r := trace.Range{Min: c.Bars[0].Start, Max: c.Bars[0].End}
	for _, b := range c.Bars[1:] {
		if b.Start.Before(r.Min) {
			r.Min = b.Start
		}
		if b.End.After(r.Max) {
			r.Max = b.End
		}
	}
	return r, nil
}
