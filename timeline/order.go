package timeline

import (
	"fmt"

	"github.com/tobgu/qframe"
	"github.com/tobgu/qframe/config/groupby"
	"gonum.org/v1/gonum/floats"
)

// TotalAscending orders categories by the summed length of their bars, the
// shortest total first, which puts it at the bottom of the axis. Categories
// with equal totals keep the order in which they first appear.
func TotalAscending(bars []Bar) ([]string, error) {
	if len(bars) == 0 {
		return nil, nil
	}

	// one frame row per bar, remembering where each category was first seen
	first := make(map[string]int)
	categories := make([]string, len(bars))
	seen := make([]int, len(bars))
	lengths := make([]float64, len(bars))
	for i, b := range bars {
		if _, ok := first[b.Category]; !ok {
			first[b.Category] = len(first)
		}
		categories[i] = b.Category
		seen[i] = first[b.Category]
		lengths[i] = b.End.Sub(b.Start).Seconds()
	}

	frame := qframe.New(map[string]interface{}{
		"category": categories,
		"first":    seen,
		"total":    lengths,
	})
	frame = frame.
		GroupBy(groupby.Columns("category", "first")).
		Aggregate(qframe.Aggregation{Fn: floats.Sum, Column: "total"}).
		Sort(qframe.Order{Column: "total"}, qframe.Order{Column: "first"})
	if frame.Err != nil {
		return nil, fmt.Errorf("ordering categories: %w", frame.Err)
	}

	view, err := frame.StringView("category")
	if err != nil {
		return nil, err
	}
	order := make([]string, view.Len())
	for i := range order {
		order[i] = *view.ItemAt(i)
	}
	return order, nil
}

// OrderTotalAscending sets the category axis of the chart to TotalAscending.
func (c *Chart) OrderTotalAscending() error {
	order, err := TotalAscending(c.Bars)
	if err != nil {
		return err
	}
	c.Categories = order
	return nil
}
