package timeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
	"wasi.team/timeline/trace"
)

func exampleChart() *Chart {
	style := DefaultStyle(1000)
	style.Height = 400
	style.BarWidth = 0.3
	c := &Chart{
		Title: "trace.csv",
		Bars: []Bar{
			{Category: "read", Start: t0, End: t0.AddDate(0, 0, 9), Color: trace.Value{Text: "5", Number: 5, Numeric: true}},
			{Category: "write", Start: t0.AddDate(0, 0, 14), End: t0.AddDate(0, 0, 24), Color: trace.Value{Text: "12", Number: 12, Numeric: true}},
		},
		NumericColor: true,
		Style:        style,
	}
	return c.ColorByValue("latency").ClampTo(trace.Range{Min: t0, Max: t0.AddDate(0, 0, 24)})
}

func TestSpanBox(t *testing.T) {
	canvas := chart.Box{Top: 0, Left: 100, Right: 1100, Bottom: 400}
	xr := &chart.ContinuousRange{Min: 0, Max: 100, Domain: 1000}
	yr := &chart.ContinuousRange{Min: -0.5, Max: 1.5, Domain: 400}

	box := spanBox(canvas, xr, yr, span{Row: 0, Start: 0, End: 100}, 0.3)
	assert.Equal(t, 100, box.Left)
	assert.Equal(t, 1100, box.Right)
	// 0.3 of a category is 0.15 of the 2-unit range, i.e. 60px around y=0
	assert.InDelta(t, 60, box.Bottom-box.Top, 1)
	assert.InDelta(t, 270, box.Top, 1)

	// bars reaching outside the range are clipped to the canvas
	box = spanBox(canvas, xr, yr, span{Row: 1, Start: -50, End: 150}, 0.3)
	assert.Equal(t, 100, box.Left)
	assert.Equal(t, 1100, box.Right)

	// instantaneous events keep a visible width
	box = spanBox(canvas, xr, yr, span{Row: 1, Start: 50, End: 50}, 0.3)
	assert.Equal(t, 1, box.Right-box.Left)
}

func TestBuildClampsAxesAndSizes(t *testing.T) {
	ch, err := exampleChart().build(FormatSVG)
	require.NoError(t, err)

	assert.Equal(t, 400, ch.Height)
	assert.Equal(t, "trace.csv", ch.Title)
	assert.Equal(t, chart.TimeToFloat64(t0), ch.XAxis.Range.GetMin())
	assert.Equal(t, chart.TimeToFloat64(t0.AddDate(0, 0, 24)), ch.XAxis.Range.GetMax())
	assert.Equal(t, -0.5, ch.YAxisSecondary.Range.GetMin())
	assert.Equal(t, 1.5, ch.YAxisSecondary.Range.GetMax())

	require.Len(t, ch.Series, 1)
	bs := ch.Series[0].(barSeries)
	assert.Equal(t, 0.3, bs.thickness)
	require.Len(t, bs.spans, 2)
	assert.Equal(t, 1.0, bs.spans[1].Row)
	// lowest and highest latency get the ends of the scale
	assert.NotEqual(t, bs.spans[0].Color, bs.spans[1].Color)
}

func TestBuildDiscreteColors(t *testing.T) {
	c := exampleChart()
	c.NumericColor = false
	c.Bars[1].Color = trace.Value{Text: "5"}
	c.Bars = append(c.Bars, Bar{Category: "read", Start: t0, End: t0.AddDate(0, 0, 1), Color: trace.Value{Text: "7"}})

	ch, err := c.build(FormatSVG)
	require.NoError(t, err)
	require.Len(t, ch.Series, 2)
	assert.Equal(t, "5", ch.Series[0].GetName())
	assert.Len(t, ch.Series[0].(barSeries).spans, 2)
	assert.Equal(t, "7", ch.Series[1].GetName())
}

func TestBuildSingleInstant(t *testing.T) {
	c := &Chart{Title: "x", Bars: []Bar{{Category: "a", Start: t0, End: t0}}, Style: DefaultStyle(500)}
	ch, err := c.build(FormatSVG)
	require.NoError(t, err)
	assert.Greater(t, ch.XAxis.Range.GetMax(), ch.XAxis.Range.GetMin())
}

func TestBuildErrors(t *testing.T) {
	_, err := (&Chart{Style: DefaultStyle(500)}).build(FormatSVG)
	assert.Error(t, err)

	c := exampleChart()
	c.Style.Width = 0
	_, err = c.build(FormatSVG)
	assert.Error(t, err)
}

func TestRenderFormats(t *testing.T) {
	var svg bytes.Buffer
	require.NoError(t, exampleChart().Render(&svg, FormatSVG))
	assert.Contains(t, svg.String(), "<svg")
	assert.Contains(t, svg.String(), "trace.csv")

	var png bytes.Buffer
	require.NoError(t, exampleChart().Render(&png, FormatPNG))
	assert.Equal(t, []byte("\x89PNG"), png.Bytes()[:4])

	var page bytes.Buffer
	require.NoError(t, exampleChart().Render(&page, FormatHTML))
	assert.Contains(t, page.String(), "<title>trace.csv</title>")
	assert.Contains(t, page.String(), "<svg")
	assert.Contains(t, page.String(), "2023-08-25 00:00:00")
}

func TestBuildKeepsBothAxesInRange(t *testing.T) {
	ch, err := exampleChart().build(FormatSVG)
	require.NoError(t, err)
	assert.Equal(t, ch.YAxisSecondary.Ticks, ch.YAxis.Ticks)
	assert.True(t, ch.YAxis.Style.Hidden)
}

func TestLabelsAreEscaped(t *testing.T) {
	c := exampleChart()
	c.Title = "a<b>.csv"
	c.Bars[0].Category = "<script>alert(1)</script>"
	c.Bars[1].Category = "r&w"

	var svg bytes.Buffer
	require.NoError(t, c.Render(&svg, FormatSVG))
	assert.NotContains(t, svg.String(), "<script>")
	assert.NotContains(t, svg.String(), "r&w")
	assert.Contains(t, svg.String(), "&lt;script&gt;")
	assert.Contains(t, svg.String(), "r&amp;w")
	assert.Contains(t, svg.String(), "a&lt;b&gt;.csv")

	var page bytes.Buffer
	require.NoError(t, c.Render(&page, FormatHTML))
	assert.NotContains(t, page.String(), "<script>")
	assert.NotContains(t, page.String(), "r&w")

	// raster output draws the labels themselves
	ch, err := c.build(FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, "r&w", ch.YAxisSecondary.Ticks[2].Label)
	assert.Equal(t, "a<b>.csv", ch.Title)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatSVG, FormatFor("out.SVG"))
	assert.Equal(t, FormatPNG, FormatFor("a/b.png"))
	assert.Equal(t, FormatHTML, FormatFor("chart.html"))
	assert.Equal(t, FormatHTML, FormatFor("chart"))
}

func TestDisplay(t *testing.T) {
	opened := []string{}
	original := openFile
	openFile = func(path string) error {
		opened = append(opened, path)
		return nil
	}
	t.Cleanup(func() { openFile = original })

	dir := t.TempDir()
	path, err := exampleChart().Display(Target{Dir: filepath.Join(dir, "charts"), Open: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "charts", "trace.html"), path)
	assert.Equal(t, []string{path}, opened)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	explicit := filepath.Join(dir, "out.svg")
	path, err = exampleChart().Display(Target{File: explicit})
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	assert.Len(t, opened, 1)
}

func TestPageName(t *testing.T) {
	assert.Equal(t, "run-1.html", pageName("traces/run 1.csv"))
	assert.Equal(t, "Broken-Bar-Chart.html", pageName("Broken Bar Chart"))
	assert.Equal(t, "timeline.html", pageName(""))
}
