package timeline

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the output encoding.
type Format int

const (
	FormatHTML Format = iota
	FormatSVG
	FormatPNG
)

// Render draws the chart in the given format.
func (c *Chart) Render(w io.Writer, format Format) error {
	ch, err := c.build(format)
	if err != nil {
		return err
	}
	switch format {
	case FormatPNG:
		return ch.Render(chart.PNG, w)
	case FormatSVG:
		return ch.Render(chart.SVG, w)
	case FormatHTML:
		return c.writePage(w, ch)
	default:
		return fmt.Errorf("unknown format %d", format)
	}
}

// A bar placed in chart units: Row is the category index, Start and End
// are times converted with chart.TimeToFloat64.
type span struct {
	Row   float64
	Start float64
	End   float64
	Color drawing.Color
}

// barSeries draws horizontal bars. It is not a ValuesProvider, so both
// axes need explicit ranges.
type barSeries struct {
	name      string
	style     chart.Style
	spans     []span
	thickness float64
}

func (bs barSeries) GetName() string           { return bs.name }
func (bs barSeries) GetStyle() chart.Style     { return bs.style }
func (bs barSeries) GetYAxis() chart.YAxisType { return chart.YAxisSecondary }

func (bs barSeries) Validate() error {
	if len(bs.spans) == 0 {
		return fmt.Errorf("bar series %q has no bars", bs.name)
	}
	return nil
}

func (bs barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := bs.style.InheritFrom(defaults)
	for _, s := range bs.spans {
		style.FillColor = s.Color
		style.StrokeColor = s.Color
		chart.Draw.Box(r, spanBox(canvasBox, xrange, yrange, s, bs.thickness), style)
	}
}

// Compute the pixel box of a bar, clipped horizontally to the canvas. Bars
// are at least one pixel wide so that instantaneous events stay visible.
func spanBox(canvasBox chart.Box, xrange, yrange chart.Range, s span, thickness float64) chart.Box {
	left := canvasBox.Left + xrange.Translate(s.Start)
	right := canvasBox.Left + xrange.Translate(s.End)
	left = max(left, canvasBox.Left)
	right = min(right, canvasBox.Right)
	if right <= left {
		right = left + 1
	}
	return chart.Box{
		Top:    canvasBox.Bottom - yrange.Translate(s.Row+thickness/2),
		Bottom: canvasBox.Bottom - yrange.Translate(s.Row-thickness/2),
		Left:   left,
		Right:  right,
	}
}

// go-chart writes text into SVG documents as is, so labels are escaped for
// every format but PNG.
func textFor(format Format) func(string) string {
	if format == FormatPNG {
		return func(s string) string { return s }
	}
	return html.EscapeString
}

// build assembles the go-chart definition.
func (c *Chart) build(format Format) (chart.Chart, error) {
	text := textFor(format)
	if err := c.Style.Validate(); err != nil {
		return chart.Chart{}, err
	}
	if len(c.Bars) == 0 {
		return chart.Chart{}, fmt.Errorf("chart has no bars")
	}

	// time axis, widened by a second if all bars are at one instant
	r, err := c.timeRange()
	if err != nil {
		return chart.Chart{}, err
	}
	minX, maxX := chart.TimeToFloat64(r.Min), chart.TimeToFloat64(r.Max)
	if maxX <= minX {
		maxX = minX + float64(time.Second)
	}
	layout := c.Style.TimeFormat
	if layout == "" {
		layout = timeFormat(r.Max.Sub(r.Min))
	}

	// category axis with one tick per category and blank ticks at the edges
	categories := c.categories()
	index := make(map[string]int, len(categories))
	for i, cat := range categories {
		index[cat] = i
	}
	for _, b := range c.Bars {
		if _, ok := index[b.Category]; !ok {
			index[b.Category] = len(categories)
			categories = append(categories, b.Category)
		}
	}
	yMin, yMax := -0.5, float64(len(categories))-0.5
	ticks := []chart.Tick{{Value: yMin, Label: ""}}
	for i, cat := range categories {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: text(cat)})
	}
	ticks = append(ticks, chart.Tick{Value: yMax, Label: ""})

	place := func(b Bar, color drawing.Color) span {
		return span{
			Row:   float64(index[b.Category]),
			Start: chart.TimeToFloat64(b.Start),
			End:   chart.TimeToFloat64(b.End),
			Color: color,
		}
	}

	series, elements := c.colorSeries(place, text)
	padding := chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}
	if c.ColorBy != "" {
		// room for the legend above or the colorbar to the right
		if c.NumericColor {
			padding.Right = 90
		} else {
			padding.Top = 50
		}
	}

	ch := chart.Chart{
		Title:      text(c.Title),
		TitleStyle: chart.Style{FontSize: c.Style.TitleSize},
		Width:      c.Style.Width,
		Height:     c.Style.Height,
		Background: chart.Style{Padding: padding},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat(layout),
			Range:          &chart.ContinuousRange{Min: minX, Max: maxX},
			GridMajorStyle: chart.Style{StrokeColor: chart.ColorLightGray, StrokeWidth: 1},
		},
		// the primary axis sits on the right and stays hidden; go-chart bounds
		// the secondary range by the primary ticks, so both carry them
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		YAxisSecondary: chart.YAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	ch.Elements = elements
	if c.ColorBy != "" && !c.NumericColor {
		ch.Elements = append(ch.Elements, chart.LegendThin(&ch))
	}
	return ch, nil
}

// Split bars into series according to the coloring mode.
func (c *Chart) colorSeries(place func(Bar, drawing.Color) span, text func(string) string) ([]chart.Series, []chart.Renderable) {
	thickness := c.Style.BarWidth
	palette := mustParseColors(c.Style.Palette)

	// a single color for all bars
	if c.ColorBy == "" {
		bs := barSeries{name: text(c.Title), thickness: thickness}
		for _, b := range c.Bars {
			bs.spans = append(bs.spans, place(b, palette[0]))
		}
		return []chart.Series{bs}, nil
	}

	// numeric values on a gradient, explained by a colorbar
	if c.NumericColor {
		values := make([]float64, len(c.Bars))
		for i, b := range c.Bars {
			values[i] = b.Color.Number
		}
		scale := NewContinuousScale(values, mustParseColors(c.Style.ColorScale))
		bs := barSeries{name: text(c.ColorBy), thickness: thickness}
		for _, b := range c.Bars {
			bs.spans = append(bs.spans, place(b, scale.At(b.Color.Number)))
		}
		return []chart.Series{bs}, []chart.Renderable{colorBar(scale, text(c.ColorBy))}
	}

	// one series per label so that the legend lists them
	discrete := NewDiscretePalette(palette)
	groups := make(map[string]*barSeries)
	for _, b := range c.Bars {
		color := discrete.Color(b.Color.Text)
		bs, ok := groups[b.Color.Text]
		if !ok {
			bs = &barSeries{
				name:      text(b.Color.Text),
				style:     chart.Style{FillColor: color, StrokeColor: color},
				thickness: thickness,
			}
			groups[b.Color.Text] = bs
		}
		bs.spans = append(bs.spans, place(b, color))
	}
	series := make([]chart.Series, 0, len(groups))
	for _, label := range discrete.Labels {
		series = append(series, *groups[label])
	}
	return series, nil
}

const (
	colorBarGap   = 16
	colorBarWidth = 14
)

// colorBar draws a vertical gradient to the right of the canvas with the
// scale's extremes as labels.
func colorBar(scale ContinuousScale, name string) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		left := canvasBox.Right + colorBarGap
		right := left + colorBarWidth
		top, bottom := canvasBox.Top, canvasBox.Bottom
		height := bottom - top
		if height <= 0 {
			return
		}

		const step = 2
		for y := 0; y < height; y += step {
			color := scale.atRatio(1 - float64(y)/float64(height))
			chart.Draw.Box(r, chart.Box{
				Top:    top + y,
				Bottom: min(top+y+step, bottom),
				Left:   left,
				Right:  right,
			}, chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1})
		}

		text := chart.Style{
			Font:      defaults.Font,
			FontSize:  8,
			FontColor: chart.ColorBlack,
		}
		text.WriteTextOptionsToRenderer(r)
		r.Text(name, left, top-6)
		r.Text(formatValue(scale.Max), right+4, top+8)
		r.Text(formatValue(scale.Min), right+4, bottom)
	}
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// Pick axis labels that fit the visible span.
func timeFormat(span time.Duration) string {
	switch {
	case span >= 3*24*time.Hour:
		return "2006-01-02"
	case span >= 24*time.Hour:
		return "01-02 15:04"
	case span >= time.Minute:
		return "15:04:05"
	default:
		return "15:04:05.000"
	}
}
