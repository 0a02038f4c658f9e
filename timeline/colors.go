package timeline

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

// ContinuousScale maps numbers linearly onto a gradient through the stops.
type ContinuousScale struct {
	Min   float64
	Max   float64
	Stops []drawing.Color
}

// MissingColor is used for NaN values, which have no place on a scale.
var MissingColor = drawing.ColorFromHex("bbbbbb")

// NewContinuousScale spans the scale over the smallest and largest value,
// ignoring NaNs.
func NewContinuousScale(values []float64, stops []drawing.Color) ContinuousScale {
	s := ContinuousScale{Stops: stops}
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) > 0 {
		s.Min, s.Max = floats.Min(present), floats.Max(present)
	}
	return s
}

// At returns the color for a value; values outside the domain are clamped.
func (s ContinuousScale) At(v float64) drawing.Color {
	if math.IsNaN(v) {
		return MissingColor
	}
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (v - s.Min) / (s.Max - s.Min)
	}
	return s.atRatio(ratio)
}

func (s ContinuousScale) atRatio(ratio float64) drawing.Color {
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	// find the segment and blend its two ends
	pos := ratio * float64(len(s.Stops)-1)
	i := int(math.Floor(pos))
	if i >= len(s.Stops)-1 {
		return s.Stops[len(s.Stops)-1]
	}
	return blend(s.Stops[i], s.Stops[i+1], pos-float64(i))
}

func blend(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// DiscretePalette assigns colors to labels in order of first appearance,
// cycling through the palette when there are more labels than colors.
type DiscretePalette struct {
	Labels []string
	colors []drawing.Color
	index  map[string]int
}

func NewDiscretePalette(colors []drawing.Color) *DiscretePalette {
	return &DiscretePalette{colors: colors, index: make(map[string]int)}
}

// Color returns the color for a label, registering it if it is new.
func (p *DiscretePalette) Color(label string) drawing.Color {
	i, ok := p.index[label]
	if !ok {
		i = len(p.Labels)
		p.index[label] = i
		p.Labels = append(p.Labels, label)
	}
	return p.colors[i%len(p.colors)]
}
