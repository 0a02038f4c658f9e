package timeline

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gopkg.in/yaml.v3"
)

// Style controls the chart geometry and colors. It can be read from YAML:
//
//	width: 1200
//	height: 400
//	bar_width: 0.3
//	palette: ["#636efa", "#ef553b"]
type Style struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// BarWidth is the bar thickness in category units, 1.0 touches the neighbours.
	BarWidth  float64 `yaml:"bar_width"`
	TitleSize float64 `yaml:"title_size"`
	// TimeFormat for axis labels; empty picks one from the visible span.
	TimeFormat string `yaml:"time_format"`
	// Palette is cycled for discrete colors, the first entry is the plain bar color.
	Palette []string `yaml:"palette"`
	// ColorScale stops for numeric colors, from lowest to highest value.
	ColorScale []string `yaml:"color_scale"`
}

// Plotly's default qualitative palette.
var defaultPalette = []string{
	"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a",
	"#19d3f3", "#ff6692", "#b6e880", "#ff97ff", "#fecb52",
}

// Plasma, sampled at ten stops.
var defaultColorScale = []string{
	"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
	"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
}

// DefaultStyle returns the style for a chart of the given width.
func DefaultStyle(width int) Style {
	return Style{
		Width:      width,
		Height:     450,
		BarWidth:   0.8,
		TitleSize:  14,
		Palette:    defaultPalette,
		ColorScale: defaultColorScale,
	}
}

// LoadStyle reads a YAML style file. Keys that are not given keep their
// value from base.
func LoadStyle(filename string, base Style) (Style, error) {

	// open the style file
	file, err := os.Open(filename)
	if err != nil {
		return base, fmt.Errorf("can't open file: %w", err)
	}
	defer file.Close()

	// decode on top of a copy of the base style
	style := base
	style.Palette, style.ColorScale = nil, nil
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&style); err != nil {
		return base, fmt.Errorf("decoding yaml: %w", err)
	}
	if style.Palette == nil {
		style.Palette = base.Palette
	}
	if style.ColorScale == nil {
		style.ColorScale = base.ColorScale
	}

	if err := style.Validate(); err != nil {
		return base, fmt.Errorf("%s: %w", filename, err)
	}
	return style, nil
}

// Validate checks sizes and color codes.
func (s Style) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", s.Width, s.Height)
	}
	if !(0 < s.BarWidth && s.BarWidth <= 1) {
		return fmt.Errorf("bar_width must be in (0, 1], got %v", s.BarWidth)
	}
	if len(s.Palette) == 0 {
		return fmt.Errorf("palette can't be empty")
	}
	if len(s.ColorScale) < 2 {
		return fmt.Errorf("color_scale needs at least two stops")
	}
	for _, colors := range [][]string{s.Palette, s.ColorScale} {
		for _, hex := range colors {
			if _, err := parseColor(hex); err != nil {
				return err
			}
		}
	}
	return nil
}

// parse a "#rrggbb" color code
func parseColor(hex string) (drawing.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return drawing.Color{}, fmt.Errorf("invalid color %q: expected #rrggbb", hex)
	}
	if _, err := strconv.ParseUint(h, 16, 32); err != nil {
		return drawing.Color{}, fmt.Errorf("invalid color %q: %v", hex, err)
	}
	return drawing.ColorFromHex(h), nil
}

// parse a list of colors that has been validated before
func mustParseColors(hexes []string) []drawing.Color {
	colors := make([]drawing.Color, len(hexes))
	for i, hex := range hexes {
		c, err := parseColor(hex)
		if err != nil {
			panic(err)
		}
		colors[i] = c
	}
	return colors
}
