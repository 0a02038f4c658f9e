package timeline

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/browser"
	"github.com/wcharczuk/go-chart/v2"
	"wasi.team/timeline/trace"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
  body { margin: 0; min-height: 100vh; display: flex; flex-direction: column;
         align-items: center; justify-content: center; font-family: sans-serif; }
  figure { margin: 1em; }
  details { max-width: 90vw; margin-bottom: 1em; }
  table { border-collapse: collapse; font-size: 12px; }
  th, td { padding: 2px 8px; text-align: left; border-bottom: 1px solid #ddd; }
</style>
</head>
<body>
<figure>{{ .SVG }}</figure>
<details>
<summary>{{ len .Rows }} bars</summary>
<table>
<tr><th>category</th><th>start</th><th>end</th>{{ if .ColorBy }}<th>{{ .ColorBy }}</th>{{ end }}</tr>
{{- range .Rows }}
<tr><td>{{ .Category }}</td><td>{{ .Start }}</td><td>{{ .End }}</td>{{ if $.ColorBy }}<td>{{ .Color }}</td>{{ end }}</tr>
{{- end }}
</table>
</details>
</body>
</html>
`))

type pageRow struct {
	Category, Start, End, Color string
}

// Embed the SVG rendering in a page with a table of all bars below it.
func (c *Chart) writePage(w io.Writer, ch chart.Chart) error {
	svg := &bytes.Buffer{}
	if err := ch.Render(chart.SVG, svg); err != nil {
		return err
	}
	rows := make([]pageRow, len(c.Bars))
	for i, b := range c.Bars {
		rows[i] = pageRow{
			Category: b.Category,
			Start:    trace.FormatTimestamp(b.Start),
			End:      trace.FormatTimestamp(b.End),
			Color:    b.Color.Text,
		}
	}
	return pageTemplate.Execute(w, struct {
		Title   string
		ColorBy string
		SVG     template.HTML
		Rows    []pageRow
	}{c.Title, c.ColorBy, template.HTML(svg.String()), rows})
}

// FormatFor guesses the output format from a file extension; anything
// that is not .svg or .png becomes an HTML page.
func FormatFor(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".svg":
		return FormatSVG
	case ".png":
		return FormatPNG
	default:
		return FormatHTML
	}
}

// WriteFile renders the chart into a file.
func (c *Chart) WriteFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := c.Render(file, FormatFor(filename)); err != nil {
		file.Close()
		return fmt.Errorf("rendering %q: %w", filename, err)
	}
	return file.Close()
}

// Target says where a displayed chart goes.
type Target struct {
	// File to write; derived from the title inside Dir if empty.
	File string
	// Dir for derived filenames; a new temporary directory if empty.
	Dir string
	// Open the written file with the system's default viewer.
	Open bool
}

// openFile is swapped out in tests.
var openFile = browser.OpenFile

// Display writes the chart and optionally opens it. It returns the path
// of the written file.
func (c *Chart) Display(t Target) (string, error) {
	filename := t.File
	if filename == "" {
		dir := t.Dir
		if dir == "" {
			tmp, err := os.MkdirTemp("", "timeline-")
			if err != nil {
				return "", err
			}
			dir = tmp
		} else if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		filename = filepath.Join(dir, pageName(c.Title))
	}

	if err := c.WriteFile(filename); err != nil {
		return "", err
	}
	if t.Open {
		// keep stdout free for the caller's own output
		browser.Stdout = os.Stderr
		if err := openFile(filename); err != nil {
			return filename, fmt.Errorf("opening %q: %w", filename, err)
		}
	}
	return filename, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Derive a page filename from a chart title, e.g. "traces/run 1.csv" -> "run-1.html".
func pageName(title string) string {
	base := filepath.Base(title)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "timeline"
	}
	return base + ".html"
}
