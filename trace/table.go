package trace

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tobgu/qframe"
)

var (
	// ErrMissingColumn is returned when a required column is not in the header.
	ErrMissingColumn = errors.New("column not found")
	// ErrDateParse is returned for cells that are not recognizable timestamps.
	ErrDateParse = errors.New("cannot parse date")
	// ErrEmptyTrace is returned when a trace has a header but no rows.
	ErrEmptyTrace = errors.New("trace has no rows")
)

// Schema names the columns that make up a timeline row.
type Schema struct {
	Category string
	Start    string
	End      string
	// Color is optional and only used to group bars by color.
	Color string
}

// IOTraceSchema is the layout of I/O trace files: one row per request.
var IOTraceSchema = Schema{
	Category: "io_type",
	Start:    "start",
	End:      "end",
	Color:    "latency",
}

// Columns lists the required column names in a stable order.
func (s Schema) Columns() []string {
	cols := []string{s.Category, s.Start, s.End}
	if s.Color != "" {
		cols = append(cols, s.Color)
	}
	return cols
}

// Value is a cell used for coloring: numeric columns color on a continuous
// scale, anything else is a discrete label.
type Value struct {
	Text    string
	Number  float64
	Numeric bool
}

// Row is one bar on the timeline. End >= Start is assumed, not checked.
type Row struct {
	Category string
	Start    time.Time
	End      time.Time
	Color    Value
}

// Table is a trace loaded wholesale. Rows keep the file order.
type Table struct {
	Frame qframe.QFrame
	Rows  []Row
	// NumericColor is set when the color column holds numbers.
	NumericColor bool
}

// Load reads a trace file and converts it with the given schema.
func Load(filename string, schema Schema) (*Table, error) {
	frame, err := ReadFile(filename, schema.Columns()...)
	if err != nil {
		return nil, err
	}
	table, err := FromFrame(frame, schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return table, nil
}

// FromFrame checks the schema against a frame and parses all rows.
func FromFrame(frame qframe.QFrame, schema Schema) (*Table, error) {

	// make sure all columns are there before touching any values
	names := frame.ColumnNames()
	for _, col := range schema.Columns() {
		if !slices.Contains(names, col) {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	categories, err := stringColumn(frame, schema.Category)
	if err != nil {
		return nil, err
	}
	starts, err := timeColumn(frame, schema.Start)
	if err != nil {
		return nil, err
	}
	ends, err := timeColumn(frame, schema.End)
	if err != nil {
		return nil, err
	}

	table := &Table{Frame: frame, Rows: make([]Row, frame.Len())}
	for i := range table.Rows {
		table.Rows[i] = Row{Category: categories[i], Start: starts[i], End: ends[i]}
	}

	if schema.Color != "" {
		colors, numeric, err := valueColumn(frame, schema.Color)
		if err != nil {
			return nil, err
		}
		table.NumericColor = numeric
		for i := range table.Rows {
			table.Rows[i].Color = colors[i]
		}
	}
	return table, nil
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Range spans from the earliest start to the latest end of all rows.
func (t *Table) Range() (Range, error) {
	if len(t.Rows) == 0 {
		return Range{}, ErrEmptyTrace
	}
	r := Range{Min: t.Rows[0].Start, Max: t.Rows[0].End}
	for _, row := range t.Rows[1:] {
		if row.Start.Before(r.Min) {
			r.Min = row.Start
		}
		if row.End.After(r.Max) {
			r.Max = row.End
		}
	}
	return r, nil
}

// Range is a closed time interval.
type Range struct {
	Min time.Time
	Max time.Time
}

// String prints both ends separated by a space.
func (r Range) String() string {
	return FormatTimestamp(r.Min) + " " + FormatTimestamp(r.Max)
}

// Read a column as strings; nulls become empty strings.
func stringColumn(frame qframe.QFrame, col string) ([]string, error) {
	view, err := frame.StringView(col)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", col, err)
	}
	values := make([]string, view.Len())
	for i := range values {
		if s := view.ItemAt(i); s != nil {
			values[i] = *s
		}
	}
	return values, nil
}

func timeColumn(frame qframe.QFrame, col string) ([]time.Time, error) {
	cells, err := stringColumn(frame, col)
	if err != nil {
		return nil, err
	}
	values := make([]time.Time, len(cells))
	for i, cell := range cells {
		t, err := ParseTimestamp(cell)
		if err != nil {
			// row numbers count the header as line 1
			return nil, fmt.Errorf("column %q, line %d: %w", col, i+2, err)
		}
		values[i] = t
	}
	return values, nil
}

// Read the color column. It is numeric when every non-empty cell is a
// number; empty cells then become NaN.
func valueColumn(frame qframe.QFrame, col string) (values []Value, numeric bool, err error) {
	cells, err := stringColumn(frame, col)
	if err != nil {
		return nil, false, err
	}
	values = make([]Value, len(cells))
	for i, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			values[i] = Value{Number: math.NaN(), Numeric: true}
			continue
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			numeric = false
			break
		}
		values[i] = number(f)
		numeric = true
	}
	if !numeric {
		for i, cell := range cells {
			values[i] = Value{Text: cell}
		}
	}
	return values, numeric, nil
}

func number(f float64) Value {
	return Value{Text: strconv.FormatFloat(f, 'g', -1, 64), Number: f, Numeric: true}
}
