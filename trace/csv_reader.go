package trace

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tobgu/qframe"
	qcsv "github.com/tobgu/qframe/config/csv"
	"github.com/tobgu/qframe/types"
)

// Trace files are plain comma-separated tables with a header row. Cells may
// have whitespace after the delimiter ("read, 2023-08-01") which is dropped
// before the values are typed. Files can be gzip-compressed.

// ReadFile opens a trace file and reads it wholesale into a frame.
// The named columns, if present, are kept as strings instead of being
// subjected to type inference.
func ReadFile(filename string, stringColumns ...string) (qframe.QFrame, error) {

	// open the file
	file, err := os.Open(filename)
	if err != nil {
		return qframe.QFrame{}, err
	}
	defer file.Close()

	frame, err := ReadFrame(file, stringColumns...)
	if err != nil {
		return qframe.QFrame{}, fmt.Errorf("reading %q: %w", filename, err)
	}
	return frame, nil
}

// ReadFrame reads a CSV table from any reader, decompressing it if needed.
func ReadFrame(r io.Reader, stringColumns ...string) (qframe.QFrame, error) {

	// maybe it needs decompression
	reader, closer, err := maybeDecompress(r)
	if err != nil {
		return qframe.QFrame{}, err
	}
	defer closer()

	// strip leading whitespace in all cells
	header, normalized, err := normalize(reader)
	if err != nil {
		return qframe.QFrame{}, err
	}

	frame := qframe.ReadCSV(normalized, keepAsStrings(header, stringColumns))
	if frame.Err != nil {
		return qframe.QFrame{}, fmt.Errorf("parsing csv: %w", frame.Err)
	}
	return frame, nil
}

// Check the content type and wrap the reader in a gzip reader for compressed
// files. The returned closer is always safe to call.
func maybeDecompress(r io.Reader) (io.Reader, func(), error) {
	buffered := bufio.NewReader(r)
	head, err := buffered.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, nil, err
	}
	if !mimetype.Detect(head).Is("application/gzip") {
		return buffered, func() {}, nil
	}
	zr, err := gzip.NewReader(buffered)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open as gzip: %w", err)
	}
	return zr, func() { zr.Close() }, nil
}

// Rewrite the table with leading whitespace removed from every field. The
// qframe reader has no such option, so the standard csv package does the
// tokenizing and the frame reads the cleaned copy.
func normalize(r io.Reader) (header []string, out io.Reader, err error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("reading csv: no header row")
	}
	if len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.WriteAll(records); err != nil {
		return nil, nil, err
	}
	return records[0], buf, nil
}

// set the types map to string for the requested columns that exist in the header
func keepAsStrings(header, columns []string) qcsv.ConfigFunc {
	return func(c *qcsv.Config) {
		c.Types = make(map[string]types.DataType, len(columns))
		for _, col := range columns {
			if slices.Contains(header, col) {
				c.Types[col] = types.String
			}
		}
	}
}
