package trace

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTimestamp parses a date or date-time string in any common layout,
// e.g. "2023-08-01", "2023-08-01 12:30:00", "08/01/2023" or RFC 3339.
// Values without a zone are taken as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrDateParse)
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrDateParse, value, err)
	}
	return t, nil
}

// FormatTimestamp prints a timestamp as "2006-01-02 15:04:05". Fractional
// seconds are added only when present, in microseconds or nanoseconds as
// needed, and an offset is added for zones other than UTC.
func FormatTimestamp(t time.Time) string {
	var sb strings.Builder
	sb.WriteString(t.Format("2006-01-02 15:04:05"))
	switch ns := t.Nanosecond(); {
	case ns == 0:
	case ns%1000 == 0:
		fmt.Fprintf(&sb, ".%06d", ns/1000)
	default:
		fmt.Fprintf(&sb, ".%09d", ns)
	}
	if _, offset := t.Zone(); offset != 0 || t.Location() != time.UTC {
		sb.WriteString(t.Format("-07:00"))
	}
	return sb.String()
}
