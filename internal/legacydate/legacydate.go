// Package legacydate reads the text date columns written by older definition
// writers.
package legacydate

import (
	"strings"
	"time"
)

var layouts = []string{
	"2006-01-02 15:04:05:000-0700",
	"2006-01-02 15:04:05.000-0700",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse tries every known layout and returns the first match in UTC.
func Parse(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// Clone copies t so records never share a timestamp pointer.
func Clone(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
