// Package pagination parses keyset pagination parameters.
//
// Lists are ordered newest first and the cursor is the creation time of the
// last item the client has seen.
package pagination

import (
	"fmt"
	"strconv"
	"time"
)

// ParseLimit parses a page size. Empty input yields def and values above maxLimit are clamped.
func ParseLimit(raw string, def, maxLimit int) (int, error) {
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}

// ParseCursor parses an RFC3339 timestamp cursor. Empty input returns nil.
func ParseCursor(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor %q", raw)
	}
	return &t, nil
}

// NextCursor returns the cursor for the page after one ending at last.
// A page with fewer than limit items is the final one and yields "".
func NextCursor(last time.Time, count, limit int) string {
	if count == 0 || count < limit {
		return ""
	}
	return last.UTC().Format(time.RFC3339Nano)
}
