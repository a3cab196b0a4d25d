// Package params parses path, query and body values shared by the resource
// handlers.
package params

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Accepted datetime layouts, most specific first. Values without a zone are
// read as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses an RFC 3339 timestamp or a plain date.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised datetime %q", s)
}

// PathID parses the named path parameter as a UUID. ok is false for
// malformed values, which callers treat as a nonexistent record.
func PathID(c echo.Context, name string) (id uuid.UUID, ok bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

// UUID parses a reference id sent in a body or query string.
func UUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	return id, err == nil
}

// Range is a closed datetime window from query parameters.
type Range struct {
	From time.Time
	To   time.Time
}

// Errors returned by DateRange. Their text is sent to clients unchanged.
var (
	ErrRangeRequired = errors.New("startDate and endDate query parameters are required")
	ErrRangeStart    = errors.New("Invalid startDate")
	ErrRangeEnd      = errors.New("Invalid endDate")
	ErrRangeOrder    = errors.New("startDate must not be after endDate")
)

// DateRange reads the startDate and endDate query parameters. Both must be
// present and startDate must not follow endDate.
func DateRange(c echo.Context) (Range, error) {
	start, end := c.QueryParam("startDate"), c.QueryParam("endDate")
	if start == "" || end == "" {
		return Range{}, ErrRangeRequired
	}
	from, err := ParseTime(start)
	if err != nil {
		return Range{}, ErrRangeStart
	}
	to, err := ParseTime(end)
	if err != nil {
		return Range{}, ErrRangeEnd
	}
	if from.After(to) {
		return Range{}, ErrRangeOrder
	}
	return Range{From: from, To: to}, nil
}

// Contains reports whether [start, end] lies within the range.
func (r Range) Contains(start, end time.Time) bool {
	return !start.Before(r.From) && !end.After(r.To)
}
