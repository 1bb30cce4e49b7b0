package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/robinvdvleuten/beanledger/ast"
)

// Range names a rolling reporting window relative to "today", or a custom
// span.
type Range int

const (
	RangeMonth Range = iota
	RangeQuarter
	RangeYear
	RangeAll
	RangeCustom
)

func (r Range) String() string {
	switch r {
	case RangeMonth:
		return "month"
	case RangeQuarter:
		return "quarter"
	case RangeYear:
		return "year"
	case RangeAll:
		return "all"
	case RangeCustom:
		return "custom"
	}
	return "unknown"
}

// ParseRange parses a range name as used in configuration and the API.
func ParseRange(s string) (Range, error) {
	switch strings.ToLower(s) {
	case "month":
		return RangeMonth, nil
	case "quarter":
		return RangeQuarter, nil
	case "year":
		return RangeYear, nil
	case "all":
		return RangeAll, nil
	case "custom":
		return RangeCustom, nil
	}
	return RangeAll, fmt.Errorf("unknown time range %q", s)
}

// TimeContext is the active reporting window: a named rolling range or a
// custom start/end pair. It is a pure value; effective dates are derived
// from the "today" the caller passes in, which keeps report filtering
// deterministic under test.
type TimeContext struct {
	Range       Range
	CustomStart *ast.Date
	CustomEnd   *ast.Date
}

// NewTimeContext creates a context for a named rolling range.
func NewTimeContext(r Range) TimeContext {
	return TimeContext{Range: r}
}

// CustomTimeContext creates a context for an explicit date span.
func CustomTimeContext(start, end ast.Date) TimeContext {
	return TimeContext{Range: RangeCustom, CustomStart: &start, CustomEnd: &end}
}

// StartDate returns the effective inclusive start, with ok=false for an
// unbounded start (All, or Custom without a start).
func (tc TimeContext) StartDate(today time.Time) (time.Time, bool) {
	switch tc.Range {
	case RangeMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), true
	case RangeQuarter:
		quarterStart := ((int(today.Month())-1)/3)*3 + 1
		return time.Date(today.Year(), time.Month(quarterStart), 1, 0, 0, 0, 0, time.UTC), true
	case RangeYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), true
	case RangeCustom:
		if tc.CustomStart != nil {
			return tc.CustomStart.Time, true
		}
	}
	return time.Time{}, false
}

// EndDate returns the effective inclusive end, with ok=false for an
// unbounded end (All, or Custom without an end).
func (tc TimeContext) EndDate(today time.Time) (time.Time, bool) {
	switch tc.Range {
	case RangeMonth:
		firstOfNext := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return firstOfNext.AddDate(0, 0, -1), true
	case RangeQuarter:
		quarterStart := ((int(today.Month())-1)/3)*3 + 1
		firstOfNext := time.Date(today.Year(), time.Month(quarterStart), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 3, 0)
		return firstOfNext.AddDate(0, 0, -1), true
	case RangeYear:
		return time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), true
	case RangeCustom:
		if tc.CustomEnd != nil {
			return tc.CustomEnd.Time, true
		}
	}
	return time.Time{}, false
}

// Contains reports whether a date falls inside the window. Bounds are
// inclusive; a missing bound is unbounded, so All contains everything.
func (tc TimeContext) Contains(today time.Time, date time.Time) bool {
	if start, ok := tc.StartDate(today); ok && date.Before(start) {
		return false
	}
	if end, ok := tc.EndDate(today); ok && date.After(end) {
		return false
	}
	return true
}

// Description renders a human-readable window label.
func (tc TimeContext) Description(today time.Time) string {
	switch tc.Range {
	case RangeMonth:
		return today.Format("January 2006")
	case RangeQuarter:
		quarter := (int(today.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", quarter, today.Year())
	case RangeYear:
		return fmt.Sprintf("%d", today.Year())
	case RangeCustom:
		start, end := "...", "..."
		if tc.CustomStart != nil {
			start = tc.CustomStart.String()
		}
		if tc.CustomEnd != nil {
			end = tc.CustomEnd.String()
		}
		return start + " to " + end
	}
	return "All Time"
}
