// Package scope derives the visibility restriction for a caller and the
// named date buckets used by listings and exports.
package scope

import (
	"time"

	"github.com/rof/invgen/internal/core/domain"
)

// ForPrincipal returns the project a query must be restricted to, or ""
// for no restriction. Admins see everything unless they ask for a project;
// everyone else only ever sees their own project.
func ForPrincipal(p domain.Principal, requested string) domain.Project {
	if p.IsAdmin() {
		return domain.Project(requested)
	}
	return p.Project
}

// Bucket is a named relative date range.
type Bucket string

const (
	None        Bucket = ""
	Today       Bucket = "today"
	ThisWeek    Bucket = "week"
	ThisMonth   Bucket = "month"
	LastTenDays Bucket = "10days"
)

// ParseBucket accepts both the listing names (thisWeek, thisMonth) and the
// export names (week, month). Anything unrecognised means no date filter.
func ParseBucket(s string) Bucket {
	switch s {
	case "today":
		return Today
	case "week", "thisWeek":
		return ThisWeek
	case "month", "thisMonth":
		return ThisMonth
	case "10days":
		return LastTenDays
	default:
		return None
	}
}

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Range computes the interval for b relative to now, using now's location
// for midnights. ok is false for None.
func (b Bucket) Range(now time.Time) (Range, bool) {
	y, m, d := now.Date()
	loc := now.Location()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch b {
	case Today:
		return Range{Start: midnight, End: midnight.AddDate(0, 0, 1)}, true
	case ThisWeek:
		start := midnight.AddDate(0, 0, -int(now.Weekday()))
		return Range{Start: start, End: start.AddDate(0, 0, 7)}, true
	case ThisMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: start.AddDate(0, 1, 0)}, true
	case LastTenDays:
		return Range{Start: now.AddDate(0, 0, -10), End: now}, true
	default:
		return Range{}, false
	}
}

// Filter is the composed restriction applied to entry queries.
type Filter struct {
	Project domain.Project
	Created *Range
}

// Resolve builds the filter for a caller, an optional explicit project and
// an optional bucket name, evaluated at now.
func Resolve(p domain.Principal, requestedProject, bucket string, now time.Time) Filter {
	f := Filter{Project: ForPrincipal(p, requestedProject)}
	if r, ok := ParseBucket(bucket).Range(now); ok {
		f.Created = &r
	}
	return f
}
