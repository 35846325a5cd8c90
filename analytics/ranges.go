// ABOUTME: Named dashboard date windows resolved relative to a reference time
// ABOUTME: Ranges are half-open [start, end) in the reference time's location
package analytics

import (
	"fmt"
	"time"

	"github.com/harperreed/crmboard/models"
	"github.com/jinzhu/now"
)

// Window names a dashboard date range.
type Window string

const (
	ThisMonth Window = "thisMonth"
	LastMonth Window = "lastMonth"
	Quarter   Window = "quarter"
	Year      Window = "year"
)

var Windows = []Window{ThisMonth, LastMonth, Quarter, Year}

func ParseWindow(s string) (Window, error) {
	for _, w := range Windows {
		if string(w) == s {
			return w, nil
		}
	}
	return "", &models.ValidationError{Field: "range", Value: s, Reason: "unknown date window"}
}

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// MonthRange is the calendar month containing t.
func MonthRange(t time.Time) Range {
	start := now.With(t).BeginningOfMonth()
	return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

func quarterRange(t time.Time) Range {
	start := now.With(t).BeginningOfQuarter()
	return Range{Start: start, End: start.AddDate(0, 3, 0)}
}

func yearRange(t time.Time) Range {
	start := now.With(t).BeginningOfYear()
	return Range{Start: start, End: start.AddDate(1, 0, 0)}
}

// Resolve turns a window into a concrete range relative to ref.
func Resolve(w Window, ref time.Time) (Range, error) {
	if ref.IsZero() {
		return Range{}, &models.ValidationError{Field: "now", Reason: "reference time is required"}
	}
	switch w {
	case ThisMonth:
		return MonthRange(ref), nil
	case LastMonth:
		return MonthRange(MonthRange(ref).Start.AddDate(0, -1, 0)), nil
	case Quarter:
		return quarterRange(ref), nil
	case Year:
		return yearRange(ref), nil
	}
	return Range{}, &models.ValidationError{Field: "range", Value: string(w), Reason: "unknown date window"}
}

// Previous is the window of the same granularity immediately before
// Resolve(w, ref).
func Previous(w Window, ref time.Time) (Range, error) {
	cur, err := Resolve(w, ref)
	if err != nil {
		return Range{}, err
	}
	switch w {
	case ThisMonth, LastMonth:
		return MonthRange(cur.Start.AddDate(0, -1, 0)), nil
	case Quarter:
		return quarterRange(cur.Start.AddDate(0, -3, 0)), nil
	default:
		return yearRange(cur.Start.AddDate(-1, 0, 0)), nil
	}
}

func startOfDay(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}
