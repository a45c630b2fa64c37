package uptime

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow is returned for unknown reporting periods.
var ErrInvalidWindow = errors.New("invalid period")

// Window is a reporting range expressed in local calendar days.
type Window int

const (
	// Day covers the current local calendar day, 24 hourly buckets.
	Day Window = iota
	// Week covers the 7 local calendar days ending today, 168 buckets.
	Week
	// Month covers the 30 local calendar days ending today, 720 buckets.
	Month
)

// ParseWindow maps an API period string to a Window. Unknown values are an
// error, never silently defaulted.
func ParseWindow(s string) (Window, error) {
	switch s {
	case "day":
		return Day, nil
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}
}

// Days returns the number of local calendar days the window spans.
func (w Window) Days() int {
	switch w {
	case Week:
		return 7
	case Month:
		return 30
	default:
		return 1
	}
}

// Hours returns the number of hourly buckets generated for the window.
func (w Window) Hours() int {
	return w.Days() * 24
}

func (w Window) String() string {
	switch w {
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return "day"
	}
}
