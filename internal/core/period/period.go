// Package period models a calendar month used to filter expenses.
//
// Months are 1-indexed: 1 is January and 12 is December, on the wire and in
// code. Boundaries are computed in UTC.
package period

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidYear  = errors.New("year must be an integer between 1 and 9999")
	ErrInvalidMonth = errors.New("month must be an integer between 1 and 12")
	ErrIncomplete   = errors.New("year and month must be provided together")
)

type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year, month int) (Month, error) {
	if year < 1 || year > 9999 {
		return Month{}, ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// Start is the first instant of the month, 00:00:00.000 on day 1.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last millisecond of the month, 23:59:59.999 on the last day.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0).Add(-time.Millisecond)
}

// Range returns the inclusive [Start, End] bounds.
func (m Month) Range() (time.Time, time.Time) {
	return m.Start(), m.End()
}

func (m Month) String() string {
	return m.Start().Format("2006-01")
}

// Parse reads year and month from their string forms.
func Parse(year, month string) (Month, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Month{}, ErrInvalidYear
	}
	mo, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return NewMonth(y, mo)
}

// FromQuery returns nil when neither year nor month is present, and
// ErrIncomplete when only one of them is.
func FromQuery(q url.Values) (*Month, error) {
	year, month := q.Get("year"), q.Get("month")
	if year == "" && month == "" {
		return nil, nil
	}
	if year == "" || month == "" {
		return nil, ErrIncomplete
	}
	m, err := Parse(year, month)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
