package nepcal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/datetime"
)

// Date is a date of the Bikram Sambat calendar. Month is 1 (Baisakh) to 12 (Chaitra).
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return formatYMD(d.Year, d.Month, d.Day)
}

// GregorianDate is a date of the proleptic Gregorian calendar.
// Years before 1 AD are numbered 0, -1, -2, ...
type GregorianDate struct {
	Year  int
	Month int
	Day   int
}

func (g GregorianDate) String() string {
	return formatYMD(g.Year, g.Month, g.Day)
}

// Time returns midnight UTC of the date.
func (g GregorianDate) Time() time.Time {
	return time.Date(g.Year, time.Month(g.Month), g.Day, 0, 0, 0, 0, time.UTC)
}

// CalendarDate returns the date as a datetime.CalendarDate.
func (g GregorianDate) CalendarDate() datetime.CalendarDate {
	return datetime.CalendarDate{Year: g.Year, Month: datetime.Month(g.Month), Day: g.Day}
}

// GregorianInput is a Gregorian date in one of the accepted shapes:
// GregorianDate, TimeValue or CalendarValue.
type GregorianInput interface {
	gregorianInput()
}

// TimeValue is a Gregorian date given as a time.Time.
// Only the calendar date in the time's location is used.
type TimeValue struct {
	Time time.Time
}

// CalendarValue is a Gregorian date given as a datetime.CalendarDate.
// The day must be set; a zero day referring to a whole month is rejected.
type CalendarValue struct {
	Date datetime.CalendarDate
}

func (GregorianDate) gregorianInput() {}
func (TimeValue) gregorianInput()     {}
func (CalendarValue) gregorianInput() {}

// FromTime returns the calendar date of t as a GregorianInput.
func FromTime(t time.Time) GregorianInput {
	return TimeValue{Time: t}
}

// FromCalendarDate returns cd as a GregorianInput.
func FromCalendarDate(cd datetime.CalendarDate) GregorianInput {
	return CalendarValue{Date: cd}
}

// resolveGregorian returns the year, month and day of an input.
func resolveGregorian(in GregorianInput) (GregorianDate, error) {
	switch v := in.(type) {
	case GregorianDate:
		return v, nil
	case TimeValue:
		y, m, d := v.Time.Date()
		return GregorianDate{Year: y, Month: int(m), Day: d}, nil
	case CalendarValue:
		if v.Date.Day == 0 {
			return GregorianDate{}, malformed("calendar date %v has no day", v.Date)
		}
		return GregorianDate{Year: v.Date.Year, Month: int(v.Date.Month), Day: v.Date.Day}, nil
	case nil:
		return GregorianDate{}, malformed("nil date")
	default:
		return GregorianDate{}, malformed("unsupported date type %T", in)
	}
}

// ParseDate parses a Bikram Sambat date in the form YYYY-MM-DD or YYYY/MM/DD.
// The result is not checked against the calendar table.
func ParseDate(s string) (Date, error) {
	y, m, d, err := parseYMD(s)
	if err != nil {
		return Date{}, err
	}
	return Date{Year: y, Month: m, Day: d}, nil
}

// ParseGregorianDate parses a Gregorian date in the form YYYY-MM-DD or YYYY/MM/DD.
// The month and day are checked against the Gregorian calendar.
func ParseGregorianDate(s string) (GregorianDate, error) {
	y, m, d, err := parseYMD(s)
	if err != nil {
		return GregorianDate{}, err
	}
	g := GregorianDate{Year: y, Month: m, Day: d}
	if err := validateGregorian(g); err != nil {
		return GregorianDate{}, err
	}
	return g, nil
}

func parseYMD(s string) (year, month, day int, err error) {
	sep := "-"
	if strings.Contains(s, "/") {
		sep = "/"
	}
	body := s
	// A leading '-' is the sign of the year.
	neg := strings.HasPrefix(body, "-")
	if neg {
		body = body[1:]
	}
	parts := strings.Split(body, sep)
	if len(parts) != 3 {
		return 0, 0, 0, malformed("date %q: expected YYYY-MM-DD", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || strings.HasPrefix(p, "-") || strings.HasPrefix(p, "+") {
			return 0, 0, 0, malformed("date %q: invalid number %q", s, p)
		}
		v[i] = n
	}
	if neg {
		v[0] = -v[0]
	}
	return v[0], v[1], v[2], nil
}

func formatYMD(y, m, d int) string {
	if y < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -y, m, d)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
