// Package nepcal converts dates between the Bikram Sambat (Nepali) calendar
// and the proleptic Gregorian calendar.
//
// Both directions go through the Julian Day Number of the date: Gregorian
// dates are converted with closed-form formulas, Bikram Sambat dates by
// walking a calendar table. Only years covered by the table can be converted;
// see package bstable.
//
//	d, err := nepcal.ToNepali(nepcal.GregorianDate{Year: 2024, Month: 4, Day: 13})
//	// d == nepcal.Date{Year: 2081, Month: 1, Day: 1}
//
// All functions are safe for concurrent use.
package nepcal

import (
	"sync"
	"time"

	"github.com/ngrash/go-nepcal/bsdata"
	"github.com/ngrash/go-nepcal/bstable"
	"github.com/ngrash/go-nepcal/internal/bsjdn"
	"github.com/ngrash/go-nepcal/internal/julian"
)

const (
	// MinSupportedYear is the first year IsValidNepaliDate accepts.
	MinSupportedYear = 2000
	// MaxSupportedYear is the last year IsValidNepaliDate accepts.
	// Years past the end of the calendar table are rejected regardless.
	MaxSupportedYear = 2099
)

// Converter converts dates using a calendar table.
// The zero value is ready to use and converts with the embedded table.
type Converter struct {
	table *bstable.Table
}

// New returns a converter using the given table.
// A nil table selects the embedded table.
func New(t *bstable.Table) *Converter {
	return &Converter{table: t}
}

var defaultConverter = sync.OnceValue(func() *Converter {
	return New(bstable.Default())
})

// Default returns the converter using the embedded calendar table.
// It is used by the top-level functions of this package.
func Default() *Converter {
	return defaultConverter()
}

// Table returns the calendar table of the converter.
func (c *Converter) Table() *bstable.Table {
	if c.table == nil {
		return bstable.Default()
	}
	return c.table
}

// ToNepali converts a Gregorian date to the Bikram Sambat calendar.
//
// A malformed input returns an error wrapping ErrMalformedInput; a date that
// falls outside the calendar table returns a *RangeError.
func (c *Converter) ToNepali(in GregorianInput) (Date, error) {
	g, err := resolveGregorian(in)
	if err != nil {
		return Date{}, err
	}
	if err := validateGregorian(g); err != nil {
		return Date{}, err
	}
	return c.JDNToNepali(julian.FromGregorian(g.Year, g.Month, g.Day))
}

// ToGregorian converts a Bikram Sambat date to the Gregorian calendar.
// A date that is not in the calendar table returns a *RangeError.
func (c *Converter) ToGregorian(year, month, day int) (GregorianDate, error) {
	jdn, err := c.NepaliToJDN(year, month, day)
	if err != nil {
		return GregorianDate{}, err
	}
	return c.JDNToGregorian(jdn), nil
}

// IsValidNepaliDate reports whether the date exists in the calendar table
// and its year is within [MinSupportedYear, MaxSupportedYear].
func (c *Converter) IsValidNepaliDate(year, month, day int) bool {
	if year < MinSupportedYear || year > MaxSupportedYear {
		return false
	}
	return c.checkDate(year, month, day) == nil
}

// IsLeapNepaliYear reports whether the year is a leap year of the calendar table.
func (c *Converter) IsLeapNepaliYear(year int) bool {
	return c.Table().IsLeap(year)
}

// MonthLength returns the number of days of a month.
func (c *Converter) MonthLength(year, month int) (int, error) {
	if err := c.checkYear(year); err != nil {
		return 0, err
	}
	if err := checkMonth(month); err != nil {
		return 0, err
	}
	return c.Table().MonthLength(year, month)
}

// NepaliToJDN returns the Julian Day Number of a Bikram Sambat date.
func (c *Converter) NepaliToJDN(year, month, day int) (int, error) {
	if err := c.checkDate(year, month, day); err != nil {
		return 0, err
	}
	return bsjdn.ToJDN(c.Table(), year, month, day)
}

// JDNToNepali returns the Bikram Sambat date of a Julian Day Number.
func (c *Converter) JDNToNepali(jdn int) (Date, error) {
	t := c.Table()
	if jdn < t.StartJDN() || jdn > t.EndJDN() {
		return Date{}, &RangeError{Field: "jdn", Value: jdn, Min: t.StartJDN(), Max: t.EndJDN()}
	}
	y, m, d, err := bsjdn.FromJDN(t, jdn)
	if err != nil {
		return Date{}, err
	}
	return Date{Year: y, Month: m, Day: d}, nil
}

// GregorianToJDN returns the Julian Day Number of a Gregorian date.
// The date is not validated.
func (c *Converter) GregorianToJDN(year, month, day int) int {
	return julian.FromGregorian(year, month, day)
}

// JDNToGregorian returns the Gregorian date of a Julian Day Number.
func (c *Converter) JDNToGregorian(jdn int) GregorianDate {
	y, m, d := julian.ToGregorian(jdn)
	return GregorianDate{Year: y, Month: m, Day: d}
}

// Range returns the first and last Gregorian dates covered by the calendar table.
func (c *Converter) Range() (first, last GregorianDate) {
	t := c.Table()
	return c.JDNToGregorian(t.StartJDN()), c.JDNToGregorian(t.EndJDN())
}

// DaysBetween returns the number of days from a to b, negative if b is before a.
func (c *Converter) DaysBetween(a, b Date) (int, error) {
	ja, err := c.NepaliToJDN(a.Year, a.Month, a.Day)
	if err != nil {
		return 0, err
	}
	jb, err := c.NepaliToJDN(b.Year, b.Month, b.Day)
	if err != nil {
		return 0, err
	}
	return jb - ja, nil
}

// AddDays returns the date n days after d, or before d if n is negative.
func (c *Converter) AddDays(d Date, n int) (Date, error) {
	jdn, err := c.NepaliToJDN(d.Year, d.Month, d.Day)
	if err != nil {
		return Date{}, err
	}
	return c.JDNToNepali(jdn + n)
}

// Weekday returns the day of the week of a Bikram Sambat date.
func (c *Converter) Weekday(d Date) (time.Weekday, error) {
	jdn, err := c.NepaliToJDN(d.Year, d.Month, d.Day)
	if err != nil {
		return 0, err
	}
	return julian.Weekday(jdn), nil
}

func (c *Converter) checkYear(year int) error {
	if t := c.Table(); !t.Contains(year) {
		return &RangeError{Field: "year", Value: year, Min: t.StartYear(), Max: t.EndYear()}
	}
	return nil
}

func checkMonth(month int) error {
	if month < 1 || month > bsdata.MonthsPerYear {
		return &RangeError{Field: "month", Value: month, Min: 1, Max: bsdata.MonthsPerYear}
	}
	return nil
}

func (c *Converter) checkDate(year, month, day int) error {
	if err := c.checkYear(year); err != nil {
		return err
	}
	if err := checkMonth(month); err != nil {
		return err
	}
	n, err := c.Table().MonthLength(year, month)
	if err != nil {
		return err
	}
	if day < 1 || day > n {
		return &RangeError{Field: "day", Value: day, Min: 1, Max: n}
	}
	return nil
}

func validateGregorian(g GregorianDate) error {
	if g.Month < 1 || g.Month > 12 {
		return malformed("gregorian month %d", g.Month)
	}
	if n := julian.DaysInMonth(g.Year, g.Month); g.Day < 1 || g.Day > n {
		return malformed("gregorian day %d of %04d-%02d", g.Day, g.Year, g.Month)
	}
	if julian.FromGregorian(g.Year, g.Month, g.Day) < julian.MinJDN {
		return malformed("gregorian year %d before %d", g.Year, -100100)
	}
	return nil
}

// ToNepali converts a Gregorian date to the Bikram Sambat calendar using the default converter.
func ToNepali(in GregorianInput) (Date, error) {
	return Default().ToNepali(in)
}

// ToGregorian converts a Bikram Sambat date to the Gregorian calendar using the default converter.
func ToGregorian(year, month, day int) (GregorianDate, error) {
	return Default().ToGregorian(year, month, day)
}

// IsValidNepaliDate reports whether the date is valid using the default converter.
func IsValidNepaliDate(year, month, day int) bool {
	return Default().IsValidNepaliDate(year, month, day)
}

// IsLeapNepaliYear reports whether the year is a leap year using the default converter.
func IsLeapNepaliYear(year int) bool {
	return Default().IsLeapNepaliYear(year)
}

// MonthLength returns the number of days of a month using the default converter.
func MonthLength(year, month int) (int, error) {
	return Default().MonthLength(year, month)
}
