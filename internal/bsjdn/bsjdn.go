// Package bsjdn converts between Bikram Sambat dates and Julian Day Numbers
// by walking a calendar table.
//
// The calendar has no closed-form rule, so both directions count days year by
// year. Leap years are tabulated: runs of common years between two leap years
// are skipped with a single multiplication, which keeps the walk proportional
// to the number of leap years rather than the number of years.
package bsjdn

import (
	"errors"
	"fmt"

	"github.com/ngrash/go-nepcal/bsdata"
	"github.com/ngrash/go-nepcal/bstable"
)

// ErrJDNOutOfRange indicates a Julian Day Number outside the days covered by the table.
var ErrJDNOutOfRange = errors.New("bsjdn: julian day number out of range")

const (
	commonYearDays = 365
	leapYearDays   = 366
)

// ToJDN returns the Julian Day Number of a date.
//
// The year must be covered by the table and the month must be 1-12.
// The day is not checked against the length of the month; days past the end
// of the month count on into the following months.
func ToJDN(t *bstable.Table, year, month, day int) (int, error) {
	months, err := t.MonthLengths(year)
	if err != nil {
		return 0, err
	}
	if month < 1 || month > bsdata.MonthsPerYear {
		return 0, fmt.Errorf("%w: %d", bstable.ErrMonthOutOfRange, month)
	}

	jdn := t.StartJDN() - 1
	y := t.StartYear()
	for ly := range t.LeapYears() {
		if ly >= year {
			break
		}
		jdn += (ly-y)*commonYearDays + leapYearDays
		y = ly + 1
	}
	if year > y {
		jdn += (year - y) * commonYearDays
	}
	for m := 1; m < month; m++ {
		jdn += months[m-1]
	}
	return jdn + day, nil
}

// FromJDN returns the date of a Julian Day Number.
// The number must lie within [t.StartJDN(), t.EndJDN()].
func FromJDN(t *bstable.Table, jdn int) (year, month, day int, err error) {
	if jdn < t.StartJDN() || jdn > t.EndJDN() {
		return 0, 0, 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrJDNOutOfRange, jdn, t.StartJDN(), t.EndJDN())
	}

	// d is the 1-based day count from the start of the table.
	d := jdn - t.StartJDN() + 1
	year = t.StartYear()
	for ly := range t.LeapYears() {
		trial := d - ((ly-year)*commonYearDays + leapYearDays)
		if trial < 1 {
			break
		}
		d = trial
		year = ly + 1
	}
	for {
		n := commonYearDays
		if t.IsLeap(year) {
			n = leapYearDays
		}
		if d <= n {
			break
		}
		d -= n
		year++
	}

	months, err := t.MonthLengths(year)
	if err != nil {
		return 0, 0, 0, err
	}
	// Whatever remains after the first eleven months belongs to the twelfth.
	month = 1
	for ; month < bsdata.MonthsPerYear; month++ {
		if d <= months[month-1] {
			break
		}
		d -= months[month-1]
	}
	return year, month, d, nil
}
