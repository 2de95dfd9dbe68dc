// Package bstable holds the Bikram Sambat calendar table: the month lengths
// of every year in a supported range, the leap years of that range and the
// Julian Day Number anchoring its first day.
//
// A Table is immutable once built and safe for concurrent use.
package bstable

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"sync"

	"github.com/ngrash/go-nepcal/bsdata"
)

var (
	// ErrYearOutOfRange indicates a year that is not covered by the table.
	ErrYearOutOfRange = errors.New("bstable: year out of range")
	// ErrMonthOutOfRange indicates a month outside 1-12.
	ErrMonthOutOfRange = errors.New("bstable: month out of range")
)

// Table is the calendar table.
type Table struct {
	startYear int
	endYear   int
	startJDN  int
	endJDN    int

	// months[i] holds the month lengths of year startYear+i.
	months [][bsdata.MonthsPerYear]int
	// leapYears is ascending without duplicates.
	leapYears []int
}

// New builds a table from a parsed data file.
// The file is validated and all violations are returned joined.
func New(f bsdata.File) (*Table, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	t := &Table{
		startYear: f.StartLines[0].Year,
		endYear:   f.EndLines[0].Year,
		startJDN:  f.StartLines[0].JDN,
	}
	t.months = make([][bsdata.MonthsPerYear]int, t.endYear-t.startYear+1)
	days := 0
	for _, l := range f.YearLines {
		t.months[l.Year-t.startYear] = l.Months
		days += l.Days()
	}
	t.endJDN = t.startJDN + days - 1
	for _, l := range f.LeapLines {
		t.leapYears = append(t.leapYears, l.Years...)
	}
	return t, nil
}

// Load parses a calendar data file and builds a table from it.
func Load(r io.Reader) (*Table, error) {
	f, err := bsdata.Parse(r)
	if err != nil {
		return nil, err
	}
	return New(f)
}

//go:embed calendar.bsdata
var calendarData []byte

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Load(bytes.NewReader(calendarData))
	if err != nil {
		panic(fmt.Sprintf("bstable: embedded calendar data: %v", err))
	}
	return t
})

// Default returns the table built from the embedded calendar data
// covering 2000-2090 BS. It is built once on first use.
func Default() *Table {
	return defaultTable()
}

// StartYear returns the first year of the table.
func (t *Table) StartYear() int { return t.startYear }

// EndYear returns the last year of the table.
func (t *Table) EndYear() int { return t.endYear }

// StartJDN returns the Julian Day Number of the first day of StartYear.
func (t *Table) StartJDN() int { return t.startJDN }

// EndJDN returns the Julian Day Number of the last day of EndYear.
func (t *Table) EndJDN() int { return t.endJDN }

// Contains reports whether the year is covered by the table.
func (t *Table) Contains(year int) bool {
	return year >= t.startYear && year <= t.endYear
}

// MonthLengths returns the lengths of the twelve months of the year.
func (t *Table) MonthLengths(year int) ([bsdata.MonthsPerYear]int, error) {
	if !t.Contains(year) {
		return [bsdata.MonthsPerYear]int{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, year, t.startYear, t.endYear)
	}
	return t.months[year-t.startYear], nil
}

// MonthLength returns the number of days of a month, month being 1-12.
func (t *Table) MonthLength(year, month int) (int, error) {
	months, err := t.MonthLengths(year)
	if err != nil {
		return 0, err
	}
	if month < 1 || month > bsdata.MonthsPerYear {
		return 0, fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	return months[month-1], nil
}

// YearLength returns the number of days of the year.
func (t *Table) YearLength(year int) (int, error) {
	months, err := t.MonthLengths(year)
	if err != nil {
		return 0, err
	}
	return bsdata.YearLine{Months: months}.Days(), nil
}

// IsLeap reports whether the year is a leap year.
// Years outside the table are never leap years.
func (t *Table) IsLeap(year int) bool {
	_, found := slices.BinarySearch(t.leapYears, year)
	return found
}

// LeapYears returns the leap years in ascending order.
func (t *Table) LeapYears() iter.Seq[int] {
	return slices.Values(t.leapYears)
}

// File returns the data file describing the table.
func (t *Table) File() bsdata.File {
	f := bsdata.File{
		StartLines: []bsdata.StartLine{{Year: t.startYear, JDN: t.startJDN}},
		EndLines:   []bsdata.EndLine{{Year: t.endYear}},
		LeapLines:  []bsdata.LeapLine{{Years: slices.Clone(t.leapYears)}},
	}
	for i, m := range t.months {
		f.YearLines = append(f.YearLines, bsdata.YearLine{Year: t.startYear + i, Months: m})
	}
	return f
}
