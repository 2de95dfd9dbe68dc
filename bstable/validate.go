package bstable

import (
	"errors"
	"fmt"

	"github.com/ngrash/go-nepcal/bsdata"
)

const (
	commonYearDays = 365
	leapYearDays   = 366

	// maxMissingYears bounds the range a file may declare beyond its year lines.
	maxMissingYears = 10000
)

// Validate checks that a data file describes a usable calendar table.
func Validate(f bsdata.File) error {
	var errs []error

	// Start and End
	if n := len(f.StartLines); n != 1 {
		errs = append(errs, fmt.Errorf("invalid start: expected exactly 1 start line, got %d", n))
	}
	if n := len(f.EndLines); n != 1 {
		errs = append(errs, fmt.Errorf("invalid end: expected exactly 1 end line, got %d", n))
	}
	if len(errs) > 0 {
		// Everything else is checked against the range.
		return errors.Join(errs...)
	}
	start, end := f.StartLines[0].Year, f.EndLines[0].Year
	if start > end {
		return fmt.Errorf("invalid range: start year %d after end year %d", start, end)
	}
	// span is the number of declared years minus one. It cannot overflow.
	span := uint64(end) - uint64(start)
	if n := uint64(len(f.YearLines)); span >= n && span-n >= maxMissingYears {
		return fmt.Errorf("invalid range: %d..%d: more than %d years without a year line", start, end, maxMissingYears)
	}

	leaps := validateLeapYears(f, start, end, &errs)

	// Years
	seen := make(map[int]bool, len(f.YearLines))
	for _, l := range f.YearLines {
		if l.Year < start || l.Year > end {
			errs = append(errs, fmt.Errorf("invalid year %d: outside [%d, %d]", l.Year, start, end))
			continue
		}
		if seen[l.Year] {
			errs = append(errs, fmt.Errorf("invalid year %d: duplicate", l.Year))
			continue
		}
		seen[l.Year] = true
		for i, m := range l.Months {
			if m <= 0 {
				errs = append(errs, fmt.Errorf("invalid year %d: month %d has length %d", l.Year, i+1, m))
			}
		}
		want := commonYearDays
		if leaps[l.Year] {
			want = leapYearDays
		}
		if days := l.Days(); days != want {
			errs = append(errs, fmt.Errorf("invalid year %d: %d days, want %d (leap = %t)", l.Year, days, want, leaps[l.Year]))
		}
	}
	for i := uint64(0); i <= span; i++ {
		if y := start + int(i); !seen[y] {
			errs = append(errs, fmt.Errorf("invalid year %d: missing", y))
		}
	}

	return errors.Join(errs...)
}

// validateLeapYears checks the leap years are in range and strictly ascending
// across all leap lines and returns them as a set.
func validateLeapYears(f bsdata.File, start, end int, errs *[]error) map[int]bool {
	leaps := make(map[int]bool)
	prev := start - 1
	for _, l := range f.LeapLines {
		for _, y := range l.Years {
			if y < start || y > end {
				*errs = append(*errs, fmt.Errorf("invalid leap year %d: outside [%d, %d]", y, start, end))
				continue
			}
			if y <= prev {
				*errs = append(*errs, fmt.Errorf("invalid leap year %d: not ascending after %d", y, prev))
			}
			prev = y
			leaps[y] = true
		}
	}
	return leaps
}
