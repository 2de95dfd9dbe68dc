package julian

import "time"

// IsLeapYear determines if the year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in a given month for a specific year.
// It returns 0 for months outside 1-12.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	}
	return 0
}

// Weekday returns the day of the week of a Julian Day Number.
// JDN 0 was a Monday.
func Weekday(jdn int) time.Weekday {
	return time.Weekday(mod(jdn+1, 7))
}
