// Package bsdata provides a parser for Bikram Sambat calendar data files.
//
// A data file lists the month lengths of every Nepali year in a contiguous
// range, the leap years of that range, and the Julian Day Number of the first
// day of the first year. The format is line oriented:
//
//	# Start  YEAR  JDN
//	Start    2000  2430829
//	# End    YEAR
//	End      2090
//	# Year   YEAR  BAI JES ASA SHR BHA ASW KAR MAN POU MAG FAL CHA
//	Year     2000  30  32  31  32  31  30  30  30  29  30  29  31
//	# Leap   YEAR...
//	Leap     2003  2007  2011
//
// Everything after a '#' is a comment. Leap lines may be repeated.
// Parse does not check that the lines are consistent with each other,
// see package bstable for that.
package bsdata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MonthsPerYear is the number of months in a Nepali year.
const MonthsPerYear = 12

// File represents the result of parsing a calendar data file.
// It contains the parsed start, end, year and leap lines, each in the order they appear in the file.
type File struct {
	StartLines []StartLine
	EndLines   []EndLine
	YearLines  []YearLine
	LeapLines  []LeapLine
}

// StartLine anchors the calendar: day 1 of month 1 of Year is Julian Day Number JDN.
type StartLine struct {
	Year int
	JDN  int
}

// EndLine names the last year covered by the file.
type EndLine struct {
	Year int
}

// YearLine holds the length of each month of a year.
type YearLine struct {
	Year   int
	Months [MonthsPerYear]int
}

// Days returns the total number of days of the year.
func (l YearLine) Days() int {
	var n int
	for _, m := range l.Months {
		n += m
	}
	return n
}

// LeapLine lists leap years, i.e. years with 366 days.
type LeapLine struct {
	Years []int
}

// parseError is an error that occurred during parsing.
// It contains the line number and the line where the error occurred.
type parseError struct {
	lineNumber int
	line       string
	err        error
}

// Error returns a string representation of the parse error, implementing the error interface.
func (e *parseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.lineNumber, e.line, e.err)
}

func (e *parseError) Unwrap() error {
	return e.err
}

// ErrUnexpectedLine is returned for lines that start with an unknown keyword.
var ErrUnexpectedLine = errors.New("bsdata: unexpected line")

// Parse parses the content of a calendar data file and returns a File struct containing the parsed lines.
func Parse(r io.Reader) (File, error) {
	var result File
	scanner := bufio.NewScanner(r)

	var lineNumber int
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		fields := splitLine(line)
		if fields == nil {
			continue // skip comment or empty line
		}
		switch fields[0] {
		case "Start":
			start, err := parseStartLine(fields)
			if err != nil {
				return result, &parseError{lineNumber, line, fmt.Errorf("parse start: %w", err)}
			}
			result.StartLines = append(result.StartLines, start)
		case "End":
			end, err := parseEndLine(fields)
			if err != nil {
				return result, &parseError{lineNumber, line, fmt.Errorf("parse end: %w", err)}
			}
			result.EndLines = append(result.EndLines, end)
		case "Year":
			year, err := parseYearLine(fields)
			if err != nil {
				return result, &parseError{lineNumber, line, fmt.Errorf("parse year: %w", err)}
			}
			result.YearLines = append(result.YearLines, year)
		case "Leap":
			leap, err := parseLeapLine(fields)
			if err != nil {
				return result, &parseError{lineNumber, line, fmt.Errorf("parse leap: %w", err)}
			}
			result.LeapLines = append(result.LeapLines, leap)
		default:
			return result, &parseError{lineNumber, line, ErrUnexpectedLine}
		}
	}

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("scanner: %w", err)
	}
	return result, nil
}

func parseStartLine(fields []string) (StartLine, error) {
	if len(fields) != 3 {
		return StartLine{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	var (
		start StartLine
		errs  error
		err   error
	)
	if start.Year, err = strconv.Atoi(fields[1]); err != nil {
		errs = errors.Join(errs, fmt.Errorf("YEAR %q: %w", fields[1], err))
	}
	if start.JDN, err = strconv.Atoi(fields[2]); err != nil {
		errs = errors.Join(errs, fmt.Errorf("JDN %q: %w", fields[2], err))
	}
	return start, errs
}

func parseEndLine(fields []string) (EndLine, error) {
	if len(fields) != 2 {
		return EndLine{}, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return EndLine{}, fmt.Errorf("YEAR %q: %w", fields[1], err)
	}
	return EndLine{Year: year}, nil
}

func parseYearLine(fields []string) (YearLine, error) {
	if len(fields) != 2+MonthsPerYear {
		return YearLine{}, fmt.Errorf("expected %d fields, got %d", 2+MonthsPerYear, len(fields))
	}
	var (
		year YearLine
		errs error
		err  error
	)
	if year.Year, err = strconv.Atoi(fields[1]); err != nil {
		errs = errors.Join(errs, fmt.Errorf("YEAR %q: %w", fields[1], err))
	}
	for i, f := range fields[2:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("month %d %q: %w", i+1, f, err))
			continue
		}
		if n <= 0 {
			errs = errors.Join(errs, fmt.Errorf("month %d %q: length must be positive", i+1, f))
			continue
		}
		year.Months[i] = n
	}
	return year, errs
}

func parseLeapLine(fields []string) (LeapLine, error) {
	if len(fields) < 2 {
		return LeapLine{}, fmt.Errorf("expected at least 2 fields, got %d", len(fields))
	}
	var (
		leap LeapLine
		errs error
	)
	for _, f := range fields[1:] {
		y, err := strconv.Atoi(f)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("YEAR %q: %w", f, err))
			continue
		}
		leap.Years = append(leap.Years, y)
	}
	return leap, errs
}

func splitLine(line string) []string {
	// Remove comments.
	if i := strings.Index(line, "#"); i != -1 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}
	return strings.Fields(line)
}
