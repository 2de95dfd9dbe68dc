package bsdata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// leapsPerLine is the number of years written per Leap line by Encode.
const leapsPerLine = 10

// Encode writes the file in its canonical text form: start lines, end lines,
// year lines and leap lines, each group in the order held by f.
// Leap lines holding more than ten years are split.
func (f File) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, l := range f.StartLines {
		fmt.Fprintf(bw, "Start\t%d\t%d\n", l.Year, l.JDN)
	}
	for _, l := range f.EndLines {
		fmt.Fprintf(bw, "End\t%d\n", l.Year)
	}
	for _, l := range f.YearLines {
		fmt.Fprintf(bw, "Year\t%d\t%s\n", l.Year, joinInts(l.Months[:], " "))
	}
	for _, l := range f.LeapLines {
		for i := 0; i < len(l.Years); i += leapsPerLine {
			chunk := l.Years[i:min(i+leapsPerLine, len(l.Years))]
			fmt.Fprintf(bw, "Leap\t%s\n", joinInts(chunk, " "))
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write calendar data: %w", err)
	}
	return nil
}

func joinInts(v []int, sep string) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, sep)
}
