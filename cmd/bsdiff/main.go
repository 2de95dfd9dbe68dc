// Command bsdiff reports the differences between two calendar data files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-nepcal/bsdata"
)

var rawFlag = flag.Bool("raw", false, "Compare files line by line instead of by year")

func main() {
	flag.Parse()
	if err := run(os.Stdout, flag.Args(), *rawFlag); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// calendar is the content of a data file independent of line order and
// of how leap years are split across lines.
type calendar struct {
	Start  []bsdata.StartLine
	End    []bsdata.EndLine
	Months map[int][bsdata.MonthsPerYear]int
	Leap   map[int]bool
}

func newCalendar(f bsdata.File) calendar {
	c := calendar{
		Start:  f.StartLines,
		End:    f.EndLines,
		Months: make(map[int][bsdata.MonthsPerYear]int, len(f.YearLines)),
		Leap:   make(map[int]bool),
	}
	for _, l := range f.YearLines {
		c.Months[l.Year] = l.Months
	}
	for _, l := range f.LeapLines {
		for _, y := range l.Years {
			c.Leap[y] = true
		}
	}
	return c
}

func run(w io.Writer, args []string, raw bool) error {
	if len(args) != 2 {
		return fmt.Errorf("Usage: bsdiff [-raw] <calendar data file A> <calendar data file B>")
	}

	a, err := parseFile(args[0])
	if err != nil {
		return err
	}
	b, err := parseFile(args[1])
	if err != nil {
		return err
	}

	var diff string
	if raw {
		diff = cmp.Diff(a, b)
	} else {
		diff = cmp.Diff(newCalendar(a), newCalendar(b))
	}
	if diff != "" {
		fmt.Fprintln(w, "files are different: -A +B")
		fmt.Fprintln(w, diff)
	} else {
		fmt.Fprintln(w, "files are identical")
	}
	return nil
}

func parseFile(name string) (bsdata.File, error) {
	f, err := os.Open(name)
	if err != nil {
		return bsdata.File{}, err
	}
	defer f.Close()
	data, err := bsdata.Parse(f)
	if err != nil {
		return bsdata.File{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return data, nil
}
