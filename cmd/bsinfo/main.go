// Command bsinfo prints a summary of a Bikram Sambat calendar data file.
//
// Without a file argument the embedded calendar table is described.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ngrash/go-nepcal/bstable"
	"github.com/ngrash/go-nepcal/nepcal"
)

var dumpFlag = flag.Bool("dump", false, "Print the data file in canonical form instead of a summary")

func main() {
	flag.Parse()
	if err := run(os.Stdout, flag.Args(), *dumpFlag); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(w io.Writer, args []string, dump bool) error {
	var t *bstable.Table
	switch len(args) {
	case 0:
		t = bstable.Default()
	case 1:
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		defer f.Close()
		t, err = bstable.Load(f)
		if err != nil {
			return fmt.Errorf("loading: %w", err)
		}
	default:
		return fmt.Errorf("Usage: bsinfo [-dump] [calendar data file]")
	}

	if dump {
		return t.File().Encode(w)
	}
	printTable(w, t)
	return nil
}

func printTable(w io.Writer, t *bstable.Table) {
	first, last := nepcal.New(t).Range()
	leaps := slices.Collect(t.LeapYears())

	fmt.Fprintln(w, "Range")
	fmt.Fprintf(w, "  years     = %d..%d (%d)\n", t.StartYear(), t.EndYear(), t.EndYear()-t.StartYear()+1)
	fmt.Fprintf(w, "  jdn       = %d..%d (%d days)\n", t.StartJDN(), t.EndJDN(), t.EndJDN()-t.StartJDN()+1)
	fmt.Fprintf(w, "  gregorian = %s..%s\n", first, last)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Leap years (%d) = %v\n", len(leaps), leaps)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Month lengths")
	for y := t.StartYear(); y <= t.EndYear(); y++ {
		months, _ := t.MonthLengths(y)
		days, _ := t.YearLength(y)
		fmt.Fprintf(w, "  %d = %v %d\n", y, months, days)
	}
}
