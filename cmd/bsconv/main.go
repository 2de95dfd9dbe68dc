// Command bsconv converts dates between the Bikram Sambat and Gregorian calendars.
//
// Usage:
//
//	bsconv to-nepali 2024-04-13
//	bsconv to-gregorian 2081-01-01
//	bsconv valid 2081-01-32
//	bsconv leap 2081
//	bsconv month-length 2081 1
//	bsconv fetch --data-url https://example.com/calendar.bsdata --out calendar.bsdata
//
// Every flag can also be set in a config file (--config) or through an
// environment variable prefixed with BSCONV_, e.g. BSCONV_LOG_LEVEL=debug.
package main

import (
	"os"
)

func main() {
	root := newRootCmd(os.Stdout, os.Stderr, nil)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
