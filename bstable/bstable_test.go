package bstable

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-nepcal/bsdata"
)

func TestDefault(t *testing.T) {
	tbl := Default()
	if got, want := tbl.StartYear(), 2000; got != want {
		t.Errorf("StartYear() = %d, want %d", got, want)
	}
	if got, want := tbl.EndYear(), 2090; got != want {
		t.Errorf("EndYear() = %d, want %d", got, want)
	}
	if got, want := tbl.StartJDN(), 2430829; got != want {
		t.Errorf("StartJDN() = %d, want %d", got, want)
	}
	// 2090-12-30 BS is 2034-04-13.
	if got, want := tbl.EndJDN(), 2464066; got != want {
		t.Errorf("EndJDN() = %d, want %d", got, want)
	}
	if Default() != tbl {
		t.Errorf("Default() returned a different table on second call")
	}
}

func TestDefault_LeapYears(t *testing.T) {
	want := []int{2003, 2007, 2011, 2015, 2019, 2023, 2026, 2030, 2034, 2038, 2042, 2046, 2050, 2054, 2057, 2061, 2065, 2069, 2073, 2077, 2081, 2085, 2087}
	got := slices.Collect(Default().LeapYears())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LeapYears() mismatch (-want +got):\n%s", diff)
	}
}

func TestIsLeap_MatchesYearLength(t *testing.T) {
	tbl := Default()
	for y := tbl.StartYear(); y <= tbl.EndYear(); y++ {
		n, err := tbl.YearLength(y)
		if err != nil {
			t.Fatalf("YearLength(%d) error: %v", y, err)
		}
		if leap := tbl.IsLeap(y); leap != (n == 366) {
			t.Errorf("IsLeap(%d) = %t, but year has %d days", y, leap, n)
		}
	}
	for _, y := range []int{1999, 2091, 0, -2003} {
		if tbl.IsLeap(y) {
			t.Errorf("IsLeap(%d) = true for year outside table", y)
		}
	}
}

func TestMonthLength(t *testing.T) {
	cases := []struct {
		year, month int
		want        int
	}{
		{2000, 1, 30},
		{2000, 2, 32},
		{2000, 12, 31},
		{2003, 12, 31},
		{2081, 12, 30},
		{2090, 12, 30},
	}
	tbl := Default()
	for _, c := range cases {
		got, err := tbl.MonthLength(c.year, c.month)
		if err != nil {
			t.Errorf("MonthLength(%d, %d) error: %v", c.year, c.month, err)
			continue
		}
		if got != c.want {
			t.Errorf("MonthLength(%d, %d) = %d, want %d", c.year, c.month, got, c.want)
		}
	}
}

func TestMonthLength_Errors(t *testing.T) {
	cases := []struct {
		year, month int
		want        error
	}{
		{1999, 1, ErrYearOutOfRange},
		{2091, 1, ErrYearOutOfRange},
		{2000, 0, ErrMonthOutOfRange},
		{2000, 13, ErrMonthOutOfRange},
	}
	tbl := Default()
	for _, c := range cases {
		_, err := tbl.MonthLength(c.year, c.month)
		if !errors.Is(err, c.want) {
			t.Errorf("MonthLength(%d, %d) error = %v, want %v", c.year, c.month, err, c.want)
		}
	}
}

func TestFile_RoundTrip(t *testing.T) {
	tbl := Default()
	var buf bytes.Buffer
	if err := tbl.File().Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(tbl, got, cmp.AllowUnexported(Table{})); diff != "" {
		t.Errorf("Load(Encode(File())) mismatch (-want +got):\n%s", diff)
	}
}

// smallFile returns a valid three year table with a leap year in the middle.
func smallFile() bsdata.File {
	return bsdata.File{
		StartLines: []bsdata.StartLine{{Year: 2000, JDN: 2430829}},
		EndLines:   []bsdata.EndLine{{Year: 2002}},
		YearLines: []bsdata.YearLine{
			{Year: 2000, Months: [12]int{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}},
			{Year: 2001, Months: [12]int{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}},
			{Year: 2002, Months: [12]int{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}},
		},
		LeapLines: []bsdata.LeapLine{{Years: []int{2001}}},
	}
}

func TestNew_Small(t *testing.T) {
	tbl, err := New(smallFile())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got, want := tbl.EndJDN(), 2430829+365+366+365-1; got != want {
		t.Errorf("EndJDN() = %d, want %d", got, want)
	}
	if !tbl.IsLeap(2001) || tbl.IsLeap(2000) || tbl.IsLeap(2002) {
		t.Errorf("IsLeap() disagrees with leap lines")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(f *bsdata.File)
		want   []string
	}{
		{
			name:   "missing start",
			modify: func(f *bsdata.File) { f.StartLines = nil },
			want:   []string{"expected exactly 1 start line, got 0"},
		},
		{
			name:   "two ends",
			modify: func(f *bsdata.File) { f.EndLines = append(f.EndLines, bsdata.EndLine{Year: 2003}) },
			want:   []string{"expected exactly 1 end line, got 2"},
		},
		{
			name:   "inverted range",
			modify: func(f *bsdata.File) { f.EndLines[0].Year = 1990 },
			want:   []string{"start year 2000 after end year 1990"},
		},
		{
			name:   "missing year",
			modify: func(f *bsdata.File) { f.YearLines = f.YearLines[:2] },
			want:   []string{"invalid year 2002: missing"},
		},
		{
			name:   "oversized range",
			modify: func(f *bsdata.File) { f.EndLines[0].Year = 50000000 },
			want:   []string{"invalid range: 2000..50000000: more than 10000 years without a year line"},
		},
		{
			name:   "range up to max int",
			modify: func(f *bsdata.File) { f.EndLines[0].Year = math.MaxInt },
			want:   []string{"more than 10000 years without a year line"},
		},
		{
			name:   "range within missing limit",
			modify: func(f *bsdata.File) { f.EndLines[0].Year = 2100 },
			want:   []string{"invalid year 2003: missing", "invalid year 2100: missing"},
		},
		{
			name:   "duplicate year",
			modify: func(f *bsdata.File) { f.YearLines = append(f.YearLines, f.YearLines[0]) },
			want:   []string{"invalid year 2000: duplicate"},
		},
		{
			name: "year outside range",
			modify: func(f *bsdata.File) {
				f.YearLines = append(f.YearLines, bsdata.YearLine{Year: 2003, Months: f.YearLines[0].Months})
			},
			want: []string{"invalid year 2003: outside [2000, 2002]"},
		},
		{
			name:   "leap year not listed",
			modify: func(f *bsdata.File) { f.LeapLines = nil },
			want:   []string{"invalid year 2001: 366 days, want 365 (leap = false)"},
		},
		{
			name:   "common year listed as leap",
			modify: func(f *bsdata.File) { f.LeapLines[0].Years = []int{2001, 2002} },
			want:   []string{"invalid year 2002: 365 days, want 366 (leap = true)"},
		},
		{
			name:   "leap years not ascending",
			modify: func(f *bsdata.File) { f.LeapLines = append(f.LeapLines, bsdata.LeapLine{Years: []int{2001}}) },
			want:   []string{"invalid leap year 2001: not ascending after 2001"},
		},
		{
			name:   "leap year outside range",
			modify: func(f *bsdata.File) { f.LeapLines[0].Years = append(f.LeapLines[0].Years, 2010) },
			want:   []string{"invalid leap year 2010: outside [2000, 2002]"},
		},
		{
			name: "several violations",
			modify: func(f *bsdata.File) {
				f.YearLines[0].Months[0] = 0
				f.YearLines = f.YearLines[:2]
			},
			want: []string{
				"invalid year 2000: month 1 has length 0",
				"invalid year 2000: 335 days, want 365",
				"invalid year 2002: missing",
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := smallFile()
			c.modify(&f)
			err := Validate(f)
			if err == nil {
				t.Fatalf("Validate() returned nil error")
			}
			for _, w := range c.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("Validate() error = %q, want it to contain %q", err, w)
				}
			}
			if _, err := New(f); err == nil {
				t.Errorf("New() returned nil error for invalid file")
			}
		})
	}
}

func TestValidate_Default(t *testing.T) {
	f, err := bsdata.Parse(bytes.NewReader(calendarData))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := Validate(f); err != nil {
		t.Errorf("Validate(embedded data) error: %v", err)
	}
}
