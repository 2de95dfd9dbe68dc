// Package julian converts between dates of the proleptic Gregorian calendar
// and Julian Day Numbers.
//
// A Julian Day Number (JDN) counts days; JDN n refers to the noon of a
// calendar day. Years before 1 AD are numbered 0, -1, -2, ...
package julian

// MinJDN is the smallest Julian Day Number ToGregorian is valid for.
// It corresponds to the year -100100.
const MinJDN = -34839655

// FromGregorian returns the Julian Day Number of a Gregorian date.
// The formula is valid from 1 March -100100 up to a few million years ahead.
// Month and day are not validated; out of range values still yield a number.
func FromGregorian(year, month, day int) int {
	d := div((year+div(month-8, 6)+100100)*1461, 4) +
		div(153*mod(month+9, 12)+2, 5) +
		day - 34840408
	d = d - div(div(year+100100+div(month-8, 6), 100)*3, 4) + 752
	return d
}

// ToGregorian returns the Gregorian date of a Julian Day Number.
// The result is valid for jdn >= MinJDN.
func ToGregorian(jdn int) (year, month, day int) {
	j := 4*jdn + 139361631
	j = j + div(div(4*jdn+183187720, 146097)*3, 4)*4 - 3908
	i := div(mod(j, 1461), 4)*5 + 308
	day = div(mod(i, 153), 5) + 1
	month = mod(div(i, 153), 12) + 1
	year = div(j, 1461) - 100100 + div(8-month, 6)
	return year, month, day
}

// div is integer division truncated toward zero.
// The formulas above are calibrated to it; do not replace with floor division.
func div(a, b int) int {
	return a / b
}

// mod is the Euclidean remainder of a / b. For b > 0 the result is in [0, b).
func mod(a, b int) int {
	r := a % b
	if r < 0 {
		if b < 0 {
			r -= b
		} else {
			r += b
		}
	}
	return r
}
