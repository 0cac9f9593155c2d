// Package calendar converts civil dates to the tabular Islamic (Hijri)
// calendar shown next to the clinic clock.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// LunarDate is a date in the arithmetical Hijri calendar. Month runs 1..12.
type LunarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String renders the date as YYYY-MM-DD.
func (d LunarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ToLunar converts the calendar date of t, read in t's own location. The
// time of day is ignored.
func ToLunar(t time.Time) LunarDate {
	return fromJulianDay(julianDay(t.Year(), int(t.Month()), t.Day()))
}

// julianDay is the Fliegel and Van Flandern integer form. Go's truncating
// division is what the formula expects.
func julianDay(y, m, d int) int {
	a := (m - 14) / 12
	return 1461*(y+4800+a)/4 +
		367*(m-2-12*a)/12 -
		3*((y+4900+a)/100)/4 +
		d - 32075
}

// fromJulianDay decomposes a day number over the 30-year cycle of 10631 days.
func fromJulianDay(jd int) LunarDate {
	l := jd - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	m := (24 * l) / 709
	d := l - (709*m)/24
	y := 30*n + j - 30
	return LunarDate{Year: y, Month: m, Day: d}
}

const civilLayout = "2006-01-02 15:04:05"

// Reading is one tick of the on-screen clock.
type Reading struct {
	Civil string `json:"gregorian"`
	Lunar string `json:"hijri"`
}

func Clock(now time.Time) Reading {
	return Reading{
		Civil: now.Format(civilLayout),
		Lunar: ToLunar(now).String(),
	}
}

// AgeFromBirthDate counts the birthdays between dob and now. A birth date in
// the future gives 0.
func AgeFromBirthDate(dob, now time.Time) int {
	if now.Before(dob) {
		return 0
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// ParseBirthDate accepts the date form field (YYYY-MM-DD).
func ParseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("birth date is empty")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid birth date %q: %w", s, err)
	}
	return t, nil
}
