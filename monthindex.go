package loanbook

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Epsilon absorbs floating-point drift in month-index comparisons.
const Epsilon = 0.0001

// MonthIndex encodes a calendar date as one real number:
//
//	index = (year-2000)*12 + (month-1) + day/100
//
// The integer part counts whole months since January 2000 and orders dates
// month by month; the fractional part scales the day of month down to two
// decimal digits so that dates within the same month still compare in
// calendar order and the day can be recovered exactly.
//
// A MonthIndex built from a month-only date carries no fraction; such values
// are later aligned to a loan's payment day before being evaluated.
type MonthIndex float64

// NewMonthIndex returns the index encoding of the given calendar date.
// The date is normalized first, so NewMonthIndex(2024, 13, 1) is January 2025.
func NewMonthIndex(year int, month time.Month, day int) MonthIndex {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	return MonthIndex(float64((y-2000)*12+int(m-1)) + float64(d)/100)
}

// Now returns the index of the current calendar date.
func Now() MonthIndex {
	t := time.Now()
	return NewMonthIndex(t.Year(), t.Month(), t.Day())
}

// MonthOf returns the index of the whole calendar month, with no day fraction.
func MonthOf(year int, month time.Month) MonthIndex {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	y, m, _ := t.Date()
	return MonthIndex(float64((y-2000)*12 + int(m-1)))
}

// whole returns the whole-month part of the index.
func (m MonthIndex) whole() int {
	return int(math.Floor(float64(m) + Epsilon))
}

// Whole returns the index truncated to its whole calendar month.
func (m MonthIndex) Whole() MonthIndex { return MonthIndex(m.whole()) }

// HasDay reports whether the index carries an explicit day-of-month fraction.
func (m MonthIndex) HasDay() bool {
	return float64(m)-math.Floor(float64(m)+Epsilon) > 0.001
}

// DayFraction returns the day-of-month part of the index (day/100), or 0 when
// the index is month-only.
func (m MonthIndex) DayFraction() float64 {
	if !m.HasDay() {
		return 0
	}
	return float64(m) - math.Floor(float64(m)+Epsilon)
}

// Day returns the day of month encoded in the fraction, defaulting to 1 for a
// month-only index.
func (m MonthIndex) Day() int {
	d := int(math.Round(m.DayFraction() * 100))
	if d == 0 {
		d = 1
	}
	return d
}

// Year returns the calendar year of the index.
func (m MonthIndex) Year() int {
	w := m.whole()
	return 2000 + floorDiv(w, 12)
}

// Month returns the calendar month of the index.
func (m MonthIndex) Month() time.Month {
	w := m.whole()
	return time.Month(w-12*floorDiv(w, 12)) + 1
}

// WithDayFraction returns the index realigned to the given day fraction,
// keeping the calendar month.
func (m MonthIndex) WithDayFraction(frac float64) MonthIndex {
	return MonthIndex(float64(m.whole()) + frac)
}

// AddMonths returns the index shifted by n whole months, keeping the fraction.
func (m MonthIndex) AddMonths(n int) MonthIndex {
	return MonthIndex(float64(m) + float64(n))
}

// Equal reports whether two indices denote the same moment, within Epsilon.
func (m MonthIndex) Equal(x MonthIndex) bool {
	return math.Abs(float64(m)-float64(x)) < Epsilon
}

// Before reports whether m is strictly before x, beyond Epsilon.
func (m MonthIndex) Before(x MonthIndex) bool {
	return float64(m) < float64(x)-Epsilon
}

// After reports whether m is strictly after x, beyond Epsilon.
func (m MonthIndex) After(x MonthIndex) bool {
	return float64(m) > float64(x)+Epsilon
}

// SameMonth reports whether two indices fall in the same calendar month.
func (m MonthIndex) SameMonth(x MonthIndex) bool {
	return m.whole() == x.whole()
}

// Time returns the canonical calendar date of the index, at midnight UTC.
func (m MonthIndex) Time() time.Time {
	return time.Date(m.Year(), m.Month(), m.Day(), 0, 0, 0, 0, time.UTC)
}

// String formats the index back into a DD/MM/YYYY label, reconstructing the
// day, month and year from the encoding.
func (m MonthIndex) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", m.Day(), int(m.Month()), m.Year())
}

// MonthLabel formats the index as a MM/YYYY label.
func (m MonthIndex) MonthLabel() string {
	return fmt.Sprintf("%02d/%04d", int(m.Month()), m.Year())
}

// DaysBetween counts the days elapsed from a to b on a 30-day-month scale:
// whole months apart count 30 days each, plus the day-of-month difference.
// This is the day count the interest accrual uses; it makes a regular full
// month cost exactly one monthly rate while still charging irregular first or
// transition periods for their actual length.
func DaysBetween(a, b MonthIndex) float64 {
	months := b.whole() - a.whole()
	return float64(months*30 + b.Day() - a.Day())
}

// ParseMonthIndex parses a date in DD/MM/YYYY form, or MM/YYYY for a
// month-only date (no day fraction). Inputs are assumed well formed upstream;
// parsing is strict about shape only.
func ParseMonthIndex(str string) (MonthIndex, error) {
	parts := strings.Split(strings.TrimSpace(str), "/")
	switch len(parts) {
	case 2:
		month, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid month in date %q: %w", str, err)
		}
		year, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid year in date %q: %w", str, err)
		}
		return MonthOf(year, time.Month(month)), nil
	case 3:
		day, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid day in date %q: %w", str, err)
		}
		month, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid month in date %q: %w", str, err)
		}
		year, err := strconv.Atoi(parts[2])
		if err != nil {
			return 0, fmt.Errorf("invalid year in date %q: %w", str, err)
		}
		return NewMonthIndex(year, time.Month(month), day), nil
	default:
		return 0, fmt.Errorf("invalid date %q: want DD/MM/YYYY or MM/YYYY", str)
	}
}

// MustParseMonthIndex is like ParseMonthIndex but panics on error.
func MustParseMonthIndex(str string) MonthIndex {
	m, err := ParseMonthIndex(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// MarshalJSON writes the index back as its date string.
func (m MonthIndex) MarshalJSON() ([]byte, error) {
	if !m.HasDay() {
		return json.Marshal(m.MonthLabel())
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON reads the index from a date string.
func (m *MonthIndex) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := ParseMonthIndex(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

var _ json.Marshaler = (*MonthIndex)(nil)
var _ json.Unmarshaler = (*MonthIndex)(nil)

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
