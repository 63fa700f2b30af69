package loanbook

import (
	"math"
	"testing"
	"time"
)

func TestMonthIndex_Encoding(t *testing.T) {
	testCases := []struct {
		name  string
		year  int
		month time.Month
		day   int
		want  float64
	}{
		{"epoch", 2000, time.January, 1, 0.01},
		{"first payment 2024", 2024, time.February, 1, 289.01},
		{"mid month", 2024, time.February, 15, 289.15},
		{"end of range", 2044, time.January, 1, 528.01},
		{"before epoch", 1999, time.December, 5, -0.95},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewMonthIndex(tc.year, tc.month, tc.day)
			if math.Abs(float64(got)-tc.want) > Epsilon {
				t.Errorf("NewMonthIndex(%d, %v, %d) = %v, want %v", tc.year, tc.month, tc.day, float64(got), tc.want)
			}
			if got.Year() != tc.year {
				t.Errorf("Year() = %d, want %d", got.Year(), tc.year)
			}
			if got.Month() != tc.month {
				t.Errorf("Month() = %v, want %v", got.Month(), tc.month)
			}
			if got.Day() != tc.day {
				t.Errorf("Day() = %d, want %d", got.Day(), tc.day)
			}
		})
	}
}

func TestMonthIndex_Parse(t *testing.T) {
	testCases := []struct {
		in      string
		want    MonthIndex
		hasDay  bool
		wantErr bool
	}{
		{in: "01/02/2024", want: NewMonthIndex(2024, time.February, 1), hasDay: true},
		{in: "15/06/2024", want: NewMonthIndex(2024, time.June, 15), hasDay: true},
		{in: "06/2024", want: MonthOf(2024, time.June), hasDay: false},
		{in: "2024", wantErr: true},
		{in: "1/2/3/4", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMonthIndex(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseMonthIndex(%q) expected an error, got %v", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonthIndex(%q) unexpected error: %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseMonthIndex(%q) = %v, want %v", tc.in, float64(got), float64(tc.want))
			}
			if got.HasDay() != tc.hasDay {
				t.Errorf("HasDay() = %v, want %v", got.HasDay(), tc.hasDay)
			}
		})
	}
}

func TestMonthIndex_Label(t *testing.T) {
	m := MustParseMonthIndex("05/03/2024")
	if got := m.String(); got != "05/03/2024" {
		t.Errorf("String() = %q, want %q", got, "05/03/2024")
	}
	if got := m.MonthLabel(); got != "03/2024" {
		t.Errorf("MonthLabel() = %q, want %q", got, "03/2024")
	}

	// A month-only index labels with day 1.
	monthly := MustParseMonthIndex("03/2024")
	if got := monthly.String(); got != "01/03/2024" {
		t.Errorf("String() = %q, want %q", got, "01/03/2024")
	}
}

func TestMonthIndex_WithDayFraction(t *testing.T) {
	monthly := MustParseMonthIndex("06/2024")
	aligned := monthly.WithDayFraction(0.15)
	if want := MustParseMonthIndex("15/06/2024"); !aligned.Equal(want) {
		t.Errorf("WithDayFraction(0.15) = %v, want %v", float64(aligned), float64(want))
	}
}

func TestDaysBetween(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want float64
	}{
		{"full month", "01/01/2024", "01/02/2024", 30},
		{"half month into next", "15/01/2024", "01/02/2024", 16},
		{"same day", "01/01/2024", "01/01/2024", 0},
		{"two months", "01/01/2024", "01/03/2024", 60},
		{"later day same month", "01/01/2024", "15/01/2024", 14},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DaysBetween(MustParseMonthIndex(tc.a), MustParseMonthIndex(tc.b))
			if got != tc.want {
				t.Errorf("DaysBetween(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestMonthIndex_Comparisons(t *testing.T) {
	a := MustParseMonthIndex("01/02/2024")
	b := MonthIndex(float64(a) + Epsilon/2)
	if !a.Equal(b) {
		t.Errorf("values within epsilon must compare equal")
	}
	if a.Before(b) || a.After(b) {
		t.Errorf("values within epsilon must not order")
	}
	c := MustParseMonthIndex("02/02/2024")
	if !a.Before(c) || !c.After(a) {
		t.Errorf("next day must order after")
	}
	if !a.SameMonth(c) {
		t.Errorf("same calendar month expected")
	}
}
