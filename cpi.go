package loanbook

import (
	"encoding/json"
	"sort"
	"strconv"
)

// CPITable is the inflation index lookup the engine consumes: index values
// keyed by year then month. The table is read-only from the engine's point of
// view; how it was acquired is the caller's business (see the cbs package).
// Absent entries are legal and yield zero indexation for the affected step.
type CPITable map[int]map[int]float64

// Value returns the index value for the month of the given moment.
func (t CPITable) Value(at MonthIndex) (float64, bool) {
	months, ok := t[at.Year()]
	if !ok {
		return 0, false
	}
	v, ok := months[int(at.Month())]
	return v, ok
}

// Set records an index value, allocating the year row as needed.
func (t CPITable) Set(year int, month int, value float64) {
	months, ok := t[year]
	if !ok {
		months = make(map[int]float64)
		t[year] = months
	}
	months[month] = value
}

// Factor returns the indexation ratio applicable at the given moment, and
// whether indexation applies at all.
//
// Index figures for a month are published with a lag, so the moment never
// reads its own month: before the 16th the freshest trusted figure is two
// months back, from the 16th on it is one month back. The factor is the
// ratio of that figure over the one before it. Missing data, or a zero
// denominator, disables indexation for the step rather than failing.
func (t CPITable) Factor(at MonthIndex) (float64, bool) {
	offset := 2
	if at.Day() > 15 {
		offset = 1
	}
	current, ok := t.Value(at.AddMonths(-offset))
	if !ok {
		return 1, false
	}
	previous, ok := t.Value(at.AddMonths(-offset - 1))
	if !ok || previous == 0 {
		return 1, false
	}
	return current / previous, true
}

// MarshalJSON writes the table with sorted year and month keys, for a stable
// sidecar file.
func (t CPITable) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	years := make([]int, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		var yw jsonObjectWriter
		months := make([]int, 0, len(t[y]))
		for m := range t[y] {
			months = append(months, m)
		}
		sort.Ints(months)
		for _, m := range months {
			yw.Append(strconv.Itoa(m), t[y][m])
		}
		w.Append(strconv.Itoa(y), &yw)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON reads the nested year→month→value mapping.
func (t *CPITable) UnmarshalJSON(data []byte) error {
	raw := map[string]map[string]float64{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	table := CPITable{}
	for ys, months := range raw {
		y, err := strconv.Atoi(ys)
		if err != nil {
			return err
		}
		for ms, v := range months {
			m, err := strconv.Atoi(ms)
			if err != nil {
				return err
			}
			table.Set(y, m, v)
		}
	}
	*t = table
	return nil
}
