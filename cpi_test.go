package loanbook

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestCPITable_Factor(t *testing.T) {
	table := CPITable{}
	table.Set(2023, 11, 100)
	table.Set(2023, 12, 102)
	table.Set(2024, 1, 102)

	testCases := []struct {
		name    string
		at      string
		want    float64
		applies bool
	}{
		// Before the 16th the figure two months back applies: Dec over Nov.
		{"early in month", "01/02/2024", 1.02, true},
		// From the 16th on the freshest figure applies: Jan over Dec.
		{"late in month", "16/02/2024", 1.0, true},
		{"missing current", "01/04/2024", 1, false},
		{"missing previous", "01/01/2024", 1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, applies := table.Factor(MustParseMonthIndex(tc.at))
			if applies != tc.applies {
				t.Fatalf("Factor(%s) applies = %v, want %v", tc.at, applies, tc.applies)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Factor(%s) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestCPITable_FactorZeroDenominator(t *testing.T) {
	table := CPITable{}
	table.Set(2023, 11, 0)
	table.Set(2023, 12, 102)

	if _, applies := table.Factor(MustParseMonthIndex("01/02/2024")); applies {
		t.Errorf("a zero previous figure must disable indexation, not divide")
	}
}

func TestCPITable_JSONRoundTrip(t *testing.T) {
	table := CPITable{}
	table.Set(2023, 11, 100)
	table.Set(2023, 12, 102.5)
	table.Set(2024, 1, 103)

	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// Keys come out sorted so the sidecar file diffs cleanly.
	want := `{"2023":{"11":100,"12":102.5},"2024":{"1":103}}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back CPITable
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, table) {
		t.Errorf("round trip = %v, want %v", back, table)
	}
}
