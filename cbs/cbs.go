// Package cbs downloads consumer price index figures from the Israeli
// Central Bureau of Statistics public API and turns them into the CPITable
// the schedule engine consumes.
package cbs

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/yoramz/loanbook"
)

// DefaultSeriesID is the all-items consumer price index series.
const DefaultSeriesID = "120010"

const apiBase = "https://api.cbs.gov.il/index/data/price"

// Fetch downloads the index series over the given month range and returns it
// as a CPITable. Month-index fractions are ignored; the range is inclusive.
func Fetch(client *http.Client, seriesID string, from, to loanbook.MonthIndex) (loanbook.CPITable, error) {
	if seriesID == "" {
		seriesID = DefaultSeriesID
	}
	q := url.Values{}
	q.Set("id", seriesID)
	q.Set("format", "json")
	q.Set("download", "false")
	q.Set("startPeriod", fmt.Sprintf("%02d-%04d", int(from.Month()), from.Year()))
	q.Set("endPeriod", fmt.Sprintf("%02d-%04d", int(to.Month()), to.Year()))
	addr := apiBase + "?" + q.Encode()
	log.Println("Downloading from CBS:", addr)

	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("failed to download series %s from CBS: %w", seriesID, err)
	}
	table, err := parseIndexPayload(jobj)
	if err != nil {
		return nil, fmt.Errorf("failed to parse series %s from CBS: %w", seriesID, err)
	}
	return table, nil
}

// parseIndexPayload extracts the (year, month, value) triples from the API
// response. The payload nests the figures under month/code/data; jsonpath
// keeps us from mirroring the whole envelope in structs.
func parseIndexPayload(jobj any) (loanbook.CPITable, error) {
	const path = "$.month[*].code[*].data[*]"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("unexpected payload shape: %q %w", path, err)
	}
	entries, ok := jval.([]any)
	if !ok {
		entries = []any{jval}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no index figures in payload")
	}

	table := loanbook.CPITable{}
	for _, e := range entries {
		fields, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("index figure is not an object: %v", e)
		}
		year, ok := asFloat(fields["year"])
		if !ok {
			return nil, fmt.Errorf("index figure misses a year: %v", e)
		}
		month, ok := asFloat(fields["month"])
		if !ok || month < 1 || month > 12 {
			return nil, fmt.Errorf("index figure has an invalid month: %v", e)
		}
		value, ok := asFloat(fields["value"])
		if !ok {
			return nil, fmt.Errorf("index figure misses a value: %v", e)
		}
		table.Set(int(year), int(month), value)
	}
	return table, nil
}

// asFloat reads a numeric field that the API sometimes serves as a string.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(t, "%g", &f); err == nil {
			return f, true
		}
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}
