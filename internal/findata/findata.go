// Package findata decodes the financial-data snapshot wire format
// described in spec §4.C / §6: either a flat simple snapshot or an
// ordered multi-period series, accepted as JSON or YAML.
package findata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PeriodData is one period of a multi-period snapshot as decoded from
// the wire format, before chronological ordering is applied.
type PeriodData struct {
	Period     string             `json:"period" yaml:"period"`
	PeriodEnd  string             `json:"periodEnd" yaml:"periodEnd"`
	PeriodType string             `json:"periodType" yaml:"periodType"`
	Data       map[string]float64 `json:"data" yaml:"data"`
}

// multiPeriodEnvelope is the wire shape `{periods: [...]}`.
type multiPeriodEnvelope struct {
	Periods []PeriodData `json:"periods" yaml:"periods"`
}

// Snapshot is the decoded result of Decode: exactly one of Simple or
// Periods is populated, matching the interpreter's simple/multi-period
// mode split (spec §3.4 invariant 9).
type Snapshot struct {
	Simple  map[string]float64
	Periods []PeriodData
}

// Decode accepts either JSON or YAML bytes (YAML is a superset of
// JSON for our purposes, so a single yaml.Unmarshal handles both,
// mirroring the teacher's config loader accepting either encoding).
func Decode(data []byte) (Snapshot, error) {
	var env multiPeriodEnvelope
	if err := yaml.Unmarshal(data, &env); err == nil && len(env.Periods) > 0 {
		return Snapshot{Periods: OrderPeriods(env.Periods)}, nil
	}

	var flat map[string]float64
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return Snapshot{}, fmt.Errorf("findata: decode: %w", err)
	}
	return Snapshot{Simple: flat}, nil
}

// DecodeJSON is a thin convenience wrapper for callers that already
// know their input is JSON (encoding/json gives sharper error
// messages than asking yaml.v3 to parse JSON).
func DecodeJSON(data []byte) (Snapshot, error) {
	var env multiPeriodEnvelope
	if err := json.Unmarshal(data, &env); err == nil && len(env.Periods) > 0 {
		return Snapshot{Periods: OrderPeriods(env.Periods)}, nil
	}
	var flat map[string]float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return Snapshot{}, fmt.Errorf("findata: decode json: %w", err)
	}
	return Snapshot{Simple: flat}, nil
}

// OrderPeriods sorts periods chronologically per spec §4.C: `YYYY-Qn`
// sorts as `year*100 + n*25`, `YYYY-MM` as `year*100 + month`, and
// bare `YYYY` as `year*100`. It returns a new, sorted slice; the input
// is not mutated.
func OrderPeriods(periods []PeriodData) []PeriodData {
	sorted := make([]PeriodData, len(periods))
	copy(sorted, periods)

	keys := make([]int, len(sorted))
	for i, p := range sorted {
		keys[i] = periodSortKey(p.Period)
	}
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

// periodSortKey implements spec §4.C's chronological ordering
// function for a single period label.
func periodSortKey(label string) int {
	if idx := strings.IndexByte(label, 'Q'); idx > 0 {
		year, err1 := strconv.Atoi(strings.TrimSuffix(label[:idx], "-"))
		quarter, err2 := strconv.Atoi(label[idx+1:])
		if err1 == nil && err2 == nil {
			return year*100 + quarter*25
		}
	}
	if idx := strings.IndexByte(label, '-'); idx > 0 {
		year, err1 := strconv.Atoi(label[:idx])
		month, err2 := strconv.Atoi(label[idx+1:])
		if err1 == nil && err2 == nil {
			return year*100 + month
		}
	}
	if year, err := strconv.Atoi(label); err == nil {
		return year * 100
	}
	return 0
}
