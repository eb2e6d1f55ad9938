package engine

import (
	"github.com/wch1125/proviso/internal/findata"
)

// LoadFinancials merges a simple snapshot or promotes the interpreter
// into multi-period mode, per §4.C. Loading any multi-period snapshot
// promotes the interpreter permanently (within this load); simple
// snapshots merge by overwriting matching keys.
func (it *Interpreter) LoadFinancials(snap findata.Snapshot) {
	if len(snap.Periods) > 0 {
		it.state.multiMode = true
		ordered := findata.OrderPeriods(snap.Periods)
		it.state.periods = make([]period, len(ordered))
		for i, p := range ordered {
			it.state.periods[i] = period{Period: p.Period, PeriodEnd: p.PeriodEnd, PeriodType: p.PeriodType, Data: p.Data}
		}
		if len(it.state.periods) > 0 {
			it.state.evalPeriod = it.state.periods[len(it.state.periods)-1].Period
		}
		return
	}
	for k, v := range snap.Simple {
		it.state.simple[k] = v
	}
}

// LoadFinancialsRaw decodes JSON or YAML bytes and loads them, used
// for inline LOAD statements (§4.B) and CLI file loading.
func (it *Interpreter) LoadFinancialsRaw(data []byte) error {
	snap, err := findata.Decode(data)
	if err != nil {
		return err
	}
	it.LoadFinancials(snap)
	return nil
}

// IsMultiPeriod reports whether the interpreter is in multi-period
// mode (spec §3.4 invariant 9: simple and multi-period are disjoint).
func (it *Interpreter) IsMultiPeriod() bool { return it.state.multiMode }

// GetAvailablePeriods returns period labels in chronological order.
func (it *Interpreter) GetAvailablePeriods() []string {
	names := make([]string, len(it.state.periods))
	for i, p := range it.state.periods {
		names[i] = p.Period
	}
	return names
}

// SetEvaluationPeriod selects the active period in multi-period mode.
func (it *Interpreter) SetEvaluationPeriod(p string) error {
	if !it.periodExists(p) {
		return &InvalidPeriodError{Period: p}
	}
	it.state.evalPeriod = p
	return nil
}

func (it *Interpreter) periodExists(p string) bool {
	for _, existing := range it.state.periods {
		if existing.Period == p {
			return true
		}
	}
	return false
}

func (it *Interpreter) periodIndex(p string) int {
	for i, existing := range it.state.periods {
		if existing.Period == p {
			return i
		}
	}
	return -1
}

func (it *Interpreter) currentPeriodData() (map[string]float64, bool) {
	if !it.state.multiMode {
		return it.state.simple, false
	}
	idx := it.periodIndex(it.state.evalPeriod)
	if idx < 0 {
		return nil, true
	}
	return it.state.periods[idx].Data, true
}

// financialValue looks up name in the active financial-data mode,
// reporting whether it was found.
func (it *Interpreter) financialValue(name string) (float64, bool) {
	data, _ := it.currentPeriodData()
	v, ok := data[name]
	return v, ok
}

// PeriodCompliance is one period's covenant-compliance snapshot within
// a GetComplianceHistory result.
type PeriodCompliance struct {
	Period    string
	Covenants map[string]CovenantResult
}

// GetComplianceHistory walks every loaded period in chronological order
// (spec §5: "getComplianceHistory preserves chronological period
// order" — periods are already ordered this way by findata.OrderPeriods
// at load time) and reports each period's active-covenant compliance,
// per §6's Finance API. The interpreter's evaluation period is restored
// to its prior value on return, including on error.
func (it *Interpreter) GetComplianceHistory() ([]PeriodCompliance, error) {
	if !it.state.multiMode {
		return nil, &NotMultiPeriodError{Identifier: "getComplianceHistory"}
	}

	original := it.state.evalPeriod
	defer func() { it.state.evalPeriod = original }()

	history := make([]PeriodCompliance, 0, len(it.state.periods))
	for _, p := range it.state.periods {
		it.state.evalPeriod = p.Period
		results, err := it.CheckActiveCovenants()
		if err != nil {
			return nil, err
		}
		history = append(history, PeriodCompliance{Period: p.Period, Covenants: results})
	}
	return history, nil
}
