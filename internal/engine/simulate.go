package engine

// Simulate applies changes as deltas on top of the active financial
// data (the current period in multi-period mode, or the simple
// snapshot otherwise), runs body, then restores the prior financial
// data on every exit path including a panic or error return — spec
// §3.5/§5: simulate is observationally neutral for any query that does
// not read body's output.
func (it *Interpreter) Simulate(changes map[string]float64, body func() error) error {
	// Snapshot references to the original, untouched maps: mutation
	// below always targets a clone, never these, so restoring them is
	// enough to undo every change regardless of how body exits.
	originalSimple := it.state.simple
	originalPeriods := it.state.periods
	evalPeriodSnapshot := it.state.evalPeriod

	defer func() {
		it.state.simple = originalSimple
		it.state.periods = originalPeriods
		it.state.evalPeriod = evalPeriodSnapshot
	}()

	if !it.state.multiMode {
		it.state.simple = cloneMap(originalSimple)
		for k, delta := range changes {
			it.state.simple[k] = it.state.simple[k] + delta
		}
		return body()
	}

	idx := it.periodIndex(it.state.evalPeriod)
	if idx < 0 {
		return &InvalidPeriodError{Period: it.state.evalPeriod}
	}
	working := make([]period, len(originalPeriods))
	copy(working, originalPeriods)
	working[idx].Data = cloneMap(working[idx].Data)
	for k, delta := range changes {
		working[idx].Data[k] = working[idx].Data[k] + delta
	}
	it.state.periods = working

	return body()
}
