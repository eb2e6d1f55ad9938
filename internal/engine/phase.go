package engine

import "github.com/wch1125/proviso/ast"

// GetCurrentPhase returns the interpreter's current phase name, which
// may be empty if no phase has been entered.
func (it *Interpreter) GetCurrentPhase() string { return it.state.currentPhase }

// PhaseHistory returns the recorded phase transitions in chronological
// (insertion) order, spec §5's ordering guarantee.
func (it *Interpreter) PhaseHistory() []PhaseHistoryEntry {
	out := make([]PhaseHistoryEntry, len(it.state.phaseHistory))
	copy(out, it.state.phaseHistory)
	return out
}

// SatisfyCondition marks name as satisfied, for conditions not tied to
// a specific milestone/CP/regulatory item (e.g. ad hoc transition
// triggers).
func (it *Interpreter) SatisfyCondition(name string) {
	it.state.satisfiedConditions[name] = true
}

// evaluateTransitionCondition implements spec §4.F's AllOf/AnyOf/bare-
// expression dispatch.
func (it *Interpreter) evaluateTransitionCondition(cond ast.TransitionCondition) (bool, map[string]bool, error) {
	switch c := cond.(type) {
	case ast.AllOf:
		detail := make(map[string]bool, len(c.Names))
		all := true
		for _, name := range c.Names {
			ok := it.state.satisfiedConditions[name]
			detail[name] = ok
			if !ok {
				all = false
			}
		}
		return all, detail, nil
	case ast.AnyOf:
		detail := make(map[string]bool, len(c.Names))
		any := false
		for _, name := range c.Names {
			ok := it.state.satisfiedConditions[name]
			detail[name] = ok
			if ok {
				any = true
			}
		}
		return any, detail, nil
	case ast.ExprCondition:
		ok, err := it.EvalBool(c.Expr)
		return ok, nil, err
	default:
		return false, nil, nil
	}
}

// TransitionCheck is the result of evaluating one transition's `when`
// clause, spec §4.F.
type TransitionCheck struct {
	Name          string
	Triggered     bool
	ConditionDetail map[string]bool
	TargetPhase   string
}

// CheckPhaseTransitions evaluates every declared transition's `when`
// clause and reports the unique phase whose `from` matches the
// transition name, spec §4.F. Transitions are never auto-fired.
func (it *Interpreter) CheckPhaseTransitions() ([]TransitionCheck, error) {
	var results []TransitionCheck
	for name, tr := range it.tables.transitions {
		triggered, detail, err := it.evaluateTransitionCondition(tr.When)
		if err != nil {
			return nil, err
		}
		target := ""
		for phaseName, phase := range it.tables.phases {
			if phase.From == name {
				target = phaseName
				break
			}
		}
		results = append(results, TransitionCheck{Name: name, Triggered: triggered, ConditionDetail: detail, TargetPhase: target})
	}
	return results, nil
}

// TransitionTo fires the named event: adds it to satisfiedConditions,
// finds the phase whose `from` matches, sets it current, and appends
// to phaseHistory, spec §4.F.
func (it *Interpreter) TransitionTo(eventName string) error {
	it.state.satisfiedConditions[eventName] = true

	for phaseName, phase := range it.tables.phases {
		if phase.From == eventName {
			it.state.currentPhase = phaseName
			it.state.phaseHistory = append(it.state.phaseHistory, PhaseHistoryEntry{Phase: phaseName, EnteredAt: eventName, TriggeredBy: eventName})
			return nil
		}
	}
	return unknownSymbol("phase transition target for event", eventName)
}
