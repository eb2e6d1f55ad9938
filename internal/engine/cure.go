package engine

import (
	"fmt"
	"math"

	"github.com/wch1125/proviso/ast"
)

// CanApplyCure reports whether a covenant declares a cure and has a
// use remaining, spec §4.K.
func (it *Interpreter) CanApplyCure(name string) (bool, error) {
	cov, ok := it.tables.covenants[name]
	if !ok {
		return false, unknownSymbol("covenant", name)
	}
	if cov.Cure == nil {
		return false, nil
	}
	if cov.Cure.MaxUses == 0 {
		return true, nil
	}
	return it.state.cureUsage[cov.Cure.Mechanism] < cov.Cure.MaxUses, nil
}

// CureResult is the structured outcome of ApplyCure, spec §7: cure
// refusals are returned as {success, reason}, never as an error.
type CureResult struct {
	Success     bool
	CuredAmount float64
	Reason      string
}

// ApplyCure validates and applies a cure against a breaching covenant,
// spec §4.K.
func (it *Interpreter) ApplyCure(name string, amount float64, timestamp string) (CureResult, error) {
	cov, ok := it.tables.covenants[name]
	if !ok {
		return CureResult{}, unknownSymbol("covenant", name)
	}
	if cov.Cure == nil {
		return CureResult{Success: false, Reason: "No cure declared for this covenant"}, nil
	}

	canUse, err := it.CanApplyCure(name)
	if err != nil {
		return CureResult{}, err
	}
	if !canUse {
		return CureResult{Success: false, Reason: "No cure uses remaining"}, nil
	}

	if cov.Cure.MaxAmount != nil {
		max, err := it.Eval(cov.Cure.MaxAmount)
		if err != nil {
			return CureResult{}, err
		}
		if amount > max {
			return CureResult{Success: false, Reason: "Amount exceeds maximum cure amount"}, nil
		}
	}

	result, err := it.CheckCovenant(name)
	if err != nil {
		return CureResult{}, err
	}
	if result.Compliant {
		return CureResult{Success: false, Reason: "Covenant is already compliant"}, nil
	}

	var shortfall float64
	switch result.Operator {
	case ast.OpLE:
		shortfall = result.Actual - result.Threshold
	case ast.OpGE:
		shortfall = result.Threshold - result.Actual
	default:
		shortfall = math.Abs(result.Actual - result.Threshold)
	}
	if amount < shortfall {
		return CureResult{Success: false, Reason: "Amount is less than the breach shortfall"}, nil
	}

	it.state.cureUsage[cov.Cure.Mechanism]++
	cs, ok := it.state.cureStates[name]
	if !ok {
		cs = &CureState{}
		it.state.cureStates[name] = cs
	}
	cs.Status = "cured"
	cs.CureDeadline = cureDeadline(cov.Cure.CurePeriod, timestamp)
	cs.Attempts = append(cs.Attempts, CureAttempt{Timestamp: timestamp, Amount: amount, Success: true})

	return CureResult{Success: true, CuredAmount: amount}, nil
}

// cureDeadline formats a human-readable deadline description from a
// CurePeriod; default is 30 days when none is declared, spec §4.K.
func cureDeadline(cp *ast.CurePeriod, from string) string {
	if cp == nil {
		return fmt.Sprintf("%s + 30 days", from)
	}
	return fmt.Sprintf("%s + %d %s", from, cp.Amount, cp.Unit)
}

// GetAppliedAmendments returns amendments in application order, spec
// §5's ordering guarantee.
func (it *Interpreter) GetAppliedAmendments() []*ast.Amendment {
	out := make([]*ast.Amendment, len(it.state.appliedAmendments))
	copy(out, it.state.appliedAmendments)
	return out
}

// ApplyAmendment processes an amendment's directives in order,
// spec §4.K. Application is all-or-nothing: a failing directive rolls
// the whole amendment back, per §7 and §9's transactional note.
func (it *Interpreter) ApplyAmendment(amendment *ast.Amendment) error {
	snapshot := it.snapshotTables()
	for _, directive := range amendment.Directives {
		if err := it.applyDirective(directive); err != nil {
			it.restoreTables(snapshot)
			return err
		}
	}
	it.state.appliedAmendments = append(it.state.appliedAmendments, amendment)
	return nil
}

func (it *Interpreter) applyDirective(directive ast.Directive) error {
	switch d := directive.(type) {
	case ast.Replace:
		if err := it.deleteElement(d.Type, d.Name); err != nil {
			return err
		}
		return it.loadStatement(d.Replacement)
	case ast.Add:
		return it.loadStatement(d.Stmt)
	case ast.Delete:
		return it.deleteElement(d.Type, d.Name)
	case ast.Modify:
		return it.modifyElement(d.Type, d.Name, d.Modifications)
	default:
		return &UnsupportedModificationError{Type: "amendment", Field: "unknown directive"}
	}
}

// loadStatement loads a single statement as if it were part of the
// original program, for Replace/Add directives.
func (it *Interpreter) loadStatement(stmt ast.Statement) error {
	saved := it.program
	it.program = &ast.Program{Statements: []ast.Statement{stmt}}
	it.load()
	it.program = saved
	return nil
}

// deleteElement removes name from the table named by elementType,
// spec §4.K. Every table kind in §3.2 is reachable here: the parser
// accepts `DELETE <kind> <name>` for any statement keyword, so a kind
// missing from this switch would wrongly report MissingTarget on an
// element that exists.
func (it *Interpreter) deleteElement(elementType, name string) error {
	switch elementType {
	case "DEFINE":
		if _, ok := it.tables.definitions[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.definitions, name)
	case "COVENANT":
		if _, ok := it.tables.covenants[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.covenants, name)
		delete(it.state.cureStates, name)
	case "BASKET":
		if _, ok := it.tables.baskets[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.baskets, name)
		delete(it.state.basketUtilization, name)
		delete(it.state.basketAccumulation, name)
	case "CONDITION":
		if _, ok := it.tables.conditions[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.conditions, name)
	case "PROHIBIT":
		if _, ok := it.tables.prohibitions[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.prohibitions, name)
	case "EVENT":
		if _, ok := it.tables.events[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.events, name)
		delete(it.state.eventDefaults, name)
	case "PHASE":
		if _, ok := it.tables.phases[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.phases, name)
		if it.state.currentPhase == name {
			it.state.currentPhase = ""
		}
	case "TRANSITION":
		if _, ok := it.tables.transitions[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.transitions, name)
	case "MILESTONE":
		if _, ok := it.tables.milestones[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.milestones, name)
		delete(it.state.milestoneAchievements, name)
	case "TECHNICAL_MILESTONE":
		if _, ok := it.tables.technicalMilestones[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.technicalMilestones, name)
		delete(it.state.technicalMilestoneAchievements, name)
	case "REGULATORY_REQUIREMENT":
		if _, ok := it.tables.regulatoryRequirements[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.regulatoryRequirements, name)
		delete(it.state.regulatoryStatuses, name)
	case "PERFORMANCE_GUARANTEE":
		if _, ok := it.tables.performanceGuarantees[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.performanceGuarantees, name)
	case "DEGRADATION_SCHEDULE":
		if _, ok := it.tables.degradationSchedules[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.degradationSchedules, name)
	case "SEASONAL_ADJUSTMENT":
		if _, ok := it.tables.seasonalAdjustments[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.seasonalAdjustments, name)
	case "TAX_EQUITY_STRUCTURE":
		if _, ok := it.tables.taxEquityStructures[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.taxEquityStructures, name)
	case "TAX_CREDIT":
		if _, ok := it.tables.taxCredits[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.taxCredits, name)
	case "DEPRECIATION":
		if _, ok := it.tables.depreciations[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.depreciations, name)
	case "FLIP_EVENT":
		if _, ok := it.tables.flipEvents[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.flipEvents, name)
		delete(it.state.triggeredFlips, name)
	case "RESERVE":
		if _, ok := it.tables.reserves[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.reserves, name)
		delete(it.state.reserveBalances, name)
	case "WATERFALL":
		if _, ok := it.tables.waterfalls[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.waterfalls, name)
	case "CONDITIONS_PRECEDENT":
		if _, ok := it.tables.conditionsPrecedent[name]; !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		delete(it.tables.conditionsPrecedent, name)
		delete(it.state.cpStatuses, name)
	default:
		return &MissingTargetError{Type: elementType, Name: name}
	}
	return nil
}

// modifyElement patches permitted fields in place, spec §4.K. Baskets
// accept capacity/floor/maximum; covenants accept requires/tested. Any
// other target raises UnsupportedModification.
func (it *Interpreter) modifyElement(elementType, name string, mods []ast.ModField) error {
	switch elementType {
	case "COVENANT":
		orig, ok := it.tables.covenants[name]
		if !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		cov := *orig // clone: snapshotTables keeps `orig` intact for rollback
		for _, mod := range mods {
			switch mod.Field {
			case "requires":
				cov.Requires = mod.Value
			case "tested":
				cov.Tested = mod.Text
			default:
				return &UnsupportedModificationError{Type: elementType, Field: mod.Field}
			}
		}
		it.tables.covenants[name] = &cov
	case "BASKET":
		origB, ok := it.tables.baskets[name]
		if !ok {
			return &MissingTargetError{Type: elementType, Name: name}
		}
		b := *origB
		for _, mod := range mods {
			switch mod.Field {
			case "capacity":
				b.Capacity = mod.Value
			case "floor":
				b.Floor = mod.Value
			case "maximum":
				b.Maximum = mod.Value
			default:
				return &UnsupportedModificationError{Type: elementType, Field: mod.Field}
			}
		}
		it.tables.baskets[name] = &b
	default:
		return &UnsupportedModificationError{Type: elementType, Field: "*"}
	}
	return nil
}
