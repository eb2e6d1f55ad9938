package engine

import (
	"math"

	"github.com/wch1125/proviso/ast"
)

// CovenantResult is the outcome of checking one covenant, spec §4.E.
type CovenantResult struct {
	Name      string
	Actual    float64
	Threshold float64
	Compliant bool
	Headroom  float64
	Operator  ast.CompareOp
}

// CheckCovenant evaluates one covenant's base Requires comparison, per
// §4.E. Tiered UNTIL ... THEN ... thresholds are not applied here (see
// activeCovenantRequirement and CheckCovenantTier).
func (it *Interpreter) CheckCovenant(name string) (CovenantResult, error) {
	cov, ok := it.tables.covenants[name]
	if !ok {
		return CovenantResult{}, unknownSymbol("covenant", name)
	}
	return it.evaluateCovenantRequirement(name, it.activeCovenantRequirement(cov))
}

// activeCovenantRequirement returns the base Requires clause. Runtime
// state carries no wall-clock "now" (§3.3), so tiered UNTIL/THEN
// thresholds are not auto-selected by date; callers that track a
// period boundary against a tier's UntilDate pick that tier
// explicitly via CheckCovenantTier.
func (it *Interpreter) activeCovenantRequirement(cov *ast.Covenant) ast.Expression {
	return cov.Requires
}

// CheckCovenantTier evaluates a specific tier (0-indexed into
// cov.Tiers) instead of the base Requires clause, letting callers
// that track "now" against UntilDate pick the governing tier.
func (it *Interpreter) CheckCovenantTier(name string, tierIndex int) (CovenantResult, error) {
	cov, ok := it.tables.covenants[name]
	if !ok {
		return CovenantResult{}, unknownSymbol("covenant", name)
	}
	if tierIndex < 0 || tierIndex >= len(cov.Tiers) {
		return CovenantResult{}, unknownSymbol("covenant tier", name)
	}
	return it.evaluateCovenantRequirement(name, cov.Tiers[tierIndex].Requires)
}

func (it *Interpreter) evaluateCovenantRequirement(name string, requires ast.Expression) (CovenantResult, error) {
	cmp, isComparison := requires.(*ast.Comparison)
	if !isComparison {
		compliant, err := it.EvalBool(requires)
		if err != nil {
			return CovenantResult{}, err
		}
		actual := 0.0
		if compliant {
			actual = 1.0
		}
		return CovenantResult{Name: name, Actual: actual, Threshold: 1, Compliant: compliant, Headroom: math.NaN(), Operator: ast.OpEQ}, nil
	}

	left, err := it.Eval(cmp.Left)
	if err != nil {
		return CovenantResult{}, err
	}
	right, err := it.Eval(cmp.Right)
	if err != nil {
		return CovenantResult{}, err
	}
	compliant, err := it.EvalBool(cmp)
	if err != nil {
		return CovenantResult{}, err
	}

	result := CovenantResult{Name: name, Actual: left, Threshold: right, Compliant: compliant, Operator: cmp.Op}
	switch cmp.Op {
	case ast.OpLE:
		result.Headroom = right - left
	case ast.OpGE:
		result.Headroom = left - right
	default:
		result.Headroom = math.NaN()
	}
	return result, nil
}

// CheckAllCovenants evaluates every declared covenant, in table-
// iteration order (callers that need declaration order should drive
// iteration from Program().Statements instead).
func (it *Interpreter) CheckAllCovenants() (map[string]CovenantResult, error) {
	results := make(map[string]CovenantResult, len(it.tables.covenants))
	for name := range it.tables.covenants {
		r, err := it.CheckCovenant(name)
		if err != nil {
			return nil, err
		}
		results[name] = r
	}
	return results, nil
}

// isCovenantActive implements the phase activity rule of spec §4.F.
func (it *Interpreter) isCovenantActive(name string) bool {
	if it.state.currentPhase == "" {
		return true
	}
	phase, ok := it.tables.phases[it.state.currentPhase]
	if !ok {
		return true
	}
	suspended := stringSetContains(phase.CovenantsSuspended, name)
	if len(phase.CovenantsActive) > 0 {
		return stringSetContains(phase.CovenantsActive, name) && !suspended
	}
	return !suspended
}

func stringSetContains(set []string, name string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}

// CheckActiveCovenants returns results for covenants active under the
// current phase, then appends the phase's required covenants that
// were not already included, per §4.E.
func (it *Interpreter) CheckActiveCovenants() (map[string]CovenantResult, error) {
	results := make(map[string]CovenantResult)
	for name := range it.tables.covenants {
		if !it.isCovenantActive(name) {
			continue
		}
		r, err := it.CheckCovenant(name)
		if err != nil {
			return nil, err
		}
		results[name] = r
	}
	if it.state.currentPhase != "" {
		if phase, ok := it.tables.phases[it.state.currentPhase]; ok {
			for _, name := range phase.RequiredCovenants {
				if _, already := results[name]; already {
					continue
				}
				r, err := it.CheckCovenant(name)
				if err != nil {
					return nil, err
				}
				results[name] = r
			}
		}
	}
	return results, nil
}

// CheckCovenantWithCure reports the covenant's compliance alongside
// its cure status: Cured is true when the covenant's cureStates entry
// is "cured". The embedded CovenantResult, including Compliant, is the
// unmodified CheckCovenant result.
type CovenantWithCureResult struct {
	CovenantResult
	Cured bool
}

func (it *Interpreter) CheckCovenantWithCure(name string) (CovenantWithCureResult, error) {
	base, err := it.CheckCovenant(name)
	if err != nil {
		return CovenantWithCureResult{}, err
	}
	cured := false
	if cs, ok := it.state.cureStates[name]; ok && cs.Status == "cured" {
		cured = true
	}
	return CovenantWithCureResult{CovenantResult: base, Cured: cured}, nil
}

// RecordBreach marks a covenant as breached, creating its cureStates
// entry if absent. It records no breach date.
func (it *Interpreter) RecordBreach(name string) error {
	if _, ok := it.tables.covenants[name]; !ok {
		return unknownSymbol("covenant", name)
	}
	cs, ok := it.state.cureStates[name]
	if !ok {
		cs = &CureState{Status: "breached"}
		it.state.cureStates[name] = cs
	} else {
		cs.Status = "breached"
	}
	return nil
}
