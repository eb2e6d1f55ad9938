package engine

import (
	"math"
	"strings"

	"github.com/wch1125/proviso/ast"
	"github.com/wch1125/proviso/internal/logging"
)

// aliases implements the small cross-walk between the DSL's
// identifier spellings and common financial-data key spellings, spec
// §4.D step (4).
var aliases = map[string]string{
	"EBITDA":     "ebitda",
	"ebitda":     "EBITDA",
	"TotalDebt":  "total_debt",
	"total_debt": "TotalDebt",
	"SeniorDebt": "senior_debt",
	"senior_debt": "SeniorDebt",
}

// Eval evaluates expr to a number, resolving identifiers through the
// order in spec §4.D: evaluation-context bindings, definitions,
// financial data, then the alias table.
func (it *Interpreter) Eval(expr ast.Expression) (float64, error) {
	switch e := expr.(type) {
	case *ast.Number:
		return e.Value, nil
	case *ast.Currency:
		return e.Value, nil
	case *ast.Percentage:
		return e.Raw / 100.0, nil
	case *ast.Ratio:
		return e.Value, nil
	case *ast.DateLiteral:
		return 0, &UndefinedIdentifierError{Name: e.Value}
	case *ast.StringLiteral:
		return 0, &UndefinedIdentifierError{Name: e.Value}
	case *ast.Identifier:
		return it.resolveIdentifier(e.Name)
	case *ast.BinaryExpression:
		return it.evalBinary(e)
	case *ast.UnaryExpression:
		return it.evalUnary(e)
	case *ast.Comparison:
		ok, err := it.EvalBool(e)
		if err != nil {
			return 0, err
		}
		if ok {
			return 1, nil
		}
		return 0, nil
	case *ast.FunctionCall:
		return it.evalFunctionCall(e)
	case *ast.Trailing:
		return it.evalTrailing(e)
	default:
		return 0, &UndefinedIdentifierError{Name: "<unknown expression>"}
	}
}

func (it *Interpreter) resolveIdentifier(name string) (float64, error) {
	if v, ok := it.state.ctx.bindings[name]; ok {
		return v, nil
	}
	if def, ok := it.tables.definitions[name]; ok {
		return it.evalDefine(def)
	}
	if v, ok := it.financialValue(name); ok {
		return v, nil
	}
	if alias, ok := aliases[name]; ok {
		if v, ok := it.financialValue(alias); ok {
			return v, nil
		}
		if def, ok := it.tables.definitions[alias]; ok {
			return it.evalDefine(def)
		}
	}
	return 0, &UndefinedIdentifierError{Name: name}
}

// evalDefine evaluates a Define's expression and applies its
// modifiers: subtract each `excluding` value, then clamp by `cap`.
func (it *Interpreter) evalDefine(def *ast.Define) (float64, error) {
	value, err := it.Eval(def.Expression)
	if err != nil {
		return 0, err
	}
	for _, excl := range def.Modifiers.Excluding {
		v, err := it.resolveIdentifier(excl)
		if err != nil {
			return 0, err
		}
		value -= v
	}
	if def.Modifiers.Cap != nil {
		cap, err := it.Eval(def.Modifiers.Cap)
		if err != nil {
			return 0, err
		}
		if value > cap {
			value = cap
		}
	}
	return value, nil
}

func (it *Interpreter) evalBinary(e *ast.BinaryExpression) (float64, error) {
	if e.Op == ast.OpAnd || e.Op == ast.OpOr {
		left, err := it.EvalBool(e.Left)
		if err != nil {
			return 0, err
		}
		if e.Op == ast.OpAnd && !left {
			return 0, nil
		}
		if e.Op == ast.OpOr && left {
			return 1, nil
		}
		right, err := it.EvalBool(e.Right)
		if err != nil {
			return 0, err
		}
		if right {
			return 1, nil
		}
		return 0, nil
	}

	left, err := it.Eval(e.Left)
	if err != nil {
		return 0, err
	}
	right, err := it.Eval(e.Right)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case ast.OpAdd:
		return left + right, nil
	case ast.OpSub:
		return left - right, nil
	case ast.OpMul:
		return left * right, nil
	case ast.OpDiv:
		if right == 0 {
			return math.Inf(1), nil
		}
		return left / right, nil
	case ast.OpMod:
		if right == 0 {
			return math.Inf(1), nil
		}
		return math.Mod(left, right), nil
	}
	return 0, &UndefinedIdentifierError{Name: string(e.Op)}
}

func (it *Interpreter) evalUnary(e *ast.UnaryExpression) (float64, error) {
	switch e.Op {
	case ast.OpNeg:
		v, err := it.Eval(e.Operand)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case ast.OpNot:
		b, err := it.EvalBool(e.Operand)
		if err != nil {
			return 0, err
		}
		if b {
			return 0, nil
		}
		return 1, nil
	}
	return 0, &UndefinedIdentifierError{Name: string(e.Op)}
}

// EvalBool evaluates expr as a boolean condition, per spec §4.D:
// Comparison applies its operator; AND/OR short-circuit; a bare
// identifier resolves to a named Condition if one exists, else to the
// truthiness of its numeric value; an unresolvable identifier is
// false, not an error (it.D: "unknown -> false").
func (it *Interpreter) EvalBool(expr ast.Expression) (bool, error) {
	switch e := expr.(type) {
	case *ast.Comparison:
		left, err := it.Eval(e.Left)
		if err != nil {
			return false, err
		}
		right, err := it.Eval(e.Right)
		if err != nil {
			return false, err
		}
		switch e.Op {
		case ast.OpLE:
			return left <= right, nil
		case ast.OpGE:
			return left >= right, nil
		case ast.OpLT:
			return left < right, nil
		case ast.OpGT:
			return left > right, nil
		case ast.OpEQ:
			return left == right, nil
		case ast.OpNE:
			return left != right, nil
		}
		return false, nil
	case *ast.BinaryExpression:
		if e.Op == ast.OpAnd {
			left, err := it.EvalBool(e.Left)
			if err != nil || !left {
				return false, err
			}
			return it.EvalBool(e.Right)
		}
		if e.Op == ast.OpOr {
			left, err := it.EvalBool(e.Left)
			if err != nil {
				return false, err
			}
			if left {
				return true, nil
			}
			return it.EvalBool(e.Right)
		}
		v, err := it.Eval(e)
		return v != 0, err
	case *ast.UnaryExpression:
		if e.Op == ast.OpNot {
			b, err := it.EvalBool(e.Operand)
			return !b, err
		}
		v, err := it.Eval(e)
		return v != 0, err
	case *ast.FunctionCall:
		v, err := it.evalFunctionCall(e)
		return v != 0, err
	case *ast.Identifier:
		if cond, ok := it.tables.conditions[e.Name]; ok {
			return it.EvalBool(cond.Expression)
		}
		if it.state.satisfiedConditions[e.Name] {
			return true, nil
		}
		v, err := it.resolveIdentifier(e.Name)
		if err != nil {
			return false, nil
		}
		return v != 0, nil
	default:
		v, err := it.Eval(expr)
		if err != nil {
			return false, nil
		}
		return v != 0, nil
	}
}

// evalFunctionCall dispatches the built-ins of spec §4.D.
func (it *Interpreter) evalFunctionCall(e *ast.FunctionCall) (float64, error) {
	switch strings.ToUpper(e.Name) {
	case "AVAILABLE":
		if len(e.Args) != 1 {
			return 0, &UndefinedIdentifierError{Name: "AVAILABLE"}
		}
		name, err := it.argIdentifier(e.Args[0])
		if err != nil {
			return 0, err
		}
		status, err := it.GetBasketStatus(name)
		if err != nil {
			return 0, err
		}
		return status.Available, nil
	case "GREATEROF":
		return it.reduceArgs(e.Args, math.Max, math.Inf(-1))
	case "LESSEROF":
		return it.reduceArgs(e.Args, math.Min, math.Inf(1))
	case "COMPLIANT":
		if len(e.Args) != 1 {
			return 0, &UndefinedIdentifierError{Name: "COMPLIANT"}
		}
		name, err := it.argIdentifier(e.Args[0])
		if err != nil {
			return 0, err
		}
		result, err := it.CheckCovenant(name)
		if err != nil {
			return 0, err
		}
		if result.Compliant {
			return 1, nil
		}
		return 0, nil
	case "EXISTS":
		if len(e.Args) != 1 {
			return 0, &UndefinedIdentifierError{Name: "EXISTS"}
		}
		name, err := it.argIdentifier(e.Args[0])
		if err != nil {
			return 0, err
		}
		if it.state.eventDefaults[name] {
			return 1, nil
		}
		return 0, nil
	case "NOT":
		if len(e.Args) != 1 {
			return 0, &UndefinedIdentifierError{Name: "NOT"}
		}
		b, err := it.EvalBool(e.Args[0])
		if err != nil {
			return 0, err
		}
		if b {
			return 0, nil
		}
		return 1, nil
	}
	return 0, &UndefinedIdentifierError{Name: e.Name}
}

// argIdentifier extracts a bare name from a function-call argument
// that names a basket/covenant/event rather than a numeric value.
func (it *Interpreter) argIdentifier(expr ast.Expression) (string, error) {
	if id, ok := expr.(*ast.Identifier); ok {
		return id.Name, nil
	}
	if s, ok := expr.(*ast.StringLiteral); ok {
		return s.Value, nil
	}
	return "", &UndefinedIdentifierError{Name: "<non-identifier argument>"}
}

func (it *Interpreter) reduceArgs(args []ast.Expression, combine func(a, b float64) float64, seed float64) (float64, error) {
	result := seed
	for _, a := range args {
		v, err := it.Eval(a)
		if err != nil {
			return 0, err
		}
		result = combine(result, v)
	}
	return result, nil
}

// evalTrailing sums expr evaluated once per qualifying period over
// the last count periods of unit, per spec §4.D. In simple mode it
// logs a warning and evaluates once rather than failing.
func (it *Interpreter) evalTrailing(t *ast.Trailing) (float64, error) {
	if !it.state.multiMode {
		logging.Get(logging.CategoryEngine).Warn("TRAILING %d %s evaluated in simple mode; evaluating once", t.Count, t.Unit)
		return it.Eval(t.Expr)
	}

	matching := it.periodsMatchingUnit(t.Unit)
	if len(matching) == 0 {
		return it.Eval(t.Expr)
	}

	n := t.Count
	if n > len(matching) {
		n = len(matching)
	}
	window := matching[len(matching)-n:]

	priorPeriod := it.state.evalPeriod
	defer func() { it.state.evalPeriod = priorPeriod }()

	var sum float64
	for _, p := range window {
		it.state.evalPeriod = p.Period
		v, err := it.Eval(t.Expr)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

func (it *Interpreter) periodsMatchingUnit(unit ast.TrailingUnit) []period {
	want := map[ast.TrailingUnit]string{
		ast.TrailingQuarters: "quarterly",
		ast.TrailingMonths:   "monthly",
		ast.TrailingYears:    "annual",
	}[unit]

	var matching []period
	for _, p := range it.state.periods {
		if p.PeriodType == want {
			matching = append(matching, p)
		}
	}
	if len(matching) == 0 {
		return it.state.periods
	}
	return matching
}
