package engine

import (
	"math"
	"strings"

	"github.com/wch1125/proviso/ast"
)

// ValueType classifies a CalculationNode's value for prose/dashboard
// rendering, spec §4.D.
type ValueType string

const (
	ValueCurrency   ValueType = "currency"
	ValueRatio      ValueType = "ratio"
	ValuePercentage ValueType = "percentage"
	ValueNumber     ValueType = "number"
)

// Source enumerates where a CalculationNode's value came from.
type Source string

const (
	SourceLiteral       Source = "literal"
	SourceFinancialData Source = "financial_data"
	SourceDefinition    Source = "definition"
	SourceComputed      Source = "computed"
)

// CalculationNode is a recursive structural trace of one expression's
// evaluation, spec §4.D "Calculation-tree introspection". Each parent
// exclusively owns its children (spec §9) — cycles cannot occur
// because a self-referential definition fails identifier resolution
// at the definition site, so the loader need not build a DAG.
type CalculationNode struct {
	Name       string
	Value      float64
	Formula    string
	Children   []*CalculationNode
	Source     Source
	ValueType  ValueType
	RawDataKey string
}

// inferValueType checks the name first: a name containing "percent" or
// ending in "rate" (case-insensitive) is a percentage. Otherwise it uses
// the magnitude heuristic: magnitude > 10,000 is currency, < 10 is
// ratio, otherwise plain number.
func inferValueType(name string, value float64) ValueType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "percent") || strings.HasSuffix(lower, "rate"):
		return ValuePercentage
	case math.Abs(value) > 10000:
		return ValueCurrency
	case math.Abs(value) < 10:
		return ValueRatio
	default:
		return ValueNumber
	}
}

// Calculate builds a CalculationNode tree for expr, mirroring Eval's
// structural recursion so the two can never disagree on a value.
func (it *Interpreter) Calculate(name string, expr ast.Expression) (*CalculationNode, error) {
	return it.calculate(name, expr)
}

func (it *Interpreter) calculate(name string, expr ast.Expression) (*CalculationNode, error) {
	switch e := expr.(type) {
	case *ast.Number:
		return &CalculationNode{Name: name, Value: e.Value, Source: SourceLiteral, ValueType: inferValueType(name, e.Value)}, nil
	case *ast.Currency:
		return &CalculationNode{Name: name, Value: e.Value, Source: SourceLiteral, ValueType: ValueCurrency}, nil
	case *ast.Percentage:
		v := e.Raw / 100.0
		return &CalculationNode{Name: name, Value: v, Source: SourceLiteral, ValueType: ValuePercentage}, nil
	case *ast.Ratio:
		return &CalculationNode{Name: name, Value: e.Value, Source: SourceLiteral, ValueType: ValueRatio}, nil
	case *ast.Identifier:
		return it.calculateIdentifier(e.Name)
	case *ast.BinaryExpression:
		left, err := it.calculate(operandLabel(e.Left), e.Left)
		if err != nil {
			return nil, err
		}
		right, err := it.calculate(operandLabel(e.Right), e.Right)
		if err != nil {
			return nil, err
		}
		value, err := it.Eval(e)
		if err != nil {
			return nil, err
		}
		return &CalculationNode{
			Name:      name,
			Value:     value,
			Formula:   string(e.Op),
			Children:  []*CalculationNode{left, right},
			Source:    SourceComputed,
			ValueType: inferValueType(name, value),
		}, nil
	default:
		value, err := it.Eval(expr)
		if err != nil {
			return nil, err
		}
		return &CalculationNode{Name: name, Value: value, Source: SourceComputed, ValueType: inferValueType(name, value)}, nil
	}
}

// operandLabel names a sub-expression node for CalculationNode
// display: identifiers keep their name, everything else is anonymous.
func operandLabel(expr ast.Expression) string {
	if id, ok := expr.(*ast.Identifier); ok {
		return id.Name
	}
	return ""
}

func (it *Interpreter) calculateIdentifier(name string) (*CalculationNode, error) {
	if v, ok := it.state.ctx.bindings[name]; ok {
		return &CalculationNode{Name: name, Value: v, Source: SourceComputed, ValueType: inferValueType(name, v)}, nil
	}
	if def, ok := it.tables.definitions[name]; ok {
		child, err := it.calculate(name, def.Expression)
		if err != nil {
			return nil, err
		}
		value, err := it.evalDefine(def)
		if err != nil {
			return nil, err
		}
		return &CalculationNode{
			Name:      name,
			Value:     value,
			Formula:   name,
			Children:  []*CalculationNode{child},
			Source:    SourceDefinition,
			ValueType: inferValueType(name, value),
		}, nil
	}
	if v, ok := it.financialValue(name); ok {
		return &CalculationNode{Name: name, Value: v, Source: SourceFinancialData, ValueType: inferValueType(name, v), RawDataKey: name}, nil
	}
	if alias, ok := aliases[name]; ok {
		if v, ok := it.financialValue(alias); ok {
			return &CalculationNode{Name: name, Value: v, Source: SourceFinancialData, ValueType: inferValueType(name, v), RawDataKey: alias}, nil
		}
		if _, ok := it.tables.definitions[alias]; ok {
			node, err := it.calculateIdentifier(alias)
			if err == nil {
				node.Name = name
			}
			return node, err
		}
	}
	return nil, &UndefinedIdentifierError{Name: name}
}
