package prose

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wch1125/proviso/ast"
)

// exprString renders an expression back to ProViso's own surface
// syntax, spec §6's bit-exact source language. Renderers build prose
// paragraphs around this, so it must be byte-stable for a given AST.
// Per §9's "Determinism for prose," each value type rounds with its
// own fixed precision rather than the shortest round-trip
// representation: currency is integer dollars with thousands
// separators, ratios and percentages always carry two decimals.
func exprString(e ast.Expression) string {
	switch v := e.(type) {
	case nil:
		return ""
	case *ast.Number:
		return trimFloat(v.Value)
	case *ast.Currency:
		return "$" + formatThousands(v.Value)
	case *ast.Percentage:
		return fmt.Sprintf("%.2f%%", v.Raw)
	case *ast.Ratio:
		return fmt.Sprintf("%.2fx", v.Value)
	case *ast.DateLiteral:
		return v.Value
	case *ast.StringLiteral:
		return `"` + strings.ReplaceAll(v.Value, `"`, `\"`) + `"`
	case *ast.Identifier:
		return v.Name
	case *ast.BinaryExpression:
		return exprString(v.Left) + " " + string(v.Op) + " " + exprString(v.Right)
	case *ast.UnaryExpression:
		if v.Op == ast.OpNot {
			return "NOT " + exprString(v.Operand)
		}
		return string(v.Op) + exprString(v.Operand)
	case *ast.Comparison:
		return exprString(v.Left) + " " + string(v.Op) + " " + exprString(v.Right)
	case *ast.FunctionCall:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = exprString(a)
		}
		return v.Name + "(" + strings.Join(args, ", ") + ")"
	case *ast.Trailing:
		return fmt.Sprintf("TRAILING %d %s (%s)", v.Count, v.Unit, exprString(v.Expr))
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func trimFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}

// formatThousands renders f as integer dollars with comma thousands
// separators, per §9: currency prose carries no cents regardless of
// the source literal's own precision.
func formatThousands(f float64) string {
	whole := int64(math.Round(f))
	s := strconv.FormatInt(whole, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	result := string(out)
	if neg {
		result = "-" + result
	}
	return result
}

func transitionConditionString(c ast.TransitionCondition) string {
	switch v := c.(type) {
	case nil:
		return ""
	case ast.AllOf:
		return "all of: " + strings.Join(v.Names, ", ")
	case ast.AnyOf:
		return "any of: " + strings.Join(v.Names, ", ")
	case ast.ExprCondition:
		return exprString(v.Expr)
	default:
		return ""
	}
}
