package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wch1125/proviso/ast"
	"github.com/wch1125/proviso/internal/findata"
)

func TestCalculateBinaryExpressionMirrorsEval(t *testing.T) {
	it := mustParse(t, `DEFINE Leverage = TotalDebt / EBITDA`)
	it.LoadFinancials(findata.Snapshot{Simple: map[string]float64{"TotalDebt": 600, "EBITDA": 100}})

	expr := &ast.BinaryExpression{
		Left:  &ast.Identifier{Name: "TotalDebt"},
		Op:    ast.OpDiv,
		Right: &ast.Identifier{Name: "EBITDA"},
	}
	node, err := it.Calculate("Leverage", expr)
	require.NoError(t, err)

	require.Equal(t, "Leverage", node.Name)
	require.Equal(t, 6.0, node.Value)
	require.Equal(t, SourceComputed, node.Source)
	require.Equal(t, ValueRatio, node.ValueType)
	require.Equal(t, string(ast.OpDiv), node.Formula)
	require.Len(t, node.Children, 2)
	require.Equal(t, "TotalDebt", node.Children[0].Name)
	require.Equal(t, 600.0, node.Children[0].Value)
	require.Equal(t, SourceFinancialData, node.Children[0].Source)
	require.Equal(t, "TotalDebt", node.Children[0].RawDataKey)
	require.Equal(t, "EBITDA", node.Children[1].Name)
	require.Equal(t, 100.0, node.Children[1].Value)

	evalValue, err := it.Eval(expr)
	require.NoError(t, err)
	require.Equal(t, evalValue, node.Value, "Calculate must never disagree with Eval on the same expression")
}

func TestCalculateDefinitionWrapsItsExpressionAsAChild(t *testing.T) {
	src := `DEFINE Leverage = TotalDebt / EBITDA`
	it := mustParse(t, src)
	it.LoadFinancials(findata.Snapshot{Simple: map[string]float64{"TotalDebt": 300, "EBITDA": 60}})

	node, err := it.Calculate("Leverage", &ast.Identifier{Name: "Leverage"})
	require.NoError(t, err)

	require.Equal(t, "Leverage", node.Name)
	require.Equal(t, 5.0, node.Value)
	require.Equal(t, SourceDefinition, node.Source)
	require.Len(t, node.Children, 1)
	require.Equal(t, SourceFinancialData, node.Children[0].Children[0].Source)
}

func TestCalculateValueTypeInferenceThresholds(t *testing.T) {
	it := mustParse(t, ``)

	currency, err := it.Calculate("TotalDebt", &ast.Number{Value: 600000})
	require.NoError(t, err)
	require.Equal(t, ValueCurrency, currency.ValueType)

	ratio, err := it.Calculate("Leverage", &ast.Number{Value: 5})
	require.NoError(t, err)
	require.Equal(t, ValueRatio, ratio.ValueType)

	number, err := it.Calculate("Count", &ast.Number{Value: 500})
	require.NoError(t, err)
	require.Equal(t, ValueNumber, number.ValueType)
}
