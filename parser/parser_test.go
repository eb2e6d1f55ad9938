package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wch1125/proviso/ast"
)

func TestParseDeterminism(t *testing.T) {
	src := `
DEFINE Leverage = TotalDebt / EBITDA
COVENANT MaxLeverage
  REQUIRES Leverage <= 5.00 UNTIL 2025-12-31, THEN <= 4.75
  TESTED QUARTERLY
  CURE EquityCure MAX_USES 2 OVER "rolling 4 quarters" MAX_AMOUNT $20_000_000
`
	progA, err := Parse(src)
	require.NoError(t, err)
	progB, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, progA, progB)
}

func TestParseCovenantWorkedExample(t *testing.T) {
	src := `
COVENANT MaxLeverage
  REQUIRES Leverage <= 5.00 UNTIL 2025-12-31, THEN <= 4.75
  TESTED QUARTERLY
  CURE EquityCure MAX_USES 2 OVER "rolling 4 quarters" MAX_AMOUNT $20_000_000
`
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	cov, ok := prog.Statements[0].(*ast.Covenant)
	require.True(t, ok)
	assert.Equal(t, "MaxLeverage", cov.Name)
	assert.Equal(t, "quarterly", cov.Tested)

	cmp, ok := cov.Requires.(*ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, ast.OpLE, cmp.Op)

	require.Len(t, cov.Tiers, 1)
	assert.Equal(t, "2025-12-31", cov.Tiers[0].UntilDate)
	tierCmp, ok := cov.Tiers[0].Requires.(*ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, ast.OpLE, tierCmp.Op)

	require.NotNil(t, cov.Cure)
	assert.Equal(t, "EquityCure", cov.Cure.Mechanism)
	assert.Equal(t, 2, cov.Cure.MaxUses)
	assert.Equal(t, "rolling 4 quarters", cov.Cure.OverPeriod)
	amount, ok := cov.Cure.MaxAmount.(*ast.Currency)
	require.True(t, ok)
	assert.Equal(t, 20_000_000.0, amount.Value)
}

func TestParseDefineWithModifiers(t *testing.T) {
	src := `DEFINE AdjustedEBITDA = EBITDA EXCLUDING [OneTimeCharges, NonCashItems] CAP $50_000_000 TRAILING 4 quarters`
	prog, err := Parse(src)
	require.NoError(t, err)
	def, ok := prog.Statements[0].(*ast.Define)
	require.True(t, ok)
	assert.Equal(t, "AdjustedEBITDA", def.Name)
	assert.Equal(t, []string{"OneTimeCharges", "NonCashItems"}, def.Modifiers.Excluding)
	require.NotNil(t, def.Modifiers.Cap)
	require.NotNil(t, def.Modifiers.Trailing)
	assert.Equal(t, 4, def.Modifiers.Trailing.Count)
	assert.Equal(t, ast.TrailingQuarters, def.Modifiers.Trailing.Unit)
}

func TestParseBasketFixedAndGrower(t *testing.T) {
	src := `BASKET GeneralInvestments CAPACITY GreaterOf($25_000_000, 10% * EBITDA)`
	prog, err := Parse(src)
	require.NoError(t, err)
	b, ok := prog.Statements[0].(*ast.Basket)
	require.True(t, ok)
	assert.Equal(t, "GeneralInvestments", b.Name)
	call, ok := b.Capacity.(*ast.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "GreaterOf", call.Name)
	require.Len(t, call.Args, 2)
}

func TestParseProhibitWithExceptions(t *testing.T) {
	src := `
PROHIBIT IncurDebt
  EXCEPT WHEN Leverage <= 4.00
  EXCEPT WHEN AVAILABLE(GeneralInvestments) >= amount
`
	prog, err := Parse(src)
	require.NoError(t, err)
	pr, ok := prog.Statements[0].(*ast.Prohibit)
	require.True(t, ok)
	assert.Equal(t, "IncurDebt", pr.Target)
	require.Len(t, pr.Exceptions, 2)
	require.Len(t, pr.Exceptions[0].Conditions, 1)
	require.Len(t, pr.Exceptions[1].Conditions, 1)
}

func TestParsePhaseAndTransition(t *testing.T) {
	src := `
PHASE Construction
  ACTIVE [ConstructionCovenant]
  SUSPENDS [MaxLeverage]

TRANSITION ToOperations
  WHEN ALL_OF [SubstantialCompletion, FinalAcceptance]
`
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)

	phase, ok := prog.Statements[0].(*ast.Phase)
	require.True(t, ok)
	assert.Equal(t, []string{"ConstructionCovenant"}, phase.CovenantsActive)
	assert.Equal(t, []string{"MaxLeverage"}, phase.CovenantsSuspended)

	tr, ok := prog.Statements[1].(*ast.Transition)
	require.True(t, ok)
	allOf, ok := tr.When.(ast.AllOf)
	require.True(t, ok)
	assert.Equal(t, []string{"SubstantialCompletion", "FinalAcceptance"}, allOf.Names)
}

func TestParseReserveAndWaterfall(t *testing.T) {
	src := `
RESERVE DSRA
  TARGET $30_000_000
  MINIMUM $0

WATERFALL CashWaterfall
  TIER PRIORITY 1 PAY $5_000_000
  TIER PRIORITY 2 PAY $3_000_000
  TIER PRIORITY 3 PAY_TO DSRA UNTIL DSRABalance >= $30_000_000
  TIER PRIORITY 4 GATE Leverage <= 4.50 PAY_TO DSRA
`
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)

	wf, ok := prog.Statements[1].(*ast.Waterfall)
	require.True(t, ok)
	require.Len(t, wf.Tiers, 4)
	assert.Equal(t, 1, wf.Tiers[0].Priority)
	require.NotNil(t, wf.Tiers[2].PayTo)
	assert.Equal(t, "DSRA", wf.Tiers[2].PayTo)
	require.NotNil(t, wf.Tiers[3].Condition)
}

func TestParseAmendmentDirectives(t *testing.T) {
	src := `
AMENDMENT 1
  EFFECTIVE "2025-06-01"
  DESCRIPTION "Relax leverage covenant for Q3"
  MODIFY COVENANT MaxLeverage SET requires = Leverage <= 6.00
  DELETE BASKET GeneralInvestments
`
	prog, err := Parse(src)
	require.NoError(t, err)
	am, ok := prog.Statements[0].(*ast.Amendment)
	require.True(t, ok)
	assert.Equal(t, 1, am.Number)
	require.Len(t, am.Directives, 2)

	mod, ok := am.Directives[0].(ast.Modify)
	require.True(t, ok)
	assert.Equal(t, "COVENANT", mod.Type)
	assert.Equal(t, "MaxLeverage", mod.Name)
	require.Len(t, mod.Modifications, 1)
	assert.Equal(t, "requires", mod.Modifications[0].Field)

	del, ok := am.Directives[1].(ast.Delete)
	require.True(t, ok)
	assert.Equal(t, "BASKET", del.Type)
	assert.Equal(t, "GeneralInvestments", del.Name)
}

func TestParseSyntaxErrorLocation(t *testing.T) {
	_, err := Parse(`DEFINE Leverage = `)
	require.Error(t, err)
	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 1, synErr.Line)
}
