package reason

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckNoExceptionsIsAlwaysPermitted(t *testing.T) {
	result, err := Check("RestrictedPayment", nil)
	require.NoError(t, err)
	require.True(t, result.Permitted)
	require.Len(t, result.Reasoning, 1)
	require.Empty(t, result.Warnings)
}

func TestCheckPermitsWhenAllConditionsInOneExceptionPass(t *testing.T) {
	exceptions := [][]ExceptionSlot{
		{{ConditionIndex: 0, Passed: true}, {ConditionIndex: 1, Passed: false}},
		{{ConditionIndex: 0, Passed: true}, {ConditionIndex: 1, Passed: true}},
	}
	result, err := Check("Investment", exceptions)
	require.NoError(t, err)
	require.True(t, result.Permitted)
	require.Empty(t, result.Warnings)
}

func TestCheckProhibitsWhenNoExceptionFullyPasses(t *testing.T) {
	exceptions := [][]ExceptionSlot{
		{{ConditionIndex: 0, Passed: true}, {ConditionIndex: 1, Passed: false}},
	}
	result, err := Check("Investment", exceptions)
	require.NoError(t, err)
	require.False(t, result.Permitted)
	require.Equal(t, []string{"All exception conditions must be satisfied"}, result.Warnings)
}

func TestCheckReasoningTraceOrder(t *testing.T) {
	exceptions := [][]ExceptionSlot{
		{{ConditionIndex: 0, Passed: true}},
	}
	result, err := Check("Dividend", exceptions)
	require.NoError(t, err)
	require.Equal(t, "Prohibit Dividend", result.Reasoning[0].Rule)
	require.False(t, result.Reasoning[0].Passed)
	require.Equal(t, "exception 0, condition 0", result.Reasoning[1].Rule)
	require.True(t, result.Reasoning[1].Passed)
}
