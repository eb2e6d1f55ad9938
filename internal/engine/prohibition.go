package engine

import (
	"github.com/wch1125/proviso/internal/reason"
)

// ProhibitionResult is the outcome of CheckProhibition, spec §4.H.
type ProhibitionResult struct {
	Permitted bool
	Reasoning []reason.Step
	Warnings  []string
}

// CheckProhibition evaluates whether action is permitted under its
// declared exceptions, per §4.H. `amount` is bound into the scoped
// evaluation-context binding described in spec §9 for the duration of
// this call and popped on every exit path.
func (it *Interpreter) CheckProhibition(action string, amount *float64) (ProhibitionResult, error) {
	if amount != nil {
		pop := it.state.ctx.push("amount", *amount)
		defer pop()
	}

	prohibit, ok := it.tables.prohibitions[action]
	if !ok {
		return ProhibitionResult{Permitted: true, Reasoning: []reason.Step{{Rule: "No prohibition registered for " + action, Passed: true}}}, nil
	}

	exceptions := make([][]reason.ExceptionSlot, len(prohibit.Exceptions))
	for i, exc := range prohibit.Exceptions {
		slots := make([]reason.ExceptionSlot, len(exc.Conditions))
		for j, cond := range exc.Conditions {
			passed, err := it.EvalBool(cond)
			if err != nil {
				return ProhibitionResult{}, err
			}
			slots[j] = reason.ExceptionSlot{ConditionIndex: j, Passed: passed}
		}
		exceptions[i] = slots
	}

	result, err := reason.Check(action, exceptions)
	if err != nil {
		return ProhibitionResult{}, err
	}
	return ProhibitionResult{Permitted: result.Permitted, Reasoning: result.Reasoning, Warnings: result.Warnings}, nil
}
