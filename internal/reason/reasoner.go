// Package reason grounds §4.H's prohibition/query engine on an actual
// Datalog evaluation rather than hand-rolled boolean short-circuiting.
// For one checkProhibition call it compiles the currently-true
// condition set and each exception's condition list into a tiny
// Mangle program (one fact per true condition, one rule per
// exception), asks Mangle which exception rules are derivable, and
// reshapes the result into the same {rule, passed} trace shape
// spec §4.H describes.
package reason

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	_ "github.com/google/mangle/packages"
	"github.com/google/mangle/parse"
)

// ExceptionSlot is one condition of one ExceptWhen clause, already
// reduced to a boolean by the expression evaluator. Reason never
// evaluates ProViso expressions itself — it only decides AND/OR
// derivability over condition truth values, the part of §4.H that is
// naturally a logic program.
type ExceptionSlot struct {
	ConditionIndex int
	Passed         bool
}

// Step is one line of the reasoning trace returned by Check, in
// exception-then-condition order, matching §4.H's hand-rolled shape
// byte for byte.
type Step struct {
	Rule   string
	Passed bool
}

// Result is the outcome of one Check call.
type Result struct {
	Permitted bool
	Reasoning []Step
	Warnings  []string
}

// Check evaluates whether any exception's conditions all pass, using
// Mangle to derive each exception's AND clause. exceptions[i] holds
// the already-evaluated slots for ExceptWhen clause i, in source
// order.
func Check(action string, exceptions [][]ExceptionSlot) (Result, error) {
	if len(exceptions) == 0 {
		return Result{Permitted: true, Reasoning: []Step{{Rule: fmt.Sprintf("No prohibition registered for %s", action), Passed: true}}}, nil
	}

	var program bytes.Buffer
	fmt.Fprintf(&program, "Decl true_cond(Exception, Condition).\n")
	fmt.Fprintf(&program, "Decl permits(Exception).\n")
	for i, slots := range exceptions {
		var body []string
		for _, slot := range slots {
			if slot.Passed {
				fmt.Fprintf(&program, "true_cond(%d, %d).\n", i, slot.ConditionIndex)
			}
			body = append(body, fmt.Sprintf("true_cond(%d, %d)", i, slot.ConditionIndex))
		}
		fmt.Fprintf(&program, "permits(%d) :- %s.\n", i, strings.Join(body, ", "))
	}

	unit, err := parse.Unit(bytes.NewReader(program.Bytes()))
	if err != nil {
		return Result{}, fmt.Errorf("reason: compile program: %w", err)
	}
	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return Result{}, fmt.Errorf("reason: analyze program: %w", err)
	}

	store := factstore.NewSimpleInMemoryStore()
	if _, err := mengine.EvalProgramWithStats(programInfo, store); err != nil {
		return Result{}, fmt.Errorf("reason: eval program: %w", err)
	}

	permitted := false
	derivedException := -1
	permitsSym := ast.PredicateSym{Symbol: "permits", Arity: 1}
	for i := range exceptions {
		found := false
		_ = store.GetFacts(ast.NewQuery(permitsSym), func(atom ast.Atom) error {
			if len(atom.Args) == 1 && atom.Args[0].String() == fmt.Sprintf("%d", i) {
				found = true
			}
			return nil
		})
		if found {
			permitted = true
			derivedException = i
			break
		}
	}

	var steps []Step
	steps = append(steps, Step{Rule: fmt.Sprintf("Prohibit %s", action), Passed: false})
	for i, slots := range exceptions {
		for _, slot := range slots {
			steps = append(steps, Step{Rule: fmt.Sprintf("exception %d, condition %d", i, slot.ConditionIndex), Passed: slot.Passed})
		}
		_ = i
	}

	result := Result{Permitted: permitted, Reasoning: steps}
	if !permitted {
		result.Warnings = []string{"All exception conditions must be satisfied"}
	}
	_ = derivedException
	return result, nil
}
