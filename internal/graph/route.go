package graph

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RouteContinue / RouteEnd are the two labels the Loop Controller (4)
// emits, mirroring spec.md §4.4. The driver maps them to "run another
// iteration" vs. "fall through to persistence".
const (
	RouteContinue = "continue_loop"
	RouteEnd      = "end_loop"
)

// routeProgram is the loop-controller's routing predicate, compiled
// once at package init (the teacher's WorkflowGraph.evaluateCondition
// compiles per-call since its conditions vary per workflow; this
// module's topology is fixed, so the program is reused across every
// loop-controller pass of every run instead of recompiling it each time).
var routeProgram *vm.Program

func init() {
	program, err := expr.Compile("currentDayIndex < totalTrainingDays", expr.AsBool())
	if err != nil {
		panic(fmt.Sprintf("failed to compile loop-controller predicate: %v", err))
	}
	routeProgram = program
}

// evaluateRoute runs the loop-controller's routing predicate through
// expr-lang, the same library and AsBool() pattern the teacher's
// WorkflowGraph.evaluateCondition uses for conditional edges — reused
// here for the one boolean decision this module's fixed topology
// actually has, instead of a hand-rolled `<` comparison.
func evaluateRoute(currentDayIndex, totalTrainingDays int) (string, error) {
	env := map[string]interface{}{
		"currentDayIndex":   currentDayIndex,
		"totalTrainingDays": totalTrainingDays,
	}

	result, err := expr.Run(routeProgram, env)
	if err != nil {
		return "", fmt.Errorf("failed to evaluate loop-controller predicate: %w", err)
	}

	shouldContinue, ok := result.(bool)
	if !ok {
		return "", fmt.Errorf("loop-controller predicate did not return a boolean, got %T", result)
	}

	if shouldContinue {
		return RouteContinue, nil
	}
	return RouteEnd, nil
}
