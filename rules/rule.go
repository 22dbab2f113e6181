package rules

import "github.com/expr-lang/expr/vm"

// Rule is one guarded transition of the engagement state machine: when the
// engagement is in From and the condition holds, it moves to Next.
// Rules for the same mode are evaluated by priority and the first match wins.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	From         Mode        // mode the rule applies in
	ConditionSrc string      // expr source (preserved for logging)
	Next         Mode        // mode entered when the rule fires
	Reason       error       // termination cause recorded on Surrendering
	program      *vm.Program // compiled bytecode
}
