package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine holds the compiled transition rules of the decision loop.
// It is immutable after construction and may be shared by engagements.
type Engine struct {
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Rules returns the compiled rules in evaluation order.
func (e *Engine) Rules() []*Rule { return e.rules }

// Decide evaluates the rules for the state's current mode and applies the
// first that matches. It returns the fired rule, or nil when the engagement
// stays in its mode.
func (e *Engine) Decide(s *State, env Env) *Rule {
	mode := s.Mode()
	if mode.Terminal() {
		return nil
	}
	for _, r := range e.rules {
		if r.From != mode {
			continue
		}
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		if match, ok := result.(bool); !ok || !match {
			continue
		}
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "from", r.From, "to", r.Next,
			"gain", env.Gained, "available", env.Avail, "targets", env.Targets, "wave", env.Wave)
		s.Transition(r.Next, r.Reason)
		return r
	}
	return nil
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
