package logic

import (
	"fmt"
	"sort"

	"github.com/erhulee/insight-sub002/internal/types"
)

/*
 * Config compilation.
 *
 * Compile validates a config once and pre-processes it for the hot path:
 * rules are indexed by target question, in/notIn value lists normalized
 * to []any, ordering comparison values pre-coerced to float64, and each
 * rule's conditions stable-sorted by operator cost so AND groups
 * short-circuit on the cheap checks first.
 *
 * The respondent runtime re-evaluates visibility on every answer change,
 * so moving validation and value parsing to compile time keeps the
 * per-keystroke cost to map lookups and comparisons.
 *
 * Why stable sort: equal-cost conditions keep their authored order so
 * evaluation behavior is deterministic across identical inputs.
 */

// Operator base costs for condition ordering. Emptiness checks are
// cheapest, substring scans most expensive.
const (
	costEmpty    = 1
	costEquals   = 5
	costOrdering = 7
	costIn       = 8
	costContains = 10
)

func operatorCost(op types.Operator) int {
	switch op {
	case types.OpIsEmpty, types.OpIsNotEmpty:
		return costEmpty
	case types.OpEquals, types.OpNotEquals:
		return costEquals
	case types.OpGt, types.OpGte, types.OpLt, types.OpLte:
		return costOrdering
	case types.OpIn, types.OpNotIn:
		return costIn
	case types.OpContains, types.OpNotContains:
		return costContains
	default:
		return costEquals
	}
}

// ConfigError reports a config rejected by Compile. It wraps
// types.ErrInvalidConfig and carries the full validation result.
type ConfigError struct {
	Result ValidationResult
}

func (e *ConfigError) Error() string {
	n := len(e.Result.Violations)
	if n == 1 {
		return fmt.Sprintf("invalid display-logic config: %s", e.Result.Violations[0])
	}
	return fmt.Sprintf("invalid display-logic config: %d violations, first: %s", n, e.Result.Violations[0])
}

// Unwrap allows errors.Is against types.ErrInvalidConfig and against the
// sentinel of any individual violation (types.ErrUnknownOperator,
// types.ErrTooManyRules, ...).
func (e *ConfigError) Unwrap() []error {
	errs := []error{types.ErrInvalidConfig}
	for _, v := range e.Result.Violations {
		if v.Err != nil {
			errs = append(errs, v.Err)
		}
	}
	return errs
}

// CompiledCondition is a pre-processed condition ready for evaluation.
type CompiledCondition struct {
	QuestionID string
	Op         types.Operator
	Value      any
	Values     []any   // normalized value list for in/notIn
	Number     float64 // pre-coerced value for ordering operators
	HasNumber  bool
	Cost       int
}

// CompiledRule is a pre-processed rule with cost-ordered conditions.
type CompiledRule struct {
	ID         types.RuleID
	Combinator types.Combinator
	Action     types.RuleAction
	Conditions []CompiledCondition // ordered by ascending cost
}

// CompiledConfig is a validated, target-indexed display-logic config.
type CompiledConfig struct {
	Enabled  bool
	targets  []string // distinct targets in first-seen order
	byTarget map[string][]CompiledRule
}

// Compile validates and pre-processes a config. Compilation fails if and
// only if ValidateConfig reports violations; the returned error is a
// *ConfigError carrying all of them.
func Compile(cfg types.LogicConfig) (*CompiledConfig, error) {
	if result := ValidateConfig(cfg); !result.Valid() {
		return nil, &ConfigError{Result: result}
	}

	compiled := &CompiledConfig{
		Enabled:  cfg.Enabled,
		targets:  cfg.TargetIDs(),
		byTarget: make(map[string][]CompiledRule, len(cfg.Rules)),
	}

	for _, rule := range cfg.Rules {
		cr := CompiledRule{
			ID:         rule.ID,
			Combinator: rule.Combinator,
			Action:     rule.Action,
			Conditions: make([]CompiledCondition, 0, len(rule.Conditions)),
		}
		for _, cond := range rule.Conditions {
			cr.Conditions = append(cr.Conditions, compileCondition(cond))
		}
		sort.SliceStable(cr.Conditions, func(i, j int) bool {
			return cr.Conditions[i].Cost < cr.Conditions[j].Cost
		})
		compiled.byTarget[rule.TargetQuestionID] = append(compiled.byTarget[rule.TargetQuestionID], cr)
	}

	return compiled, nil
}

func compileCondition(cond types.Condition) CompiledCondition {
	cc := CompiledCondition{
		QuestionID: cond.QuestionID,
		Op:         cond.Op,
		Value:      cond.Value,
		Cost:       operatorCost(cond.Op),
	}
	switch cond.Op {
	case types.OpIn, types.OpNotIn:
		// Validation guarantees an array shape.
		cc.Values, _ = asSlice(cond.Value)
	case types.OpGt, types.OpGte, types.OpLt, types.OpLte:
		cc.Number, cc.HasNumber = coerceNumber(cond.Value)
	}
	return cc
}

// evaluateCompiled evaluates one pre-processed condition.
func evaluateCompiled(cond CompiledCondition, answers types.Answers) bool {
	answer := answers[cond.QuestionID]
	switch cond.Op {
	case types.OpIn:
		return compareInSet(answer, cond.Values)
	case types.OpNotIn:
		return !compareInSet(answer, cond.Values)
	case types.OpGt, types.OpGte, types.OpLt, types.OpLte:
		if !cond.HasNumber {
			return false
		}
		return Compare(cond.Op, answer, cond.Number)
	default:
		return Compare(cond.Op, answer, cond.Value)
	}
}

func compareInSet(answer any, set []any) bool {
	if elems, ok := asSlice(answer); ok {
		for _, elem := range elems {
			if memberOf(elem, set) {
				return true
			}
		}
		return false
	}
	return memberOf(answer, set)
}

// Active reports whether the rule's condition set currently holds.
func (r CompiledRule) Active(answers types.Answers) bool {
	if r.Combinator == types.CombinatorOr {
		for _, cond := range r.Conditions {
			if evaluateCompiled(cond, answers) {
				return true
			}
		}
		return false
	}
	for _, cond := range r.Conditions {
		if !evaluateCompiled(cond, answers) {
			return false
		}
	}
	return true
}

// TargetVisible decides visibility for one question id. Same resolution
// policy as the uncompiled TargetVisible: active hide wins, show rules
// require an active member, untargeted questions stay visible.
func (c *CompiledConfig) TargetVisible(questionID string, answers types.Answers) bool {
	if !c.Enabled {
		return true
	}
	rules, ok := c.byTarget[questionID]
	if !ok {
		return true
	}

	hasShow := false
	showActive := false
	for _, rule := range rules {
		active := rule.Active(answers)
		switch rule.Action {
		case types.ActionHide:
			if active {
				return false
			}
		case types.ActionShow:
			hasShow = true
			if active {
				showActive = true
			}
		}
	}
	if hasShow {
		return showActive
	}
	return true
}

// HiddenQuestionIDs returns the currently hidden targets.
func (c *CompiledConfig) HiddenQuestionIDs(answers types.Answers) map[string]struct{} {
	hidden := make(map[string]struct{})
	if !c.Enabled {
		return hidden
	}
	for _, target := range c.targets {
		if !c.TargetVisible(target, answers) {
			hidden[target] = struct{}{}
		}
	}
	return hidden
}
