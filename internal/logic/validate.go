package logic

import (
	"fmt"

	"github.com/erhulee/insight-sub002/internal/types"
)

/*
 * Configuration validation.
 *
 * ValidateConfig collects every violation instead of stopping at the
 * first, so the editor can surface all problems in one pass. Validation
 * blocks saving; it is never consulted during evaluation, which stays
 * total regardless of what managed to get persisted.
 *
 * Cycle detection is deliberately absent: conditions reference answer
 * values, never computed visibility, so rule graphs cannot form
 * evaluation cycles.
 */

// Violation describes one configuration problem, addressed by rule and
// (when applicable) condition position so the editor can highlight it.
// Err carries the sentinel classifying the violation where one exists
// (types.ErrUnknownOperator, types.ErrTooManyRules, ...) so callers can
// match with errors.Is through ConfigError; ad-hoc structural checks
// leave it nil.
type Violation struct {
	RuleIndex      int          // position in config.Rules, -1 for config-level
	RuleID         types.RuleID // empty when the rule has no id
	ConditionIndex int          // -1 for rule-level violations
	Message        string
	Err            error
}

func (v Violation) String() string {
	if v.RuleIndex < 0 {
		return v.Message
	}
	rule := fmt.Sprintf("rule %d", v.RuleIndex)
	if v.RuleID != "" {
		rule = fmt.Sprintf("rule %q", v.RuleID)
	}
	if v.ConditionIndex < 0 {
		return fmt.Sprintf("%s: %s", rule, v.Message)
	}
	return fmt.Sprintf("%s, condition %d: %s", rule, v.ConditionIndex, v.Message)
}

// ValidationResult holds all violations found in one config.
type ValidationResult struct {
	Violations []Violation
}

// Valid reports whether the config passed every check.
func (r ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// Messages renders every violation as a human-readable line.
func (r ValidationResult) Messages() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.String()
	}
	return out
}

// ValidateConfig checks a display-logic config for structural problems:
// missing targets, empty condition lists, missing comparison values,
// unknown operators/actions/combinators, and resource limit breaches.
func ValidateConfig(cfg types.LogicConfig) ValidationResult {
	var result ValidationResult

	add := func(ruleIdx int, ruleID types.RuleID, condIdx int, sentinel error, format string, args ...any) {
		result.Violations = append(result.Violations, Violation{
			RuleIndex:      ruleIdx,
			RuleID:         ruleID,
			ConditionIndex: condIdx,
			Message:        fmt.Sprintf(format, args...),
			Err:            sentinel,
		})
	}

	if len(cfg.Rules) > types.MaxRulesPerConfig {
		add(-1, "", -1, types.ErrTooManyRules, "config has %d rules, maximum is %d", len(cfg.Rules), types.MaxRulesPerConfig)
	}

	for i, rule := range cfg.Rules {
		if rule.TargetQuestionID == "" {
			add(i, rule.ID, -1, nil, "targetQuestionId must not be empty")
		}
		if !rule.Combinator.Valid() {
			add(i, rule.ID, -1, types.ErrUnknownCombinator, "operator must be AND or OR, got %q", rule.Combinator)
		}
		if !rule.Action.Valid() {
			add(i, rule.ID, -1, types.ErrUnknownAction, "action must be show or hide, got %q", rule.Action)
		}
		if len(rule.Conditions) == 0 {
			add(i, rule.ID, -1, nil, "rule has no conditions")
			continue
		}
		if len(rule.Conditions) > types.MaxConditionsPerRule {
			add(i, rule.ID, -1, types.ErrTooManyConditions, "rule has %d conditions, maximum is %d", len(rule.Conditions), types.MaxConditionsPerRule)
		}

		for j, cond := range rule.Conditions {
			if cond.QuestionID == "" {
				add(i, rule.ID, j, nil, "condition questionId must not be empty")
			}
			if !cond.Op.Valid() {
				add(i, rule.ID, j, types.ErrUnknownOperator, "unknown operator %q", cond.Op)
				continue
			}
			if !cond.Op.NeedsValue() {
				continue
			}
			if cond.Value == nil {
				add(i, rule.ID, j, nil, "operator %s requires a comparison value", cond.Op)
				continue
			}
			if s, ok := cond.Value.(string); ok && s == "" {
				add(i, rule.ID, j, nil, "operator %s requires a non-empty comparison value", cond.Op)
				continue
			}
			if cond.Op == types.OpIn || cond.Op == types.OpNotIn {
				values, ok := asSlice(cond.Value)
				if !ok {
					add(i, rule.ID, j, nil, "operator %s requires an array value", cond.Op)
					continue
				}
				if len(values) == 0 {
					add(i, rule.ID, j, nil, "operator %s requires a non-empty array value", cond.Op)
				}
				if len(values) > types.MaxInOperatorValues {
					add(i, rule.ID, j, types.ErrTooManyInValues, "operator %s has %d values, maximum is %d", cond.Op, len(values), types.MaxInOperatorValues)
				}
			}
		}
	}

	return result
}
