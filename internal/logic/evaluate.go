package logic

import (
	"github.com/erhulee/insight-sub002/internal/types"
)

/*
 * Rule evaluation and visibility resolution.
 *
 * Evaluation flow per question:
 *   1. Global bypass: config disabled means everything is visible.
 *   2. Partition the rules targeting the question into active (conditions
 *      evaluate true) and inactive.
 *   3. Any active hide rule hides the question: hide wins over show.
 *   4. A question targeted by show rules is visible only while some show
 *      rule is active; an inactive show rule is itself a hide decision.
 *   5. A question targeted only by hide rules, none active, stays
 *      visible. A question targeted by nothing is always visible.
 *
 * Conditions read answers and only answers. A target that no longer
 * exists in the question list just produces an unused hidden-set entry;
 * a condition on a deleted question sees an empty answer. Dangling
 * references are ineffective, never errors.
 */

// EvaluateCondition evaluates one condition against the answers snapshot.
// A missing answer is an empty value: isEmpty matches it, every
// comparison operator evaluates false against it.
func EvaluateCondition(cond types.Condition, answers types.Answers) bool {
	return Compare(cond.Op, answers[cond.QuestionID], cond.Value)
}

// EvaluateRule reports whether the rule is active: AND requires every
// condition true, OR at least one. Configuration validation rejects
// empty condition lists before evaluation sees them.
func EvaluateRule(rule types.Rule, answers types.Answers) bool {
	if rule.Combinator == types.CombinatorOr {
		for _, cond := range rule.Conditions {
			if EvaluateCondition(cond, answers) {
				return true
			}
		}
		return false
	}
	for _, cond := range rule.Conditions {
		if !EvaluateCondition(cond, answers) {
			return false
		}
	}
	return true
}

// TargetVisible decides visibility for one question id under the given
// config and answers. Idempotent and pure: unchanged inputs always
// produce the same answer.
func TargetVisible(cfg types.LogicConfig, answers types.Answers, questionID string) bool {
	if !cfg.Enabled {
		return true
	}

	hasShow := false
	showActive := false
	for _, rule := range cfg.Rules {
		if rule.TargetQuestionID != questionID {
			continue
		}
		active := EvaluateRule(rule, answers)
		switch rule.Action {
		case types.ActionHide:
			if active {
				// Hide wins regardless of any show rule.
				return false
			}
		case types.ActionShow:
			hasShow = true
			if active {
				showActive = true
			}
		default:
			// Unknown action: ineffective, caught by ValidateConfig.
		}
	}

	if hasShow {
		return showActive
	}
	return true
}

// HiddenQuestionIDs returns the set of currently hidden question ids:
// the distinct rule targets for which TargetVisible is false. A question
// never named as a target cannot appear here, by construction.
func HiddenQuestionIDs(cfg types.LogicConfig, answers types.Answers) map[string]struct{} {
	hidden := make(map[string]struct{})
	if !cfg.Enabled {
		return hidden
	}
	for _, target := range cfg.TargetIDs() {
		if !TargetVisible(cfg, answers, target) {
			hidden[target] = struct{}{}
		}
	}
	return hidden
}

// VisibleQuestions filters the question list down to currently visible
// questions, preserving order. This is the renderer-facing output shape.
func VisibleQuestions(cfg types.LogicConfig, questions []types.Question, answers types.Answers) []types.Question {
	hidden := HiddenQuestionIDs(cfg, answers)
	out := make([]types.Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := hidden[q.ID]; ok {
			continue
		}
		out = append(out, q)
	}
	return out
}
