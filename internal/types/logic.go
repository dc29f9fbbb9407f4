package types

/*
 * Display-logic configuration types.
 *
 * A LogicConfig holds declarative rules that condition a target question's
 * visibility on other questions' answers. Conditions compare one source
 * question's current answer against a literal value; a rule combines its
 * conditions with AND or OR and applies a show/hide action to exactly one
 * target.
 *
 * These types are wire-format aligned: field names match the serialized
 * JSON produced by the editor ({rules: [...], enabled: bool}) so stored
 * configurations round-trip without conversion.
 *
 * Invariant: conditions reference answer values only, never another
 * question's computed visibility. Rule graphs therefore cannot form
 * evaluation cycles and the engine needs no cycle detection.
 */

// Operator enumerates condition comparison operators.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "notContains"
	OpIn          Operator = "in"
	OpNotIn       Operator = "notIn"
	OpGt          Operator = "gt"
	OpGte         Operator = "gte"
	OpLt          Operator = "lt"
	OpLte         Operator = "lte"
	OpIsEmpty     Operator = "isEmpty"
	OpIsNotEmpty  Operator = "isNotEmpty"
)

// Operators lists every valid operator.
var Operators = []Operator{
	OpEquals, OpNotEquals,
	OpContains, OpNotContains,
	OpIn, OpNotIn,
	OpGt, OpGte, OpLt, OpLte,
	OpIsEmpty, OpIsNotEmpty,
}

// Valid reports whether op is a member of the operator set.
func (op Operator) Valid() bool {
	for _, known := range Operators {
		if op == known {
			return true
		}
	}
	return false
}

// NeedsValue reports whether the operator consults the condition's
// comparison value. Only the emptiness checks do not.
func (op Operator) NeedsValue() bool {
	return op != OpIsEmpty && op != OpIsNotEmpty
}

// Combinator joins a rule's conditions.
type Combinator string

const (
	CombinatorAnd Combinator = "AND"
	CombinatorOr  Combinator = "OR"
)

// Valid reports whether c is AND or OR.
func (c Combinator) Valid() bool {
	return c == CombinatorAnd || c == CombinatorOr
}

// RuleAction is the effect an active rule applies to its target.
type RuleAction string

const (
	ActionShow RuleAction = "show"
	ActionHide RuleAction = "hide"
)

// Valid reports whether a is show or hide.
func (a RuleAction) Valid() bool {
	return a == ActionShow || a == ActionHide
}

// Condition is a single comparison against the current answer of
// QuestionID. Value is unused for isEmpty/isNotEmpty and required for
// every other operator; for in/notIn it must be an array.
type Condition struct {
	QuestionID string   `json:"questionId"`
	Op         Operator `json:"op"`
	Value      any      `json:"value,omitempty"`
}

// RuleID represents a UUIDv7 display-logic rule identifier.
type RuleID string

// Rule combines conditions with a combinator and applies an action to one
// target question. Conditions must be non-empty; configuration validation
// rejects empty rules rather than treating them as always or never true.
type Rule struct {
	ID               RuleID      `json:"id"`
	Conditions       []Condition `json:"conditions"`
	Combinator       Combinator  `json:"operator"`
	Action           RuleAction  `json:"action"`
	TargetQuestionID string      `json:"targetQuestionId"`
}

// LogicConfig is the complete display-logic configuration of a survey.
// Enabled false is a global bypass: every question is visible regardless
// of rules.
type LogicConfig struct {
	Rules   []Rule `json:"rules"`
	Enabled bool   `json:"enabled"`
}

// TargetIDs returns the distinct target question ids across all rules,
// in first-seen order. A question never named here can never be hidden.
func (c LogicConfig) TargetIDs() []string {
	seen := make(map[string]struct{}, len(c.Rules))
	var out []string
	for _, r := range c.Rules {
		if r.TargetQuestionID == "" {
			continue
		}
		if _, ok := seen[r.TargetQuestionID]; ok {
			continue
		}
		seen[r.TargetQuestionID] = struct{}{}
		out = append(out, r.TargetQuestionID)
	}
	return out
}
