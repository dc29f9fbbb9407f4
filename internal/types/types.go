// Package types provides domain models shared across insight components.
//
// Zero-dependency design: question, logic and answer types use only
// encoding/json so renderer-facing consumers can embed them without pulling
// in storage or CLI dependencies. ID utilities in ids.go import uuid but
// are isolated for selective inclusion.
package types

import "time"

// SurveyID represents a UUIDv7 survey identifier.
// String alias enables type safety while maintaining JSON string serialization.
type SurveyID string

// Answers is the live answer snapshot for one form-fill session, keyed by
// question id. Values carry JSON shapes only: string, float64, bool, or
// []any for multi-select. A missing key means the question was never
// answered and is treated as empty by the logic engine.
//
// The map is owned by exactly one session at a time; the engine reads it
// and never retains it across calls.
type Answers map[string]any

// Clone returns a shallow copy. Element values are JSON scalars or arrays
// that callers treat as immutable, so a shallow copy is sufficient.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Survey is the persisted form definition: the question list plus the
// display-logic configuration. The answers map is deliberately absent;
// it is session state, not definition state.
type Survey struct {
	ID          SurveyID    `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Questions   []Question  `json:"questions"`
	Logic       LogicConfig `json:"logic"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty"`
}

// QuestionByID returns the question with the given id, if present.
func (s *Survey) QuestionByID(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Resource limits enforced at configuration-validation time to keep
// evaluation cost bounded on the respondent path.
const (
	// MaxQuestionsPerSurvey caps the question list; editors paginate well
	// below this, anything larger indicates a runaway import.
	MaxQuestionsPerSurvey = 512

	// MaxOptionsPerQuestion limits single/multiple choice option lists.
	MaxOptionsPerQuestion = 128

	// MaxRulesPerConfig limits display-logic rules per survey.
	MaxRulesPerConfig = 256

	// MaxConditionsPerRule bounds the AND/OR condition set of one rule.
	MaxConditionsPerRule = 32

	// MaxInOperatorValues limits in/notIn value lists to prevent quadratic
	// membership cost during evaluation.
	MaxInOperatorValues = 64

	// MaxRatingScale is the largest supported rating scale.
	MaxRatingScale = 10
)
