// Package schema validates and defaults question definitions: the single
// source of truth for what a well-formed question of each variant looks
// like. The editor runs raw builder output through Validate before
// applying a mutation, so an invalid edit is rejected before it can
// corrupt the in-memory question list.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/erhulee/insight-sub002/internal/types"
)

// FieldError reports a question that failed its variant's schema,
// naming the offending field in props-path notation
// (e.g. "props.options[2].value").
type FieldError struct {
	QuestionID string
	Field      string
	Message    string
}

func (e *FieldError) Error() string {
	if e.QuestionID == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("question %q: %s: %s", e.QuestionID, e.Field, e.Message)
}

func fieldErr(q types.Question, field, format string, args ...any) error {
	return &FieldError{
		QuestionID: q.ID,
		Field:      field,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Parse decodes a serialized question and validates it against its
// variant's schema, filling defaults. The returned question is safe to
// hand to the renderer and the logic engine.
func Parse(data []byte) (types.Question, error) {
	var q types.Question
	if err := json.Unmarshal(data, &q); err != nil {
		return types.Question{}, err
	}
	return Validate(q)
}

// Validate checks one question against its variant's schema and returns
// a normalized copy with defaults applied. The input is not mutated.
func Validate(q types.Question) (types.Question, error) {
	if q.ID == "" {
		return types.Question{}, fieldErr(q, "id", "must not be empty")
	}
	if !q.Type.Valid() {
		return types.Question{}, fmt.Errorf("%w: %q", types.ErrUnknownQuestionType, q.Type)
	}

	switch q.Type {
	case types.QuestionInput, types.QuestionTextarea:
		return validateText(q)
	case types.QuestionSingle, types.QuestionMultiple:
		return validateChoice(q)
	case types.QuestionRating:
		return validateRating(q)
	case types.QuestionNumber:
		return validateNumber(q)
	case types.QuestionDate:
		return validateDate(q)
	default: // description
		return validateStatic(q)
	}
}

func validateText(q types.Question) (types.Question, error) {
	if q.Text == nil {
		q.Text = &TextDefaults
	}
	p := *q.Text
	if p.MinLength < 0 {
		return q, fieldErr(q, "props.minLength", "must not be negative, got %d", p.MinLength)
	}
	if p.MaxLength < 0 {
		return q, fieldErr(q, "props.maxLength", "must not be negative, got %d", p.MaxLength)
	}
	if p.MaxLength > 0 && p.MaxLength < p.MinLength {
		return q, fieldErr(q, "props.maxLength", "must not be below minLength (%d < %d)", p.MaxLength, p.MinLength)
	}
	q.Text = &p
	return q, nil
}

func validateChoice(q types.Question) (types.Question, error) {
	var p types.ChoiceProps
	if q.Choice != nil {
		p = *q.Choice
	}
	if len(p.Options) == 0 {
		// Fresh questions get one placeholder option the editor renames.
		p.Options = []types.Option{placeholderOption()}
	}
	if len(p.Options) > types.MaxOptionsPerQuestion {
		return q, fieldErr(q, "props.options", "has %d options, maximum is %d", len(p.Options), types.MaxOptionsPerQuestion)
	}

	options := make([]types.Option, len(p.Options))
	seen := make(map[string]int, len(p.Options))
	for i, opt := range p.Options {
		if opt.Value == "" {
			return q, fieldErr(q, fmt.Sprintf("props.options[%d].value", i), "must not be empty")
		}
		if prev, dup := seen[opt.Value]; dup {
			return q, fieldErr(q, fmt.Sprintf("props.options[%d].value", i), "duplicates options[%d] (%q)", prev, opt.Value)
		}
		seen[opt.Value] = i
		if opt.ID == "" {
			opt.ID = types.NewQuestionID()
		}
		if opt.Label == "" {
			opt.Label = opt.Value
		}
		options[i] = opt
	}
	p.Options = options

	if q.Type == types.QuestionMultiple {
		if p.MinSelect < 0 {
			return q, fieldErr(q, "props.minSelect", "must not be negative, got %d", p.MinSelect)
		}
		if p.MaxSelect < 0 {
			return q, fieldErr(q, "props.maxSelect", "must not be negative, got %d", p.MaxSelect)
		}
		if p.MaxSelect > 0 && p.MaxSelect < p.MinSelect {
			return q, fieldErr(q, "props.maxSelect", "must not be below minSelect (%d < %d)", p.MaxSelect, p.MinSelect)
		}
	} else {
		// Selection bounds are a multiple-choice concern.
		p.MinSelect = 0
		p.MaxSelect = 0
	}

	q.Choice = &p
	return q, nil
}

func validateRating(q types.Question) (types.Question, error) {
	var p types.RatingProps
	if q.Rating != nil {
		p = *q.Rating
	}
	if p.MaxRating == 0 {
		p.MaxRating = RatingDefaults.MaxRating
	}
	if p.RatingType == "" {
		p.RatingType = RatingDefaults.RatingType
	}
	if p.RatingType != "star" && p.RatingType != "number" {
		return q, fieldErr(q, "props.ratingType", "must be star or number, got %q", p.RatingType)
	}
	if p.MaxRating < 2 || p.MaxRating > types.MaxRatingScale {
		return q, fieldErr(q, "props.maxRating", "must be between 2 and %d, got %d", types.MaxRatingScale, p.MaxRating)
	}
	q.Rating = &p
	return q, nil
}

func validateNumber(q types.Question) (types.Question, error) {
	var p types.NumberProps
	if q.Number != nil {
		p = *q.Number
	}
	if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
		return q, fieldErr(q, "props.max", "must not be below min (%v < %v)", *p.Max, *p.Min)
	}
	q.Number = &p
	return q, nil
}

func validateDate(q types.Question) (types.Question, error) {
	var p types.DateProps
	if q.Date != nil {
		p = *q.Date
	}
	if p.Format == "" {
		p.Format = DateDefaults.Format
	}
	if _, err := dateLayout(p.Format); err != nil {
		return q, fieldErr(q, "props.format", "%v", err)
	}
	q.Date = &p
	return q, nil
}

func validateStatic(q types.Question) (types.Question, error) {
	if q.Static == nil {
		q.Static = &types.StaticProps{}
	}
	if q.Required {
		return q, fieldErr(q, "required", "description blocks collect no answer and cannot be required")
	}
	return q, nil
}
