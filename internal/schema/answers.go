package schema

import (
	"fmt"
	"math"
	"time"

	"github.com/erhulee/insight-sub002/internal/types"
)

/*
 * Answer validation.
 *
 * Submission-time counterpart of the question schema: checks one answer
 * value against its question's variant and constraints. Distinct from
 * display logic, which never validates: a hidden question's answer is
 * simply absent, and the engine tolerates anything that got recorded.
 *
 * Callers skip hidden questions before validating a submission;
 * required-ness applies only to questions the respondent could see.
 */

// AnswerError reports an answer rejected by its question's schema.
type AnswerError struct {
	QuestionID string
	Message    string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("answer for question %q: %s", e.QuestionID, e.Message)
}

func answerErr(q types.Question, format string, args ...any) error {
	return &AnswerError{QuestionID: q.ID, Message: fmt.Sprintf(format, args...)}
}

// ValidateAnswer checks a single answer value against the question.
// A nil or empty value passes unless the question is required.
func ValidateAnswer(q types.Question, value any) error {
	if q.Type == types.QuestionDescription {
		if value != nil {
			return answerErr(q, "description blocks do not take answers")
		}
		return nil
	}

	if isEmptyAnswer(value) {
		if q.Required {
			return answerErr(q, "answer is required")
		}
		return nil
	}

	switch q.Type {
	case types.QuestionInput, types.QuestionTextarea:
		return validateTextAnswer(q, value)
	case types.QuestionSingle:
		return validateSingleAnswer(q, value)
	case types.QuestionMultiple:
		return validateMultipleAnswer(q, value)
	case types.QuestionRating:
		return validateRatingAnswer(q, value)
	case types.QuestionNumber:
		return validateNumberAnswer(q, value)
	case types.QuestionDate:
		return validateDateAnswer(q, value)
	default:
		return fmt.Errorf("%w: %q", types.ErrUnknownQuestionType, q.Type)
	}
}

func isEmptyAnswer(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	default:
		return false
	}
}

func validateTextAnswer(q types.Question, value any) error {
	s, ok := value.(string)
	if !ok {
		return answerErr(q, "expected a string, got %T", value)
	}
	p := q.Text
	if p == nil {
		return nil
	}
	n := len([]rune(s))
	if p.MinLength > 0 && n < p.MinLength {
		return answerErr(q, "text is %d characters, minimum is %d", n, p.MinLength)
	}
	if p.MaxLength > 0 && n > p.MaxLength {
		return answerErr(q, "text is %d characters, maximum is %d", n, p.MaxLength)
	}
	return nil
}

func validateSingleAnswer(q types.Question, value any) error {
	s, ok := value.(string)
	if !ok {
		return answerErr(q, "expected an option value string, got %T", value)
	}
	if q.Choice == nil || !hasOptionValue(q.Choice.Options, s) {
		return answerErr(q, "%q is not an option of this question", s)
	}
	return nil
}

func validateMultipleAnswer(q types.Question, value any) error {
	selected, err := stringSlice(value)
	if err != nil {
		return answerErr(q, "%v", err)
	}
	if q.Choice == nil {
		return answerErr(q, "question has no options")
	}
	seen := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		if !hasOptionValue(q.Choice.Options, s) {
			return answerErr(q, "%q is not an option of this question", s)
		}
		if _, dup := seen[s]; dup {
			return answerErr(q, "option %q selected more than once", s)
		}
		seen[s] = struct{}{}
	}
	if q.Choice.MinSelect > 0 && len(selected) < q.Choice.MinSelect {
		return answerErr(q, "%d options selected, minimum is %d", len(selected), q.Choice.MinSelect)
	}
	if q.Choice.MaxSelect > 0 && len(selected) > q.Choice.MaxSelect {
		return answerErr(q, "%d options selected, maximum is %d", len(selected), q.Choice.MaxSelect)
	}
	return nil
}

func validateRatingAnswer(q types.Question, value any) error {
	f, ok := numeric(value)
	if !ok {
		return answerErr(q, "expected a number, got %T", value)
	}
	if f != math.Trunc(f) {
		return answerErr(q, "rating must be a whole number, got %v", f)
	}
	max := RatingDefaults.MaxRating
	if q.Rating != nil {
		max = q.Rating.MaxRating
	}
	if f < 1 || int(f) > max {
		return answerErr(q, "rating must be between 1 and %d, got %v", max, f)
	}
	return nil
}

func validateNumberAnswer(q types.Question, value any) error {
	f, ok := numeric(value)
	if !ok {
		return answerErr(q, "expected a number, got %T", value)
	}
	p := q.Number
	if p == nil {
		return nil
	}
	if p.Min != nil && f < *p.Min {
		return answerErr(q, "value %v is below minimum %v", f, *p.Min)
	}
	if p.Max != nil && f > *p.Max {
		return answerErr(q, "value %v is above maximum %v", f, *p.Max)
	}
	return nil
}

func validateDateAnswer(q types.Question, value any) error {
	s, ok := value.(string)
	if !ok {
		return answerErr(q, "expected a date string, got %T", value)
	}
	format := DateDefaults.Format
	if q.Date != nil && q.Date.Format != "" {
		format = q.Date.Format
	}
	layout, err := dateLayout(format)
	if err != nil {
		return answerErr(q, "%v", err)
	}
	d, err := time.Parse(layout, s)
	if err != nil {
		return answerErr(q, "%q does not match format %s", s, format)
	}
	if q.Date != nil {
		if q.Date.MinDate != "" {
			if min, perr := time.Parse(layout, q.Date.MinDate); perr == nil && d.Before(min) {
				return answerErr(q, "date %s is before minimum %s", s, q.Date.MinDate)
			}
		}
		if q.Date.MaxDate != "" {
			if max, perr := time.Parse(layout, q.Date.MaxDate); perr == nil && d.After(max) {
				return answerErr(q, "date %s is after maximum %s", s, q.Date.MaxDate)
			}
		}
	}
	return nil
}

func hasOptionValue(options []types.Option, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func stringSlice(v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case []any:
		out := make([]string, len(t))
		for i, elem := range t {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("expected option value strings, got %T", elem)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an array of option values, got %T", v)
	}
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
