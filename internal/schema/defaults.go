package schema

import (
	"fmt"
	"strings"

	"github.com/erhulee/insight-sub002/internal/types"
)

// Per-variant prop defaults applied by Validate when fields are omitted.
var (
	TextDefaults   = types.TextProps{}
	RatingDefaults = types.RatingProps{MaxRating: 5, RatingType: "star"}
	DateDefaults   = types.DateProps{Format: "YYYY-MM-DD"}
)

func placeholderOption() types.Option {
	return types.Option{
		ID:    types.NewQuestionID(),
		Label: "Option 1",
		Value: "option-1",
	}
}

// DefaultQuestion produces a minimal valid instance of the given type
// with a fresh unique id, used when the editor adds a new question.
// Pure construction: the caller inserts it into the survey's question
// list and triggers persistence.
func DefaultQuestion(t types.QuestionType) (types.Question, error) {
	if !t.Valid() {
		return types.Question{}, fmt.Errorf("%w: %q", types.ErrUnknownQuestionType, t)
	}
	q := types.Question{
		ID:   types.NewQuestionID(),
		Type: t,
	}
	// Validate fills the variant's default props.
	return Validate(q)
}

// dateLayout converts the editor's date format tokens (YYYY, MM, DD) to
// a Go reference layout. Unknown leftovers after token replacement are
// treated as literal separators, but a format without a year token is
// rejected as unusable.
func dateLayout(format string) (string, error) {
	if !strings.Contains(format, "YYYY") {
		return "", fmt.Errorf("date format %q must contain YYYY", format)
	}
	layout := strings.NewReplacer("YYYY", "2006", "MM", "01", "DD", "02").Replace(format)
	return layout, nil
}
