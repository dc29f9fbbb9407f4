package types

import (
	"encoding/json"
	"fmt"
)

/*
 * Question variants.
 *
 * A question is a tagged union: the Type field selects exactly one props
 * struct, and consumers discriminate on Type before touching props. The
 * wire format keeps the historical {id, type, title, props: {...}} shape
 * so definitions round-trip through JSON without loss; the in-memory form
 * is typed so option lookups on a text question are impossible rather
 * than silently nil.
 *
 * Variants and their props:
 *   - input, textarea: TextProps
 *   - single, multiple: ChoiceProps
 *   - rating:           RatingProps
 *   - number:           NumberProps
 *   - date:             DateProps
 *   - description:      StaticProps (no respondent input)
 */

// QuestionType enumerates the closed set of question variants.
type QuestionType string

const (
	QuestionInput       QuestionType = "input"
	QuestionTextarea    QuestionType = "textarea"
	QuestionSingle      QuestionType = "single"
	QuestionMultiple    QuestionType = "multiple"
	QuestionRating      QuestionType = "rating"
	QuestionDate        QuestionType = "date"
	QuestionNumber      QuestionType = "number"
	QuestionDescription QuestionType = "description"
)

// QuestionTypes lists every valid variant in display order.
var QuestionTypes = []QuestionType{
	QuestionInput,
	QuestionTextarea,
	QuestionSingle,
	QuestionMultiple,
	QuestionRating,
	QuestionDate,
	QuestionNumber,
	QuestionDescription,
}

// Valid reports whether t is a member of the closed enumeration.
func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Option is one selectable choice of a single/multiple question.
// Value is the stable key answers and conditions reference; Label is
// display text and may change without invalidating collected answers.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// TextProps configures input and textarea questions.
type TextProps struct {
	Placeholder string `json:"placeholder,omitempty"`
	MinLength   int    `json:"minLength,omitempty"`
	MaxLength   int    `json:"maxLength,omitempty"`
}

// ChoiceProps configures single and multiple questions.
// MinSelect/MaxSelect apply to multiple only; zero means unbounded.
type ChoiceProps struct {
	Options   []Option `json:"options"`
	MinSelect int      `json:"minSelect,omitempty"`
	MaxSelect int      `json:"maxSelect,omitempty"`
}

// RatingProps configures rating questions.
type RatingProps struct {
	MaxRating  int    `json:"maxRating"`
	RatingType string `json:"ratingType"` // "star" or "number"
	MinLabel   string `json:"minLabel,omitempty"`
	MaxLabel   string `json:"maxLabel,omitempty"`
}

// NumberProps configures number questions. Nil bounds mean unbounded.
type NumberProps struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// DateProps configures date questions. Dates travel as strings in the
// given format; bounds are inclusive and optional.
type DateProps struct {
	Format  string `json:"format"`
	MinDate string `json:"minDate,omitempty"`
	MaxDate string `json:"maxDate,omitempty"`
}

// StaticProps configures description blocks: display-only content that
// collects no answer and can never be a condition source.
type StaticProps struct {
	Content string `json:"content,omitempty"`
}

// Question represents one form field. Exactly one props pointer is
// non-nil, matching Type.
type Question struct {
	ID          string
	Type        QuestionType
	Title       string
	Description string
	Required    bool

	Text   *TextProps
	Choice *ChoiceProps
	Rating *RatingProps
	Number *NumberProps
	Date   *DateProps
	Static *StaticProps
}

// questionWire is the serialized {id, type, title, props} shape.
type questionWire struct {
	ID          string          `json:"id"`
	Type        QuestionType    `json:"type"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Required    bool            `json:"required,omitempty"`
	Props       json.RawMessage `json:"props,omitempty"`
}

// MarshalJSON implements json.Marshaler, emitting the props bag keyed by
// the variant so definitions round-trip against the stored format.
func (q Question) MarshalJSON() ([]byte, error) {
	wire := questionWire{
		ID:          q.ID,
		Type:        q.Type,
		Title:       q.Title,
		Description: q.Description,
		Required:    q.Required,
	}

	// A typed nil pointer in an interface is not nil, so check each
	// pointer before boxing it; nil props stay absent on the wire.
	var props any
	switch q.Type {
	case QuestionInput, QuestionTextarea:
		if q.Text != nil {
			props = q.Text
		}
	case QuestionSingle, QuestionMultiple:
		if q.Choice != nil {
			props = q.Choice
		}
	case QuestionRating:
		if q.Rating != nil {
			props = q.Rating
		}
	case QuestionNumber:
		if q.Number != nil {
			props = q.Number
		}
	case QuestionDate:
		if q.Date != nil {
			props = q.Date
		}
	case QuestionDescription:
		if q.Static != nil {
			props = q.Static
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionType, q.Type)
	}

	if props != nil {
		raw, err := json.Marshal(props)
		if err != nil {
			return nil, err
		}
		wire.Props = raw
	}

	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler, decoding props into the
// variant struct selected by type. Absent props leave the pointer nil;
// the schema package fills defaults. Unknown types are rejected here so
// a malformed definition cannot produce a question no consumer can
// discriminate.
func (q *Question) UnmarshalJSON(data []byte) error {
	var wire questionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	out := Question{
		ID:          wire.ID,
		Type:        wire.Type,
		Title:       wire.Title,
		Description: wire.Description,
		Required:    wire.Required,
	}

	decode := func(dst any) error {
		if len(wire.Props) == 0 {
			return nil
		}
		return json.Unmarshal(wire.Props, dst)
	}

	switch wire.Type {
	case QuestionInput, QuestionTextarea:
		if len(wire.Props) > 0 {
			out.Text = &TextProps{}
		}
		if err := decode(out.Text); err != nil {
			return err
		}
	case QuestionSingle, QuestionMultiple:
		if len(wire.Props) > 0 {
			out.Choice = &ChoiceProps{}
		}
		if err := decode(out.Choice); err != nil {
			return err
		}
	case QuestionRating:
		if len(wire.Props) > 0 {
			out.Rating = &RatingProps{}
		}
		if err := decode(out.Rating); err != nil {
			return err
		}
	case QuestionNumber:
		if len(wire.Props) > 0 {
			out.Number = &NumberProps{}
		}
		if err := decode(out.Number); err != nil {
			return err
		}
	case QuestionDate:
		if len(wire.Props) > 0 {
			out.Date = &DateProps{}
		}
		if err := decode(out.Date); err != nil {
			return err
		}
	case QuestionDescription:
		if len(wire.Props) > 0 {
			out.Static = &StaticProps{}
		}
		if err := decode(out.Static); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQuestionType, wire.Type)
	}

	*q = out
	return nil
}
