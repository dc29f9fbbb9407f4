package types

import (
	"github.com/google/uuid"
)

// NewSurveyID generates a UUIDv7 survey identifier.
// Time-ordered IDs ensure sequential inserts cluster in B-tree pages.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewSurveyID() SurveyID {
	return SurveyID(uuid.Must(uuid.NewV7()).String())
}

// NewQuestionID generates a UUIDv7 question identifier. Question ids are
// the stable join key for answers, conditions, and rule targets, so they
// never change after assignment.
func NewQuestionID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewRuleID generates a UUIDv7 display-logic rule identifier.
func NewRuleID() RuleID {
	return RuleID(uuid.Must(uuid.NewV7()).String())
}

// ParseSurveyID validates and converts a string to SurveyID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseSurveyID(s string) (SurveyID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return SurveyID(s), nil
}
