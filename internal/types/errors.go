package types

import "errors"

// Sentinel errors for insight operations.
var (
	// ErrUnknownQuestionType indicates a type outside the closed enumeration.
	ErrUnknownQuestionType = errors.New("unknown question type")

	// ErrUnknownOperator indicates a condition operator outside the operator set.
	ErrUnknownOperator = errors.New("unknown condition operator")

	// ErrUnknownCombinator indicates a rule combinator other than AND/OR.
	ErrUnknownCombinator = errors.New("unknown rule combinator")

	// ErrUnknownAction indicates a rule action other than show/hide.
	ErrUnknownAction = errors.New("unknown rule action")

	// ErrInvalidConfig indicates a display-logic config failed validation.
	ErrInvalidConfig = errors.New("invalid display-logic config")

	// ErrTooManyRules indicates a config exceeds MaxRulesPerConfig.
	ErrTooManyRules = errors.New("config has too many rules")

	// ErrTooManyConditions indicates a rule exceeds MaxConditionsPerRule.
	ErrTooManyConditions = errors.New("rule has too many conditions")

	// ErrTooManyInValues indicates an in/notIn operator exceeds MaxInOperatorValues.
	ErrTooManyInValues = errors.New("in operator has too many values")

	// ErrSurveyNotFound indicates a survey id with no stored definition.
	ErrSurveyNotFound = errors.New("survey not found")
)
