package logic

import (
	"strings"
	"testing"

	"github.com/erhulee/insight-sub002/internal/types"
)

func TestValidateConfig_ValidConfig(t *testing.T) {
	cfg := types.LogicConfig{
		Enabled: true,
		Rules: []types.Rule{
			showRule("r1", "q2", types.Condition{QuestionID: "q1", Op: types.OpEquals, Value: "yes"}),
			hideRule("r2", "q3",
				types.Condition{QuestionID: "q1", Op: types.OpIsEmpty},
				types.Condition{QuestionID: "q2", Op: types.OpIn, Value: []any{"a", "b"}},
			),
		},
	}

	result := ValidateConfig(cfg)
	if !result.Valid() {
		t.Fatalf("ValidateConfig() = %v, want no violations", result.Messages())
	}
}

func TestValidateConfig_CollectsAllViolations(t *testing.T) {
	// One broken rule with several independent problems. Every one must
	// be reported, not just the first.
	cfg := types.LogicConfig{
		Enabled: true,
		Rules: []types.Rule{
			{
				ID:         "bad",
				Combinator: "XOR",
				Action:     "toggle",
				Conditions: []types.Condition{
					{QuestionID: "", Op: types.OpEquals, Value: "x"},
					{QuestionID: "q1", Op: "matches", Value: "x"},
					{QuestionID: "q1", Op: types.OpGt},
				},
				TargetQuestionID: "",
			},
		},
	}

	result := ValidateConfig(cfg)
	if result.Valid() {
		t.Fatal("ValidateConfig() reported valid, want violations")
	}

	wantFragments := []string{
		"targetQuestionId must not be empty",
		"operator must be AND or OR",
		"action must be show or hide",
		"questionId must not be empty",
		`unknown operator "matches"`,
		"operator gt requires a comparison value",
	}
	joined := strings.Join(result.Messages(), "\n")
	for _, want := range wantFragments {
		if !strings.Contains(joined, want) {
			t.Errorf("violations missing %q:\n%s", want, joined)
		}
	}
	if len(result.Violations) != len(wantFragments) {
		t.Errorf("got %d violations, want %d:\n%s", len(result.Violations), len(wantFragments), joined)
	}
}

func TestValidateConfig_EmptyConditions(t *testing.T) {
	cfg := types.LogicConfig{
		Enabled: true,
		Rules: []types.Rule{
			{
				ID:               "r1",
				Combinator:       types.CombinatorAnd,
				Action:           types.ActionShow,
				TargetQuestionID: "q2",
			},
		},
	}

	result := ValidateConfig(cfg)
	if len(result.Violations) != 1 {
		t.Fatalf("got %d violations, want 1: %v", len(result.Violations), result.Messages())
	}
	if got := result.Violations[0]; got.ConditionIndex != -1 || !strings.Contains(got.Message, "no conditions") {
		t.Errorf("got %+v, want rule-level no-conditions violation", got)
	}
}

func TestValidateConfig_ValuelessOperators(t *testing.T) {
	// isEmpty and isNotEmpty take no comparison value; a nil value is
	// fine and a present value is simply ignored.
	cfg := types.LogicConfig{
		Enabled: true,
		Rules: []types.Rule{
			showRule("r1", "q2",
				types.Condition{QuestionID: "q1", Op: types.OpIsEmpty},
				types.Condition{QuestionID: "q1", Op: types.OpIsNotEmpty, Value: "ignored"},
			),
		},
	}
	if result := ValidateConfig(cfg); !result.Valid() {
		t.Errorf("ValidateConfig() = %v, want no violations", result.Messages())
	}
}

func TestValidateConfig_InOperatorValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string // violation fragment, "" for valid
	}{
		{name: "array ok", value: []any{"a", "b"}, want: ""},
		{name: "string slice ok", value: []string{"a"}, want: ""},
		{name: "scalar", value: "a", want: "requires an array value"},
		{name: "empty array", value: []any{}, want: "requires a non-empty array value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.LogicConfig{
				Enabled: true,
				Rules: []types.Rule{
					showRule("r1", "q2", types.Condition{QuestionID: "q1", Op: types.OpIn, Value: tt.value}),
				},
			}
			result := ValidateConfig(cfg)
			if tt.want == "" {
				if !result.Valid() {
					t.Errorf("ValidateConfig() = %v, want valid", result.Messages())
				}
				return
			}
			if result.Valid() {
				t.Fatalf("ValidateConfig() valid, want violation containing %q", tt.want)
			}
			if msg := result.Violations[0].Message; !strings.Contains(msg, tt.want) {
				t.Errorf("violation %q does not contain %q", msg, tt.want)
			}
		})
	}
}

func TestValidateConfig_TooManyInValues(t *testing.T) {
	values := make([]any, types.MaxInOperatorValues+1)
	for i := range values {
		values[i] = i
	}
	cfg := types.LogicConfig{
		Enabled: true,
		Rules: []types.Rule{
			showRule("r1", "q2", types.Condition{QuestionID: "q1", Op: types.OpIn, Value: values}),
		},
	}
	result := ValidateConfig(cfg)
	if result.Valid() || !strings.Contains(result.Violations[0].Message, "maximum") {
		t.Errorf("ValidateConfig() = %v, want in-values limit violation", result.Messages())
	}
}

func TestValidateConfig_TooManyConditions(t *testing.T) {
	conds := make([]types.Condition, types.MaxConditionsPerRule+1)
	for i := range conds {
		conds[i] = types.Condition{QuestionID: "q1", Op: types.OpIsEmpty}
	}
	cfg := types.LogicConfig{
		Enabled: true,
		Rules:   []types.Rule{showRule("r1", "q2", conds...)},
	}
	result := ValidateConfig(cfg)
	if result.Valid() {
		t.Fatal("ValidateConfig() valid, want condition-count violation")
	}
}

func TestValidateConfig_TooManyRules(t *testing.T) {
	rules := make([]types.Rule, types.MaxRulesPerConfig+1)
	for i := range rules {
		rules[i] = showRule("r", "q2", types.Condition{QuestionID: "q1", Op: types.OpIsEmpty})
	}
	cfg := types.LogicConfig{Enabled: true, Rules: rules}
	result := ValidateConfig(cfg)
	if result.Valid() {
		t.Fatal("ValidateConfig() valid, want rule-count violation")
	}
	if got := result.Violations[0]; got.RuleIndex != -1 {
		t.Errorf("rule-count violation RuleIndex = %d, want -1", got.RuleIndex)
	}
	if result.Violations[0].Err != types.ErrTooManyRules {
		t.Errorf("rule-count violation Err = %v, want ErrTooManyRules", result.Violations[0].Err)
	}
}

func TestViolation_String(t *testing.T) {
	tests := []struct {
		name string
		v    Violation
		want string
	}{
		{
			name: "config level has no rule prefix",
			v:    Violation{RuleIndex: -1, ConditionIndex: -1, Message: "config has 300 rules, maximum is 256"},
			want: "config has 300 rules, maximum is 256",
		},
		{
			name: "rule level with id",
			v:    Violation{RuleIndex: 2, RuleID: "r3", ConditionIndex: -1, Message: "rule has no conditions"},
			want: `rule "r3": rule has no conditions`,
		},
		{
			name: "rule level without id",
			v:    Violation{RuleIndex: 0, ConditionIndex: -1, Message: "targetQuestionId must not be empty"},
			want: "rule 0: targetQuestionId must not be empty",
		},
		{
			name: "condition level",
			v:    Violation{RuleIndex: 1, RuleID: "r2", ConditionIndex: 3, Message: `unknown operator "near"`},
			want: `rule "r2", condition 3: unknown operator "near"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
