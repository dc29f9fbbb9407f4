package logic

import (
	"errors"
	"testing"

	"github.com/erhulee/insight-sub002/internal/types"
)

func TestCompile_InvalidConfig(t *testing.T) {
	cfg := types.LogicConfig{
		Enabled: true,
		Rules: []types.Rule{
			{
				ID:               "r1",
				Combinator:       types.CombinatorAnd,
				Action:           "flip",
				Conditions:       []types.Condition{{QuestionID: "q1", Op: "near", Value: "x"}},
				TargetQuestionID: "q2",
			},
		},
	}

	compiled, err := Compile(cfg)
	if compiled != nil {
		t.Error("Compile() returned a config alongside an error")
	}
	if !errors.Is(err, types.ErrInvalidConfig) {
		t.Fatalf("Compile() error = %v, want ErrInvalidConfig", err)
	}

	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Compile() error type = %T, want *ConfigError", err)
	}
	if len(cerr.Result.Violations) != 2 {
		t.Errorf("got %d violations, want 2 (bad action, unknown operator): %v",
			len(cerr.Result.Violations), cerr.Result.Messages())
	}
}

func TestCompile_SentinelClassification(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.LogicConfig
		want error
	}{
		{
			name: "unknown operator",
			cfg: types.LogicConfig{Rules: []types.Rule{
				showRule("r1", "q2", types.Condition{QuestionID: "q1", Op: "near", Value: "x"}),
			}},
			want: types.ErrUnknownOperator,
		},
		{
			name: "unknown combinator",
			cfg: types.LogicConfig{Rules: []types.Rule{
				{
					ID:               "r1",
					Combinator:       "XOR",
					Action:           types.ActionShow,
					Conditions:       []types.Condition{{QuestionID: "q1", Op: types.OpIsEmpty}},
					TargetQuestionID: "q2",
				},
			}},
			want: types.ErrUnknownCombinator,
		},
		{
			name: "unknown action",
			cfg: types.LogicConfig{Rules: []types.Rule{
				{
					ID:               "r1",
					Combinator:       types.CombinatorAnd,
					Action:           "toggle",
					Conditions:       []types.Condition{{QuestionID: "q1", Op: types.OpIsEmpty}},
					TargetQuestionID: "q2",
				},
			}},
			want: types.ErrUnknownAction,
		},
		{
			name: "too many rules",
			cfg: func() types.LogicConfig {
				rules := make([]types.Rule, types.MaxRulesPerConfig+1)
				for i := range rules {
					rules[i] = showRule("r", "q2", types.Condition{QuestionID: "q1", Op: types.OpIsEmpty})
				}
				return types.LogicConfig{Rules: rules}
			}(),
			want: types.ErrTooManyRules,
		},
		{
			name: "too many conditions",
			cfg: func() types.LogicConfig {
				conds := make([]types.Condition, types.MaxConditionsPerRule+1)
				for i := range conds {
					conds[i] = types.Condition{QuestionID: "q1", Op: types.OpIsEmpty}
				}
				return types.LogicConfig{Rules: []types.Rule{showRule("r1", "q2", conds...)}}
			}(),
			want: types.ErrTooManyConditions,
		},
		{
			name: "too many in values",
			cfg: func() types.LogicConfig {
				values := make([]any, types.MaxInOperatorValues+1)
				for i := range values {
					values[i] = i
				}
				return types.LogicConfig{Rules: []types.Rule{
					showRule("r1", "q2", types.Condition{QuestionID: "q1", Op: types.OpIn, Value: values}),
				}}
			}(),
			want: types.ErrTooManyInValues,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.cfg)
			if !errors.Is(err, types.ErrInvalidConfig) {
				t.Fatalf("Compile() error = %v, want ErrInvalidConfig", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Compile() error = %v, want errors.Is %v", err, tt.want)
			}
		})
	}
}

func TestCompile_ConditionCostOrdering(t *testing.T) {
	cfg := types.LogicConfig{
		Enabled: true,
		Rules: []types.Rule{
			showRule("r1", "q9",
				types.Condition{QuestionID: "q1", Op: types.OpContains, Value: "needle"},
				types.Condition{QuestionID: "q2", Op: types.OpEquals, Value: "yes"},
				types.Condition{QuestionID: "q3", Op: types.OpIsEmpty},
				types.Condition{QuestionID: "q4", Op: types.OpGt, Value: float64(3)},
			),
		},
	}

	compiled, err := Compile(cfg)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	rules := compiled.byTarget["q9"]
	if len(rules) != 1 {
		t.Fatalf("got %d rules for q9, want 1", len(rules))
	}

	wantOrder := []string{"q3", "q2", "q4", "q1"}
	for i, cond := range rules[0].Conditions {
		if cond.QuestionID != wantOrder[i] {
			t.Errorf("condition %d is %s, want %s (ascending cost)", i, cond.QuestionID, wantOrder[i])
		}
	}
}

func TestCompile_PreNormalizesValues(t *testing.T) {
	cfg := types.LogicConfig{
		Enabled: true,
		Rules: []types.Rule{
			showRule("r1", "q9",
				types.Condition{QuestionID: "q1", Op: types.OpIn, Value: []string{"a", "b"}},
				types.Condition{QuestionID: "q2", Op: types.OpGte, Value: "18"},
			),
		},
	}

	compiled, err := Compile(cfg)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	for _, cond := range compiled.byTarget["q9"][0].Conditions {
		switch cond.QuestionID {
		case "q1":
			if len(cond.Values) != 2 {
				t.Errorf("in-values = %v, want normalized [a b]", cond.Values)
			}
		case "q2":
			if !cond.HasNumber || cond.Number != 18 {
				t.Errorf("ordering value = (%v, %v), want (18, true)", cond.Number, cond.HasNumber)
			}
		}
	}
}

// Compiled and uncompiled evaluation must agree on every target.
func TestCompiledConfig_MatchesUncompiled(t *testing.T) {
	cfg := types.LogicConfig{
		Enabled: true,
		Rules: []types.Rule{
			showRule("r1", "q2", types.Condition{QuestionID: "q1", Op: types.OpEquals, Value: "yes"}),
			hideRule("r2", "q3", types.Condition{QuestionID: "q1", Op: types.OpIsEmpty}),
			showRule("r3", "q4",
				types.Condition{QuestionID: "age", Op: types.OpGte, Value: float64(18)},
				types.Condition{QuestionID: "country", Op: types.OpIn, Value: []any{"de", "fr"}},
			),
			hideRule("r4", "q4", types.Condition{QuestionID: "age", Op: types.OpGt, Value: float64(120)}),
		},
	}
	compiled, err := Compile(cfg)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	answerSets := []types.Answers{
		{},
		{"q1": "yes"},
		{"q1": "no"},
		{"q1": ""},
		{"age": float64(25), "country": "de"},
		{"age": float64(25), "country": "us"},
		{"age": "17", "country": "fr"},
		{"age": float64(130), "country": "de"},
		{"q1": "yes", "age": float64(40), "country": "fr"},
	}
	targets := []string{"q1", "q2", "q3", "q4", "q5"}

	for _, answers := range answerSets {
		for _, target := range targets {
			want := TargetVisible(cfg, answers, target)
			if got := compiled.TargetVisible(target, answers); got != want {
				t.Errorf("TargetVisible(%s) with %v: compiled = %v, uncompiled = %v",
					target, answers, got, want)
			}
		}

		wantHidden := HiddenQuestionIDs(cfg, answers)
		gotHidden := compiled.HiddenQuestionIDs(answers)
		if len(gotHidden) != len(wantHidden) {
			t.Errorf("HiddenQuestionIDs with %v: compiled = %v, uncompiled = %v",
				answers, gotHidden, wantHidden)
		}
		for id := range wantHidden {
			if _, ok := gotHidden[id]; !ok {
				t.Errorf("HiddenQuestionIDs with %v: compiled missing %s", answers, id)
			}
		}
	}
}

func TestSession_AnswerLifecycle(t *testing.T) {
	cfg := types.LogicConfig{
		Enabled: true,
		Rules: []types.Rule{
			showRule("r1", "q2", types.Condition{QuestionID: "q1", Op: types.OpEquals, Value: "yes"}),
		},
	}
	compiled, err := Compile(cfg)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	s := NewSession(compiled)
	if s.Visible("q2") {
		t.Error("q2 visible before any answer, want hidden")
	}

	s.SetAnswer("q1", "yes")
	if !s.Visible("q2") {
		t.Error("q2 hidden after q1 = yes, want visible")
	}

	// Partial update touches only the named keys; a nil value deletes.
	s.UpdateAnswers(types.Answers{"q1": nil, "q7": "other"})
	if s.Visible("q2") {
		t.Error("q2 visible after q1 deleted, want hidden")
	}
	if got := s.Answers(); got["q7"] != "other" {
		t.Errorf("Answers()[q7] = %v, want %q", got["q7"], "other")
	}

	s.SetAnswer("q1", "yes")
	s.ResetAnswers()
	if len(s.Answers()) != 0 {
		t.Errorf("Answers() after reset = %v, want empty", s.Answers())
	}
	if s.Visible("q2") {
		t.Error("q2 visible after reset, want hidden")
	}
}

func TestSession_AnswersReturnsClone(t *testing.T) {
	compiled, err := Compile(types.LogicConfig{Enabled: true})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	s := NewSession(compiled)
	s.SetAnswer("q1", "original")

	snapshot := s.Answers()
	snapshot["q1"] = "mutated"
	if got := s.Answers()["q1"]; got != "original" {
		t.Errorf("session answer = %v after mutating snapshot, want original", got)
	}
}
