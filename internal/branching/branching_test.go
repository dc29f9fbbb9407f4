package branching

import (
	"strings"
	"testing"

	"github.com/erhulee/insight-sub002/internal/types"
)

func TestRouter_FirstMatchWins(t *testing.T) {
	router, err := NewRouter([]Step{
		{
			QuestionID:  "q_color",
			DefaultNext: "q_other",
			Routes: []Route{
				{Expression: `q_color == "red"`, NextID: "q_red"},
				{Expression: `q_color != "blue"`, NextID: "q_not_blue"},
			},
		},
	})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	tests := []struct {
		name    string
		answers types.Answers
		want    string
	}{
		{name: "first route matches", answers: types.Answers{"q_color": "red"}, want: "q_red"},
		{name: "second route matches", answers: types.Answers{"q_color": "green"}, want: "q_not_blue"},
		{name: "no route matches", answers: types.Answers{"q_color": "blue"}, want: "q_other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := router.Next("q_color", tt.answers)
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRouter_NumericConditions(t *testing.T) {
	router, err := NewRouter([]Step{
		{
			QuestionID:  "q_age",
			DefaultNext: "q_general",
			Routes: []Route{
				{Expression: `q_age >= 65`, NextID: "q_senior"},
				{Expression: `q_age < 18`, NextID: "q_minor"},
			},
		},
	})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	for _, tt := range []struct {
		age  float64
		want string
	}{
		{age: 70, want: "q_senior"},
		{age: 12, want: "q_minor"},
		{age: 30, want: "q_general"},
	} {
		got, err := router.Next("q_age", types.Answers{"q_age": tt.age})
		if err != nil {
			t.Fatalf("Next(age=%v) error = %v", tt.age, err)
		}
		if got != tt.want {
			t.Errorf("Next(age=%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestRouter_SurveyEnd(t *testing.T) {
	router, err := NewRouter([]Step{
		{QuestionID: "q_last"},
	})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	got, err := router.Next("q_last", types.Answers{})
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != "" {
		t.Errorf("Next() = %q, want empty string for survey end", got)
	}

	// A question with no routing step at all also ends the survey.
	got, err = router.Next("q_unknown", types.Answers{})
	if err != nil || got != "" {
		t.Errorf("Next(unrouted) = (%q, %v), want empty string", got, err)
	}
}

func TestNewRouter_RejectsMalformedExpressions(t *testing.T) {
	_, err := NewRouter([]Step{
		{
			QuestionID: "q1",
			Routes:     []Route{{Expression: `q1 ==`, NextID: "q2"}},
		},
	})
	if err == nil {
		t.Fatal("NewRouter() accepted a malformed expression")
	}
	if !strings.Contains(err.Error(), "q1") {
		t.Errorf("error %q does not name the failing question", err)
	}
}

func TestNewRouter_RejectsMissingQuestionID(t *testing.T) {
	if _, err := NewRouter([]Step{{DefaultNext: "q2"}}); err == nil {
		t.Fatal("NewRouter() accepted a step without questionId")
	}
}

func TestRouter_UnansweredVariableFallsThrough(t *testing.T) {
	router, err := NewRouter([]Step{
		{
			QuestionID:  "q1",
			DefaultNext: "q2",
			Routes:      []Route{{Expression: `q_missing == "x"`, NextID: "q9"}},
		},
	})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	got, err := router.Next("q1", types.Answers{"q1": "answered"})
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != "q2" {
		t.Errorf("Next() = %q, want default q2 when the route variable is unanswered", got)
	}
}
