// Package branching implements skip-logic routing: after a question is
// answered, which question comes next. Routing is separate from display
// logic (routes decide order, rules decide visibility) but both read
// only the answers map, never each other's output.
package branching

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/erhulee/insight-sub002/internal/types"
)

// Route sends the respondent to NextID when Expression evaluates true.
// Expressions are boolean expr-lang programs over the answers map, with
// question ids as variables (e.g. `q_color == "red" && q_age > 17`).
type Route struct {
	Expression string `json:"expression"`
	NextID     string `json:"nextId"`
}

// Step is the routing definition of one question: ordered conditional
// routes plus the unconditional fallback. An empty DefaultNext with no
// matching route ends the survey.
type Step struct {
	QuestionID  string  `json:"questionId"`
	DefaultNext string  `json:"defaultNext,omitempty"`
	Routes      []Route `json:"routes,omitempty"`
}

type compiledRoute struct {
	program *vm.Program
	nextID  string
}

// Router holds a compiled routing plan for one survey.
type Router struct {
	routes   map[string][]compiledRoute
	defaults map[string]string
}

// NewRouter compiles every route expression eagerly so malformed
// expressions surface at definition time, not mid-fill.
func NewRouter(steps []Step) (*Router, error) {
	r := &Router{
		routes:   make(map[string][]compiledRoute, len(steps)),
		defaults: make(map[string]string, len(steps)),
	}
	for _, step := range steps {
		if step.QuestionID == "" {
			return nil, fmt.Errorf("routing step is missing questionId")
		}
		r.defaults[step.QuestionID] = step.DefaultNext
		for i, route := range step.Routes {
			program, err := expr.Compile(route.Expression, expr.Env(types.Answers{}), expr.AsBool())
			if err != nil {
				return nil, fmt.Errorf("question %q route %d: compile %q: %w", step.QuestionID, i, route.Expression, err)
			}
			r.routes[step.QuestionID] = append(r.routes[step.QuestionID], compiledRoute{
				program: program,
				nextID:  route.NextID,
			})
		}
	}
	return r, nil
}

// Next returns the id of the question following questionID under the
// current answers. Routes are tried in authored order, first match wins,
// then the step's default. The empty string means the survey ends.
func (r *Router) Next(questionID string, answers types.Answers) (string, error) {
	for i, route := range r.routes[questionID] {
		out, err := expr.Run(route.program, answers)
		if err != nil {
			return "", fmt.Errorf("question %q route %d: %w", questionID, i, err)
		}
		if match, ok := out.(bool); ok && match {
			return route.nextID, nil
		}
	}
	return r.defaults[questionID], nil
}
