package logic

import (
	"github.com/erhulee/insight-sub002/internal/types"
)

// Session pairs a compiled config with the answers snapshot of one
// form-fill. The session owns the only mutable state in the engine; the
// config itself is immutable after Compile, and replacing it means
// constructing a new session.
//
// One session serves one respondent (or one editor preview). It is not
// safe for concurrent use: a multi-request server must construct a fresh
// session per evaluation context rather than share one across requests.
type Session struct {
	cfg     *CompiledConfig
	answers types.Answers
}

// NewSession creates a session with an empty answers map.
func NewSession(cfg *CompiledConfig) *Session {
	return &Session{
		cfg:     cfg,
		answers: make(types.Answers),
	}
}

// UpdateAnswers merges the partial answer map into the session snapshot.
// It does not re-evaluate anything; callers re-query visibility after an
// update. Nil values clear the answer back to unanswered.
func (s *Session) UpdateAnswers(partial map[string]any) {
	for id, v := range partial {
		if v == nil {
			delete(s.answers, id)
			continue
		}
		s.answers[id] = v
	}
}

// SetAnswer records a single answer. A nil value clears it.
func (s *Session) SetAnswer(questionID string, value any) {
	if value == nil {
		delete(s.answers, questionID)
		return
	}
	s.answers[questionID] = value
}

// ResetAnswers clears the snapshot back to the unanswered state.
func (s *Session) ResetAnswers() {
	s.answers = make(types.Answers)
}

// Answers returns a copy of the current snapshot. Copying keeps the
// internal map exclusively session-owned.
func (s *Session) Answers() types.Answers {
	return s.answers.Clone()
}

// Visible reports whether the question is currently visible.
func (s *Session) Visible(questionID string) bool {
	return s.cfg.TargetVisible(questionID, s.answers)
}

// HiddenQuestionIDs returns the currently hidden rule targets.
func (s *Session) HiddenQuestionIDs() map[string]struct{} {
	return s.cfg.HiddenQuestionIDs(s.answers)
}

// VisibleQuestions filters the question list to visible questions,
// preserving order.
func (s *Session) VisibleQuestions(questions []types.Question) []types.Question {
	hidden := s.HiddenQuestionIDs()
	out := make([]types.Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := hidden[q.ID]; ok {
			continue
		}
		out = append(out, q)
	}
	return out
}
