// Package store persists survey definitions: the question list plus the
// display-logic config, as JSON documents behind named queries.
//
// The store is a CRUD veneer around the definition tables, not a storage
// engine. Its one hard responsibility is the edit-time gate: definitions
// are validated through the schema and logic packages before every
// write, so an invalid question or rule set never reaches evaluation.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/erhulee/insight-sub002/internal/core/db"
	"github.com/erhulee/insight-sub002/internal/logic"
	"github.com/erhulee/insight-sub002/internal/schema"
	"github.com/erhulee/insight-sub002/internal/types"
)

// Store provides survey definition persistence.
type Store struct {
	q *db.Queries
}

// New creates a store over loaded named queries.
func New(q *db.Queries) *Store {
	return &Store{q: q}
}

type surveyRow struct {
	SurveyID    string `db:"survey_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Questions   string `db:"questions"`
	Logic       string `db:"logic"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

// ValidateDefinition runs the full edit-time validation of a survey:
// every question against its variant schema (normalizing defaults in
// place) and the logic config against ValidateConfig. All problems are
// collected so the editor can surface them at once.
func ValidateDefinition(s *types.Survey) error {
	var errs []error

	if len(s.Questions) > types.MaxQuestionsPerSurvey {
		errs = append(errs, fmt.Errorf("survey has %d questions, maximum is %d", len(s.Questions), types.MaxQuestionsPerSurvey))
	}

	seen := make(map[string]struct{}, len(s.Questions))
	for i, q := range s.Questions {
		normalized, err := schema.Validate(q)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[normalized.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate question id %q", normalized.ID))
		}
		seen[normalized.ID] = struct{}{}
		s.Questions[i] = normalized
	}

	if result := logic.ValidateConfig(s.Logic); !result.Valid() {
		errs = append(errs, &logic.ConfigError{Result: result})
	}

	return errors.Join(errs...)
}

// SaveSurvey validates and upserts a survey definition. A new survey
// gets a fresh id and creation timestamp; saves never bypass validation.
func (s *Store) SaveSurvey(ctx context.Context, survey *types.Survey) error {
	if err := ValidateDefinition(survey); err != nil {
		return err
	}

	now := time.Now().UTC()
	if survey.ID == "" {
		survey.ID = types.NewSurveyID()
		survey.CreatedAt = now
	}
	if survey.CreatedAt.IsZero() {
		survey.CreatedAt = now
	}
	survey.UpdatedAt = now

	questions, err := json.Marshal(survey.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}
	logicJSON, err := json.Marshal(survey.Logic)
	if err != nil {
		return fmt.Errorf("failed to encode logic config: %w", err)
	}

	_, err = s.q.Exec(ctx, "upsert-survey",
		string(survey.ID),
		survey.Title,
		survey.Description,
		string(questions),
		string(logicJSON),
		survey.CreatedAt.Format(time.RFC3339),
		survey.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save survey: %w", err)
	}
	return nil
}

// GetSurvey loads one survey definition.
func (s *Store) GetSurvey(ctx context.Context, id types.SurveyID) (*types.Survey, error) {
	var row surveyRow
	if err := s.q.Get(ctx, "get-survey", &row, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", types.ErrSurveyNotFound, id)
		}
		return nil, fmt.Errorf("failed to load survey: %w", err)
	}
	return decodeRow(row)
}

// ListSurveys returns definitions ordered by creation time, newest first.
func (s *Store) ListSurveys(ctx context.Context, limit, offset int) ([]types.Survey, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []surveyRow
	if err := s.q.Select(ctx, "list-surveys", &rows, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list surveys: %w", err)
	}
	out := make([]types.Survey, 0, len(rows))
	for _, row := range rows {
		survey, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *survey)
	}
	return out, nil
}

// SaveLogicConfig replaces the display-logic config of a stored survey.
// The config is validated first; invalid configs never persist.
func (s *Store) SaveLogicConfig(ctx context.Context, id types.SurveyID, cfg types.LogicConfig) error {
	if result := logic.ValidateConfig(cfg); !result.Valid() {
		return &logic.ConfigError{Result: result}
	}

	logicJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode logic config: %w", err)
	}

	res, err := s.q.Exec(ctx, "update-survey-logic",
		string(logicJSON),
		time.Now().UTC().Format(time.RFC3339),
		string(id),
	)
	if err != nil {
		return fmt.Errorf("failed to save logic config: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", types.ErrSurveyNotFound, id)
	}
	return nil
}

// DeleteSurvey removes a definition. Rules referencing its questions in
// other surveys become dangling and ineffective; nothing cascades.
func (s *Store) DeleteSurvey(ctx context.Context, id types.SurveyID) error {
	res, err := s.q.Exec(ctx, "delete-survey", string(id))
	if err != nil {
		return fmt.Errorf("failed to delete survey: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", types.ErrSurveyNotFound, id)
	}
	return nil
}

// Count returns the number of stored surveys.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.q.Get(ctx, "count-surveys", &n); err != nil {
		return 0, fmt.Errorf("failed to count surveys: %w", err)
	}
	return n, nil
}

func decodeRow(row surveyRow) (*types.Survey, error) {
	survey := &types.Survey{
		ID:          types.SurveyID(row.SurveyID),
		Title:       row.Title,
		Description: row.Description,
	}
	if err := json.Unmarshal([]byte(row.Questions), &survey.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions for survey %s: %w", row.SurveyID, err)
	}
	if err := json.Unmarshal([]byte(row.Logic), &survey.Logic); err != nil {
		return nil, fmt.Errorf("failed to decode logic config for survey %s: %w", row.SurveyID, err)
	}
	if ts, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
		survey.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, row.UpdatedAt); err == nil {
		survey.UpdatedAt = ts
	}
	return survey, nil
}
