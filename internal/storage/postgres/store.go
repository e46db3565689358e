// Package postgres implements the storage contracts on PostgreSQL through
// database/sql and lib/pq. Steps and answers are stored as JSONB.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/pkg/schema"
)

// foreignKeyViolation is the SQLSTATE raised when a submission references a
// missing form.
const foreignKeyViolation = "23503"

// Store implements storage.Store backed by PostgreSQL.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ storage.Store = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Open connects to dsn with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return New(db), nil
}

// Migrate creates the tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS formify_forms (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		steps JSONB NOT NULL,
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS formify_submissions (
		id TEXT PRIMARY KEY,
		form_id TEXT NOT NULL REFERENCES formify_forms(id) ON DELETE CASCADE,
		answers JSONB NOT NULL,
		submitted_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS formify_submissions_form_idx ON formify_submissions (form_id, submitted_at DESC)`,
}

func (s *Store) CreateForm(ctx context.Context, form schema.Form) (schema.Form, error) {
	if form.ID == "" {
		form.ID = storage.NewID()
	}
	if form.CreatedAt.IsZero() {
		form.CreatedAt = s.now().UTC()
	}

	stepsJSON, err := json.Marshal(form.Steps)
	if err != nil {
		return schema.Form{}, fmt.Errorf("postgres: marshal steps: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO formify_forms (id, title, description, steps, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, form.ID, form.Title, form.Description, stepsJSON, form.CreatedBy, form.CreatedAt)
	if err != nil {
		return schema.Form{}, fmt.Errorf("postgres: insert form: %w", err)
	}
	return form, nil
}

func (s *Store) GetForm(ctx context.Context, id string) (schema.Form, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, steps, created_by, created_at
		FROM formify_forms
		WHERE id = $1
	`, id)

	form, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Form{}, storage.ErrNotFound
	}
	if err != nil {
		return schema.Form{}, fmt.Errorf("postgres: get form: %w", err)
	}
	return form, nil
}

func (s *Store) ListForms(ctx context.Context) ([]schema.Form, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, steps, created_by, created_at
		FROM formify_forms
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list forms: %w", err)
	}
	defer rows.Close()

	out := []schema.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan form: %w", err)
		}
		out = append(out, form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list forms: %w", err)
	}
	return out, nil
}

// DeleteForm relies on ON DELETE CASCADE to drop the form's submissions.
func (s *Store) DeleteForm(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM formify_forms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete form: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CountForms(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM formify_forms`)
}

func (s *Store) CreateSubmission(ctx context.Context, sub schema.Submission) (schema.Submission, error) {
	if sub.ID == "" {
		sub.ID = storage.NewID()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now().UTC()
	}

	answersJSON, err := json.Marshal(sub.Answers)
	if err != nil {
		return schema.Submission{}, fmt.Errorf("postgres: marshal answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO formify_submissions (id, form_id, answers, submitted_at)
		VALUES ($1, $2, $3, $4)
	`, sub.ID, sub.FormID, answersJSON, sub.SubmittedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return schema.Submission{}, storage.ErrNotFound
		}
		return schema.Submission{}, fmt.Errorf("postgres: insert submission: %w", err)
	}
	return sub, nil
}

func (s *Store) ListSubmissions(ctx context.Context, formID string) ([]schema.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, answers, submitted_at
		FROM formify_submissions
		WHERE form_id = $1
		ORDER BY submitted_at DESC
	`, formID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list submissions: %w", err)
	}
	defer rows.Close()

	out := []schema.Submission{}
	for rows.Next() {
		var (
			sub        schema.Submission
			answersRaw []byte
		)
		if err := rows.Scan(&sub.ID, &sub.FormID, &answersRaw, &sub.SubmittedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan submission: %w", err)
		}
		if err := json.Unmarshal(answersRaw, &sub.Answers); err != nil {
			return nil, fmt.Errorf("postgres: decode answers: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list submissions: %w", err)
	}
	return out, nil
}

func (s *Store) CountSubmissions(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM formify_submissions`)
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanForm(row scanner) (schema.Form, error) {
	var (
		form     schema.Form
		stepsRaw []byte
	)
	if err := row.Scan(&form.ID, &form.Title, &form.Description, &stepsRaw, &form.CreatedBy, &form.CreatedAt); err != nil {
		return schema.Form{}, err
	}
	if err := json.Unmarshal(stepsRaw, &form.Steps); err != nil {
		return schema.Form{}, fmt.Errorf("decode steps: %w", err)
	}
	return form, nil
}
