// Package memory is an in-memory implementation of the storage contracts,
// intended for tests and local development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/pkg/schema"
)

// Store keeps forms and submissions in maps guarded by a RWMutex.
type Store struct {
	mu          sync.RWMutex
	forms       map[string]schema.Form
	order       []string
	submissions map[string][]schema.Submission
	now         func() time.Time
}

var _ storage.Store = (*Store)(nil)

// Option configures a memory store.
type Option func(*Store)

// WithClock overrides the time source used for missing timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		forms:       make(map[string]schema.Form),
		submissions: make(map[string][]schema.Submission),
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) CreateForm(_ context.Context, form schema.Form) (schema.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if form.ID == "" {
		form.ID = storage.NewID()
	}
	if form.CreatedAt.IsZero() {
		form.CreatedAt = s.now().UTC()
	}
	if _, exists := s.forms[form.ID]; !exists {
		s.order = append(s.order, form.ID)
	}
	s.forms[form.ID] = cloneForm(form)
	return form, nil
}

func (s *Store) GetForm(_ context.Context, id string) (schema.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	form, ok := s.forms[id]
	if !ok {
		return schema.Form{}, storage.ErrNotFound
	}
	return cloneForm(form), nil
}

func (s *Store) ListForms(_ context.Context) ([]schema.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schema.Form, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, cloneForm(s.forms[s.order[i]]))
	}
	storage.SortFormsNewestFirst(out)
	return out, nil
}

func (s *Store) DeleteForm(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forms[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.forms, id)
	delete(s.submissions, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) CountForms(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms), nil
}

func (s *Store) CreateSubmission(_ context.Context, sub schema.Submission) (schema.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forms[sub.FormID]; !ok {
		return schema.Submission{}, storage.ErrNotFound
	}
	if sub.ID == "" {
		sub.ID = storage.NewID()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now().UTC()
	}
	sub.Answers = append([]schema.Answer(nil), sub.Answers...)
	s.submissions[sub.FormID] = append(s.submissions[sub.FormID], sub)
	return sub, nil
}

func (s *Store) ListSubmissions(_ context.Context, formID string) ([]schema.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := s.submissions[formID]
	out := make([]schema.Submission, 0, len(subs))
	for i := len(subs) - 1; i >= 0; i-- {
		sub := subs[i]
		sub.Answers = append([]schema.Answer(nil), sub.Answers...)
		out = append(out, sub)
	}
	storage.SortSubmissionsNewestFirst(out)
	return out, nil
}

func (s *Store) CountSubmissions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, subs := range s.submissions {
		total += len(subs)
	}
	return total, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func cloneForm(form schema.Form) schema.Form {
	out := form
	out.Steps = make([]schema.Step, len(form.Steps))
	for i, step := range form.Steps {
		questions := make([]schema.Question, len(step.Questions))
		for j, q := range step.Questions {
			if q.Options != nil {
				q.Options = append([]string{}, q.Options...)
			}
			questions[j] = q
		}
		out.Steps[i] = schema.Step{Title: step.Title, Questions: questions}
	}
	return out
}
