package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/preview"
	"github.com/goliatone/go-formify/pkg/schema"
)

// Saver stores a serialized form. pkg/client.Client is the HTTP implementation.
type Saver interface {
	SaveForm(ctx context.Context, form schema.Form) (schema.Created, error)
}

// SaverFunc adapts a function into a Saver.
type SaverFunc func(ctx context.Context, form schema.Form) (schema.Created, error)

// SaveForm calls the underlying function.
func (fn SaverFunc) SaveForm(ctx context.Context, form schema.Form) (schema.Created, error) {
	return fn(ctx, form)
}

// SaveResult is delivered once per Save call.
type SaveResult struct {
	Created schema.Created
	Err     error
}

// Option configures a Session.
type Option func(*Session)

// WithIDs overrides the id generator (random UUIDs by default).
func WithIDs(ids model.IDGenerator) Option {
	return func(s *Session) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithCreator sets the createdBy value sent on save.
func WithCreator(name string) Option {
	return func(s *Session) {
		s.creator = name
	}
}

// WithDecorators registers decorators applied to the saved snapshot.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(s *Session) {
		s.decorators = append(s.decorators, decorators...)
	}
}

// Session bundles a form with its step and question editors. It is owned by a
// single goroutine; only Save crosses into another one.
type Session struct {
	Form      *model.FormModel
	Steps     *StepManager
	Questions *QuestionListEditor

	ids        model.IDGenerator
	creator    string
	decorators []model.Decorator
}

// NewSession starts editing an empty form.
func NewSession(opts ...Option) *Session {
	return newSession(model.New(), opts...)
}

// OpenSession starts editing a persisted form.
func OpenSession(form schema.Form, opts ...Option) (*Session, error) {
	s := newSession(nil, opts...)
	flat, err := model.Flatten(form, s.ids)
	if err != nil {
		return nil, fmt.Errorf("editor: open session: %w", err)
	}
	s.bind(flat)
	return s, nil
}

// RestoreSession resumes a session from a draft snapshot.
func RestoreSession(draft schema.Draft, opts ...Option) (*Session, error) {
	var form model.FormModel
	if err := json.Unmarshal(draft.Form, &form); err != nil {
		return nil, fmt.Errorf("editor: restore session: %w", err)
	}
	if err := form.Normalize(); err != nil {
		return nil, fmt.Errorf("editor: restore session: %w", err)
	}

	s := newSession(&form, opts...)
	if seq, ok := s.ids.(*model.SequenceIDs); ok {
		seq.Observe(&form)
	}
	if draft.ActiveStepID != "" && form.HasStep(draft.ActiveStepID) {
		_ = s.Steps.SetActiveStep(draft.ActiveStepID)
	}
	return s, nil
}

func newSession(form *model.FormModel, opts ...Option) *Session {
	s := &Session{
		ids:     model.UUIDs{},
		creator: schema.DefaultCreator,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if form != nil {
		s.bind(form)
	}
	return s
}

func (s *Session) bind(form *model.FormModel) {
	s.Form = form
	s.Steps = NewStepManager(form, s.ids)
	s.Questions = NewQuestionListEditor(form, s.Steps, s.ids)
}

// SetTitle replaces the form title.
func (s *Session) SetTitle(text string) {
	s.Form.SetTitle(text)
}

// SetDescription replaces the form description.
func (s *Session) SetDescription(text string) {
	s.Form.SetDescription(text)
}

// Preview projects the active step.
func (s *Session) Preview() preview.View {
	return preview.Project(s.Form, s.Steps.ActiveStepID())
}

// Serialize returns the persisted projection of the current form.
func (s *Session) Serialize() schema.Form {
	return s.Form.Serialize(s.creator)
}

// Snapshot captures the session as a draft for owner.
func (s *Session) Snapshot(owner string) (schema.Draft, error) {
	payload, err := json.Marshal(s.Form)
	if err != nil {
		return schema.Draft{}, fmt.Errorf("editor: snapshot: %w", err)
	}
	return schema.Draft{
		Owner:        owner,
		ActiveStepID: s.Steps.ActiveStepID(),
		Form:         payload,
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// Save validates the form, then sends a snapshot to saver on its own
// goroutine. The returned channel yields exactly one result and is closed.
// Edits made after Save returns are not part of the request, and a failed
// save leaves the session as it is.
func (s *Session) Save(ctx context.Context, saver Saver) <-chan SaveResult {
	results := make(chan SaveResult, 1)

	form, err := s.prepare()
	if err != nil {
		results <- SaveResult{Err: err}
		close(results)
		return results
	}

	go func() {
		defer close(results)
		created, err := saver.SaveForm(ctx, form)
		if err != nil {
			err = fmt.Errorf("editor: save: %w", err)
		}
		results <- SaveResult{Created: created, Err: err}
	}()
	return results
}

func (s *Session) prepare() (schema.Form, error) {
	snapshot := s.Form.Clone()
	for _, decorator := range s.decorators {
		if err := decorator.Decorate(snapshot); err != nil {
			return schema.Form{}, fmt.Errorf("editor: decorate: %w", err)
		}
	}
	if strings.TrimSpace(snapshot.Title) == "" {
		return schema.Form{}, ErrTitleRequired
	}
	return snapshot.Serialize(s.creator), nil
}
