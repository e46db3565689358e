package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/preview"
	"github.com/goliatone/go-formify/pkg/schema"
)

// QuestionInput is one question of the flat editor payload.
type QuestionInput struct {
	StepID      string   `json:"stepId"`
	Text        string   `json:"text"`
	Type        string   `json:"type"`
	Options     []string `json:"options,omitempty"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// StepInput accepts both the nested shape (title plus questions) and the
// flat editor shape (id plus title, questions sent separately).
type StepInput struct {
	ID        string            `json:"id,omitempty"`
	Title     string            `json:"title"`
	Questions []schema.Question `json:"questions,omitempty"`
}

// CreateFormRequest is the body of a form creation. When Questions is not
// empty it wins over the questions nested in Steps: questions are grouped by
// StepID in order of first appearance and Steps only supplies titles.
type CreateFormRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Steps       []StepInput     `json:"steps"`
	Questions   []QuestionInput `json:"questions,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty"`
}

// Forms manages form documents and their submissions.
type Forms struct {
	store storage.Store
	cfg   config
}

// NewForms wires the service to a store.
func NewForms(store storage.Store, opts ...Option) *Forms {
	return &Forms{store: store, cfg: newConfig(opts)}
}

// SharableLink returns the public URL of the form id.
func (s *Forms) SharableLink(id string) string {
	return s.cfg.frontendURL + "/form/" + id
}

// CreateForm validates and stores req. user is the caller's identity and is
// recorded as the creator when the payload does not name one.
func (s *Forms) CreateForm(ctx context.Context, req CreateFormRequest, user string) (schema.Created, error) {
	form, err := buildForm(req)
	if err != nil {
		return schema.Created{}, err
	}

	form.CreatedBy = firstNonBlank(req.CreatedBy, user, schema.DefaultCreator)
	form.CreatedAt = s.cfg.now().UTC()

	stored, err := s.store.CreateForm(ctx, form)
	if err != nil {
		return schema.Created{}, translate("create form", err)
	}
	s.cfg.recorder.FormCreated()
	s.cfg.logger.Info("form created",
		zap.String("form_id", stored.ID),
		zap.String("created_by", stored.CreatedBy),
		zap.Int("steps", len(stored.Steps)),
		zap.Int("questions", stored.QuestionCount()),
	)

	return schema.Created{
		FormID:       stored.ID,
		SharableLink: s.SharableLink(stored.ID),
		Form:         stored,
	}, nil
}

// GetForm returns the form id.
func (s *Forms) GetForm(ctx context.Context, id string) (schema.Form, error) {
	if err := checkID(id); err != nil {
		return schema.Form{}, err
	}
	form, err := s.store.GetForm(ctx, id)
	if err != nil {
		return schema.Form{}, translate("get form", err)
	}
	return form, nil
}

// ListForms returns summaries newest first. A non-blank search keeps the
// forms whose title contains it, ignoring case.
func (s *Forms) ListForms(ctx context.Context, search string) ([]schema.Summary, error) {
	forms, err := s.store.ListForms(ctx)
	if err != nil {
		return nil, translate("list forms", err)
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]schema.Summary, 0, len(forms))
	for _, form := range forms {
		if needle != "" && !strings.Contains(strings.ToLower(form.Title), needle) {
			continue
		}
		out = append(out, form.Summary())
	}
	return out, nil
}

// DeleteForm removes the form and its submissions.
func (s *Forms) DeleteForm(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.store.DeleteForm(ctx, id); err != nil {
		return translate("delete form", err)
	}
	s.cfg.logger.Info("form deleted", zap.String("form_id", id))
	return nil
}

// Submit records answers for the form id. A missing form is reported before
// an empty answer list.
func (s *Forms) Submit(ctx context.Context, id string, answers []schema.Answer) (schema.Submission, error) {
	if _, err := s.GetForm(ctx, id); err != nil {
		return schema.Submission{}, err
	}
	if len(answers) == 0 {
		return schema.Submission{}, invalid(MsgAnswersRequired, nil)
	}

	sub, err := s.store.CreateSubmission(ctx, schema.Submission{
		FormID:      id,
		Answers:     answers,
		SubmittedAt: s.cfg.now().UTC(),
	})
	if err != nil {
		return schema.Submission{}, translate("submit", err)
	}
	s.cfg.recorder.SubmissionRecorded(id)
	s.cfg.logger.Info("form submitted",
		zap.String("form_id", id),
		zap.String("submission_id", sub.ID),
		zap.Int("answers", len(sub.Answers)),
	)
	return sub, nil
}

// SubmitFields records a submission posted by a rendered preview. Fields are
// keyed by the question ids Preview assigns and are stored under the question
// labels in form order. Checkbox answers keep every value; unknown ids and
// blank values are dropped.
func (s *Forms) SubmitFields(ctx context.Context, id string, fields map[string][]string) (schema.Submission, error) {
	form, err := s.GetForm(ctx, id)
	if err != nil {
		return schema.Submission{}, err
	}
	flat, err := model.Flatten(form, model.NewSequenceIDs())
	if err != nil {
		return schema.Submission{}, fmt.Errorf("service: submit fields: %w", err)
	}

	answers := []schema.Answer{}
	for _, q := range flat.Questions {
		values := nonBlank(fields[q.ID])
		if len(values) == 0 {
			continue
		}
		var answer any = values[0]
		if q.Type == model.QuestionTypeCheckbox {
			answer = values
		}
		answers = append(answers, schema.Answer{Question: q.Text, Answer: answer})
	}
	return s.Submit(ctx, id, answers)
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Submissions returns the form header with its submissions, newest first.
func (s *Forms) Submissions(ctx context.Context, id string) (schema.SubmissionReport, error) {
	form, err := s.GetForm(ctx, id)
	if err != nil {
		return schema.SubmissionReport{}, err
	}
	subs, err := s.store.ListSubmissions(ctx, id)
	if err != nil {
		return schema.SubmissionReport{}, translate("list submissions", err)
	}
	if subs == nil {
		subs = []schema.Submission{}
	}
	return schema.SubmissionReport{
		Form: schema.FormRef{
			ID:          form.ID,
			Title:       form.Title,
			Description: form.Description,
		},
		Submissions: subs,
		Count:       len(subs),
	}, nil
}

// Stats counts every stored form and submission.
func (s *Forms) Stats(ctx context.Context) (schema.Stats, error) {
	forms, err := s.store.CountForms(ctx)
	if err != nil {
		return schema.Stats{}, translate("count forms", err)
	}
	subs, err := s.store.CountSubmissions(ctx)
	if err != nil {
		return schema.Stats{}, translate("count submissions", err)
	}
	return schema.Stats{TotalForms: forms, TotalSubmissions: subs}, nil
}

// Preview projects step (1-based) of the stored form id. Steps outside the
// form fall back to the first one.
func (s *Forms) Preview(ctx context.Context, id string, step int) (preview.View, error) {
	form, err := s.GetForm(ctx, id)
	if err != nil {
		return preview.View{}, err
	}
	flat, err := model.Flatten(form, model.NewSequenceIDs())
	if err != nil {
		return preview.View{}, fmt.Errorf("service: preview: %w", err)
	}
	active := ""
	if step >= 1 && step <= len(flat.Steps) {
		active = flat.Steps[step-1].ID
	}
	return preview.Project(flat, active), nil
}

func buildForm(req CreateFormRequest) (schema.Form, error) {
	steps, err := organizeSteps(req)
	if err != nil {
		return schema.Form{}, err
	}

	form := schema.Form{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Steps:       steps,
	}
	if form.Title == "" || len(form.Steps) == 0 {
		return schema.Form{}, invalid(MsgTitleAndSteps, nil)
	}
	if err := model.ValidateForm(form); err != nil {
		return schema.Form{}, invalid(MsgInvalidQuestionType, err)
	}
	return form, nil
}

func organizeSteps(req CreateFormRequest) ([]schema.Step, error) {
	if len(req.Questions) == 0 {
		steps := make([]schema.Step, 0, len(req.Steps))
		for i, in := range req.Steps {
			questions := make([]schema.Question, 0, len(in.Questions))
			for j, q := range in.Questions {
				normalized, err := normalizeQuestion(q)
				if err != nil {
					return nil, invalid(MsgInvalidQuestionType, fmt.Errorf("step %d question %d: %w", i, j, err))
				}
				questions = append(questions, normalized)
			}
			steps = append(steps, schema.Step{Title: in.Title, Questions: questions})
		}
		return steps, nil
	}

	titles := make(map[string]string, len(req.Steps))
	for _, in := range req.Steps {
		if _, seen := titles[in.ID]; !seen {
			titles[in.ID] = in.Title
		}
	}

	var order []string
	grouped := make(map[string][]schema.Question)
	for i, q := range req.Questions {
		normalized, err := normalizeQuestion(schema.Question{
			Type:        q.Type,
			Label:       q.Text,
			Options:     q.Options,
			Required:    q.Required,
			Placeholder: q.Placeholder,
		})
		if err != nil {
			return nil, invalid(MsgInvalidQuestionType, fmt.Errorf("question %d: %w", i, err))
		}
		if _, seen := grouped[q.StepID]; !seen {
			order = append(order, q.StepID)
		}
		grouped[q.StepID] = append(grouped[q.StepID], normalized)
	}

	steps := make([]schema.Step, 0, len(order))
	for _, stepID := range order {
		title, ok := titles[stepID]
		if !ok {
			title = fallbackStepTitle(stepID)
		}
		steps = append(steps, schema.Step{Title: title, Questions: grouped[stepID]})
	}
	return steps, nil
}

// normalizeQuestion maps either type spelling onto the external label and
// keeps options only for option-bearing types.
func normalizeQuestion(q schema.Question) (schema.Question, error) {
	t, err := model.ParseQuestionType(q.Type)
	if err != nil {
		return schema.Question{}, err
	}
	options := []string{}
	if t.HasOptions() && len(q.Options) > 0 {
		options = append(options, q.Options...)
	}
	return schema.Question{
		Type:        t.Label(),
		Label:       q.Label,
		Options:     options,
		Required:    q.Required,
		Placeholder: q.Placeholder,
	}, nil
}

// fallbackStepTitle names a step the payload did not describe after the
// second dash-separated segment of its id: "step-3" becomes "Step 3".
func fallbackStepTitle(stepID string) string {
	parts := strings.Split(stepID, "-")
	if len(parts) > 1 && parts[1] != "" {
		return "Step " + parts[1]
	}
	return "Step 1"
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
