package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/preview"
	"github.com/goliatone/go-formify/pkg/render"
	"github.com/goliatone/go-formify/pkg/schema"
)

// SkipLabel is offered on optional single-choice questions so the
// respondent can leave them unanswered.
const SkipLabel = "Skip"

// Renderer walks a form in the terminal and collects answers. Render fills a
// single projected step; Fill drives the whole form with step navigation.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	transformer  AnswerTransformer
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for the questions of view and serializes the answers given
// for that step.
func (r *Renderer) Render(ctx context.Context, view preview.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	render.LocalizeView(&view, opts)

	mapping := render.MapErrorPayload(view, opts.Errors)
	state := NewState(opts.Values, mapping.Questions)
	if err := r.header(ctx, view, mapping.Form); err != nil {
		return nil, err
	}
	if err := r.promptView(ctx, view, state); err != nil {
		return nil, err
	}

	records, err := r.finish(collect([]preview.View{view}, state))
	if err != nil {
		return nil, err
	}
	return r.serialize(records)
}

// Fill walks every step of form, starting at the first, and returns the
// answers in question order. Respondents can step back with the previous
// action; answers already given are offered again as defaults.
func (r *Renderer) Fill(ctx context.Context, form *model.FormModel, opts render.RenderOptions) ([]schema.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if form == nil || len(form.Steps) == 0 {
		return []schema.Answer{}, nil
	}

	views := make([]preview.View, 0, len(form.Steps))
	for _, step := range form.Steps {
		view := preview.Project(form, step.ID)
		render.LocalizeView(&view, opts)
		views = append(views, view)
	}
	questionErrors, formErrors := distributeErrors(views, opts.Errors)
	state := NewState(opts.Values, questionErrors)

	index := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		view := views[index]
		var banner []string
		if index == 0 {
			banner = formErrors
		}
		if err := r.header(ctx, view, banner); err != nil {
			return nil, err
		}
		if err := r.promptView(ctx, view, state); err != nil {
			return nil, err
		}
		if index == len(views)-1 {
			break
		}

		back, err := r.navigate(ctx, view)
		if err != nil {
			return nil, err
		}
		if back && index > 0 {
			index--
			continue
		}
		index++
	}

	records, err := r.finish(collect(views, state))
	if err != nil {
		return nil, err
	}
	answers := make([]schema.Answer, 0, len(records))
	for _, rec := range records {
		answers = append(answers, rec.Answer)
	}
	return answers, nil
}

func (r *Renderer) header(ctx context.Context, view preview.View, formErrors []string) error {
	if view.StepNumber <= 1 {
		if err := r.driver.Info(ctx, r.theme.HeaderPrefix+view.Title); err != nil {
			return err
		}
		if view.Description != "" {
			if err := r.driver.Info(ctx, r.theme.InfoPrefix+view.Description); err != nil {
				return err
			}
		}
	}
	for _, msg := range formErrors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	if view.ShowStepHeader {
		line := preview.ProgressLabel(view)
		if view.StepTitle != "" {
			line += ": " + view.StepTitle
		}
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+line); err != nil {
			return err
		}
	}
	if view.Empty {
		return r.driver.Info(ctx, r.theme.InfoPrefix+view.EmptyMessage)
	}
	return nil
}

// navigate asks where to go after a step. It only prompts when going back is
// possible.
func (r *Renderer) navigate(ctx context.Context, view preview.View) (bool, error) {
	if !view.ShowPrevious {
		return false, nil
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      preview.ProgressLabel(view),
		Options:      []string{view.ActionLabel, view.PreviousLabel},
		DefaultIndex: 0,
	})
	if err != nil {
		return false, err
	}
	return idx == 1, nil
}

func (r *Renderer) promptView(ctx context.Context, view preview.View, state *State) error {
	for _, q := range view.Questions {
		for _, msg := range state.ErrorsFor(q.ID) {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
				return err
			}
		}
		if err := r.promptQuestion(ctx, q, state); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptQuestion(ctx context.Context, q preview.Question, state *State) error {
	message := promptMessage(q)
	switch q.Type {
	case model.QuestionTypeShort:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   state.Text(q.ID),
			Help:      q.Placeholder,
			Validator: requiredText(q.Required),
		})
		if err != nil {
			return err
		}
		state.Set(q.ID, strings.TrimSpace(answer))
		return nil

	case model.QuestionTypeParagraph:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message:   message,
			Default:   state.Text(q.ID),
			Help:      q.Placeholder,
			Validator: requiredText(q.Required),
		})
		if err != nil {
			return err
		}
		state.Set(q.ID, strings.TrimSpace(answer))
		return nil

	case model.QuestionTypeCheckbox:
		return r.promptCheckbox(ctx, q, message, state)

	default:
		return r.promptSingle(ctx, q, message, state)
	}
}

// promptSingle handles multiple-choice and dropdown questions. Optional ones
// get a leading entry that leaves the question unanswered.
func (r *Renderer) promptSingle(ctx context.Context, q preview.Question, message string, state *State) error {
	if len(q.Options) == 0 {
		return r.driver.Info(ctx, r.theme.InfoPrefix+message+": no options to choose from")
	}

	labels := optionLabels(q.Options)
	offset := 0
	if !q.Required {
		skip := SkipLabel
		if q.SelectPlaceholder != "" {
			skip = q.SelectPlaceholder
		}
		labels = append([]string{skip}, labels...)
		offset = 1
	}

	current := 0
	if chosen := state.Choices(q.ID); len(chosen) > 0 {
		if i := optionIndex(q.Options, chosen[0]); i >= 0 {
			current = i + offset
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx < offset || idx >= len(labels) {
		state.Set(q.ID, "")
		return nil
	}
	state.Set(q.ID, optionValue(q.Options[idx-offset]))
	return nil
}

func (r *Renderer) promptCheckbox(ctx context.Context, q preview.Question, message string, state *State) error {
	if len(q.Options) == 0 {
		return r.driver.Info(ctx, r.theme.InfoPrefix+message+": no options to choose from")
	}

	var defaults []int
	for _, value := range state.Choices(q.ID) {
		if i := optionIndex(q.Options, value); i >= 0 {
			defaults = append(defaults, i)
		}
	}

	for {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  optionLabels(q.Options),
			Defaults: defaults,
		})
		if err != nil {
			return err
		}
		picked := make([]string, 0, len(indices))
		for _, i := range indices {
			if i >= 0 && i < len(q.Options) {
				picked = append(picked, optionValue(q.Options[i]))
			}
		}
		if q.Required && len(picked) == 0 {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %v", r.theme.ErrorPrefix, q.Label, ErrAnswerRequired)); err != nil {
				return err
			}
			continue
		}
		state.Set(q.ID, picked)
		return nil
	}
}

type record struct {
	ID string
	schema.Answer
}

func collect(views []preview.View, state *State) []record {
	var out []record
	for _, view := range views {
		for _, q := range view.Questions {
			value, ok := state.Value(q.ID)
			if !ok {
				continue
			}
			if q.Type == model.QuestionTypeCheckbox {
				value = state.Choices(q.ID)
			}
			out = append(out, record{
				ID:     q.ID,
				Answer: schema.Answer{Question: q.Label, Answer: value},
			})
		}
	}
	return out
}

func (r *Renderer) finish(records []record) ([]record, error) {
	if r.transformer == nil {
		return records, nil
	}
	answers := make([]schema.Answer, len(records))
	for i, rec := range records {
		answers[i] = rec.Answer
	}
	transformed, err := r.transformer(answers)
	if err != nil {
		return nil, fmt.Errorf("tui: answer transformer: %w", err)
	}
	out := make([]record, len(transformed))
	for i, answer := range transformed {
		out[i].Answer = answer
		if i < len(records) && records[i].Question == answer.Question {
			out[i].ID = records[i].ID
		}
	}
	return out, nil
}

func (r *Renderer) serialize(records []record) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(records)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(records)), nil
	default:
		answers := make([]schema.Answer, len(records))
		for i, rec := range records {
			answers[i] = rec.Answer
		}
		return json.Marshal(answers)
	}
}

func promptMessage(q preview.Question) string {
	message := fmt.Sprintf("%d. %s", q.Number, q.Label)
	if q.Required {
		message += " *"
	}
	return message
}

func requiredText(required bool) func(string) error {
	if !required {
		return nil
	}
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return ErrAnswerRequired
		}
		return nil
	}
}

func optionLabels(options []preview.Option) []string {
	out := make([]string, len(options))
	for i, option := range options {
		out[i] = option.Label
	}
	return out
}

// optionValue is what gets recorded for an option. Blank options answer with
// their display label.
func optionValue(option preview.Option) string {
	if option.Value != "" {
		return option.Value
	}
	return option.Label
}

func optionIndex(options []preview.Option, value string) int {
	for i, option := range options {
		if optionValue(option) == value {
			return i
		}
	}
	return -1
}

// distributeErrors attaches each payload key to the first step holding a
// matching question. Keys no step claims become form-level messages.
func distributeErrors(views []preview.View, payload map[string][]string) (map[string][]string, []string) {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	questions := make(map[string][]string)
	var form []string
	for _, key := range keys {
		single := map[string][]string{key: payload[key]}
		claimed := false
		for _, view := range views {
			mapping := render.MapErrorPayload(view, single)
			if len(mapping.Questions) == 0 {
				continue
			}
			for id, messages := range mapping.Questions {
				questions[id] = render.MergeFormErrors(questions[id], messages...)
			}
			claimed = true
			break
		}
		if !claimed {
			form = render.MergeFormErrors(form, payload[key]...)
		}
	}
	return questions, form
}

func encodeForm(records []record) string {
	values := url.Values{}
	for _, rec := range records {
		key := rec.ID
		if key == "" {
			key = rec.Question
		}
		name := "answers[" + key + "]"
		switch typed := rec.Answer.Answer.(type) {
		case []string:
			for _, item := range typed {
				values.Add(name, item)
			}
		default:
			values.Set(name, fmt.Sprint(typed))
		}
	}
	return values.Encode()
}

func prettyPrint(records []record) string {
	var b strings.Builder
	for _, rec := range records {
		switch typed := rec.Answer.Answer.(type) {
		case []string:
			fmt.Fprintf(&b, "%s: %s\n", rec.Question, strings.Join(typed, ", "))
		default:
			fmt.Fprintf(&b, "%s: %v\n", rec.Question, typed)
		}
	}
	return b.String()
}
