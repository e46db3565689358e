// Package preview projects a form model onto the read-only view a respondent
// would see for one step. Projection never mutates the model; navigation
// helpers only compute the neighbouring step id and leave applying it to the
// caller.
package preview

import (
	"fmt"

	"github.com/goliatone/go-formify/pkg/model"
)

const (
	UntitledForm      = "Untitled Form"
	UntitledQuestion  = "Untitled Question"
	AnswerPlaceholder = "Your answer"
	SelectPlaceholder = "Select an option"
	EmptyMessage      = "No questions yet. Add questions to see the preview."
	PreviousLabel     = "Previous"
)

// Action is the affordance closing a step.
type Action string

const (
	ActionNext   Action = "next"
	ActionSubmit Action = "submit"
)

// Label returns the button caption for the action.
func (a Action) Label() string {
	if a == ActionSubmit {
		return "Submit Form"
	}
	return "Next Step"
}

// Option is one rendered choice. ID is "<question id>-<index>".
type Option struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is a rendered question with display fallbacks applied.
type Question struct {
	ID                string             `json:"id"`
	Number            int                `json:"number"`
	Label             string             `json:"label"`
	Required          bool               `json:"required"`
	Type              model.QuestionType `json:"type"`
	Placeholder       string             `json:"placeholder,omitempty"`
	SelectPlaceholder string             `json:"selectPlaceholder,omitempty"`
	Options           []Option           `json:"options,omitempty"`
}

// View is the projection of one step. Navigation buttons are only shown
// once the step has questions.
type View struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	StepID         string     `json:"stepId"`
	StepTitle      string     `json:"stepTitle"`
	StepNumber     int        `json:"stepNumber"`
	StepCount      int        `json:"stepCount"`
	ShowStepHeader bool       `json:"showStepHeader"`
	IsFirstStep    bool       `json:"isFirstStep"`
	IsLastStep     bool       `json:"isLastStep"`
	Questions      []Question `json:"questions"`
	Empty          bool       `json:"empty"`
	EmptyMessage   string     `json:"emptyMessage,omitempty"`
	ShowActions    bool       `json:"showActions"`
	ShowPrevious   bool       `json:"showPrevious"`
	PreviousLabel  string     `json:"previousLabel"`
	Action         Action     `json:"action"`
	ActionLabel    string     `json:"actionLabel"`
}

// Project renders the step activeStepID of form. An unknown id projects the
// first step.
func Project(form *model.FormModel, activeStepID string) View {
	index := stepIndex(form, activeStepID)
	count := len(form.Steps)

	view := View{
		Title:          form.Title,
		Description:    form.Description,
		StepCount:      count,
		ShowStepHeader: count > 1,
		Questions:      []Question{},
		PreviousLabel:  PreviousLabel,
	}
	if view.Title == "" {
		view.Title = UntitledForm
	}
	if index >= 0 {
		step := form.Steps[index]
		view.StepID = step.ID
		view.StepTitle = step.Title
		view.StepNumber = index + 1
		view.IsFirstStep = index == 0
		view.IsLastStep = index == count-1
	}

	for _, q := range form.Questions {
		if q.StepID != view.StepID {
			continue
		}
		view.Questions = append(view.Questions, projectQuestion(q, len(view.Questions)+1))
	}

	view.Empty = len(view.Questions) == 0
	if view.Empty {
		view.EmptyMessage = EmptyMessage
	}
	view.ShowActions = !view.Empty
	view.ShowPrevious = view.ShowActions && count > 1 && !view.IsFirstStep
	view.Action = ActionNext
	if view.IsLastStep {
		view.Action = ActionSubmit
	}
	view.ActionLabel = view.Action.Label()
	return view
}

func projectQuestion(q model.Question, number int) Question {
	out := Question{
		ID:       q.ID,
		Number:   number,
		Label:    q.Text,
		Required: q.Required,
		Type:     q.Type,
	}
	if out.Label == "" {
		out.Label = UntitledQuestion
	}

	switch q.Type {
	case model.QuestionTypeShort, model.QuestionTypeParagraph:
		out.Placeholder = q.Placeholder
		if out.Placeholder == "" {
			out.Placeholder = AnswerPlaceholder
		}
	case model.QuestionTypeDropdown:
		out.SelectPlaceholder = SelectPlaceholder
	}

	if q.Type.HasOptions() {
		out.Options = make([]Option, 0, len(q.Options))
		for i, value := range q.Options {
			label := value
			if label == "" {
				label = model.DefaultOptionLabel(i)
			}
			out.Options = append(out.Options, Option{
				ID:    fmt.Sprintf("%s-%d", q.ID, i),
				Value: value,
				Label: label,
			})
		}
	}
	return out
}

// Previous returns the id of the step before active.
func Previous(form *model.FormModel, active string) (string, bool) {
	i := form.StepIndex(active)
	if i <= 0 {
		return "", false
	}
	return form.Steps[i-1].ID, true
}

// Next returns the id of the step after active.
func Next(form *model.FormModel, active string) (string, bool) {
	i := form.StepIndex(active)
	if i < 0 || i >= len(form.Steps)-1 {
		return "", false
	}
	return form.Steps[i+1].ID, true
}

// ProgressLabel renders "Step i of n".
func ProgressLabel(view View) string {
	return fmt.Sprintf("Step %d of %d", view.StepNumber, view.StepCount)
}

func stepIndex(form *model.FormModel, id string) int {
	if i := form.StepIndex(id); i >= 0 {
		return i
	}
	if len(form.Steps) > 0 {
		return 0
	}
	return -1
}
