package editor

import (
	"fmt"

	"github.com/goliatone/go-formify/pkg/model"
)

// QuestionListEditor edits the questions of the active step. Every change is
// committed by replacing the active step's partition on the form.
type QuestionListEditor struct {
	form  *model.FormModel
	steps *StepManager
	ids   model.IDGenerator
}

// NewQuestionListEditor scopes an editor to the active step of steps.
func NewQuestionListEditor(form *model.FormModel, steps *StepManager, ids model.IDGenerator) *QuestionListEditor {
	if ids == nil {
		ids = model.UUIDs{}
	}
	return &QuestionListEditor{form: form, steps: steps, ids: ids}
}

// Questions returns the active step's questions in order.
func (e *QuestionListEditor) Questions() []model.Question {
	return e.form.StepQuestions(e.steps.ActiveStepID())
}

// Question looks up a question of the active step.
func (e *QuestionListEditor) Question(id string) (model.Question, bool) {
	list := e.Questions()
	if i := indexOf(list, id); i >= 0 {
		return list[i], true
	}
	return model.Question{}, false
}

// AddQuestion appends an empty short-answer question to the active step.
func (e *QuestionListEditor) AddQuestion() model.Question {
	q := model.Question{
		ID:     e.ids.NewQuestionID(),
		Type:   model.QuestionTypeShort,
		StepID: e.steps.ActiveStepID(),
	}
	list := append(e.Questions(), q)
	e.commit(list)
	return q
}

// UpdateQuestion merges patch into question id.
func (e *QuestionListEditor) UpdateQuestion(id string, patch model.QuestionPatch) (model.Question, error) {
	return e.edit(id, func(q model.Question) (model.Question, error) {
		return model.ApplyPatch(q, patch), nil
	})
}

// DeleteQuestion removes question id from the active step.
func (e *QuestionListEditor) DeleteQuestion(id string) error {
	list := e.Questions()
	i := indexOf(list, id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrQuestionNotFound, id)
	}
	e.commit(append(list[:i], list[i+1:]...))
	return nil
}

// Reorder moves question fromID to the position held by toID, shifting the
// questions in between. It reports false when nothing moved.
func (e *QuestionListEditor) Reorder(fromID, toID string) bool {
	list := e.Questions()
	from, to := indexOf(list, fromID), indexOf(list, toID)
	if from < 0 || to < 0 || from == to {
		return false
	}
	e.commit(move(list, from, to))
	return true
}

// AddOption appends an empty option to question id.
func (e *QuestionListEditor) AddOption(id string) (model.Question, error) {
	return e.editOptions(id, func(options []string) ([]string, error) {
		return append(options, ""), nil
	})
}

// UpdateOption replaces the option at index.
func (e *QuestionListEditor) UpdateOption(id string, index int, value string) (model.Question, error) {
	return e.editOptions(id, func(options []string) ([]string, error) {
		if index < 0 || index >= len(options) {
			return nil, fmt.Errorf("%w: %d", ErrOptionIndex, index)
		}
		options[index] = value
		return options, nil
	})
}

// RemoveOption deletes the option at index, shifting later options left.
func (e *QuestionListEditor) RemoveOption(id string, index int) (model.Question, error) {
	return e.editOptions(id, func(options []string) ([]string, error) {
		if index < 0 || index >= len(options) {
			return nil, fmt.Errorf("%w: %d", ErrOptionIndex, index)
		}
		return append(options[:index], options[index+1:]...), nil
	})
}

func (e *QuestionListEditor) editOptions(id string, fn func([]string) ([]string, error)) (model.Question, error) {
	return e.edit(id, func(q model.Question) (model.Question, error) {
		if !q.Type.HasOptions() {
			return q, fmt.Errorf("%w: %s", ErrNoOptions, q.Type)
		}
		options, err := fn(append([]string{}, q.Options...))
		if err != nil {
			return q, err
		}
		q.Options = options
		return q, nil
	})
}

func (e *QuestionListEditor) edit(id string, fn func(model.Question) (model.Question, error)) (model.Question, error) {
	list := e.Questions()
	i := indexOf(list, id)
	if i < 0 {
		return model.Question{}, fmt.Errorf("%w: %q", ErrQuestionNotFound, id)
	}
	updated, err := fn(list[i])
	if err != nil {
		return model.Question{}, err
	}
	list[i] = updated
	e.commit(list)
	return updated.Clone(), nil
}

// commit replaces the active partition. list is always drawn from the active
// step, so ReplaceQuestions has no step mismatch to report.
func (e *QuestionListEditor) commit(list []model.Question) {
	_ = e.form.ReplaceQuestions(e.steps.ActiveStepID(), list)
}

func indexOf(list []model.Question, id string) int {
	for i, q := range list {
		if q.ID == id {
			return i
		}
	}
	return -1
}
