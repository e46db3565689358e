package editor

import (
	"fmt"

	"github.com/goliatone/go-formify/pkg/model"
)

// StepManager edits the ordered steps of a form and tracks the active step.
// The active step id always names an existing step.
type StepManager struct {
	form   *model.FormModel
	ids    model.IDGenerator
	active string
}

// NewStepManager binds a manager to form. A form without steps receives the
// default one, and the first step becomes active.
func NewStepManager(form *model.FormModel, ids model.IDGenerator) *StepManager {
	if ids == nil {
		ids = model.UUIDs{}
	}
	if len(form.Steps) == 0 {
		form.Steps = []model.Step{{ID: model.DefaultStepID, Title: model.DefaultStepTitle(1)}}
	}
	return &StepManager{
		form:   form,
		ids:    ids,
		active: form.Steps[0].ID,
	}
}

// Steps returns a copy of the steps in navigation order.
func (m *StepManager) Steps() []model.Step {
	return append([]model.Step(nil), m.form.Steps...)
}

// ActiveStepID returns the id of the step being edited.
func (m *StepManager) ActiveStepID() string {
	return m.active
}

// ActiveStep returns the step being edited.
func (m *StepManager) ActiveStep() model.Step {
	step, _ := m.form.Step(m.active)
	return step
}

// AddStep appends a step titled "Step N" and makes it active.
func (m *StepManager) AddStep() model.Step {
	step := model.Step{
		ID:    m.ids.NewStepID(),
		Title: model.DefaultStepTitle(len(m.form.Steps) + 1),
	}
	m.form.Steps = append(m.form.Steps, step)
	m.active = step.ID
	return step
}

// RenameStep replaces the title of step id.
func (m *StepManager) RenameStep(id, title string) error {
	idx := m.form.StepIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrStepNotFound, id)
	}
	m.form.Steps[idx].Title = title
	return nil
}

// DeleteStep removes step id together with its questions. The only remaining
// step cannot be deleted. When the active step goes, the first remaining step
// becomes active.
func (m *StepManager) DeleteStep(id string) error {
	idx := m.form.StepIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrStepNotFound, id)
	}
	if len(m.form.Steps) <= 1 {
		return ErrLastStep
	}

	steps := make([]model.Step, 0, len(m.form.Steps)-1)
	steps = append(steps, m.form.Steps[:idx]...)
	steps = append(steps, m.form.Steps[idx+1:]...)
	m.form.Steps = steps
	m.form.RemoveStepQuestions(id)

	if m.active == id {
		m.active = m.form.Steps[0].ID
	}
	return nil
}

// SetActiveStep switches the editor to step id.
func (m *StepManager) SetActiveStep(id string) error {
	if !m.form.HasStep(id) {
		return fmt.Errorf("%w: %q", ErrStepNotFound, id)
	}
	m.active = id
	return nil
}

// MoveStep moves step fromID to the position of toID. It reports false and
// changes nothing when either id is unknown or both are equal.
func (m *StepManager) MoveStep(fromID, toID string) bool {
	from, to := m.form.StepIndex(fromID), m.form.StepIndex(toID)
	if from < 0 || to < 0 || from == to {
		return false
	}
	m.form.Steps = move(m.form.Steps, from, to)
	return true
}
