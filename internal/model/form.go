package model

import "fmt"

// FormModel is the single source of truth during an editing session. It owns
// the ordered steps and the flat, step-scoped question set; collaborators
// commit edits by replacing whole step partitions.
type FormModel struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Steps       []Step     `json:"steps" yaml:"steps"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// New returns an empty form holding the default first step.
func New() *FormModel {
	return &FormModel{
		Steps:     []Step{{ID: DefaultStepID, Title: DefaultStepTitle(1)}},
		Questions: []Question{},
	}
}

// SetTitle replaces the form title.
func (f *FormModel) SetTitle(text string) {
	f.Title = text
}

// SetDescription replaces the form description.
func (f *FormModel) SetDescription(text string) {
	f.Description = text
}

// ReplaceQuestions swaps the partition owned by stepID for questions, keeping
// every other step's questions untouched and in place. The new questions are
// appended after the remaining ones. Nothing changes when any question is
// scoped to another step.
func (f *FormModel) ReplaceQuestions(stepID string, questions []Question) error {
	for _, q := range questions {
		if q.StepID != stepID {
			return fmt.Errorf("%w: question %q has step %q, want %q", ErrStepMismatch, q.ID, q.StepID, stepID)
		}
	}

	kept := make([]Question, 0, len(f.Questions)+len(questions))
	for _, q := range f.Questions {
		if q.StepID != stepID {
			kept = append(kept, q)
		}
	}
	for _, q := range questions {
		kept = append(kept, q.Clone())
	}
	f.Questions = kept
	return nil
}

// StepQuestions returns copies of the questions scoped to stepID in order.
func (f *FormModel) StepQuestions(stepID string) []Question {
	out := make([]Question, 0)
	for _, q := range f.Questions {
		if q.StepID == stepID {
			out = append(out, q.Clone())
		}
	}
	return out
}

// RemoveStepQuestions drops every question scoped to stepID and reports how
// many were removed.
func (f *FormModel) RemoveStepQuestions(stepID string) int {
	kept := f.Questions[:0:0]
	removed := 0
	for _, q := range f.Questions {
		if q.StepID == stepID {
			removed++
			continue
		}
		kept = append(kept, q)
	}
	f.Questions = kept
	return removed
}

// StepIndex returns the position of the step with id, or -1.
func (f *FormModel) StepIndex(id string) int {
	for i, step := range f.Steps {
		if step.ID == id {
			return i
		}
	}
	return -1
}

// Step looks up a step by id.
func (f *FormModel) Step(id string) (Step, bool) {
	if i := f.StepIndex(id); i >= 0 {
		return f.Steps[i], true
	}
	return Step{}, false
}

// HasStep reports whether a step with id exists.
func (f *FormModel) HasStep(id string) bool {
	return f.StepIndex(id) >= 0
}

// Clone deep-copies the model.
func (f *FormModel) Clone() *FormModel {
	if f == nil {
		return nil
	}
	out := &FormModel{
		Title:       f.Title,
		Description: f.Description,
		Steps:       append([]Step(nil), f.Steps...),
		Questions:   make([]Question, 0, len(f.Questions)),
	}
	for _, q := range f.Questions {
		out.Questions = append(out.Questions, q.Clone())
	}
	return out
}

// Normalize repairs a model loaded from outside the editor: it guarantees at
// least one step, fills blank step titles, and enforces the options invariant
// on every question. Questions scoped to a step the model does not hold are
// dropped, as if their step had been deleted. An unknown question type fails
// with ErrUnknownType and leaves the questions untouched.
func (f *FormModel) Normalize() error {
	for _, q := range f.Questions {
		if !q.Type.Valid() {
			return fmt.Errorf("%w: question %q has type %q", ErrUnknownType, q.ID, q.Type)
		}
	}

	if len(f.Steps) == 0 {
		f.Steps = []Step{{ID: DefaultStepID, Title: DefaultStepTitle(1)}}
	}
	for i := range f.Steps {
		if f.Steps[i].Title == "" {
			f.Steps[i].Title = DefaultStepTitle(i + 1)
		}
	}
	kept := make([]Question, 0, len(f.Questions))
	for _, q := range f.Questions {
		if !f.HasStep(q.StepID) {
			continue
		}
		kept = append(kept, enforceOptions(q))
	}
	f.Questions = kept
	return nil
}
