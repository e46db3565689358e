package model

// QuestionType is the closed set of question kinds the editor supports.
type QuestionType string

const (
	QuestionTypeShort     QuestionType = "short"
	QuestionTypeParagraph QuestionType = "paragraph"
	QuestionTypeMultiple  QuestionType = "multiple"
	QuestionTypeCheckbox  QuestionType = "checkbox"
	QuestionTypeDropdown  QuestionType = "dropdown"
)

// DefaultOption seeds the option list when a question switches into an
// option-bearing type.
const DefaultOption = "Option 1"

// DefaultStepID identifies the step every new FormModel starts with.
const DefaultStepID = "step-1"

// QuestionTypes lists the enumeration in display order.
func QuestionTypes() []QuestionType {
	return []QuestionType{
		QuestionTypeShort,
		QuestionTypeParagraph,
		QuestionTypeMultiple,
		QuestionTypeCheckbox,
		QuestionTypeDropdown,
	}
}

// Valid reports whether t is a member of the enumeration.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeShort, QuestionTypeParagraph, QuestionTypeMultiple, QuestionTypeCheckbox, QuestionTypeDropdown:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry an option list.
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionTypeMultiple, QuestionTypeCheckbox, QuestionTypeDropdown:
		return true
	}
	return false
}

// Step is one page of a multi-step form. Questions reference it through
// Question.StepID; a step never holds its questions directly.
type Step struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Question is a single field definition. Options is only populated when
// Type.HasOptions() is true.
type Question struct {
	ID          string       `json:"id" yaml:"id"`
	Text        string       `json:"text" yaml:"text"`
	Type        QuestionType `json:"type" yaml:"type"`
	Required    bool         `json:"required" yaml:"required"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	StepID      string       `json:"stepId" yaml:"stepId"`
}

// Clone returns a copy that shares no option storage with q.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	return out
}
