package editor

import "errors"

var (
	// ErrStepNotFound reports an id that names no step of the form.
	ErrStepNotFound = errors.New("editor: step not found")
	// ErrLastStep is returned when deleting the only remaining step.
	ErrLastStep = errors.New("editor: cannot delete the last step")
	// ErrQuestionNotFound reports an id outside the active step's questions.
	ErrQuestionNotFound = errors.New("editor: question not found")
	// ErrOptionIndex reports an option index outside the option list.
	ErrOptionIndex = errors.New("editor: option index out of range")
	// ErrNoOptions is returned for option edits on a type without options.
	ErrNoOptions = errors.New("editor: question type has no options")
	// ErrTitleRequired blocks a save while the form title is blank.
	ErrTitleRequired = errors.New("editor: form title is required")
)
