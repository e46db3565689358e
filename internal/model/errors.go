package model

import "errors"

var (
	// ErrStepMismatch is returned when ReplaceQuestions receives a question
	// scoped to a different step.
	ErrStepMismatch = errors.New("model: question belongs to a different step")
	// ErrUnknownType reports a type value or label outside the enumeration.
	ErrUnknownType = errors.New("model: unknown question type")
	// ErrNoSteps is returned when a form would be left without steps.
	ErrNoSteps = errors.New("model: form requires at least one step")
)
