package model

import internalmodel "github.com/goliatone/go-formify/internal/model"

// QuestionType re-exports the internal QuestionType enumeration.
type QuestionType = internalmodel.QuestionType

const (
	QuestionTypeShort     = internalmodel.QuestionTypeShort
	QuestionTypeParagraph = internalmodel.QuestionTypeParagraph
	QuestionTypeMultiple  = internalmodel.QuestionTypeMultiple
	QuestionTypeCheckbox  = internalmodel.QuestionTypeCheckbox
	QuestionTypeDropdown  = internalmodel.QuestionTypeDropdown
)

const (
	DefaultOption = internalmodel.DefaultOption
	DefaultStepID = internalmodel.DefaultStepID
)

type Step = internalmodel.Step
type Question = internalmodel.Question
type QuestionPatch = internalmodel.QuestionPatch
type FormModel = internalmodel.FormModel
type IDGenerator = internalmodel.IDGenerator
type UUIDs = internalmodel.UUIDs
type SequenceIDs = internalmodel.SequenceIDs

var (
	ErrStepMismatch = internalmodel.ErrStepMismatch
	ErrUnknownType  = internalmodel.ErrUnknownType
	ErrNoSteps      = internalmodel.ErrNoSteps
	ErrTitleMissing = internalmodel.ErrTitleMissing
)
