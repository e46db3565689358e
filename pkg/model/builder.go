package model

import (
	internalmodel "github.com/goliatone/go-formify/internal/model"
	"github.com/goliatone/go-formify/pkg/schema"
)

// New returns an empty form holding the default first step.
func New() *FormModel {
	return internalmodel.New()
}

// NewSequenceIDs returns a deterministic id generator.
func NewSequenceIDs() *SequenceIDs {
	return internalmodel.NewSequenceIDs()
}

// Flatten converts a persisted form into an editable model.
func Flatten(form schema.Form, ids IDGenerator) (*FormModel, error) {
	return internalmodel.Flatten(form, ids)
}

// ApplyPatch merges patch into q honouring the options invariant.
func ApplyPatch(q Question, patch QuestionPatch) Question {
	return internalmodel.ApplyPatch(q, patch)
}

// ChangeType switches q to t honouring the options invariant.
func ChangeType(q Question, t QuestionType) Question {
	return internalmodel.ChangeType(q, t)
}

// QuestionTypes lists the enumeration in display order.
func QuestionTypes() []QuestionType {
	return internalmodel.QuestionTypes()
}

// TypeFromLabel maps an external label onto the enumeration.
func TypeFromLabel(label string) (QuestionType, error) {
	return internalmodel.TypeFromLabel(label)
}

// ParseQuestionType accepts internal values or external labels.
func ParseQuestionType(raw string) (QuestionType, error) {
	return internalmodel.ParseQuestionType(raw)
}

// DefaultStepTitle renders "Step n".
func DefaultStepTitle(n int) string {
	return internalmodel.DefaultStepTitle(n)
}

// DefaultOptionLabel renders "Option i+1".
func DefaultOptionLabel(i int) string {
	return internalmodel.DefaultOptionLabel(i)
}

// String, Bool, Type and Options build patch fields.
func String(v string) *string { return internalmodel.String(v) }

func Bool(v bool) *bool { return internalmodel.Bool(v) }

func Type(v QuestionType) *QuestionType { return internalmodel.Type(v) }

func Options(v ...string) *[]string { return internalmodel.Options(v...) }

// ValidateForm checks a persisted form before it is stored.
func ValidateForm(form schema.Form) error {
	return internalmodel.ValidateForm(form)
}
