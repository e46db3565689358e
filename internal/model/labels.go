package model

import (
	"fmt"
	"strconv"
	"strings"
)

// External labels used by the persisted representation. The mapping is
// bit-exact and bijective.
const (
	LabelShortAnswer    = "shortAnswer"
	LabelParagraph      = "paragraph"
	LabelMultipleChoice = "multipleChoice"
	LabelCheckbox       = "checkbox"
	LabelDropdown       = "dropdown"
)

var typeToLabel = map[QuestionType]string{
	QuestionTypeShort:     LabelShortAnswer,
	QuestionTypeParagraph: LabelParagraph,
	QuestionTypeMultiple:  LabelMultipleChoice,
	QuestionTypeCheckbox:  LabelCheckbox,
	QuestionTypeDropdown:  LabelDropdown,
}

var labelToType = map[string]QuestionType{
	LabelShortAnswer:    QuestionTypeShort,
	LabelParagraph:      QuestionTypeParagraph,
	LabelMultipleChoice: QuestionTypeMultiple,
	LabelCheckbox:       QuestionTypeCheckbox,
	LabelDropdown:       QuestionTypeDropdown,
}

var displayNames = map[QuestionType]string{
	QuestionTypeShort:     "Short Answer",
	QuestionTypeParagraph: "Paragraph",
	QuestionTypeMultiple:  "Multiple Choice",
	QuestionTypeCheckbox:  "Checkbox",
	QuestionTypeDropdown:  "Dropdown",
}

// Label returns the external label for t. Unknown types pass through
// unchanged so callers can surface them in validation errors.
func (t QuestionType) Label() string {
	if label, ok := typeToLabel[t]; ok {
		return label
	}
	return string(t)
}

// DisplayName returns the human-facing name shown in type pickers.
func (t QuestionType) DisplayName() string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

// TypeFromLabel maps an external label back onto the enumeration.
func TypeFromLabel(label string) (QuestionType, error) {
	if t, ok := labelToType[label]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, label)
}

// ParseQuestionType accepts either the internal value or the external label,
// case-insensitively. It backs CLI flags and the flat create payload.
func ParseQuestionType(raw string) (QuestionType, error) {
	trimmed := strings.TrimSpace(raw)
	candidate := QuestionType(strings.ToLower(trimmed))
	if candidate.Valid() {
		return candidate, nil
	}
	for label, t := range labelToType {
		if strings.EqualFold(label, trimmed) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
}

// DefaultStepTitle renders the title given to the n-th step (1-based).
func DefaultStepTitle(n int) string {
	return "Step " + strconv.Itoa(n)
}

// DefaultOptionLabel renders the fallback label for the option at index i.
func DefaultOptionLabel(i int) string {
	return "Option " + strconv.Itoa(i+1)
}
