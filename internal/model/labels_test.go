package model

import (
	"errors"
	"testing"
)

func TestLabelMappingIsBijective(t *testing.T) {
	want := map[QuestionType]string{
		QuestionTypeShort:     "shortAnswer",
		QuestionTypeParagraph: "paragraph",
		QuestionTypeMultiple:  "multipleChoice",
		QuestionTypeCheckbox:  "checkbox",
		QuestionTypeDropdown:  "dropdown",
	}
	for _, qt := range QuestionTypes() {
		label := qt.Label()
		if label != want[qt] {
			t.Fatalf("label for %q: want %q, got %q", qt, want[qt], label)
		}
		back, err := TypeFromLabel(label)
		if err != nil {
			t.Fatalf("type from label %q: %v", label, err)
		}
		if back != qt {
			t.Fatalf("round trip for %q returned %q", qt, back)
		}
	}
}

func TestTypeFromLabelRejectsInternalValue(t *testing.T) {
	if _, err := TypeFromLabel("short"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestParseQuestionType(t *testing.T) {
	cases := map[string]QuestionType{
		"short":          QuestionTypeShort,
		" Dropdown ":     QuestionTypeDropdown,
		"multipleChoice": QuestionTypeMultiple,
		"SHORTANSWER":    QuestionTypeShort,
	}
	for raw, want := range cases {
		got, err := ParseQuestionType(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: want %q, got %q", raw, want, got)
		}
	}
	if _, err := ParseQuestionType("rating"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType for rating, got %v", err)
	}
}

func TestDefaultLabels(t *testing.T) {
	if got := DefaultStepTitle(3); got != "Step 3" {
		t.Fatalf("step title: got %q", got)
	}
	if got := DefaultOptionLabel(0); got != "Option 1" {
		t.Fatalf("option label: got %q", got)
	}
	if got := QuestionTypeMultiple.DisplayName(); got != "Multiple Choice" {
		t.Fatalf("display name: got %q", got)
	}
}
