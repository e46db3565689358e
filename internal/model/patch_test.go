package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChangeTypeOptionsInvariant(t *testing.T) {
	cases := []struct {
		name string
		in   Question
		to   QuestionType
		want []string
	}{
		{
			name: "dropdown to short clears options",
			in:   Question{Type: QuestionTypeDropdown, Options: []string{"A", "B"}},
			to:   QuestionTypeShort,
			want: nil,
		},
		{
			name: "short to checkbox seeds default option",
			in:   Question{Type: QuestionTypeShort},
			to:   QuestionTypeCheckbox,
			want: []string{"Option 1"},
		},
		{
			name: "choice to choice keeps options",
			in:   Question{Type: QuestionTypeMultiple, Options: []string{"A"}},
			to:   QuestionTypeDropdown,
			want: []string{"A"},
		},
		{
			name: "paragraph to short stays empty",
			in:   Question{Type: QuestionTypeParagraph},
			to:   QuestionTypeShort,
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ChangeType(tc.in, tc.to)
			if got.Type != tc.to {
				t.Fatalf("type mismatch: got %q", got.Type)
			}
			if diff := cmp.Diff(tc.want, got.Options); diff != "" {
				t.Fatalf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyPatchMergesOnlyProvidedFields(t *testing.T) {
	q := Question{ID: "q1", Text: "Name", Type: QuestionTypeShort, Placeholder: "Jane", StepID: "step-1"}

	got := ApplyPatch(q, QuestionPatch{Required: Bool(true)})

	want := q
	want.Required = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("patch mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyPatchTypeBeforeOptions(t *testing.T) {
	q := Question{ID: "q1", Type: QuestionTypeShort}

	got := ApplyPatch(q, QuestionPatch{Type: Type(QuestionTypeMultiple), Options: Options("Yes", "No")})
	if diff := cmp.Diff([]string{"Yes", "No"}, got.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	got = ApplyPatch(got, QuestionPatch{Type: Type(QuestionTypeParagraph), Options: Options("ignored")})
	if got.Options != nil {
		t.Fatalf("expected options dropped for paragraph, got %v", got.Options)
	}
}

func TestApplyPatchDoesNotAliasInput(t *testing.T) {
	q := Question{Type: QuestionTypeCheckbox, Options: []string{"A"}}
	got := ApplyPatch(q, QuestionPatch{Text: String("Pick")})
	got.Options[0] = "B"
	if q.Options[0] != "A" {
		t.Fatalf("input options mutated: %v", q.Options)
	}
}

func TestQuestionPatchEmpty(t *testing.T) {
	if !(QuestionPatch{}).Empty() {
		t.Fatalf("expected zero patch to be empty")
	}
	if (QuestionPatch{Placeholder: String("")}).Empty() {
		t.Fatalf("expected placeholder patch to be non-empty")
	}
}
