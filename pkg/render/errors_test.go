package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formify/pkg/preview"
	"github.com/goliatone/go-formify/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	view := preview.View{
		Questions: []preview.Question{
			{ID: "q1", Label: "Email"},
			{ID: "q2", Label: "Age"},
		},
	}

	mapped := render.MapErrorPayload(view, map[string][]string{
		"q1":         {"Email is required", " Email is required "},
		"age":        {"Too young"},
		"/answers/0": {"Invalid address"},
		"answers.5":  {"Out of range"},
		"":           {"Unscoped form error"},
		"other":      {"  "},
	})

	wantQuestions := map[string][]string{
		"q1": {"Email is required", "Invalid address"},
		"q2": {"Too young"},
	}
	if diff := cmp.Diff(wantQuestions, mapped.Questions, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("question errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Out of range", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
