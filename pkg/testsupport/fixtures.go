package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	pkgmodel "github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/schema"
)

// SampleForm returns a persisted two-step form covering every question type.
func SampleForm() schema.Form {
	return schema.Form{
		Title:       "Customer Feedback",
		Description: "Tell us how we did.",
		CreatedBy:   schema.DefaultCreator,
		Steps: []schema.Step{
			{
				Title: "About you",
				Questions: []schema.Question{
					{Type: "shortAnswer", Label: "Name", Options: []string{}, Required: true, Placeholder: "Jane Doe"},
					{Type: "paragraph", Label: "Anything else?", Options: []string{}},
				},
			},
			{
				Title: "Rating",
				Questions: []schema.Question{
					{Type: "multipleChoice", Label: "Overall", Options: []string{"Good", "Bad"}, Required: true},
					{Type: "checkbox", Label: "Channels", Options: []string{"Email", "Phone"}},
					{Type: "dropdown", Label: "Region", Options: []string{"EU", "US"}},
				},
			},
		},
	}
}

// SampleModel flattens SampleForm with deterministic ids: steps "step-1" and
// "step-2", questions "question-1" through "question-5".
func SampleModel(t *testing.T) *pkgmodel.FormModel {
	t.Helper()

	form, err := pkgmodel.Flatten(SampleForm(), pkgmodel.NewSequenceIDs())
	if err != nil {
		t.Fatalf("flatten sample: %v", err)
	}
	return form
}

// MustLoadForm reads a persisted form fixture encoded as JSON.
func MustLoadForm(t *testing.T, path string) schema.Form {
	t.Helper()

	form, err := LoadForm(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadForm reads a JSON persisted form without requiring testing.T.
func LoadForm(path string) (schema.Form, error) {
	if path == "" {
		return schema.Form{}, errors.New("testsupport: form path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Form{}, fmt.Errorf("testsupport: read form: %w", err)
	}
	var out schema.Form
	if err := json.Unmarshal(data, &out); err != nil {
		return schema.Form{}, fmt.Errorf("testsupport: unmarshal form: %w", err)
	}
	return out, nil
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// CompareIgnoringIDs diffs two editor models while ignoring step and question
// ids, the equality used by the serialize/flatten round trip.
func CompareIgnoringIDs(want, got *pkgmodel.FormModel) string {
	return cmp.Diff(stripIDs(want), stripIDs(got), cmpopts.EquateEmpty())
}

// stripIDs replaces ids with their position so step references survive.
func stripIDs(form *pkgmodel.FormModel) *pkgmodel.FormModel {
	if form == nil {
		return nil
	}
	out := form.Clone()
	stepIndex := make(map[string]string, len(out.Steps))
	for i := range out.Steps {
		key := fmt.Sprintf("#%d", i)
		stepIndex[out.Steps[i].ID] = key
		out.Steps[i].ID = key
	}
	for i := range out.Questions {
		out.Questions[i].ID = ""
		if key, ok := stepIndex[out.Questions[i].StepID]; ok {
			out.Questions[i].StepID = key
		}
	}
	return out
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a context cancelled when the test finishes.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
