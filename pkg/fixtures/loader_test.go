package fixtures_test

import (
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formify/pkg/fixtures"
	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/testsupport"
)

func TestDefaultSet(t *testing.T) {
	set, err := fixtures.Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("expected 3 forms, got %d", set.Len())
	}

	names := []string{"customer-feedback", "events/0", "events/1"}
	var got []string
	for _, f := range set.Fixtures() {
		got = append(got, f.Name)
	}
	if diff := cmp.Diff(names, got); diff != "" {
		t.Fatalf("fixture names mismatch (-want +got):\n%s", diff)
	}

	feedback, ok := set.Get("customer-feedback")
	if !ok {
		t.Fatalf("customer-feedback fixture missing")
	}
	want := testsupport.SampleForm()
	want.CreatedBy = ""
	if diff := cmp.Diff(want, feedback.Form, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("bundled form mismatch (-want +got):\n%s", diff)
	}

	speaker, _ := set.Get("events/1")
	if speaker.Form.Title != "Speaker Proposal" || speaker.Source != "events.yaml" {
		t.Fatalf("unexpected list entry: %+v", speaker)
	}
}

func TestLoadFS_JSONAndSkipsOtherFiles(t *testing.T) {
	set, err := fixtures.LoadFS(os.DirFS("testdata/mixed"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	forms := set.Forms()
	if len(forms) != 1 {
		t.Fatalf("expected one form, got %d", len(forms))
	}
	if forms[0].Steps[0].Questions[0].Label != "Email" {
		t.Fatalf("unexpected form: %+v", forms[0])
	}
}

func TestLoadFS_RejectsInvalidForms(t *testing.T) {
	_, err := fixtures.LoadFS(os.DirFS("testdata/broken"))
	if !errors.Is(err, model.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}

	_, err = fixtures.LoadFS(fstest.MapFS{
		"untitled.yaml": {Data: []byte("steps:\n  - title: One\n    questions: []\n")},
	})
	if !errors.Is(err, model.ErrTitleMissing) {
		t.Fatalf("expected ErrTitleMissing, got %v", err)
	}

	_, err = fixtures.LoadFS(fstest.MapFS{
		"empty.json": {Data: []byte("  \n")},
	})
	if err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	set, err := fixtures.LoadFS(nil)
	if err != nil {
		t.Fatalf("load nil: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %d", set.Len())
	}
}
