// Package storagetest holds the behaviour every storage backend must share.
// Backend tests call RunStoreContract and RunDraftContract with a factory
// returning an empty store.
package storagetest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/pkg/schema"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func form(title string, offset time.Duration) schema.Form {
	return schema.Form{
		Title:       title,
		Description: title + " description",
		CreatedBy:   schema.DefaultCreator,
		CreatedAt:   base.Add(offset),
		Steps: []schema.Step{{
			Title: "Step 1",
			Questions: []schema.Question{
				{Type: "shortAnswer", Label: "Name", Options: []string{}, Required: true},
				{Type: "dropdown", Label: "Pick", Options: []string{"A", "B"}},
			},
		}},
	}
}

// RunStoreContract exercises forms, submissions and cascading deletes.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()

	t.Run("create assigns id and round trips", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		created, err := store.CreateForm(ctx, form("Alpha", 0))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if len(created.ID) != 24 {
			t.Fatalf("expected ObjectID hex id, got %q", created.ID)
		}

		got, err := store.GetForm(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if diff := cmp.Diff(created, got, cmpopts.EquateEmpty(), cmpopts.EquateApproxTime(time.Millisecond)); diff != "" {
			t.Fatalf("form mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing form", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetForm(context.Background(), storage.NewID())
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteForm(context.Background(), storage.NewID()); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on delete, got %v", err)
		}
	})

	t.Run("list newest first and count", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		for i, title := range []string{"Old", "Newest", "Middle"} {
			offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
			if _, err := store.CreateForm(ctx, form(title, offsets[i])); err != nil {
				t.Fatalf("create %s: %v", title, err)
			}
		}

		forms, err := store.ListForms(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		var titles []string
		for _, f := range forms {
			titles = append(titles, f.Title)
		}
		if diff := cmp.Diff([]string{"Newest", "Middle", "Old"}, titles); diff != "" {
			t.Fatalf("order mismatch (-want +got):\n%s", diff)
		}

		count, err := store.CountForms(ctx)
		if err != nil || count != 3 {
			t.Fatalf("expected 3 forms, got %d (%v)", count, err)
		}
	})

	t.Run("submissions newest first and cascade", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		kept, err := store.CreateForm(ctx, form("Kept", 0))
		if err != nil {
			t.Fatalf("create kept: %v", err)
		}
		doomed, err := store.CreateForm(ctx, form("Doomed", time.Minute))
		if err != nil {
			t.Fatalf("create doomed: %v", err)
		}

		for i, answer := range []string{"first", "second"} {
			sub := schema.Submission{
				FormID:      kept.ID,
				Answers:     []schema.Answer{{Question: "Name", Answer: answer}},
				SubmittedAt: base.Add(time.Duration(i) * time.Minute),
			}
			if _, err := store.CreateSubmission(ctx, sub); err != nil {
				t.Fatalf("submit %s: %v", answer, err)
			}
		}
		if _, err := store.CreateSubmission(ctx, schema.Submission{
			FormID:  doomed.ID,
			Answers: []schema.Answer{{Question: "Pick", Answer: []any{"A", "B"}}},
		}); err != nil {
			t.Fatalf("submit doomed: %v", err)
		}

		subs, err := store.ListSubmissions(ctx, kept.ID)
		if err != nil {
			t.Fatalf("list submissions: %v", err)
		}
		if len(subs) != 2 || subs[0].Answers[0].Answer != "second" {
			t.Fatalf("expected newest submission first, got %+v", subs)
		}
		if subs[0].ID == "" || subs[0].FormID != kept.ID {
			t.Fatalf("submission ids not populated: %+v", subs[0])
		}

		total, err := store.CountSubmissions(ctx)
		if err != nil || total != 3 {
			t.Fatalf("expected 3 submissions, got %d (%v)", total, err)
		}

		if err := store.DeleteForm(ctx, doomed.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		total, _ = store.CountSubmissions(ctx)
		if total != 2 {
			t.Fatalf("expected cascade to leave 2 submissions, got %d", total)
		}
		left, _ := store.ListSubmissions(ctx, doomed.ID)
		if len(left) != 0 {
			t.Fatalf("expected no submissions for deleted form, got %d", len(left))
		}
	})

	t.Run("submission for missing form", func(t *testing.T) {
		store := newStore(t)
		_, err := store.CreateSubmission(context.Background(), schema.Submission{
			FormID:  storage.NewID(),
			Answers: []schema.Answer{{Question: "q", Answer: "a"}},
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

// RunDraftContract exercises draft get/put/delete.
func RunDraftContract(t *testing.T, newStore func(t *testing.T) storage.DraftStore) {
	t.Helper()

	t.Run("put get delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		if _, err := store.GetDraft(ctx, "user-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound before put, got %v", err)
		}

		draft := schema.Draft{
			Owner:        "user-1",
			ActiveStepID: "step-2",
			Form:         json.RawMessage(`{"title":"Draft"}`),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := store.PutDraft(ctx, draft); err != nil {
			t.Fatalf("put: %v", err)
		}

		got, err := store.GetDraft(ctx, "user-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ActiveStepID != "step-2" || string(got.Form) != `{"title":"Draft"}` {
			t.Fatalf("unexpected draft: %+v", got)
		}
		if _, err := store.GetDraft(ctx, "user-2"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("drafts must be per owner, got %v", err)
		}

		if err := store.DeleteDraft(ctx, "user-1"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := store.GetDraft(ctx, "user-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})
}
