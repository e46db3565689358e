package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/internal/storage/storagetest"
	"github.com/goliatone/go-formify/pkg/schema"
)

func TestStoreContract(t *testing.T) {
	storagetest.RunStoreContract(t, func(t *testing.T) storage.Store {
		return New()
	})
}

func TestDraftContract(t *testing.T) {
	storagetest.RunDraftContract(t, func(t *testing.T) storage.DraftStore {
		return NewDraftStore(time.Hour, nil)
	})
}

func TestCreateFormUsesClock(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	store := New(WithClock(func() time.Time { return at }))

	created, err := store.CreateForm(context.Background(), schema.Form{Title: "T"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.CreatedAt.Equal(at) {
		t.Fatalf("expected clock time, got %v", created.CreatedAt)
	}
}

func TestGetFormReturnsCopy(t *testing.T) {
	store := New()
	ctx := context.Background()
	created, _ := store.CreateForm(ctx, schema.Form{
		Title: "T",
		Steps: []schema.Step{{Title: "S", Questions: []schema.Question{{Type: "dropdown", Label: "L", Options: []string{"A"}}}}},
	})

	got, _ := store.GetForm(ctx, created.ID)
	got.Steps[0].Questions[0].Options[0] = "mutated"

	again, _ := store.GetForm(ctx, created.ID)
	if again.Steps[0].Questions[0].Options[0] != "A" {
		t.Fatalf("store shares option storage with callers")
	}
}

func TestDraftExpires(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	drafts := NewDraftStore(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	if err := drafts.PutDraft(ctx, schema.Draft{Owner: "u"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	now = now.Add(2 * time.Hour)
	if _, err := drafts.GetDraft(ctx, "u"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected expired draft to be missing, got %v", err)
	}
}
