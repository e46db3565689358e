package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/internal/storage/storagetest"
	"github.com/goliatone/go-formify/pkg/schema"
)

func newStore(t *testing.T) storage.Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "data", "forms.json"))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreContract(t *testing.T) {
	storagetest.RunStoreContract(t, newStore)
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.json")
	ctx := context.Background()

	first := New(path)
	created, err := first.CreateForm(ctx, schema.Form{Title: "Persisted"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := New(path)
	defer second.Close()
	got, err := second.GetForm(ctx, created.ID)
	if err != nil {
		t.Fatalf("get from reopened store: %v", err)
	}
	if got.Title != "Persisted" || got.ID != created.ID {
		t.Fatalf("unexpected form: %+v", got)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestConcurrentWriters(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.CreateForm(ctx, schema.Form{Title: "Concurrent"}); err != nil {
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()

	count, err := store.CountForms(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 8 {
		t.Fatalf("expected 8 forms, got %d", count)
	}
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := New(path)
	defer store.Close()

	if _, err := store.ListForms(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSharedLockHeldUntilLastReader(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "forms.json"))
	defer store.Close()
	ctx := context.Background()

	releaseFirst, err := store.acquire(ctx, true)
	if err != nil {
		t.Fatalf("first reader: %v", err)
	}
	releaseSecond, err := store.acquire(ctx, true)
	if err != nil {
		t.Fatalf("second reader: %v", err)
	}
	if !store.lock.RLocked() || store.lock.Locked() {
		t.Fatalf("expected a shared lock only")
	}

	releaseFirst()
	if !store.lock.RLocked() {
		t.Fatalf("first reader released the lock still held by the second")
	}
	releaseSecond()
	if store.lock.RLocked() {
		t.Fatalf("expected lock released after the last reader")
	}

	releaseWriter, err := store.acquire(ctx, false)
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if !store.lock.Locked() {
		t.Fatalf("expected an exclusive lock")
	}
	releaseWriter()
}

func TestConcurrentReaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.json")
	store := New(path)
	defer store.Close()
	ctx := context.Background()

	created, err := store.CreateForm(ctx, schema.Form{Title: "Shared"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.GetForm(ctx, created.ID); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}
	wg.Wait()

	if store.readers != 0 || store.lock.RLocked() {
		t.Fatalf("lock still held after readers finished: readers=%d", store.readers)
	}
	if _, err := store.CreateSubmission(ctx, schema.Submission{FormID: created.ID}); err != nil {
		t.Fatalf("write after readers: %v", err)
	}
}
