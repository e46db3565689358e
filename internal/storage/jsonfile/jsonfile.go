// Package jsonfile stores forms and submissions in a single JSON document on
// disk. A gofrs/flock lock file serialises writers across processes; an
// in-process RWMutex serialises goroutines. Concurrent readers share one
// shared file lock, released by the last of them.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/pkg/schema"
)

const (
	fileVersion   = "1.0"
	lockTimeout   = 3 * time.Second
	lockRetryWait = 100 * time.Millisecond
)

// Store implements storage.Store over a JSON file.
type Store struct {
	path string
	lock *flock.Flock
	mu   sync.RWMutex
	now  func() time.Time

	lockMu  sync.Mutex
	readers int
}

var _ storage.Store = (*Store)(nil)

type storeData struct {
	Forms       []formRecord       `json:"forms"`
	Submissions []submissionRecord `json:"submissions"`
	Metadata    metadata           `json:"metadata"`
}

// formRecord keeps the id, which schema.Form omits when empty.
type formRecord struct {
	ID string `json:"id"`
	schema.Form
}

type submissionRecord struct {
	ID     string `json:"id"`
	FormID string `json:"formId"`
	schema.Submission
}

type metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New opens (or lazily creates) the store at path. Parent directories are
// created on first access.
func New(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  time.Now,
	}
}

func (s *Store) CreateForm(ctx context.Context, form schema.Form) (schema.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if form.ID == "" {
		form.ID = storage.NewID()
	}
	if form.CreatedAt.IsZero() {
		form.CreatedAt = s.now().UTC()
	}

	err := s.update(ctx, func(data *storeData) error {
		data.Forms = append(data.Forms, formRecord{ID: form.ID, Form: form})
		return nil
	})
	if err != nil {
		return schema.Form{}, err
	}
	return form, nil
}

func (s *Store) GetForm(ctx context.Context, id string) (schema.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read(ctx)
	if err != nil {
		return schema.Form{}, err
	}
	for _, rec := range data.Forms {
		if rec.ID == id {
			return rec.form(), nil
		}
	}
	return schema.Form{}, storage.ErrNotFound
}

func (s *Store) ListForms(ctx context.Context) ([]schema.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]schema.Form, 0, len(data.Forms))
	for i := len(data.Forms) - 1; i >= 0; i-- {
		out = append(out, data.Forms[i].form())
	}
	storage.SortFormsNewestFirst(out)
	return out, nil
}

func (s *Store) DeleteForm(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(ctx, func(data *storeData) error {
		kept := data.Forms[:0]
		found := false
		for _, rec := range data.Forms {
			if rec.ID == id {
				found = true
				continue
			}
			kept = append(kept, rec)
		}
		if !found {
			return storage.ErrNotFound
		}
		data.Forms = kept

		subs := data.Submissions[:0]
		for _, rec := range data.Submissions {
			if rec.FormID != id {
				subs = append(subs, rec)
			}
		}
		data.Submissions = subs
		return nil
	})
}

func (s *Store) CountForms(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	return len(data.Forms), nil
}

func (s *Store) CreateSubmission(ctx context.Context, sub schema.Submission) (schema.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.ID == "" {
		sub.ID = storage.NewID()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now().UTC()
	}

	err := s.update(ctx, func(data *storeData) error {
		for _, rec := range data.Forms {
			if rec.ID == sub.FormID {
				data.Submissions = append(data.Submissions, submissionRecord{ID: sub.ID, FormID: sub.FormID, Submission: sub})
				return nil
			}
		}
		return storage.ErrNotFound
	})
	if err != nil {
		return schema.Submission{}, err
	}
	return sub, nil
}

func (s *Store) ListSubmissions(ctx context.Context, formID string) ([]schema.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	out := []schema.Submission{}
	for i := len(data.Submissions) - 1; i >= 0; i-- {
		if rec := data.Submissions[i]; rec.FormID == formID {
			out = append(out, rec.submission())
		}
	}
	storage.SortSubmissionsNewestFirst(out)
	return out, nil
}

func (s *Store) CountSubmissions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	return len(data.Submissions), nil
}

// Close removes the lock file.
func (s *Store) Close() error {
	if err := s.lock.Close(); err != nil {
		return err
	}
	if err := os.Remove(s.path + ".lock"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (r formRecord) form() schema.Form {
	f := r.Form
	f.ID = r.ID
	return f
}

func (r submissionRecord) submission() schema.Submission {
	sub := r.Submission
	sub.ID = r.ID
	sub.FormID = r.FormID
	return sub
}

// acquire takes the file lock: shared for readers, exclusive for writers.
// The shared lock is taken by the first reader and released by the last.
func (s *Store) acquire(ctx context.Context, shared bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: create directory: %w", err)
	}
	if shared {
		s.lockMu.Lock()
		defer s.lockMu.Unlock()
		if s.readers > 0 {
			s.readers++
			return s.releaseShared, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	try := s.lock.TryLockContext
	if shared {
		try = s.lock.TryRLockContext
	}
	locked, err := try(ctx, lockRetryWait)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: acquire lock: %w", err)
	}
	if !locked {
		return nil, errors.New("jsonfile: could not acquire file lock")
	}
	if !shared {
		return func() { _ = s.lock.Unlock() }, nil
	}
	s.readers = 1
	return s.releaseShared, nil
}

func (s *Store) releaseShared() {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	s.readers--
	if s.readers == 0 {
		_ = s.lock.Unlock()
	}
}

func (s *Store) read(ctx context.Context) (*storeData, error) {
	release, err := s.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.load()
}

// update runs fn against the current file contents and writes the result
// back while holding the file lock. Nothing is written when fn fails.
func (s *Store) update(ctx context.Context, fn func(*storeData) error) error {
	release, err := s.acquire(ctx, false)
	if err != nil {
		return err
	}
	defer release()

	data, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return err
	}
	data.Metadata.UpdatedAt = s.now().UTC()
	return s.save(data)
}

func (s *Store) load() (*storeData, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(raw) == 0) {
		now := s.now().UTC()
		return &storeData{
			Forms:       []formRecord{},
			Submissions: []submissionRecord{},
			Metadata:    metadata{Version: fileVersion, CreatedAt: now, UpdatedAt: now},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %s: %w", s.path, err)
	}

	var data storeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("jsonfile: parse %s: %w", s.path, err)
	}
	return &data, nil
}

func (s *Store) save(data *storeData) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return fmt.Errorf("jsonfile: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("jsonfile: rename: %w", err)
	}
	return nil
}
