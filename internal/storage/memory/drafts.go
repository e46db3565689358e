package memory

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/pkg/schema"
)

// DraftStore keeps drafts in memory. Entries older than the TTL are treated
// as missing, mirroring the redis backend.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]schema.Draft
	ttl    time.Duration
	now    func() time.Time
}

var _ storage.DraftStore = (*DraftStore)(nil)

// NewDraftStore creates a draft store. A ttl of zero keeps drafts forever; a
// nil now uses time.Now.
func NewDraftStore(ttl time.Duration, now func() time.Time) *DraftStore {
	if now == nil {
		now = time.Now
	}
	return &DraftStore{
		drafts: make(map[string]schema.Draft),
		ttl:    ttl,
		now:    now,
	}
}

func (d *DraftStore) GetDraft(_ context.Context, owner string) (schema.Draft, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	draft, ok := d.drafts[owner]
	if !ok {
		return schema.Draft{}, storage.ErrNotFound
	}
	if d.ttl > 0 && d.now().Sub(draft.UpdatedAt) > d.ttl {
		delete(d.drafts, owner)
		return schema.Draft{}, storage.ErrNotFound
	}
	draft.Form = append([]byte(nil), draft.Form...)
	return draft, nil
}

func (d *DraftStore) PutDraft(_ context.Context, draft schema.Draft) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if draft.UpdatedAt.IsZero() {
		draft.UpdatedAt = d.now().UTC()
	}
	draft.Form = append([]byte(nil), draft.Form...)
	d.drafts[draft.Owner] = draft
	return nil
}

func (d *DraftStore) DeleteDraft(_ context.Context, owner string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.drafts, owner)
	return nil
}
