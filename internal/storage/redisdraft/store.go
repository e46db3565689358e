// Package redisdraft keeps autosaved editor drafts in Redis, one JSON blob
// per owner with a sliding TTL.
package redisdraft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/pkg/schema"
)

// DefaultTTL is used when New receives a non-positive ttl.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "formify:draft:"

// Store implements storage.DraftStore.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

var _ storage.DraftStore = (*Store)(nil)

// New wraps client. Every PutDraft refreshes the ttl.
func New(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl, now: time.Now}
}

// Dial connects to addr and pings it.
func Dial(ctx context.Context, addr string, ttl time.Duration) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisdraft: ping %s: %w", addr, err)
	}
	return New(client, ttl), nil
}

func (s *Store) GetDraft(ctx context.Context, owner string) (schema.Draft, error) {
	v, err := s.client.Get(ctx, draftKey(owner)).Result()
	if errors.Is(err, redis.Nil) {
		return schema.Draft{}, storage.ErrNotFound
	}
	if err != nil {
		return schema.Draft{}, fmt.Errorf("redisdraft: get: %w", err)
	}

	var draft schema.Draft
	if err := json.Unmarshal([]byte(v), &draft); err != nil {
		return schema.Draft{}, fmt.Errorf("redisdraft: decode: %w", err)
	}
	return draft, nil
}

func (s *Store) PutDraft(ctx context.Context, draft schema.Draft) error {
	if draft.UpdatedAt.IsZero() {
		draft.UpdatedAt = s.now().UTC()
	}
	b, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("redisdraft: encode: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(draft.Owner), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisdraft: set: %w", err)
	}
	return nil
}

func (s *Store) DeleteDraft(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, draftKey(owner)).Err(); err != nil {
		return fmt.Errorf("redisdraft: delete: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func draftKey(owner string) string {
	return keyPrefix + owner
}
