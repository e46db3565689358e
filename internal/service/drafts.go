package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/pkg/editor"
	"github.com/goliatone/go-formify/pkg/schema"
)

// Drafts keeps one autosaved editor session per user.
type Drafts struct {
	store storage.DraftStore
	cfg   config
}

// NewDrafts wires the service to a draft store.
func NewDrafts(store storage.DraftStore, opts ...Option) *Drafts {
	return &Drafts{store: store, cfg: newConfig(opts)}
}

// Get returns the draft of owner.
func (s *Drafts) Get(ctx context.Context, owner string) (schema.Draft, error) {
	owner, err := requireOwner(owner)
	if err != nil {
		return schema.Draft{}, err
	}
	draft, err := s.store.GetDraft(ctx, owner)
	if err != nil {
		return schema.Draft{}, translate("get draft", err)
	}
	return draft, nil
}

// Put replaces the draft of owner. The payload must restore into an editor
// session and is stored in its normalized form, so questions scoped to a
// missing step are dropped. The owner and timestamp in draft are overwritten.
func (s *Drafts) Put(ctx context.Context, owner string, draft schema.Draft) (schema.Draft, error) {
	owner, err := requireOwner(owner)
	if err != nil {
		return schema.Draft{}, err
	}
	if len(draft.Form) == 0 {
		return schema.Draft{}, invalid(MsgInvalidDraft, nil)
	}
	session, err := editor.RestoreSession(draft)
	if err != nil {
		return schema.Draft{}, invalid(MsgInvalidDraft, err)
	}

	normalized, err := session.Snapshot(owner)
	if err != nil {
		return schema.Draft{}, invalid(MsgInvalidDraft, err)
	}

	draft.Owner = owner
	draft.Form = normalized.Form
	draft.ActiveStepID = normalized.ActiveStepID
	draft.UpdatedAt = s.cfg.now().UTC()
	if err := s.store.PutDraft(ctx, draft); err != nil {
		return schema.Draft{}, translate("put draft", err)
	}
	s.cfg.logger.Debug("draft saved",
		zap.String("owner", owner),
		zap.Int("bytes", len(draft.Form)),
	)
	return draft, nil
}

// Delete discards the draft of owner. Deleting a missing draft is not an
// error.
func (s *Drafts) Delete(ctx context.Context, owner string) error {
	owner, err := requireOwner(owner)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDraft(ctx, owner); err != nil {
		return translate("delete draft", err)
	}
	return nil
}

func requireOwner(owner string) (string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", ErrUnauthenticated
	}
	return owner, nil
}
