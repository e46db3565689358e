package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formify/internal/storage/memory"
	"github.com/goliatone/go-formify/pkg/editor"
	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/schema"
)

func TestDrafts_RoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewDrafts(memory.NewDraftStore(0, nil), WithClock(func() time.Time { return at }))
	ctx := context.Background()

	session := editor.NewSession(editor.WithIDs(model.NewSequenceIDs()))
	session.SetTitle("Draft form")
	second := session.Steps.AddStep()
	snapshot, err := session.Snapshot("someone-else")
	require.NoError(t, err)

	saved, err := svc.Put(ctx, "user-1", snapshot)
	require.NoError(t, err)
	assert.Equal(t, "user-1", saved.Owner)
	assert.Equal(t, second.ID, saved.ActiveStepID)
	assert.True(t, saved.UpdatedAt.Equal(at))

	got, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.JSONEq(t, string(snapshot.Form), string(got.Form))

	restored, err := editor.RestoreSession(got)
	require.NoError(t, err)
	assert.Equal(t, "Draft form", restored.Form.Title)
	assert.Equal(t, second.ID, restored.Steps.ActiveStepID())

	require.NoError(t, svc.Delete(ctx, "user-1"))
	_, err = svc.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "user-1"))
}

func TestDrafts_RequiresOwner(t *testing.T) {
	svc := NewDrafts(memory.NewDraftStore(0, nil))
	ctx := context.Background()

	_, err := svc.Get(ctx, " ")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Put(ctx, "", schema.Draft{Form: []byte(`{}`)})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, svc.Delete(ctx, ""), ErrUnauthenticated)
}

func TestDrafts_RejectsInvalidPayload(t *testing.T) {
	svc := NewDrafts(memory.NewDraftStore(0, nil))
	ctx := context.Background()

	for _, payload := range []string{"", "[1,2", `"text"`} {
		_, err := svc.Put(ctx, "user-1", schema.Draft{Form: []byte(payload)})
		require.Error(t, err, payload)
		assert.True(t, IsValidation(err), payload)
	}
}

func TestDrafts_ValidatesQuestions(t *testing.T) {
	svc := NewDrafts(memory.NewDraftStore(0, nil))
	ctx := context.Background()

	_, err := svc.Put(ctx, "user-1", schema.Draft{Form: []byte(`{
		"title": "Survey",
		"steps": [{"id": "step-1", "title": "Step 1"}],
		"questions": [{"id": "question-1", "text": "Mood", "type": "rating", "stepId": "step-1"}]
	}`)})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, model.ErrUnknownType)

	saved, err := svc.Put(ctx, "user-1", schema.Draft{Form: []byte(`{
		"title": "Survey",
		"steps": [{"id": "step-1", "title": "Step 1"}],
		"questions": [
			{"id": "question-1", "text": "Name", "type": "shortAnswer", "stepId": "step-1"},
			{"id": "question-2", "text": "Lost", "type": "shortAnswer", "stepId": "step-9"}
		]
	}`)})
	require.NoError(t, err)

	restored, err := editor.RestoreSession(saved)
	require.NoError(t, err)
	require.Len(t, restored.Form.Questions, 1)
	assert.Equal(t, "question-1", restored.Form.Questions[0].ID)
	assert.NotContains(t, string(saved.Form), "question-2")
}
