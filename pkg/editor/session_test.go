package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSaver struct {
	mu      sync.Mutex
	forms   []schema.Form
	release chan struct{}
	err     error
}

func (r *recordingSaver) SaveForm(ctx context.Context, form schema.Form) (schema.Created, error) {
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return schema.Created{}, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms = append(r.forms, form)
	if r.err != nil {
		return schema.Created{}, r.err
	}
	return schema.Created{FormID: "65a1b2c3d4e5f60718293a4b", Form: form}, nil
}

func (r *recordingSaver) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

func TestSaveRequiresTitle(t *testing.T) {
	s := newTestSession()
	s.SetTitle("   ")
	saver := &recordingSaver{}

	result := <-s.Save(context.Background(), saver)

	if !errors.Is(result.Err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", result.Err)
	}
	if saver.calls() != 0 {
		t.Fatalf("expected nothing sent, got %d calls", saver.calls())
	}
}

func TestSaveSendsSnapshot(t *testing.T) {
	s := NewSession(WithIDs(model.NewSequenceIDs()), WithCreator("ada"), WithDecorators(model.TrimText))
	s.SetTitle("  Feedback ")
	q := s.Questions.AddQuestion()
	saver := &recordingSaver{release: make(chan struct{})}

	pending := s.Save(context.Background(), saver)

	// edits while the save is in flight are allowed and not included
	if _, err := s.Questions.UpdateQuestion(q.ID, model.QuestionPatch{Text: model.String("Later")}); err != nil {
		t.Fatalf("update during save: %v", err)
	}
	close(saver.release)
	result := <-pending
	if result.Err != nil {
		t.Fatalf("save: %v", result.Err)
	}

	want := schema.Form{
		Title:     "Feedback",
		CreatedBy: "ada",
		Steps: []schema.Step{{
			Title:     "Step 1",
			Questions: []schema.Question{{Type: "shortAnswer", Options: []string{}}},
		}},
	}
	if diff := cmp.Diff(want, result.Created.Form); diff != "" {
		t.Fatalf("saved form mismatch (-want +got):\n%s", diff)
	}
	if s.Form.Title != "  Feedback " {
		t.Fatalf("decorators must not touch the live form, got %q", s.Form.Title)
	}
	if _, open := <-pending; open {
		t.Fatalf("expected result channel to be closed")
	}
}

func TestSaveFailureKeepsLocalState(t *testing.T) {
	s := newTestSession()
	s.SetTitle("Feedback")
	s.Questions.AddQuestion()
	before := s.Form.Clone()

	result := <-s.Save(context.Background(), &recordingSaver{err: errors.New("boom")})

	if result.Err == nil {
		t.Fatalf("expected save error")
	}
	if diff := cmp.Diff(before, s.Form); diff != "" {
		t.Fatalf("form changed after failed save (-want +got):\n%s", diff)
	}
}

func TestConcurrentSavesAreIndependent(t *testing.T) {
	s := newTestSession()
	s.SetTitle("Feedback")
	saver := &recordingSaver{}

	first := s.Save(context.Background(), saver)
	s.SetTitle("Feedback v2")
	second := s.Save(context.Background(), saver)

	a, b := <-first, <-second
	if a.Err != nil || b.Err != nil {
		t.Fatalf("unexpected errors: %v %v", a.Err, b.Err)
	}
	if a.Created.Form.Title != "Feedback" || b.Created.Form.Title != "Feedback v2" {
		t.Fatalf("saves did not capture their own snapshot: %q %q", a.Created.Form.Title, b.Created.Form.Title)
	}
	if saver.calls() != 2 {
		t.Fatalf("expected two requests, got %d", saver.calls())
	}
}

func TestSaveHonoursContext(t *testing.T) {
	s := newTestSession()
	s.SetTitle("Feedback")
	ctx, cancel := context.WithCancel(context.Background())

	pending := s.Save(ctx, &recordingSaver{release: make(chan struct{})})
	cancel()

	if result := <-pending; !errors.Is(result.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", result.Err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := newTestSession()
	s.SetTitle("Draft")
	s.Questions.AddQuestion()
	s.Steps.AddStep()
	s.Questions.AddQuestion()

	draft, err := s.Snapshot("user-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if draft.Owner != "user-1" || draft.ActiveStepID != "step-2" {
		t.Fatalf("unexpected draft header: %+v", draft)
	}

	restored, err := RestoreSession(draft, WithIDs(model.NewSequenceIDs()))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if diff := cmp.Diff(s.Form, restored.Form); diff != "" {
		t.Fatalf("restored form mismatch (-want +got):\n%s", diff)
	}
	if restored.Steps.ActiveStepID() != "step-2" {
		t.Fatalf("active step not restored: %q", restored.Steps.ActiveStepID())
	}
	if q := restored.Questions.AddQuestion(); q.ID != "question-3" {
		t.Fatalf("expected ids to continue after restore, got %q", q.ID)
	}
}

func TestRestoreSessionValidatesQuestions(t *testing.T) {
	bad := schema.Draft{Form: []byte(`{"steps":[{"id":"step-1","title":"Step 1"}],` +
		`"questions":[{"id":"question-1","text":"Mood","type":"rating","stepId":"step-1"}]}`)}
	if _, err := RestoreSession(bad); !errors.Is(err, model.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}

	orphan := schema.Draft{Form: []byte(`{"steps":[{"id":"step-1","title":"Step 1"}],` +
		`"questions":[{"id":"question-1","text":"Lost","type":"shortAnswer","stepId":"step-4"}]}`)}
	restored, err := RestoreSession(orphan)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(restored.Form.Questions) != 0 {
		t.Fatalf("expected orphaned question dropped, got %#v", restored.Form.Questions)
	}
}

func TestOpenSessionFlattens(t *testing.T) {
	form := schema.Form{
		Title: "Opened",
		Steps: []schema.Step{{Title: "Only", Questions: []schema.Question{{Type: "dropdown", Label: "Pick", Options: []string{"A"}}}}},
	}
	s, err := OpenSession(form, WithIDs(model.NewSequenceIDs()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Steps.ActiveStepID() != model.DefaultStepID {
		t.Fatalf("expected first step active, got %q", s.Steps.ActiveStepID())
	}
	if got := s.Preview().Questions[0].Label; got != "Pick" {
		t.Fatalf("preview label: got %q", got)
	}

	if _, err := OpenSession(schema.Form{Steps: []schema.Step{{Questions: []schema.Question{{Type: "bogus"}}}}}); !errors.Is(err, model.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
