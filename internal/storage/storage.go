// Package storage defines the persistence contracts of the form service.
// Backends live in the subpackages; all of them are safe for concurrent use.
package storage

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/goliatone/go-formify/pkg/schema"
)

// ErrNotFound is returned when a form, submission or draft does not exist.
var ErrNotFound = errors.New("storage: not found")

// FormStore persists form documents.
type FormStore interface {
	// CreateForm stores form. An empty ID is assigned a fresh ObjectID hex;
	// a zero CreatedAt is set to the current time.
	CreateForm(ctx context.Context, form schema.Form) (schema.Form, error)
	GetForm(ctx context.Context, id string) (schema.Form, error)
	// ListForms returns every form, newest first.
	ListForms(ctx context.Context) ([]schema.Form, error)
	// DeleteForm removes the form and every submission made for it.
	DeleteForm(ctx context.Context, id string) error
	CountForms(ctx context.Context) (int, error)
}

// SubmissionStore persists respondents' answers.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub schema.Submission) (schema.Submission, error)
	// ListSubmissions returns the submissions of one form, newest first.
	ListSubmissions(ctx context.Context, formID string) ([]schema.Submission, error)
	CountSubmissions(ctx context.Context) (int, error)
}

// Store groups the form and submission contracts a backend provides.
type Store interface {
	FormStore
	SubmissionStore
	Close() error
}

// DraftStore keeps one autosaved editor draft per owner.
type DraftStore interface {
	GetDraft(ctx context.Context, owner string) (schema.Draft, error)
	PutDraft(ctx context.Context, draft schema.Draft) error
	DeleteDraft(ctx context.Context, owner string) error
}

// NewID returns a fresh document id in ObjectID hex form, the format the
// API accepts for form ids.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// SortFormsNewestFirst orders forms by creation time, newest first. Ties
// keep their input order.
func SortFormsNewestFirst(forms []schema.Form) {
	sort.SliceStable(forms, func(i, j int) bool {
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})
}

// SortSubmissionsNewestFirst orders submissions by submission time, newest
// first.
func SortSubmissionsNewestFirst(subs []schema.Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
	})
}
