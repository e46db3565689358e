// Package schema defines the persisted shapes exchanged with the form service:
// forms as nested steps with their own question lists, submissions, drafts and
// listing summaries. These are the wire and storage documents; the editable
// representation lives in pkg/model.
package schema

import (
	"encoding/json"
	"time"
)

// DefaultCreator is recorded when a form is saved without an identity.
const DefaultCreator = "anonymous"

// Question is a persisted question. Type carries the external label
// (shortAnswer, multipleChoice, ...), not the editor enumeration.
type Question struct {
	Type        string   `json:"type" bson:"type" yaml:"type"`
	Label       string   `json:"label" bson:"label" yaml:"label"`
	Options     []string `json:"options" bson:"options" yaml:"options,omitempty"`
	Required    bool     `json:"required" bson:"required" yaml:"required,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" bson:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Step groups the questions shown on one page.
type Step struct {
	Title     string     `json:"title" bson:"title" yaml:"title"`
	Questions []Question `json:"questions" bson:"questions" yaml:"questions"`
}

// Form is the persisted, denormalised form document.
type Form struct {
	ID          string    `json:"id,omitempty" bson:"-" yaml:"id,omitempty"`
	Title       string    `json:"title" bson:"title" yaml:"title"`
	Description string    `json:"description" bson:"description" yaml:"description,omitempty"`
	Steps       []Step    `json:"steps" bson:"steps" yaml:"steps"`
	CreatedBy   string    `json:"createdBy" bson:"createdBy" yaml:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" yaml:"createdAt,omitempty"`
}

// QuestionCount totals the questions across every step.
func (f Form) QuestionCount() int {
	total := 0
	for _, step := range f.Steps {
		total += len(step.Questions)
	}
	return total
}

// Summary returns the listing projection of the form.
func (f Form) Summary() Summary {
	return Summary{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
	}
}

// Created is returned when a form is stored.
type Created struct {
	FormID       string `json:"formId"`
	SharableLink string `json:"sharableLink"`
	Form         Form   `json:"form"`
}

// Summary is the trimmed representation used by form listings.
type Summary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Answer pairs a question label with the respondent's value. Answer holds
// whatever JSON value the client sent (string, list of strings, ...).
type Answer struct {
	Question string `json:"question" bson:"question"`
	Answer   any    `json:"answer" bson:"answer"`
}

// Submission is one respondent's set of answers for a form.
type Submission struct {
	ID          string    `json:"id,omitempty" bson:"-"`
	FormID      string    `json:"formId" bson:"-"`
	Answers     []Answer  `json:"answers" bson:"answers"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
}

// FormRef is the short form header returned alongside submissions.
type FormRef struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SubmissionReport is the payload of the submissions listing.
type SubmissionReport struct {
	Form        FormRef      `json:"form"`
	Submissions []Submission `json:"submissions"`
	Count       int          `json:"count"`
}

// Stats feeds the admin dashboard counters.
type Stats struct {
	TotalForms       int `json:"totalForms"`
	TotalSubmissions int `json:"totalSubmissions"`
}

// Draft is an autosaved editor session. Form holds the flat editor model as
// raw JSON so storage backends stay independent of pkg/model.
type Draft struct {
	Owner        string          `json:"owner"`
	ActiveStepID string          `json:"activeStepId"`
	Form         json.RawMessage `json:"form"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
