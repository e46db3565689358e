package model

import (
	"fmt"

	"github.com/goliatone/go-formify/pkg/schema"
)

// Serialize projects the model onto the persisted shape: questions are grouped
// under their step in step order, types are mapped to external labels, and
// empty steps are kept with an empty question list. Questions pointing at a
// step that no longer exists are not emitted.
func (f *FormModel) Serialize(createdBy string) schema.Form {
	out := schema.Form{
		Title:       f.Title,
		Description: f.Description,
		Steps:       make([]schema.Step, 0, len(f.Steps)),
		CreatedBy:   createdBy,
	}

	grouped := make(map[string][]schema.Question, len(f.Steps))
	for _, q := range f.Questions {
		grouped[q.StepID] = append(grouped[q.StepID], serializeQuestion(q))
	}

	for _, step := range f.Steps {
		questions := grouped[step.ID]
		if questions == nil {
			questions = []schema.Question{}
		}
		out.Steps = append(out.Steps, schema.Step{
			Title:     step.Title,
			Questions: questions,
		})
	}
	return out
}

func serializeQuestion(q Question) schema.Question {
	options := []string{}
	if q.Type.HasOptions() && q.Options != nil {
		options = append(options, q.Options...)
	}
	return schema.Question{
		Type:        q.Type.Label(),
		Label:       q.Text,
		Options:     options,
		Required:    q.Required,
		Placeholder: q.Placeholder,
	}
}

// Flatten is the inverse of Serialize. Steps and questions receive fresh ids
// (the first step always gets DefaultStepID); options survive only for
// option-bearing types. A persisted form without steps yields one default
// step so the editor invariant holds.
func Flatten(form schema.Form, ids IDGenerator) (*FormModel, error) {
	if ids == nil {
		ids = UUIDs{}
	}

	out := &FormModel{
		Title:       form.Title,
		Description: form.Description,
		Steps:       make([]Step, 0, len(form.Steps)),
		Questions:   []Question{},
	}

	for i, step := range form.Steps {
		stepID := DefaultStepID
		if i > 0 {
			stepID = ids.NewStepID()
		}
		out.Steps = append(out.Steps, Step{ID: stepID, Title: step.Title})

		for j, pq := range step.Questions {
			t, err := TypeFromLabel(pq.Type)
			if err != nil {
				return nil, fmt.Errorf("model: flatten step %d question %d: %w", i, j, err)
			}
			q := Question{
				ID:          ids.NewQuestionID(),
				Text:        pq.Label,
				Type:        t,
				Required:    pq.Required,
				Placeholder: pq.Placeholder,
				StepID:      stepID,
			}
			if t.HasOptions() {
				q.Options = append([]string{}, pq.Options...)
			}
			out.Questions = append(out.Questions, q)
		}
	}

	if len(out.Steps) == 0 {
		out.Steps = []Step{{ID: DefaultStepID, Title: DefaultStepTitle(1)}}
	}
	return out, nil
}
