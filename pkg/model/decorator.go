package model

import "strings"

// Decorator adjusts a form model right before it is serialized for saving.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// TrimText strips surrounding whitespace from the title, description, step
// titles, question text and options.
var TrimText = DecoratorFunc(func(form *FormModel) error {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	for i := range form.Steps {
		form.Steps[i].Title = strings.TrimSpace(form.Steps[i].Title)
	}
	for i := range form.Questions {
		q := &form.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		q.Placeholder = strings.TrimSpace(q.Placeholder)
		for j := range q.Options {
			q.Options[j] = strings.TrimSpace(q.Options[j])
		}
	}
	return nil
})
