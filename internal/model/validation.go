package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formify/pkg/schema"
)

var (
	ErrTitleMissing = errors.New("model: form title is required")
)

// ValidateForm checks a persisted form before it is stored: a non-blank title,
// at least one step, and a known label on every question.
func ValidateForm(form schema.Form) error {
	if strings.TrimSpace(form.Title) == "" {
		return ErrTitleMissing
	}
	if len(form.Steps) == 0 {
		return ErrNoSteps
	}
	for i, step := range form.Steps {
		for j, q := range step.Questions {
			if err := validateQuestion(q); err != nil {
				return fmt.Errorf("model: step %d question %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func validateQuestion(q schema.Question) error {
	_, err := TypeFromLabel(q.Type)
	return err
}
