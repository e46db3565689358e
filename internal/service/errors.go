package service

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/goliatone/go-formify/internal/storage"
)

var (
	// ErrNotFound is returned when the addressed form or draft does not exist.
	ErrNotFound = errors.New("service: not found")
	// ErrInvalidID is returned for form ids that are not 24 hex characters.
	ErrInvalidID = errors.New("service: invalid id")
	// ErrUnauthenticated is returned when an operation needs a user and none
	// was supplied.
	ErrUnauthenticated = errors.New("service: user required")
)

// Messages carried by validation errors. They are shown to API clients as is.
const (
	MsgTitleAndSteps       = "Title and at least one step are required"
	MsgAnswersRequired     = "Answers are required"
	MsgInvalidQuestionType = "Invalid question type"
	MsgInvalidDraft        = "Draft is not a valid form"
)

// ValidationError reports input the caller can fix. Message is safe to show
// to clients; Err holds the underlying cause when there is one.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "service: " + e.Message
	}
	return fmt.Sprintf("service: %s: %v", e.Message, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Detail returns the cause text, or "" when there is none.
func (e *ValidationError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func invalid(message string, err error) error {
	return &ValidationError{Message: message, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// checkID rejects ids that cannot name a stored form.
func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// translate maps storage sentinels onto the service taxonomy.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("service: %s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("service: %s: %w", op, err)
}
