package model

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator synthesizes identifiers for new steps and questions.
type IDGenerator interface {
	NewStepID() string
	NewQuestionID() string
}

// UUIDs generates random, prefixed identifiers.
type UUIDs struct{}

// NewStepID implements IDGenerator.
func (UUIDs) NewStepID() string { return "step-" + uuid.NewString() }

// NewQuestionID implements IDGenerator.
func (UUIDs) NewQuestionID() string { return "question-" + uuid.NewString() }

// SequenceIDs hands out monotonically increasing identifiers. Step ids start
// after DefaultStepID so a fresh model never collides with its seed step.
type SequenceIDs struct {
	mu        sync.Mutex
	steps     int
	questions int
}

// NewSequenceIDs returns a generator whose first step id is "step-2".
func NewSequenceIDs() *SequenceIDs {
	return &SequenceIDs{steps: 1}
}

// NewStepID implements IDGenerator.
func (s *SequenceIDs) NewStepID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps++
	return "step-" + strconv.Itoa(s.steps)
}

// NewQuestionID implements IDGenerator.
func (s *SequenceIDs) NewQuestionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions++
	return "question-" + strconv.Itoa(s.questions)
}

// Observe advances the counters past ids already present in form so that
// resumed sessions keep generating unique values.
func (s *SequenceIDs) Observe(form *FormModel) {
	if form == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, step := range form.Steps {
		if n, ok := sequenceNumber(step.ID, "step-"); ok && n > s.steps {
			s.steps = n
		}
	}
	for _, q := range form.Questions {
		if n, ok := sequenceNumber(q.ID, "question-"); ok && n > s.questions {
			s.questions = n
		}
	}
}

func sequenceNumber(id, prefix string) (int, bool) {
	if len(id) <= len(prefix) || id[:len(prefix)] != prefix {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(prefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}
