package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formify/pkg/preview"
)

// ErrorMapping splits an error payload into per-question and form-level
// messages.
type ErrorMapping struct {
	Questions map[string][]string
	Form      []string
}

// MergeFormErrors concatenates and normalises form-level messages, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload attaches server messages to the questions of view. Keys may
// be a question id, a question label (case-insensitive) or a path such as
// "answers.2" or "/answers/2" holding the zero-based position within the
// step. Anything else becomes a form-level message.
func MapErrorPayload(view preview.View, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Questions: make(map[string][]string),
	}

	for key, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		id, ok := matchQuestion(view, key)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Questions[id] = normalizeMessages(append(mapping.Questions[id], normalized...))
	}

	if len(mapping.Questions) == 0 {
		mapping.Questions = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func matchQuestion(view preview.View, key string) (string, bool) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", false
	}
	for _, q := range view.Questions {
		if q.ID == trimmed || strings.EqualFold(q.Label, trimmed) {
			return q.ID, true
		}
	}

	segments := strings.FieldsFunc(strings.TrimPrefix(trimmed, "$"), func(r rune) bool {
		return r == '.' || r == '/' || r == '[' || r == ']'
	})
	if len(segments) != 2 || segments[0] != "answers" {
		return "", false
	}
	for i, q := range view.Questions {
		if segments[1] == strconv.Itoa(i) {
			return q.ID, true
		}
	}
	return "", false
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
