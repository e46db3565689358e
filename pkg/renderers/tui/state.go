package tui

import "strings"

// State tracks answers and server-provided errors keyed by question id. It
// survives step navigation so revisiting a step offers earlier answers as
// defaults.
type State struct {
	values map[string]any
	errors map[string][]string
}

// NewState seeds the state with prefilled values and errors.
func NewState(prefill map[string]any, errs map[string][]string) *State {
	return &State{
		values: cloneValues(prefill),
		errors: cloneErrors(errs),
	}
}

// Value returns the raw answer recorded for a question.
func (s *State) Value(id string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[id]
	return v, ok
}

// Text returns the answer for a text question.
func (s *State) Text(id string) string {
	v, _ := s.Value(id)
	switch typed := v.(type) {
	case string:
		return typed
	case []string:
		return strings.Join(typed, ", ")
	default:
		return ""
	}
}

// Choices returns the answer for a choice question as a list.
func (s *State) Choices(id string) []string {
	v, _ := s.Value(id)
	switch typed := v.(type) {
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if text, ok := item.(string); ok {
				out = append(out, text)
			}
		}
		return out
	default:
		return nil
	}
}

// Set records an answer. Blank answers clear the entry.
func (s *State) Set(id string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	switch typed := value.(type) {
	case string:
		if strings.TrimSpace(typed) == "" {
			delete(s.values, id)
			return
		}
	case []string:
		if len(typed) == 0 {
			delete(s.values, id)
			return
		}
	}
	s.values[id] = value
	// A fresh answer supersedes errors reported for the previous one.
	delete(s.errors, id)
}

// ErrorsFor returns the errors attached to a question.
func (s *State) ErrorsFor(id string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[id]
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		out[k] = v
	}
	return out
}

func cloneErrors(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}
