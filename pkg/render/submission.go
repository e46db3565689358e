package render

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Hidden field names emitted with every rendered step.
const (
	HiddenFormID = "formId"
	HiddenStepID = "stepId"
)

// AnswerField returns the input name renderers use for questionID.
func AnswerField(questionID string) string {
	return "answers[" + questionID + "]"
}

// AnswerFields collects the values posted under answers[<question id>] names,
// keyed by question id. Other fields and empty ids are ignored.
func AnswerFields(values url.Values) map[string][]string {
	out := map[string][]string{}
	for name, vals := range values {
		if !strings.HasPrefix(name, "answers[") || !strings.HasSuffix(name, "]") {
			continue
		}
		id := strings.TrimSpace(name[len("answers[") : len(name)-1])
		if id == "" {
			continue
		}
		out[id] = append(out[id], vals...)
	}
	return out
}

// HiddenField is a hidden input emitted alongside the visible questions.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names
// are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders hidden fields by name for deterministic output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	return out
}
