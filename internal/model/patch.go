package model

// QuestionPatch is a merge-patch over a Question: nil fields are left alone.
type QuestionPatch struct {
	Text        *string       `json:"text,omitempty"`
	Type        *QuestionType `json:"type,omitempty"`
	Required    *bool         `json:"required,omitempty"`
	Placeholder *string       `json:"placeholder,omitempty"`
	Options     *[]string     `json:"options,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p QuestionPatch) Empty() bool {
	return p.Text == nil && p.Type == nil && p.Required == nil && p.Placeholder == nil && p.Options == nil
}

// ApplyPatch returns q with patch merged in. A type change runs first and
// applies the options invariant; the remaining fields are merged afterwards.
// Options supplied for a type without options are discarded.
func ApplyPatch(q Question, patch QuestionPatch) Question {
	out := q.Clone()

	if patch.Type != nil {
		out = ChangeType(out, *patch.Type)
	}
	if patch.Text != nil {
		out.Text = *patch.Text
	}
	if patch.Required != nil {
		out.Required = *patch.Required
	}
	if patch.Placeholder != nil {
		out.Placeholder = *patch.Placeholder
	}
	if patch.Options != nil && out.Type.HasOptions() {
		out.Options = append([]string{}, (*patch.Options)...)
	}
	return out
}

// ChangeType switches q to t: leaving an option-bearing type clears the
// options, entering one seeds DefaultOption when the list is absent.
func ChangeType(q Question, t QuestionType) Question {
	out := q.Clone()
	out.Type = t
	return enforceOptions(out)
}

func enforceOptions(q Question) Question {
	if !q.Type.HasOptions() {
		q.Options = nil
		return q
	}
	if q.Options == nil {
		q.Options = []string{DefaultOption}
	}
	return q
}

// String is a convenience for building patches.
func String(v string) *string { return &v }

// Bool is a convenience for building patches.
func Bool(v bool) *bool { return &v }

// Type is a convenience for building patches.
func Type(v QuestionType) *QuestionType { return &v }

// Options is a convenience for building patches.
func Options(v ...string) *[]string {
	out := append([]string{}, v...)
	return &out
}
