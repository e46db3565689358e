package vanilla

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/render"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	richPolicyOnce sync.Once
	richPolicy     *bluemonday.Policy
)

// plainText strips every tag from author-supplied text and escapes the rest,
// so the result can be emitted unescaped in both element and attribute
// positions.
func plainText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(raw))
}

// richText keeps basic inline formatting and links in form descriptions.
func richText(raw string) string {
	richPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "br", "p", "ul", "ol", "li")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		richPolicy = policy
	})
	return strings.TrimSpace(richPolicy.Sanitize(raw))
}

// controlFor maps a question type onto the HTML control used to answer it.
func controlFor(t model.QuestionType) string {
	switch t {
	case model.QuestionTypeParagraph:
		return "textarea"
	case model.QuestionTypeMultiple:
		return "radio"
	case model.QuestionTypeCheckbox:
		return "checkbox"
	case model.QuestionTypeDropdown:
		return "select"
	default:
		return "input"
	}
}

func controlID(questionID string) string {
	return "formify-" + strings.TrimSpace(questionID)
}

// fieldName is the form field carrying the answer to questionID.
func fieldName(questionID string) string {
	return render.AnswerField(questionID)
}

// textValue renders a prefilled value for a single-value control.
func textValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// selectedValues returns the set of prefilled choices.
func selectedValues(value any) map[string]bool {
	out := map[string]bool{}
	switch v := value.(type) {
	case string:
		out[v] = true
	case []string:
		for _, item := range v {
			out[item] = true
		}
	case []any:
		for _, item := range v {
			out[fmt.Sprint(item)] = true
		}
	}
	return out
}
