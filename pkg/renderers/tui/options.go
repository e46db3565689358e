package tui

import "github.com/goliatone/go-formify/pkg/schema"

// OutputFormat controls how collected answers are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the answers as a JSON array.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits answers[<question id>] pairs, matching
	// the field names of the HTML renderer.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a "label: answer" summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the renderer applies to informational
// lines. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	HeaderPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// AnswerTransformer mutates collected answers before they are returned.
type AnswerTransformer func([]schema.Answer) ([]schema.Answer, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithAnswerTransformer lets callers adjust answers prior to serialization.
func WithAnswerTransformer(fn AnswerTransformer) Option {
	return func(r *Renderer) {
		r.transformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
