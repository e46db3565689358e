package render

// RenderOptions carry per-request data that renderers use to customise their
// output without touching the projected view.
type RenderOptions struct {
	// Action is the URL the rendered form posts answers to.
	Action string
	// Values pre-populates controls keyed by question id. Checkbox values are
	// []string, everything else a string.
	Values map[string]any
	// Errors surfaces validation feedback keyed by question id. Entries that
	// match no question are shown as form-level errors.
	Errors map[string][]string
	// Hidden fields emitted with the form (form id, step id, tokens).
	Hidden map[string]string
	// PreviousURL and NextURL turn step navigation into links. Without them
	// the navigation controls are inert buttons; only the last step submits.
	PreviousURL string
	NextURL     string
	// Theme and Variant select the token set used for styling.
	Theme   string
	Variant string
	// Locale and Translator localize the preview chrome. OnMissing decides
	// what is shown when a key has no translation.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}
