package vanilla

// ChromeClass is a semantic CSS class emitted around the questions.
type ChromeClass string

const (
	ClassForm     ChromeClass = "formify-form"
	ClassHeader   ChromeClass = "formify-header"
	ClassQuestion ChromeClass = "formify-question"
	ClassActions  ChromeClass = "formify-actions"
	ClassErrors   ChromeClass = "formify-errors"
)

func defaultClasses() map[string]string {
	return map[string]string{
		"form":     string(ClassForm),
		"header":   string(ClassHeader),
		"question": string(ClassQuestion),
		"actions":  string(ClassActions),
		"errors":   string(ClassErrors),
	}
}
