package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formify/pkg/preview"
)

// Translation keys for the preview chrome.
const (
	KeyUntitledForm      = "preview.untitled_form"
	KeyUntitledQuestion  = "preview.untitled_question"
	KeyAnswerPlaceholder = "preview.answer_placeholder"
	KeySelectPlaceholder = "preview.select_placeholder"
	KeyEmpty             = "preview.empty"
	KeyNext              = "preview.next"
	KeySubmit            = "preview.submit"
	KeyPrevious          = "preview.previous"
)

// ErrMissingTranslator is passed to OnMissing when no Translator is set.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a key for locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the text shown for an untranslated key.
// fallback is the built-in English text.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

func missingTranslationDefault(_, _, fallback string, _ error) string {
	return fallback
}

// LocalizeView replaces the built-in English chrome of view (fallback titles,
// placeholders, empty state and action captions) with translations. Text the
// author typed is never translated. Without a Translator the view is left
// untouched.
func LocalizeView(view *preview.View, opts RenderOptions) {
	if view == nil || opts.Translator == nil {
		return
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	tr := func(key, fallback string) string {
		return translate(opts.Locale, key, fallback, opts.Translator, onMissing)
	}

	if view.Title == preview.UntitledForm {
		view.Title = tr(KeyUntitledForm, view.Title)
	}
	if view.Empty {
		view.EmptyMessage = tr(KeyEmpty, view.EmptyMessage)
	}
	if view.ShowPrevious {
		view.PreviousLabel = tr(KeyPrevious, view.PreviousLabel)
	}
	switch view.Action {
	case preview.ActionSubmit:
		view.ActionLabel = tr(KeySubmit, view.ActionLabel)
	case preview.ActionNext:
		view.ActionLabel = tr(KeyNext, view.ActionLabel)
	}

	for i := range view.Questions {
		q := &view.Questions[i]
		if q.Label == preview.UntitledQuestion {
			q.Label = tr(KeyUntitledQuestion, q.Label)
		}
		if q.Placeholder == preview.AnswerPlaceholder {
			q.Placeholder = tr(KeyAnswerPlaceholder, q.Placeholder)
		}
		if q.SelectPlaceholder != "" {
			q.SelectPlaceholder = tr(KeySelectPlaceholder, q.SelectPlaceholder)
		}
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	if t == nil {
		return onMissing(locale, key, fallback, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, fallback, err)
}
