package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/preview"
	"github.com/goliatone/go-formify/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func untitledView() preview.View {
	form := model.New()
	form.Questions = []model.Question{
		{ID: "q1", Type: model.QuestionTypeShort, StepID: model.DefaultStepID},
		{ID: "q2", Text: "Pick", Type: model.QuestionTypeDropdown, Options: []string{"A"}, StepID: model.DefaultStepID},
	}
	return preview.Project(form, model.DefaultStepID)
}

func TestLocalizeViewTranslatesChrome(t *testing.T) {
	view := untitledView()

	render.LocalizeView(&view, render.RenderOptions{
		Locale: "es",
		Translator: stubTranslator{
			render.KeyUntitledForm:      "Formulario sin título",
			render.KeyUntitledQuestion:  "Pregunta sin título",
			render.KeySubmit:            "Enviar",
			render.KeySelectPlaceholder: "Elige una opción",
		},
	})

	if view.Title != "Formulario sin título" || view.ActionLabel != "Enviar" {
		t.Fatalf("chrome not translated: %q %q", view.Title, view.ActionLabel)
	}
	if view.Questions[0].Label != "Pregunta sin título" {
		t.Fatalf("question fallback not translated: %q", view.Questions[0].Label)
	}
	// missing key keeps the English fallback
	if view.Questions[0].Placeholder != preview.AnswerPlaceholder {
		t.Fatalf("expected fallback placeholder, got %q", view.Questions[0].Placeholder)
	}
	if view.Questions[1].Label != "Pick" || view.Questions[1].SelectPlaceholder != "Elige una opción" {
		t.Fatalf("unexpected dropdown projection: %+v", view.Questions[1])
	}
}

func TestLocalizeViewOnMissing(t *testing.T) {
	view := untitledView()
	var missing []string

	render.LocalizeView(&view, render.RenderOptions{
		Translator: stubTranslator{},
		OnMissing: func(_, key, fallback string, err error) string {
			missing = append(missing, key)
			return "[" + fallback + "]"
		},
	})

	if view.Title != "[Untitled Form]" {
		t.Fatalf("expected handler output, got %q", view.Title)
	}
	if len(missing) == 0 {
		t.Fatalf("expected missing keys to be reported")
	}
}

func TestLocalizeViewWithoutTranslator(t *testing.T) {
	view := untitledView()
	before := view.Title

	render.LocalizeView(&view, render.RenderOptions{})

	if view.Title != before {
		t.Fatalf("view changed without translator: %q", view.Title)
	}
}
