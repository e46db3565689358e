package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formify/pkg/preview"
	"github.com/goliatone/go-formify/pkg/render"
	rendertemplate "github.com/goliatone/go-formify/pkg/render/template"
	gotemplate "github.com/goliatone/go-formify/pkg/render/template/gotemplate"
)

const formTemplate = "templates/form.tmpl"

// Name is the registry name of the HTML renderer.
const Name = "vanilla"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	selector         theme.ThemeSelector
	page             bool
	inlineStyles     bool
	stylesheet       string
	classes          map[string]string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeSelector resolves RenderOptions.Theme/Variant into CSS variables.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.selector = selector
	}
}

// WithPage wraps the form in a complete HTML document.
func WithPage() Option {
	return func(cfg *config) {
		cfg.page = true
	}
}

// WithDefaultStyles inlines the embedded stylesheet into the page head.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithStylesheet links an external stylesheet from the page head.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(href)
	}
}

// WithChromeClass overrides the CSS class used for one chrome element.
func WithChromeClass(element ChromeClass, class string) Option {
	return func(cfg *config) {
		for key, value := range defaultClasses() {
			if value == string(element) {
				cfg.classes[key] = strings.TrimSpace(class)
			}
		}
	}
}

// Renderer renders a step projection as an HTML form.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	cfg       config
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		classes:    defaultClasses(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engine := cfg.templateRenderer
	if engine == nil {
		e, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure templates: %w", err)
		}
		engine = e
	}
	return &Renderer{templates: engine, cfg: cfg}, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return Name
}

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, view preview.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var selection *theme.Selection
	if r.cfg.selector != nil {
		sel, err := r.cfg.selector.Select(options.Theme, options.Variant)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: select theme: %w", err)
		}
		selection = sel
	}

	render.LocalizeView(&view, options)
	mapping := render.MapErrorPayload(view, options.Errors)

	data := map[string]any{
		"view":        sanitizedView(view),
		"description": richText(view.Description),
		"questions":   buildQuestions(view.Questions, options.Values, mapping.Questions),
		"formErrors":  mapping.Form,
		"hidden":      hiddenFields(view, options.Hidden),
		"action":      options.Action,
		"previousUrl": options.PreviousURL,
		"nextUrl":     options.NextURL,
		"theme":       buildThemeContext(selection),
		"classes":     r.cfg.classes,
		"locale":      options.Locale,
		"page":        r.cfg.page,
		"stylesheet":  r.cfg.stylesheet,
	}
	if r.cfg.page && r.cfg.inlineStyles {
		data["inlineStyles"] = defaultStylesheet()
	}

	result, err := r.templates.RenderTemplate(formTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type templateChoice struct {
	ID      string `json:"id"`
	Value   string `json:"value"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

type templateQuestion struct {
	ID                string           `json:"id"`
	Number            int              `json:"number"`
	Label             string           `json:"label"`
	Required          bool             `json:"required"`
	Type              string           `json:"type"`
	Control           string           `json:"control"`
	ControlID         string           `json:"controlId"`
	LabelFor          bool             `json:"labelFor"`
	Name              string           `json:"name"`
	Placeholder       string           `json:"placeholder"`
	SelectPlaceholder string           `json:"selectPlaceholder"`
	Value             string           `json:"value"`
	Choices           []templateChoice `json:"choices"`
	Errors            []string         `json:"errors"`
}

func sanitizedView(view preview.View) preview.View {
	view.Title = plainText(view.Title)
	view.StepTitle = plainText(view.StepTitle)
	view.Description = ""
	view.Questions = nil
	return view
}

func buildQuestions(questions []preview.Question, values map[string]any, errs map[string][]string) []templateQuestion {
	out := make([]templateQuestion, 0, len(questions))
	for _, q := range questions {
		control := controlFor(q.Type)
		tq := templateQuestion{
			ID:                q.ID,
			Number:            q.Number,
			Label:             plainText(q.Label),
			Required:          q.Required,
			Type:              string(q.Type),
			Control:           control,
			ControlID:         controlID(q.ID),
			LabelFor:          control != "radio" && control != "checkbox",
			Name:              fieldName(q.ID),
			Placeholder:       plainText(q.Placeholder),
			SelectPlaceholder: q.SelectPlaceholder,
			Errors:            append([]string{}, errs[q.ID]...),
		}
		if q.Type.HasOptions() {
			selected := selectedValues(values[q.ID])
			for _, option := range q.Options {
				tq.Choices = append(tq.Choices, templateChoice{
					ID:      "formify-" + option.ID,
					Value:   plainText(option.Value),
					Label:   plainText(option.Label),
					Checked: selected[option.Value],
				})
			}
		} else {
			tq.Value = textValue(values[q.ID])
		}
		out = append(out, tq)
	}
	return out
}

func hiddenFields(view preview.View, extra map[string]string) []map[string]string {
	merged := render.MergeHiddenFields(extra, render.Hidden(render.HiddenStepID, view.StepID))
	out := make([]map[string]string, 0, len(merged))
	for _, field := range render.SortedHiddenFields(merged) {
		out = append(out, map[string]string{"name": field.Name, "value": field.Value})
	}
	return out
}
