package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/preview"
	"github.com/goliatone/go-formify/pkg/render"
	"github.com/goliatone/go-formify/pkg/renderers/vanilla"
)

const (
	formatText = "text"
	formatHTML = "html"
	formatJSON = "json"
)

// previewRenderers registers every preview output keyed by renderer name.
// The html format is served by the vanilla renderer.
func previewRenderers() (*render.Registry, error) {
	html, err := vanilla.New(
		vanilla.WithPage(),
		vanilla.WithDefaultStyles(),
		vanilla.WithThemeSelector(vanilla.NewManifestSelector(vanilla.DefaultThemeName)),
	)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(textRenderer{}, jsonRenderer{}, html)
}

func rendererName(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == formatHTML {
		return vanilla.Name
	}
	return format
}

func (c *cli) previewCmd() *cobra.Command {
	var (
		format  string
		stepID  string
		output  string
		theme   string
		variant string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the respondent view of the active step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := previewRenderers()
			if err != nil {
				return err
			}
			name := rendererName(format)
			if !registry.Has(name) {
				return fmt.Errorf("unsupported format %q (want text, html or json)", format)
			}

			s, err := c.loadSession()
			if err != nil {
				return err
			}
			view := s.Preview()
			if stepID != "" {
				if !s.Form.HasStep(stepID) {
					return fmt.Errorf("unknown step %q", stepID)
				}
				view = preview.Project(s.Form, stepID)
			}

			body, _, err := registry.Render(cmd.Context(), name, view, render.RenderOptions{
				Theme:   theme,
				Variant: variant,
			})
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = c.out.Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
			fmt.Fprintf(c.out, "Preview written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, html or json")
	cmd.Flags().StringVar(&stepID, "step", "", "Step id to preview instead of the active one")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the preview to a file")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme name for the HTML output")
	cmd.Flags().StringVar(&variant, "variant", "", "Theme variant for the HTML output, e.g. dark")
	return cmd
}

// textRenderer prints the step for a terminal.
type textRenderer struct{}

func (textRenderer) Name() string        { return formatText }
func (textRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (textRenderer) Render(_ context.Context, view preview.View, _ render.RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	writeTextView(&buf, view)
	return buf.Bytes(), nil
}

// jsonRenderer emits the projected view itself.
type jsonRenderer struct{}

func (jsonRenderer) Name() string        { return formatJSON }
func (jsonRenderer) ContentType() string { return "application/json" }

func (jsonRenderer) Render(_ context.Context, view preview.View, _ render.RenderOptions) ([]byte, error) {
	body, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}

// writeTextView prints a plain text rendition of a projected step.
func writeTextView(w io.Writer, view preview.View) {
	fmt.Fprintln(w, view.Title)
	if view.Description != "" {
		fmt.Fprintln(w, view.Description)
	}
	if view.ShowStepHeader {
		fmt.Fprintf(w, "%s (%s)\n", view.StepTitle, preview.ProgressLabel(view))
	}
	fmt.Fprintln(w)

	if view.Empty {
		fmt.Fprintln(w, view.EmptyMessage)
		return
	}
	for _, q := range view.Questions {
		label := q.Label
		if q.Required {
			label += " *"
		}
		fmt.Fprintf(w, "%d. %s\n", q.Number, label)
		switch q.Type {
		case model.QuestionTypeShort, model.QuestionTypeParagraph:
			fmt.Fprintf(w, "   [%s]\n", q.Placeholder)
		case model.QuestionTypeDropdown:
			labels := make([]string, 0, len(q.Options))
			for _, opt := range q.Options {
				labels = append(labels, opt.Label)
			}
			fmt.Fprintf(w, "   v %s: %s\n", q.SelectPlaceholder, strings.Join(labels, " | "))
		default:
			marker := "( )"
			if q.Type == model.QuestionTypeCheckbox {
				marker = "[ ]"
			}
			for _, opt := range q.Options {
				fmt.Fprintf(w, "   %s %s\n", marker, opt.Label)
			}
		}
	}

	if view.ShowActions {
		fmt.Fprintln(w)
		if view.ShowPrevious {
			fmt.Fprintf(w, "[%s] ", view.PreviousLabel)
		}
		fmt.Fprintf(w, "[%s]\n", view.ActionLabel)
	}
}

var (
	_ render.Renderer = textRenderer{}
	_ render.Renderer = jsonRenderer{}
)
