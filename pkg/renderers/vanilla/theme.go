package vanilla

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formify/pkg/render"
)

// DefaultThemeName names the built-in manifest.
const DefaultThemeName = "formify"

// DefaultManifest returns the built-in theme with a "dark" variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#000000",
			"surface": "#f5f5f5",
			"text":    "#000000",
			"border":  "rgba(0, 0, 0, 0.2)",
			"danger":  "#dc2626",
			"radius":  "1rem",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand":   "#ffffff",
					"surface": "#171717",
					"text":    "#fafafa",
					"border":  "rgba(255, 255, 255, 0.2)",
				},
			},
		},
	}
}

// ManifestSelector resolves themes from an in-memory manifest set. An empty
// name selects the default theme; unknown names and variants are rejected.
type ManifestSelector struct {
	manifests    map[string]*theme.Manifest
	defaultTheme string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests by name. DefaultManifest is always
// available.
func NewManifestSelector(defaultTheme string, manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{
		manifests:    map[string]*theme.Manifest{DefaultThemeName: DefaultManifest()},
		defaultTheme: strings.TrimSpace(defaultTheme),
	}
	for _, manifest := range manifests {
		if manifest != nil && manifest.Name != "" {
			s.manifests[manifest.Name] = manifest
		}
	}
	if _, ok := s.manifests[s.defaultTheme]; !ok {
		s.defaultTheme = DefaultThemeName
	}
	return s
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("vanilla: theme %q not registered: %w", name, render.ErrUnknownTheme)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("vanilla: theme %q has no variant %q: %w", name, variant, render.ErrUnknownTheme)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// themeContext is the template view of a selection.
type themeContext struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	Style   string `json:"style"`
}

// resolvedTokens merges the variant's tokens over the manifest's.
func resolvedTokens(selection *theme.Selection) map[string]string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	return tokens
}

// cssVars renders tokens as sorted "--formify-<token>: value" declarations.
func cssVars(tokens map[string]string) string {
	if len(tokens) == 0 {
		return ""
	}
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars[strings.TrimPrefix(strings.TrimSpace(key), "--")] = value
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("--formify-%s: %s", name, vars[name]))
	}
	return strings.Join(parts, "; ")
}

func buildThemeContext(selection *theme.Selection) themeContext {
	if selection == nil {
		return themeContext{}
	}
	return themeContext{
		Name:    selection.Theme,
		Variant: selection.Variant,
		Style:   cssVars(resolvedTokens(selection)),
	}
}
