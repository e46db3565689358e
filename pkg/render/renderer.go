package render

import (
	"context"
	"errors"

	"github.com/goliatone/go-formify/pkg/preview"
)

// Renderer turns the projection of one step into a byte representation
// (HTML, plain text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view preview.View, options RenderOptions) ([]byte, error)
}

// ErrUnknownTheme reports a theme or variant the renderer cannot resolve.
var ErrUnknownTheme = errors.New("render: unknown theme")
