package render_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formify/pkg/preview"
	"github.com/goliatone/go-formify/pkg/render"
)

type titleRenderer struct{ name string }

func (r titleRenderer) Name() string        { return r.name }
func (r titleRenderer) ContentType() string { return "text/plain" }
func (r titleRenderer) Render(_ context.Context, view preview.View, _ render.RenderOptions) ([]byte, error) {
	return []byte(strings.ToUpper(view.Title)), nil
}

func TestRegistry(t *testing.T) {
	registry, err := render.NewRegistry(titleRenderer{name: "text"}, titleRenderer{name: "alt"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if err := registry.Register(titleRenderer{name: "text"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(titleRenderer{}); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if diff := cmp.Diff([]string{"alt", "text"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	out, contentType, err := registry.Render(context.Background(), "text", preview.View{Title: "hello"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "HELLO" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q %q", out, contentType)
	}

	if _, _, err := registry.Render(context.Background(), "missing", preview.View{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected unknown renderer to fail")
	}
	if registry.Has("missing") {
		t.Fatalf("unexpected renderer")
	}
}
