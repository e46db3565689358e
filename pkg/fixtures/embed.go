package fixtures

import (
	"embed"
	"io/fs"
)

//go:embed forms/*
var embeddedForms embed.FS

// EmbeddedFS returns the bundled sample forms. Callers may pass this
// filesystem to LoadFS.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default loads the bundled sample forms.
func Default() (*Set, error) {
	return LoadFS(EmbeddedFS())
}
