// Package formify exposes the bundled presentation files of the HTML
// renderer so applications embedding the form service can serve or extend
// them without importing the renderer package directly.
package formify

import (
	"io/fs"

	"github.com/goliatone/go-formify/pkg/renderers/vanilla"
)

// StylesheetPath is the URL path the API server mounts the default
// stylesheet under.
const StylesheetPath = "/assets/" + vanilla.StylesheetName

// EmbeddedTemplates exposes the built-in vanilla renderer templates.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// StaticAssets exposes the stylesheet bundle. Typical mount:
//
//	router.PathPrefix("/assets/").Handler(
//	  http.StripPrefix("/assets/", http.FileServerFS(formify.StaticAssets())),
//	)
func StaticAssets() fs.FS {
	return vanilla.AssetsFS()
}
