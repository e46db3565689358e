// Package template defines the template engine contract used by the HTML
// preview renderer. The pongo2-backed implementation lives in
// template/gotemplate.
package template
