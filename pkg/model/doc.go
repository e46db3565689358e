// Package model exposes the editable form model: ordered steps, a flat set of
// step-scoped questions, the merge-patch used to edit them, and the Serialize
// and Flatten projections onto the persisted shape in pkg/schema. The types
// are aliases of internal/model so editors, previews and renderers share one
// representation. Question options exist only for the option-bearing types
// (multiple, checkbox, dropdown); switching a question's type clears or seeds
// them accordingly.
package model
