// Package fixtures loads persisted forms from JSON or YAML files. It backs
// the seed command and tests; a bundled set of sample forms ships with the
// package.
package fixtures
