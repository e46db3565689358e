// Package service implements the form backend: creating and listing forms,
// recording submissions, dashboard counters, server-side previews and
// per-user editor drafts. Handlers translate its error taxonomy into HTTP
// statuses: *ValidationError, ErrNotFound, ErrInvalidID, ErrUnauthenticated.
package service
