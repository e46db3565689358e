package httpapi

import (
	"net/http"
	"strings"
)

// DefaultUserHeader carries the caller's user id.
const DefaultUserHeader = "X-User-ID"

// User is the caller as reported by the identity provider. Only the presence
// of an id matters to the API.
type User struct {
	ID string
}

// Identity resolves the user behind a request.
type Identity interface {
	CurrentUser(r *http.Request) (User, bool)
}

// IdentityFunc adapts a function to Identity.
type IdentityFunc func(r *http.Request) (User, bool)

func (fn IdentityFunc) CurrentUser(r *http.Request) (User, bool) {
	return fn(r)
}

// HeaderIdentity reads an opaque user id from a request header. The value is
// trusted as is; an authenticating proxy is expected in front of the API.
type HeaderIdentity struct {
	Header string
}

var _ Identity = HeaderIdentity{}

func (h HeaderIdentity) CurrentUser(r *http.Request) (User, bool) {
	name := h.Header
	if name == "" {
		name = DefaultUserHeader
	}
	id := strings.TrimSpace(r.Header.Get(name))
	if id == "" {
		return User{}, false
	}
	return User{ID: id}, true
}
