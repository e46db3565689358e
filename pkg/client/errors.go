package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for any non-2xx response. Message and Detail mirror
// the envelope's message and error fields.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Detail != "" {
		return fmt.Sprintf("client: %d %s: %s", e.Status, msg, e.Detail)
	}
	return fmt.Sprintf("client: %d %s", e.Status, msg)
}

// IsNotFound reports whether err is a 404 from the API. Malformed ids are
// reported as 404 too.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsValidation reports whether err is a 400 from the API.
func IsValidation(err error) bool {
	return hasStatus(err, http.StatusBadRequest)
}

// IsUnauthorized reports whether the API rejected the request for lack of
// an identity.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}
