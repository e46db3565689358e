package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/goliatone/go-formify/internal/service"
	"github.com/goliatone/go-formify/pkg/schema"
)

// Response messages shared by several routes.
const (
	msgServerRunning   = "Server is running"
	msgRouteNotFound   = "Route not found"
	msgMethodNotAllow  = "Method not allowed"
	msgInternal        = "Internal server error"
	msgInvalidFormID   = "Invalid form ID"
	msgFormNotFound    = "Form not found"
	msgDraftNotFound   = "Draft not found"
	msgAuthRequired    = "Authentication required"
	msgInvalidBody     = "Invalid request body"
	msgTooManyRequests = "Too many requests"
	msgUnknownTheme    = "Unknown theme"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, env schema.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	env := schema.Envelope{Success: true, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, schema.Envelope{Message: msgInternal})
			return
		}
		env.Data = raw
	}
	writeJSON(w, status, env)
}

func writeMessage(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, schema.Envelope{Message: message, Error: detail})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func readForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	return r.PostForm, nil
}

func decodeJSON(raw []byte, dst any) error {
	return json.Unmarshal(raw, dst)
}

// failure names the messages a route reports when a service call fails.
type failure struct {
	notFound string
	internal string
}

// fail maps the service error taxonomy onto statuses and messages. Details of
// unexpected errors only reach the client in development.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, f failure) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Message, verr.Detail())
	case errors.Is(err, service.ErrInvalidID):
		writeMessage(w, http.StatusNotFound, msgInvalidFormID, "")
	case errors.Is(err, service.ErrNotFound):
		message := f.notFound
		if message == "" {
			message = msgFormNotFound
		}
		writeMessage(w, http.StatusNotFound, message, "")
	case errors.Is(err, service.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, msgAuthRequired, "")
	default:
		s.cfg.logger.Error(f.internal,
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		detail := ""
		if s.cfg.development {
			detail = err.Error()
		}
		writeMessage(w, http.StatusInternalServerError, f.internal, detail)
	}
}
