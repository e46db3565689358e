package httpapi

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-formify/internal/service"
	"github.com/goliatone/go-formify/pkg/render"
	"github.com/goliatone/go-formify/pkg/schema"
)

func (s *Server) routes(api *mux.Router) {
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/openapi.json", s.openAPI).Methods(http.MethodGet)

	api.HandleFunc("/forms", s.listForms).Methods(http.MethodGet)
	api.HandleFunc("/forms", s.createForm).Methods(http.MethodPost)
	api.HandleFunc("/forms/{id}", s.getForm).Methods(http.MethodGet)
	api.HandleFunc("/forms/{id}", s.deleteForm).Methods(http.MethodDelete)
	api.HandleFunc("/forms/{id}/submit", s.submit).Methods(http.MethodPost)
	api.HandleFunc("/forms/{id}/submissions", s.submissions).Methods(http.MethodGet)
	api.HandleFunc("/forms/{id}/preview", s.preview).Methods(http.MethodGet)

	api.HandleFunc("/stats", s.stats).Methods(http.MethodGet)

	api.HandleFunc("/drafts", s.getDraft).Methods(http.MethodGet)
	api.HandleFunc("/drafts", s.putDraft).Methods(http.MethodPut)
	api.HandleFunc("/drafts", s.deleteDraft).Methods(http.MethodDelete)
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusNotFound, msgRouteNotFound, "")
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllow, "")
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, msgServerRunning, nil)
}

func (s *Server) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.apiDoc.JSON())
}

func (s *Server) user(r *http.Request) string {
	user, ok := s.cfg.identity.CurrentUser(r)
	if !ok {
		return ""
	}
	return user.ID
}

func (s *Server) listForms(w http.ResponseWriter, r *http.Request) {
	forms, err := s.forms.ListForms(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.fail(w, r, err, failure{internal: "Failed to fetch forms"})
		return
	}
	writeData(w, http.StatusOK, "Forms retrieved successfully", forms)
}

func (s *Server) createForm(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}
	if err := s.apiDoc.ValidateBody("CreateFormRequest", raw); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}
	var req service.CreateFormRequest
	if err := decodeJSON(raw, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}

	created, err := s.forms.CreateForm(r.Context(), req, s.user(r))
	if err != nil {
		s.fail(w, r, err, failure{internal: "Failed to create form"})
		return
	}
	writeData(w, http.StatusCreated, "Form created successfully", created)
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.forms.GetForm(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, failure{internal: "Failed to fetch form"})
		return
	}
	writeData(w, http.StatusOK, "Form retrieved successfully", form)
}

func (s *Server) deleteForm(w http.ResponseWriter, r *http.Request) {
	if err := s.forms.DeleteForm(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err, failure{internal: "Failed to delete form"})
		return
	}
	writeData(w, http.StatusOK, "Form deleted successfully", nil)
}

// submit tolerates an empty body so a missing form is still reported as 404
// before the missing answers. Rendered previews post their answers[<id>]
// fields form-encoded.
func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if isFormPost(r) {
		s.submitFields(w, r, id)
		return
	}

	raw, err := readBody(w, r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}
	var req schema.SubmitRequest
	if len(raw) > 0 {
		if err := s.apiDoc.ValidateBody("SubmitRequest", raw); err != nil {
			writeMessage(w, http.StatusBadRequest, msgInvalidBody, err.Error())
			return
		}
		if err := decodeJSON(raw, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, msgInvalidBody, err.Error())
			return
		}
	}

	sub, err := s.forms.Submit(r.Context(), id, req.Answers)
	if err != nil {
		s.fail(w, r, err, failure{internal: "Failed to submit form"})
		return
	}
	writeData(w, http.StatusCreated, "Form submitted successfully", sub)
}

func (s *Server) submitFields(w http.ResponseWriter, r *http.Request, id string) {
	values, err := readForm(w, r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}

	sub, err := s.forms.SubmitFields(r.Context(), id, render.AnswerFields(values))
	if err != nil {
		s.fail(w, r, err, failure{internal: "Failed to submit form"})
		return
	}
	writeData(w, http.StatusCreated, "Form submitted successfully", sub)
}

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

func (s *Server) submissions(w http.ResponseWriter, r *http.Request) {
	report, err := s.forms.Submissions(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, failure{internal: "Failed to fetch submissions"})
		return
	}
	writeData(w, http.StatusOK, "Submissions retrieved successfully", report)
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	query := r.URL.Query()
	step, _ := strconv.Atoi(query.Get("step"))

	view, err := s.forms.Preview(r.Context(), id, step)
	if err != nil {
		s.fail(w, r, err, failure{internal: "Failed to render preview"})
		return
	}
	opts := render.RenderOptions{
		Action:  "/api/forms/" + id + "/submit",
		Hidden:  map[string]string{render.HiddenFormID: id},
		Theme:   query.Get("theme"),
		Variant: query.Get("variant"),
	}
	if view.ShowPrevious {
		opts.PreviousURL = previewURL(id, view.StepNumber-1, query)
	}
	if !view.IsLastStep {
		opts.NextURL = previewURL(id, view.StepNumber+1, query)
	}

	body, err := s.cfg.renderer.Render(r.Context(), view, opts)
	if errors.Is(err, render.ErrUnknownTheme) {
		writeMessage(w, http.StatusBadRequest, msgUnknownTheme, err.Error())
		return
	}
	if err != nil {
		s.fail(w, r, err, failure{internal: "Failed to render preview"})
		return
	}
	w.Header().Set("Content-Type", s.cfg.renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// previewURL links to step of the preview, keeping the theme selection.
func previewURL(id string, step int, query url.Values) string {
	next := url.Values{"step": {strconv.Itoa(step)}}
	for _, key := range []string{"theme", "variant"} {
		if value := query.Get(key); value != "" {
			next.Set(key, value)
		}
	}
	return fmt.Sprintf("/api/forms/%s/preview?%s", url.PathEscape(id), next.Encode())
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.forms.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err, failure{internal: "Failed to fetch stats"})
		return
	}
	writeData(w, http.StatusOK, "Stats retrieved successfully", stats)
}

func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.drafts.Get(r.Context(), s.user(r))
	if err != nil {
		s.fail(w, r, err, failure{notFound: msgDraftNotFound, internal: "Failed to fetch draft"})
		return
	}
	writeData(w, http.StatusOK, "Draft retrieved successfully", draft)
}

func (s *Server) putDraft(w http.ResponseWriter, r *http.Request) {
	owner := s.user(r)
	if owner == "" {
		s.fail(w, r, service.ErrUnauthenticated, failure{})
		return
	}
	raw, err := readBody(w, r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}
	if err := s.apiDoc.ValidateBody("Draft", raw); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}
	var draft schema.Draft
	if err := decodeJSON(raw, &draft); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}

	saved, err := s.drafts.Put(r.Context(), owner, draft)
	if err != nil {
		s.fail(w, r, err, failure{internal: "Failed to save draft"})
		return
	}
	writeData(w, http.StatusOK, "Draft saved successfully", saved)
}

func (s *Server) deleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.drafts.Delete(r.Context(), s.user(r)); err != nil {
		s.fail(w, r, err, failure{internal: "Failed to delete draft"})
		return
	}
	writeData(w, http.StatusOK, "Draft deleted successfully", nil)
}
