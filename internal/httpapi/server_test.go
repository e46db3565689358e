package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formify/internal/metrics"
	"github.com/goliatone/go-formify/internal/service"
	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/internal/storage/memory"
	"github.com/goliatone/go-formify/pkg/editor"
	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/preview"
	"github.com/goliatone/go-formify/pkg/render"
	"github.com/goliatone/go-formify/pkg/schema"
)

const missingID = "0123456789abcdef01234567"

func newServer(t *testing.T, store storage.Store, opts ...Option) *Server {
	t.Helper()
	if store == nil {
		store = memory.New()
	}
	forms := service.NewForms(store, service.WithFrontendURL("https://forms.example.com"))
	drafts := service.NewDrafts(memory.NewDraftStore(0, nil))
	srv, err := New(forms, drafts, opts...)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *Server, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, schema.Envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var env schema.Envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func feedbackForm() map[string]any {
	return map[string]any{
		"title":       "Customer Feedback",
		"description": "Tell us how we did.",
		"steps": []map[string]any{
			{"title": "About you", "questions": []map[string]any{
				{"type": "shortAnswer", "label": "Name", "required": true},
			}},
			{"title": "Rating", "questions": []map[string]any{
				{"type": "multipleChoice", "label": "Overall", "options": []string{"Good", "Bad"}},
			}},
		},
	}
}

func createForm(t *testing.T, srv *Server) schema.Created {
	t.Helper()
	rec, env := do(t, srv, http.MethodPost, "/api/forms", feedbackForm())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created schema.Created
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created
}

func TestHealth(t *testing.T) {
	srv := newServer(t, nil)
	rec, env := do(t, srv, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, schema.Envelope{Success: true, Message: "Server is running"}, env)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	srv := newServer(t, nil)
	for _, path := range []string{"/nope", "/api/nope"} {
		rec, env := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Route not found", env.Message, path)
		assert.False(t, env.Success)
	}

	rec, env := do(t, srv, http.MethodPatch, "/api/forms", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", env.Message)
}

func TestCreateForm(t *testing.T) {
	srv := newServer(t, nil)
	rec, env := do(t, srv, http.MethodPost, "/api/forms", feedbackForm(), DefaultUserHeader, "user-7")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Form created successfully", env.Message)

	var created schema.Created
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Len(t, created.FormID, 24)
	assert.Equal(t, "https://forms.example.com/form/"+created.FormID, created.SharableLink)
	assert.Equal(t, "user-7", created.Form.CreatedBy)
	assert.Len(t, created.Form.Steps, 2)
}

func TestCreateForm_FlatEditorPayload(t *testing.T) {
	srv := newServer(t, nil)
	body := map[string]any{
		"title": "Event",
		"steps": []map[string]any{{"id": "step-1", "title": "Contact"}},
		"questions": []map[string]any{
			{"stepId": "step-1", "text": "Name", "type": "short", "required": true},
			{"stepId": "step-2", "text": "Diet", "type": "checkbox", "options": []string{"Vegan"}},
		},
	}
	rec, env := do(t, srv, http.MethodPost, "/api/forms", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created schema.Created
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Len(t, created.Form.Steps, 2)
	assert.Equal(t, "Contact", created.Form.Steps[0].Title)
	assert.Equal(t, "shortAnswer", created.Form.Steps[0].Questions[0].Type)
	assert.Equal(t, "Step 2", created.Form.Steps[1].Title)
	assert.Equal(t, "anonymous", created.Form.CreatedBy)
}

func TestCreateForm_Validation(t *testing.T) {
	srv := newServer(t, nil)

	rec, env := do(t, srv, http.MethodPost, "/api/forms", map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title and at least one step are required", env.Message)

	rec, env = do(t, srv, http.MethodPost, "/api/forms", map[string]any{"title": "Feedback", "steps": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title and at least one step are required", env.Message)

	bad := feedbackForm()
	bad["steps"] = []map[string]any{{"title": "One", "questions": []map[string]any{{"type": "slider", "label": "Rate"}}}}
	rec, env = do(t, srv, http.MethodPost, "/api/forms", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", env.Message)
	assert.Contains(t, env.Error, "type")

	rec, env = do(t, srv, http.MethodPost, "/api/forms", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", env.Message)
}

func TestGetForm(t *testing.T) {
	srv := newServer(t, nil)
	created := createForm(t, srv)

	rec, env := do(t, srv, http.MethodGet, "/api/forms/"+created.FormID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Form retrieved successfully", env.Message)
	var form schema.Form
	require.NoError(t, json.Unmarshal(env.Data, &form))
	assert.Equal(t, "Customer Feedback", form.Title)

	rec, env = do(t, srv, http.MethodGet, "/api/forms/not-an-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid form ID", env.Message)

	rec, env = do(t, srv, http.MethodGet, "/api/forms/"+missingID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Form not found", env.Message)
}

func TestListForms(t *testing.T) {
	srv := newServer(t, nil)
	createForm(t, srv)
	other := feedbackForm()
	other["title"] = "Event Registration"
	rec, _ := do(t, srv, http.MethodPost, "/api/forms", other)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, srv, http.MethodGet, "/api/forms?search=event", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Forms retrieved successfully", env.Message)

	var summaries []schema.Summary
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Event Registration", summaries[0].Title)
}

func TestSubmitAndSubmissions(t *testing.T) {
	srv := newServer(t, nil)
	created := createForm(t, srv)
	base := "/api/forms/" + created.FormID

	rec, env := do(t, srv, http.MethodPost, "/api/forms/"+missingID+"/submit", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Form not found", env.Message)

	rec, env = do(t, srv, http.MethodPost, base+"/submit", map[string]any{"answers": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Answers are required", env.Message)

	answers := schema.SubmitRequest{Answers: []schema.Answer{
		{Question: "Name", Answer: "Ada"},
		{Question: "Overall", Answer: "Good"},
	}}
	rec, env = do(t, srv, http.MethodPost, base+"/submit", answers)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Form submitted successfully", env.Message)

	rec, env = do(t, srv, http.MethodGet, base+"/submissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Submissions retrieved successfully", env.Message)
	var report schema.SubmissionReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, "Customer Feedback", report.Form.Title)
	assert.Equal(t, "Ada", report.Submissions[0].Answers[0].Answer)

	rec, env = do(t, srv, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats schema.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, schema.Stats{TotalForms: 1, TotalSubmissions: 1}, stats)
}

func TestDeleteForm(t *testing.T) {
	srv := newServer(t, nil)
	created := createForm(t, srv)

	rec, env := do(t, srv, http.MethodDelete, "/api/forms/"+created.FormID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Form deleted successfully", env.Message)

	rec, env = do(t, srv, http.MethodDelete, "/api/forms/"+created.FormID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Form not found", env.Message)
}

func TestPreview(t *testing.T) {
	srv := newServer(t, nil)
	created := createForm(t, srv)

	rec, _ := do(t, srv, http.MethodGet, "/api/forms/"+created.FormID+"/preview?step=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	body := rec.Body.String()
	assert.Contains(t, body, "Customer Feedback")
	assert.Contains(t, body, "Rating (2 of 2)")
	assert.Contains(t, body, "Submit Form")

	rec, env := do(t, srv, http.MethodGet, "/api/forms/"+missingID+"/preview", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Form not found", env.Message)
}

var navLink = regexp.MustCompile(`href="([^"]+)" data-nav="(previous|next)"`)

// navLinks returns the preview links of a rendered step keyed by direction.
func navLinks(t *testing.T, body string) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, match := range navLink.FindAllStringSubmatch(body, -1) {
		out[match[2]] = html.UnescapeString(match[1])
	}
	return out
}

func TestPreviewNavigation(t *testing.T) {
	srv := newServer(t, nil)
	created := createForm(t, srv)
	base := "/api/forms/" + created.FormID

	rec, _ := do(t, srv, http.MethodGet, base+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := rec.Body.String()
	assert.NotContains(t, first, `type="submit"`, "only the last step submits")
	links := navLinks(t, first)
	require.Equal(t, map[string]string{"next": base + "/preview?step=2"}, links)

	rec, _ = do(t, srv, http.MethodGet, links["next"], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	last := rec.Body.String()
	assert.Contains(t, last, "Rating (2 of 2)")
	assert.Contains(t, last, `action="`+base+`/submit"`)
	assert.Contains(t, last, `<button type="submit" name="nav" value="submit">Submit Form</button>`)
	links = navLinks(t, last)
	require.Equal(t, map[string]string{"previous": base + "/preview?step=1"}, links)

	rec, _ = do(t, srv, http.MethodGet, links["previous"], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "About you (1 of 2)")

	form := url.Values{
		"formId":              {created.FormID},
		"stepId":              {"step-2"},
		"nav":                 {"submit"},
		"answers[question-2]": {"Good"},
	}
	rec, env := do(t, srv, http.MethodPost, base+"/submit", form.Encode(),
		"Content-Type", "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Form submitted successfully", env.Message)

	rec, env = do(t, srv, http.MethodPost, base+"/submit", url.Values{"nav": {"submit"}}.Encode(),
		"Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Answers are required", env.Message)

	rec, env = do(t, srv, http.MethodGet, base+"/submissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report schema.SubmissionReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	require.Equal(t, 1, report.Count)
	assert.Equal(t, []schema.Answer{{Question: "Overall", Answer: "Good"}}, report.Submissions[0].Answers)
}

func TestPreviewTheme(t *testing.T) {
	srv := newServer(t, nil)
	created := createForm(t, srv)
	base := "/api/forms/" + created.FormID

	rec, _ := do(t, srv, http.MethodGet, base+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-theme="formify"`)
	assert.NotContains(t, rec.Body.String(), "data-theme-variant")

	rec, _ = do(t, srv, http.MethodGet, base+"/preview?theme=formify&variant=dark", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-theme="formify" data-theme-variant="dark" style="--formify-`)
	assert.Contains(t, body, "--formify-surface: #171717")
	assert.Equal(t, base+"/preview?step=2&theme=formify&variant=dark", navLinks(t, body)["next"])

	rec, env := do(t, srv, http.MethodGet, base+"/preview?variant=sepia", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown theme", env.Message)

	rec, env = do(t, srv, http.MethodGet, base+"/preview?theme=acme", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown theme", env.Message)
}

func TestDrafts(t *testing.T) {
	srv := newServer(t, nil)

	rec, env := do(t, srv, http.MethodGet, "/api/drafts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", env.Message)

	rec, env = do(t, srv, http.MethodGet, "/api/drafts", nil, DefaultUserHeader, "user-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Draft not found", env.Message)

	session := editor.NewSession(editor.WithIDs(model.NewSequenceIDs()))
	session.SetTitle("Work in progress")
	snapshot, err := session.Snapshot("")
	require.NoError(t, err)

	rec, env = do(t, srv, http.MethodPut, "/api/drafts", snapshot, DefaultUserHeader, "user-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Draft saved successfully", env.Message)

	rec, env = do(t, srv, http.MethodGet, "/api/drafts", nil, DefaultUserHeader, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var draft schema.Draft
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Equal(t, "user-1", draft.Owner)
	restored, err := editor.RestoreSession(draft)
	require.NoError(t, err)
	assert.Equal(t, "Work in progress", restored.Form.Title)

	rec, _ = do(t, srv, http.MethodPut, "/api/drafts", map[string]any{"form": "text"}, DefaultUserHeader, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, srv, http.MethodDelete, "/api/drafts", nil, DefaultUserHeader, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Draft deleted successfully", env.Message)
}

type failingStore struct {
	storage.Store
}

func (failingStore) ListForms(context.Context) ([]schema.Form, error) {
	return nil, errors.New("disk on fire")
}

func TestInternalErrors(t *testing.T) {
	prod := newServer(t, failingStore{})
	rec, env := do(t, prod, http.MethodGet, "/api/forms", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch forms", env.Message)
	assert.Empty(t, env.Error)

	dev := newServer(t, failingStore{}, WithDevelopment(true))
	_, env = do(t, dev, http.MethodGet, "/api/forms", nil)
	assert.Contains(t, env.Error, "disk on fire")
}

type panickingRenderer struct{}

func (panickingRenderer) Name() string        { return "panic" }
func (panickingRenderer) ContentType() string { return "text/html" }
func (panickingRenderer) Render(context.Context, preview.View, render.RenderOptions) ([]byte, error) {
	panic("template exploded")
}

func TestRecoversPanics(t *testing.T) {
	srv := newServer(t, nil, WithRenderer(panickingRenderer{}), WithDevelopment(true))
	created := createForm(t, srv)

	rec, env := do(t, srv, http.MethodGet, "/api/forms/"+created.FormID+"/preview", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", env.Message)
	assert.Equal(t, "template exploded", env.Error)
}

func TestRateLimit(t *testing.T) {
	srv := newServer(t, nil, WithRateLimit(0.001, 2))

	for i := 0; i < 2; i++ {
		rec, _ := do(t, srv, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, env := do(t, srv, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", env.Message)

	rec, _ = do(t, srv, http.MethodGet, "/api/health", nil, DefaultUserHeader, "someone")
	assert.Equal(t, http.StatusOK, rec.Code, "users get their own bucket")
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t, nil, WithCORSOrigin("https://app.example.com"))

	req := httptest.NewRequest(http.MethodOptions, "/api/forms", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), DefaultUserHeader)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t, nil, WithMetrics(metrics.New()))
	do(t, srv, http.MethodGet, "/api/health", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `formify_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}

func TestStylesheetAsset(t *testing.T) {
	srv := newServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/assets/formify.css", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.NotEmpty(t, rec.Body.String())
}

func TestOpenAPIDocument(t *testing.T) {
	srv := newServer(t, nil)
	rec, _ := do(t, srv, http.MethodGet, "/api/openapi.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])

	apiDoc, err := LoadAPIDoc(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"createForm", "deleteDraft", "deleteForm", "getDraft", "getForm", "health",
		"listForms", "listSubmissions", "previewForm", "putDraft", "stats", "submitForm",
	}, apiDoc.Operations())
}

func TestNewLogsOperations(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	newServer(t, nil, WithLogger(zap.New(core)))

	entries := logs.FilterMessage("api ready").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "vanilla", fields["renderer"])
	assert.Contains(t, fields["operations"], "submitForm")
}

func TestHeaderIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := HeaderIdentity{}.CurrentUser(req)
	assert.False(t, ok)

	req.Header.Set("X-Auth-User", " ada ")
	user, ok := HeaderIdentity{Header: "X-Auth-User"}.CurrentUser(req)
	require.True(t, ok)
	assert.Equal(t, "ada", user.ID)
}
