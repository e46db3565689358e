package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formify/pkg/editor"
	"github.com/goliatone/go-formify/pkg/schema"
	"github.com/goliatone/go-formify/pkg/testsupport"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, data any, message string) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(schema.Envelope{
		Success: status < 400,
		Data:    raw,
		Message: message,
	}))
}

func TestCreateForm(t *testing.T) {
	var received schema.Form
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/forms", r.URL.Path)
		assert.Equal(t, "user-1", r.Header.Get(UserHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		writeEnvelope(t, w, http.StatusCreated, schema.Created{
			FormID:       "65f1c2a9e4b0a1b2c3d4e5f6",
			SharableLink: "http://localhost:3000/form/65f1c2a9e4b0a1b2c3d4e5f6",
			Form:         received,
		}, "Form created successfully")
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithUserID("user-1"))
	created, err := c.CreateForm(context.Background(), testsupport.SampleForm())
	require.NoError(t, err)

	assert.Equal(t, "65f1c2a9e4b0a1b2c3d4e5f6", created.FormID)
	assert.Equal(t, "http://localhost:3000/form/65f1c2a9e4b0a1b2c3d4e5f6", created.SharableLink)
	assert.Equal(t, "Customer Feedback", received.Title)
	assert.Len(t, received.Steps, 2)
}

func TestSaveFormThroughSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var form schema.Form
		require.NoError(t, json.NewDecoder(r.Body).Decode(&form))
		writeEnvelope(t, w, http.StatusCreated, schema.Created{FormID: "abc", Form: form}, "Form created successfully")
	}))
	defer srv.Close()

	session := editor.NewSession()
	session.SetTitle("Signup")
	result := <-session.Save(context.Background(), New(srv.URL))
	require.NoError(t, result.Err)
	assert.Equal(t, "abc", result.Created.FormID)
	assert.Equal(t, "Signup", result.Created.Form.Title)
}

func TestErrorsCarryEnvelopeMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/forms/bad":
			writeEnvelope(t, w, http.StatusNotFound, nil, "Invalid form ID")
		case "/api/forms":
			writeEnvelope(t, w, http.StatusBadRequest, nil, "Title and at least one step are required")
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream down\n")
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.GetForm(ctx, "bad")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "client: 404 Invalid form ID")

	_, err = c.CreateForm(ctx, schema.Form{})
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))

	_, err = c.Stats(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Detail)
}

func TestListFormsSearchAndSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/forms":
			assert.Equal(t, "feed back", r.URL.Query().Get("search"))
			writeEnvelope(t, w, http.StatusOK, []schema.Summary{{ID: "1", Title: "Feed back"}}, "Forms retrieved successfully")
		case r.Method == http.MethodPost && r.URL.Path == "/api/forms/1/submit":
			var body schema.SubmitRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeEnvelope(t, w, http.StatusCreated, schema.Submission{ID: "s1", FormID: "1", Answers: body.Answers}, "Form submitted successfully")
		case r.Method == http.MethodGet && r.URL.Path == "/api/forms/1/submissions":
			writeEnvelope(t, w, http.StatusOK, schema.SubmissionReport{
				Form:  schema.FormRef{ID: "1", Title: "Feed back"},
				Count: 0,
			}, "Submissions retrieved successfully")
		case r.Method == http.MethodDelete && r.URL.Path == "/api/forms/1":
			writeEnvelope(t, w, http.StatusOK, nil, "Form deleted successfully")
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	forms, err := c.ListForms(ctx, "feed back")
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "Feed back", forms[0].Title)

	sub, err := c.Submit(ctx, "1", []schema.Answer{{Question: "Name", Answer: "Ada"}})
	require.NoError(t, err)
	assert.Equal(t, "s1", sub.ID)
	require.Len(t, sub.Answers, 1)
	assert.Equal(t, "Ada", sub.Answers[0].Answer)

	report, err := c.Submissions(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Feed back", report.Form.Title)

	require.NoError(t, c.DeleteForm(ctx, "1"))
}

func TestPreviewReturnsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("step"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, "<form></form>")
	}))
	defer srv.Close()

	out, err := New(srv.URL).Preview(context.Background(), "1", 2)
	require.NoError(t, err)
	assert.Equal(t, "<form></form>", string(out))
}

func TestDraftRoundTrip(t *testing.T) {
	var stored schema.Draft
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(UserHeader) == "" {
			writeEnvelope(t, w, http.StatusUnauthorized, nil, "Authentication required")
			return
		}
		switch r.Method {
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&stored))
			writeEnvelope(t, w, http.StatusOK, nil, "Draft saved successfully")
		case http.MethodGet:
			writeEnvelope(t, w, http.StatusOK, stored, "Draft retrieved successfully")
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	_, err := New(srv.URL).Draft(ctx)
	assert.True(t, IsUnauthorized(err))

	c := New(srv.URL, WithUserID("user-1"))
	draft := schema.Draft{Owner: "user-1", ActiveStepID: "step-2", Form: json.RawMessage(`{"title":"x"}`)}
	require.NoError(t, c.PutDraft(ctx, draft))

	got, err := c.Draft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "step-2", got.ActiveStepID)
	assert.JSONEq(t, `{"title":"x"}`, string(got.Form))
}
