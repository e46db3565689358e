// Package client talks to the formify REST API: creating and fetching forms,
// submitting answers, reading submissions and stats, and syncing editor
// drafts. Client satisfies editor.Saver so a Session can save through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formify/pkg/editor"
	"github.com/goliatone/go-formify/pkg/schema"
)

// DefaultTimeout bounds requests made with the default HTTP client.
const DefaultTimeout = 30 * time.Second

// UserHeader carries the caller identity.
const UserHeader = "X-User-ID"

// Client is a client for the formify API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userID     string
}

var _ editor.Saver = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserID sends id as the caller identity on every request.
func WithUserID(id string) Option {
	return func(c *Client) {
		c.userID = id
	}
}

// New creates a client for the API rooted at baseURL (e.g.
// "http://localhost:5000").
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// CreateForm stores a persisted form.
func (c *Client) CreateForm(ctx context.Context, form schema.Form) (schema.Created, error) {
	var out schema.Created
	if err := c.do(ctx, http.MethodPost, "/api/forms", form, &out); err != nil {
		return schema.Created{}, err
	}
	return out, nil
}

// SaveForm implements editor.Saver.
func (c *Client) SaveForm(ctx context.Context, form schema.Form) (schema.Created, error) {
	return c.CreateForm(ctx, form)
}

// GetForm fetches a form by id.
func (c *Client) GetForm(ctx context.Context, id string) (schema.Form, error) {
	var out schema.Form
	if err := c.do(ctx, http.MethodGet, "/api/forms/"+url.PathEscape(id), nil, &out); err != nil {
		return schema.Form{}, err
	}
	return out, nil
}

// ListForms returns form summaries, newest first. A non-empty search filters
// by title.
func (c *Client) ListForms(ctx context.Context, search string) ([]schema.Summary, error) {
	path := "/api/forms"
	if search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}
	out := []schema.Summary{}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteForm removes a form and its submissions.
func (c *Client) DeleteForm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/forms/"+url.PathEscape(id), nil, nil)
}

// Submit records one respondent's answers.
func (c *Client) Submit(ctx context.Context, id string, answers []schema.Answer) (schema.Submission, error) {
	var out schema.Submission
	body := schema.SubmitRequest{Answers: answers}
	if err := c.do(ctx, http.MethodPost, "/api/forms/"+url.PathEscape(id)+"/submit", body, &out); err != nil {
		return schema.Submission{}, err
	}
	return out, nil
}

// Submissions lists the answers collected for a form.
func (c *Client) Submissions(ctx context.Context, id string) (schema.SubmissionReport, error) {
	var out schema.SubmissionReport
	if err := c.do(ctx, http.MethodGet, "/api/forms/"+url.PathEscape(id)+"/submissions", nil, &out); err != nil {
		return schema.SubmissionReport{}, err
	}
	return out, nil
}

// Stats returns the dashboard counters.
func (c *Client) Stats(ctx context.Context) (schema.Stats, error) {
	var out schema.Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &out); err != nil {
		return schema.Stats{}, err
	}
	return out, nil
}

// Preview fetches the HTML preview of one step (1-based).
func (c *Client) Preview(ctx context.Context, id string, step int) ([]byte, error) {
	path := "/api/forms/" + url.PathEscape(id) + "/preview"
	if step > 0 {
		path += "?step=" + strconv.Itoa(step)
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, body)
	}
	return body, nil
}

// Draft fetches the caller's autosaved draft.
func (c *Client) Draft(ctx context.Context) (schema.Draft, error) {
	var out schema.Draft
	if err := c.do(ctx, http.MethodGet, "/api/drafts", nil, &out); err != nil {
		return schema.Draft{}, err
	}
	return out, nil
}

// PutDraft replaces the caller's autosaved draft.
func (c *Client) PutDraft(ctx context.Context, draft schema.Draft) error {
	return c.do(ctx, http.MethodPut, "/api/drafts", draft, nil)
}

// DeleteDraft discards the caller's autosaved draft.
func (c *Client) DeleteDraft(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/drafts", nil, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("client: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.userID != "" {
		req.Header.Set(UserHeader, c.userID)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, body)
	}

	var env schema.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	if !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message, Detail: env.Error}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("client: decode data: %w", err)
	}
	return nil
}

// decodeError builds an APIError, falling back to the raw body when it is
// not an envelope.
func decodeError(status int, body []byte) error {
	var env schema.Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &APIError{Status: status, Message: env.Message, Detail: env.Error}
	}
	return &APIError{Status: status, Detail: strings.TrimSpace(string(body))}
}
