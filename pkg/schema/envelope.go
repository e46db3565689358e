package schema

import "encoding/json"

// Envelope is the body of every API response. Data stays raw so callers
// decode it into the shape the endpoint documents.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message"`
	Error   string          `json:"error,omitempty"`
}

// SubmitRequest is the body of a form submission.
type SubmitRequest struct {
	Answers []Answer `json:"answers"`
}
