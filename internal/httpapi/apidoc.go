package httpapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// APIDoc is the validated description of the REST API. It is served as JSON
// and used to check request bodies before they reach the services.
type APIDoc struct {
	doc  *openapi3.T
	json []byte
}

// LoadAPIDoc parses and validates the embedded document.
func LoadAPIDoc(ctx context.Context) (*APIDoc, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("httpapi: load api doc: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("httpapi: validate api doc: %w", err)
	}
	encoded, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("httpapi: encode api doc: %w", err)
	}
	return &APIDoc{doc: doc, json: encoded}, nil
}

// JSON returns the document encoded as JSON.
func (d *APIDoc) JSON() []byte {
	return d.json
}

// Operations lists the operation ids declared in the document, sorted.
func (d *APIDoc) Operations() []string {
	var out []string
	for _, item := range d.doc.Paths.Map() {
		for _, op := range item.Operations() {
			out = append(out, op.OperationID)
		}
	}
	sort.Strings(out)
	return out
}

// ValidateBody checks raw JSON against the named component schema.
func (d *APIDoc) ValidateBody(schemaName string, raw []byte) error {
	ref, ok := d.doc.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("httpapi: unknown schema %q", schemaName)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("httpapi: decode body: %w", err)
	}
	if err := ref.Value.VisitJSON(value); err != nil {
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) {
			return fmt.Errorf("httpapi: %s: %s", pointer(schemaErr.JSONPointer()), schemaErr.Reason)
		}
		return fmt.Errorf("httpapi: %w", err)
	}
	return nil
}

func pointer(parts []string) string {
	if len(parts) == 0 {
		return "body"
	}
	out := "body"
	for _, p := range parts {
		out += "." + p
	}
	return out
}
