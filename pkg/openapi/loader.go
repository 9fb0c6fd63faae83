// Package openapi loads OpenAPI 3 documents and converts them into the
// schema graph the generator works on.
package openapi

import (
	"fmt"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/ts-clientgen/pkg/schema"
)

// LoadDocument loads an OpenAPI document from a local file path or an HTTP(S) URL
func LoadDocument(input string) (*openapi3.T, error) {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	return LoadDocumentWithLoader(loader, input)
}

// LoadDocumentWithLoader loads an OpenAPI document using a custom loader
func LoadDocumentWithLoader(loader *openapi3.Loader, input string) (*openapi3.T, error) {
	// Try to parse as URL; if it looks like http(s), fetch via URL
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return loader.LoadFromURI(u)
	}
	// Fallback to reading from filesystem path
	return loader.LoadFromFile(input)
}

// Load loads and converts the document at input
func Load(input string) (*schema.Document, error) {
	doc, err := LoadDocument(input)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	return Convert(doc)
}

// LoadData converts an in-memory OpenAPI document in JSON or YAML
func LoadData(data []byte) (*schema.Document, error) {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	return Convert(doc)
}
