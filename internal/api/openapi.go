package api

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.json
var openapiJSON []byte

// OpenAPIDocument returns the raw OpenAPI JSON served by the docs
// endpoints.
func OpenAPIDocument() ([]byte, error) {
	return openapiJSON, nil
}

// LoadOpenAPIDoc parses and validates the embedded document for use by
// the request validation middleware.
func LoadOpenAPIDoc() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiJSON)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}
