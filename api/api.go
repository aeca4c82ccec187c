// Package api holds the embedded HTTP API description.
package api

import _ "embed"

// OpenAPIYAML is the OpenAPI 3 document for the todo API
//
//go:embed openapi.yaml
var OpenAPIYAML []byte

// TodoSchemaJSON is the JSON Schema of a single todo as returned by the API
//
//go:embed todo.schema.json
var TodoSchemaJSON []byte
