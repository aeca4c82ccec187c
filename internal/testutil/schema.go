package testutil

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/benvon/simple-todo/api"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const todoSchemaURL = "https://github.com/benvon/simple-todo/api/todo.schema.json"

// TodoSchema compiles the embedded Todo JSON schema
func TodoSchema(t *testing.T) *jsonschema.Schema {
	t.Helper()

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(todoSchemaURL, bytes.NewReader(api.TodoSchemaJSON)); err != nil {
		t.Fatalf("failed to add todo schema: %v", err)
	}
	schema, err := compiler.Compile(todoSchemaURL)
	if err != nil {
		t.Fatalf("failed to compile todo schema: %v", err)
	}
	return schema
}

// AssertTodoJSON fails the test unless body is a single Todo matching the schema
func AssertTodoJSON(t *testing.T, schema *jsonschema.Schema, body []byte) {
	t.Helper()

	var obj any
	if err := json.Unmarshal(body, &obj); err != nil {
		t.Fatalf("response is not JSON: %v: %s", err, body)
	}
	if err := schema.Validate(obj); err != nil {
		t.Errorf("todo does not match schema: %v\nbody: %s", err, body)
	}
}

// AssertTodoListJSON fails the test unless body is an array of Todos matching the schema
func AssertTodoListJSON(t *testing.T, schema *jsonschema.Schema, body []byte) {
	t.Helper()

	var items []any
	if err := json.Unmarshal(body, &items); err != nil {
		t.Fatalf("response is not a JSON array: %v: %s", err, body)
	}
	for i, item := range items {
		if err := schema.Validate(item); err != nil {
			t.Errorf("todo %d does not match schema: %v", i, err)
		}
	}
}
