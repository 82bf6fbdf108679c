package sets

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const setSchemaURL = "schema://question-set.json"

const setSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["q", "a"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"q":  {"type": "string"},
			"a":  {"type": "string"},
			"r":  {"type": "boolean"}
		}
	}
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(setSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse set schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(setSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add set schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(setSchemaURL)
	})
	return compiledSchema, compileErr
}

// validate checks raw set file contents against the question-set schema.
func validate(data []byte) error {
	sch, err := schema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
