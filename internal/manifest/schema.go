package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrManifestInvalid wraps schema validation failures for manifest payloads.
var ErrManifestInvalid = errors.New("manifest: schema validation failed")

const schemaURL = "docindex://manifest.schema.json"

const manifestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "generated_at", "topics"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "generated_at": {"type": "string"},
    "root": {"type": "string"},
    "topics": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["ref", "title"],
        "properties": {
          "ref": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "source": {"type": "string"},
          "url": {"type": "string"},
          "parent": {"type": "string"},
          "position": {"type": "integer", "minimum": 0},
          "depth": {"type": "integer", "minimum": 0},
          "hidden": {"type": "boolean"}
        }
      }
    },
    "issues": {"type": "array"},
    "metadata": {"type": "object"}
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, strings.NewReader(manifestSchema)); err != nil {
		panic(fmt.Sprintf("manifest: add schema resource: %v", err))
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("manifest: compile schema: %v", err))
	}
	return schema
}

// ValidateBytes checks a JSON manifest payload against the embedded schema.
func ValidateBytes(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	if err := compiledSchema.Validate(value); err != nil {
		return fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	return nil
}
