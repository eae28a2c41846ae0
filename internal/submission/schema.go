package submission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/media"
)

// Schema returns the JSON schema a JSON-encoded body for fields and slots
// must satisfy.
func Schema(fields []Field, slots []media.Snapshot) map[string]any {
	properties := map[string]any{}
	for _, field := range fields {
		properties[field.Name] = fieldSchema(field)
	}
	for _, snap := range slots {
		_, urlField := snap.Binding.Fields()
		if snap.Binding.Gallery {
			properties[urlField] = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			}
			continue
		}
		properties[urlField] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
}

func fieldSchema(field Field) map[string]any {
	switch field.Type {
	case FieldLocalized:
		langs := locale.Languages()
		props := make(map[string]any, len(langs))
		required := make([]any, 0, len(langs))
		for _, lang := range langs {
			props[lang.String()] = map[string]any{"type": "string"}
			required = append(required, lang.String())
		}
		return map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		}
	case FieldBool:
		return map[string]any{"type": "boolean"}
	case FieldNumber:
		return map[string]any{"type": "number"}
	case FieldArray:
		return map[string]any{"type": "array"}
	default:
		return map[string]any{"type": "string"}
	}
}

func validateJSONBody(fields []Field, slots []media.Snapshot, body []byte) error {
	compiled, err := compileSchema(Schema(fields, slots))
	if err != nil {
		return fmt.Errorf("submission: compile schema: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var document any
	if err := decoder.Decode(&document); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if err := compiled.Validate(document); err != nil {
		return fmt.Errorf("%w: %s", ErrSchemaViolation, describeSchemaError(err))
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("payload.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("payload.json")
}

func describeSchemaError(err error) string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) || validationErr == nil {
		return err.Error()
	}
	var parts []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := node.InstanceLocation
			if location == "" {
				location = "#"
			}
			parts = append(parts, location+": "+node.Message)
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return strings.Join(parts, "; ")
}
