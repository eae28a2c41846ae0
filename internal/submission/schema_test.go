package submission_test

import (
	"bytes"
	"encoding/json"
	"testing"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/media"
	"github.com/goliatone/go-catalog/internal/submission"
)

func compile(t *testing.T, schema map[string]any) *jsonschema.Schema {
	t.Helper()
	encoded, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("test.json", bytes.NewReader(encoded)); err != nil {
		t.Fatalf("add resource: %v", err)
	}
	compiled, err := compiler.Compile("test.json")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return compiled
}

func TestSchemaDescribesFieldsAndSlots(t *testing.T) {
	fields := []submission.Field{
		submission.Localized("name", locale.NewText("სახელი", "", "")),
		submission.Bool("isActive", true),
		submission.Int("sortOrder", 0),
		submission.Array("tags", nil),
	}
	slots := []media.Snapshot{
		{Binding: imageBinding()},
		{Binding: galleryBinding()},
	}
	schema := compile(t, submission.Schema(fields, slots))

	valid := map[string]any{
		"name":       map[string]any{"ka": "სახელი", "en": "", "ru": ""},
		"isActive":   true,
		"sortOrder":  json.Number("0"),
		"tags":       []any{},
		"imageUrl":   "",
		"galleryUrl": []any{"https://cdn.local/1.png"},
	}
	if err := schema.Validate(valid); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}

	cases := map[string]map[string]any{
		"unknown field":        {"title": "x"},
		"missing language key": {"name": map[string]any{"ka": "x"}},
		"string boolean":       {"isActive": "true"},
		"empty gallery url":    {"galleryUrl": []any{""}},
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if err := schema.Validate(doc); err == nil {
				t.Fatalf("expected %v to be rejected", doc)
			}
		})
	}
}
