package jsonschema

import (
	"testing"
)

type weatherInput struct {
	City    string   `json:"city" jsonschema:"description=City name"`
	Unit    string   `json:"unit,omitempty" jsonschema:"enum=celsius,enum=fahrenheit"`
	Days    int      `json:"days,omitempty"`
	Verbose *bool    `json:"verbose,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	ignored string   //nolint:unused // exercised via reflection only
}

// TestGenerateJSONSchema_Struct covers field naming, optionality, enum and
// description tags, and unexported-field skipping.
func TestGenerateJSONSchema_Struct(t *testing.T) {
	schema := GenerateJSONSchema[weatherInput]()

	if schema.Type != "object" {
		t.Fatalf("expected object schema, got %q", schema.Type)
	}
	if len(schema.Properties) != 5 {
		t.Errorf("expected 5 properties, got %d (%v)", len(schema.Properties), schema.Properties)
	}

	city := schema.Properties["city"]
	if city == nil || city.Type != "string" {
		t.Fatalf("expected string city property, got %+v", city)
	}
	if city.Description != "City name" {
		t.Errorf("description tag not applied: %q", city.Description)
	}

	unit := schema.Properties["unit"]
	if unit == nil || len(unit.Enum) != 2 || unit.Enum[0] != "celsius" || unit.Enum[1] != "fahrenheit" {
		t.Errorf("enum tag not applied: %+v", unit)
	}

	if days := schema.Properties["days"]; days == nil || days.Type != "integer" {
		t.Errorf("expected integer days property, got %+v", days)
	}
	if tags := schema.Properties["tags"]; tags == nil || tags.Type != "array" || tags.Items == nil || tags.Items.Type != "string" {
		t.Errorf("expected string-array tags property, got %+v", tags)
	}

	// Only the non-omitempty, non-pointer field is required.
	if len(schema.Required) != 1 || schema.Required[0] != "city" {
		t.Errorf("expected required=[city], got %v", schema.Required)
	}
}

// TestGenerateJSONSchema_Primitives covers the scalar mappings.
func TestGenerateJSONSchema_Primitives(t *testing.T) {
	cases := []struct {
		name string
		got  *Schema
		want string
	}{
		{"string", GenerateJSONSchema[string](), "string"},
		{"int", GenerateJSONSchema[int](), "integer"},
		{"float", GenerateJSONSchema[float64](), "number"},
		{"bool", GenerateJSONSchema[bool](), "boolean"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got.Type != tc.want {
				t.Errorf("expected %q, got %q", tc.want, tc.got.Type)
			}
		})
	}
}

// TestGenerateJSONSchema_Map covers additionalProperties for map values.
func TestGenerateJSONSchema_Map(t *testing.T) {
	schema := GenerateJSONSchema[map[string]int]()
	if schema.Type != "object" {
		t.Fatalf("expected object schema, got %q", schema.Type)
	}
	value, ok := schema.AdditionalProperties.(*Schema)
	if !ok || value.Type != "integer" {
		t.Errorf("expected integer additionalProperties, got %+v", schema.AdditionalProperties)
	}
}

type treeNode struct {
	Label    string     `json:"label"`
	Children []treeNode `json:"children,omitempty"`
}

// TestGenerateJSONSchema_Recursive verifies self-referential structs become
// $ref/$defs instead of recursing forever.
func TestGenerateJSONSchema_Recursive(t *testing.T) {
	schema := GenerateJSONSchema[treeNode]()

	if schema.Ref == "" && schema.Defs == nil {
		t.Fatalf("expected a $ref/$defs structure for a recursive type, got %+v", schema)
	}

	def := schema.Defs["treenode"]
	if def == nil {
		t.Fatalf("expected a treenode definition, defs: %v", schema.Defs)
	}
	children := def.Properties["children"]
	if children == nil || children.Items == nil || children.Items.Ref != "#/$defs/treenode" {
		t.Errorf("expected children items to reference the definition, got %+v", children)
	}
}

// TestSchema_JsonString verifies serialization shapes.
func TestSchema_JsonString(t *testing.T) {
	schema := GenerateJSONSchema[weatherInput]()

	compact, err := schema.JsonString()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if compact == "" || compact[0] != '{' {
		t.Errorf("expected a JSON object, got %q", compact)
	}

	indented, err := schema.JsonString(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(indented) <= len(compact) {
		t.Error("expected indented output to be longer than compact output")
	}
}
