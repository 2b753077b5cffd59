package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema represents the subset of JSON Schema used for tool parameters and
// structured output definitions: types, properties, required lists, enums,
// and $ref/$defs for self-referential structs.
type Schema struct {
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object type, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, the schema of the items
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties controls properties not listed in Properties
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Enum lists the allowed values
	Enum []any `json:"enum,omitempty"`
	// Ref and Defs express recursion without infinite expansion
	Ref  string             `json:"$ref,omitempty"`
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// GenerateJSONSchema derives the schema for the Go type T. Pointer types
// derive the schema of their element. The result is deterministic for a given
// type and never nil.
func GenerateJSONSchema[T any]() *Schema {
	generator := &generator{
		visited: make(map[reflect.Type]string),
		defs:    make(map[string]*Schema),
	}

	schema := generator.typeSchema(reflect.TypeFor[T]())
	if len(generator.defs) > 0 {
		schema.Defs = generator.defs
	}
	return schema
}

// generator tracks visited struct types so self-references become $ref nodes
// instead of recursing forever.
type generator struct {
	visited map[reflect.Type]string
	defs    map[string]*Schema
}

func (g *generator) typeSchema(t reflect.Type) *Schema {
	switch t.Kind() {
	case reflect.Pointer:
		return g.typeSchema(t.Elem())

	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: g.typeSchema(t.Elem())}

	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: g.typeSchema(t.Elem())}

	case reflect.Struct:
		return g.structSchema(t)

	default:
		// Interfaces, channels, funcs: nothing sensible to promise.
		return &Schema{Type: "object"}
	}
}

func (g *generator) structSchema(t reflect.Type) *Schema {
	if defName, seen := g.visited[t]; seen {
		return &Schema{Ref: "#/$defs/" + defName}
	}

	defName := defNameFor(t)
	g.visited[t] = defName

	schema := &Schema{Type: "object", Properties: map[string]*Schema{}}
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldName, omitEmpty, skip := parseJSONTag(field)
		if skip {
			continue
		}

		fieldSchema := g.typeSchema(field.Type)
		requiredByTag, err := applySchemaTag(field.Type, field.Tag, fieldSchema)
		if err != nil {
			// A malformed tag refines nothing; the base schema still stands.
			requiredByTag = false
		}

		schema.Properties[fieldName] = fieldSchema

		// Pointers and omitempty fields are optional unless the tag insists.
		if (field.Type.Kind() != reflect.Pointer && !omitEmpty) || requiredByTag {
			required = append(required, fieldName)
		}
	}

	if len(required) > 0 {
		schema.Required = required
	}

	// Only promote to $defs when something actually referenced this type
	// while we were generating it (a self-reference).
	if g.referenced(defName, schema) {
		g.defs[defName] = schema
		return &Schema{Ref: "#/$defs/" + defName}
	}

	delete(g.visited, t)
	return schema
}

// referenced reports whether schema (or anything under it) contains a $ref to
// defName, meaning the type is self-referential.
func (g *generator) referenced(defName string, schema *Schema) bool {
	if schema == nil {
		return false
	}
	if schema.Ref == "#/$defs/"+defName {
		return true
	}
	for _, property := range schema.Properties {
		if g.referenced(defName, property) {
			return true
		}
	}
	if g.referenced(defName, schema.Items) {
		return true
	}
	if nested, ok := schema.AdditionalProperties.(*Schema); ok {
		return g.referenced(defName, nested)
	}
	return false
}

func defNameFor(t reflect.Type) string {
	if t.Name() != "" {
		return strings.ToLower(t.Name())
	}
	return "anonymousStruct"
}

// parseJSONTag extracts the wire name and omitempty flag from a json tag.
// skip is true for fields tagged json:"-".
func parseJSONTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	name = field.Name
	jsonTag := field.Tag.Get("json")
	if jsonTag == "-" {
		return "", false, true
	}
	if jsonTag == "" {
		return name, false, false
	}
	if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
		if jsonTag[:commaIdx] != "" {
			name = jsonTag[:commaIdx]
		}
		omitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
	} else {
		name = jsonTag
	}
	return name, omitEmpty, false
}

// applySchemaTag parses a jsonschema struct tag and applies it to the field
// schema. Supported entries, comma-separated:
//
//	description=<text>   sets the description (text must not contain commas)
//	enum=<value>         appends an allowed value, converted to the field type
//	required             marks an optional field (pointer/omitempty) required
func applySchemaTag(fieldType reflect.Type, tag reflect.StructTag, schema *Schema) (requiredByTag bool, err error) {
	schemaTag := tag.Get("jsonschema")
	if schemaTag == "" {
		return false, nil
	}

	for _, entry := range strings.Split(schemaTag, ",") {
		key, value, hasValue := strings.Cut(entry, "=")
		switch {
		case key == "required" && !hasValue:
			requiredByTag = true

		case key == "description" && hasValue:
			schema.Description = value

		case key == "enum" && hasValue:
			enumValue, convErr := convertEnumValue(fieldType, value)
			if convErr != nil {
				return requiredByTag, convErr
			}
			schema.Enum = append(schema.Enum, enumValue)
		}
	}
	return requiredByTag, nil
}

func convertEnumValue(fieldType reflect.Type, value string) (any, error) {
	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %q as integer: %w", value, err)
		}
		return parsed, nil
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %q as number: %w", value, err)
		}
		return parsed, nil
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %q as bool: %w", value, err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type %v", fieldType)
	}
}

// JsonString converts the schema to its JSON representation. Pass true to
// pretty-print with two-space indentation.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	var jsonBytes []byte
	var err error
	if len(indent) > 0 && indent[0] {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation, or an error message when
// marshalling fails.
func (s *Schema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}
