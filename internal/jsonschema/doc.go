// Package jsonschema derives JSON Schema documents from Go types via
// reflection. Tool input types are declared as plain Go structs; the derived
// schema is what gets advertised to the model in a tool definition.
//
// Field names follow json struct tags; omitempty and pointer fields are
// optional, everything else is required. The jsonschema struct tag adds
// description, enum, and required refinements. Self-referential structs are
// expressed with $ref/$defs to keep the output finite.
package jsonschema
