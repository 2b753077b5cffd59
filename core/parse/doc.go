// Package parse converts raw model output into typed Go values.
//
// Model output is rarely clean: providers wrap primitives in schema
// envelopes, emit single-quoted or trailing-comma JSON, or return a
// bare word where a boolean was asked for. ParseStringAs absorbs those
// quirks so callers get a T or an error, never a half-parsed value.
package parse
