package parse

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/kaptinlin/jsonrepair"
)

// ParseStringAs parses raw text into a value of type T.
//
// Primitive targets (string, bool, ints, uints, floats) go through
// strconv. Everything else is treated as JSON; when the first unmarshal
// fails the input is run through jsonrepair and retried, which recovers
// single quotes, unquoted keys, trailing commas and similar damage.
//
// As a last resort both paths unwrap the {"type": ..., "value": ...}
// envelope some models emit when they confuse a JSON schema with the
// data it describes.
//
//	answer, err := ParseStringAs[Answer](`{city: 'Paris', confidence: 0.9}`)
//	count, err := ParseStringAs[int]("42")
func ParseStringAs[T any](content string) (T, error) {
	var result T
	out := reflect.ValueOf(&result).Elem()

	switch reflect.TypeFor[T]().Kind() {
	case reflect.String:
		// A leading brace suggests a schema-wrapped string rather than
		// literal text that happens to start with '{'.
		if len(content) > 0 && content[0] == '{' {
			if inner, err := tryUnwrapPrimitive(content); err == nil {
				out.SetString(inner)
				return result, nil
			}
		}
		out.SetString(content)
		return result, nil

	case reflect.Bool:
		val, err := strconv.ParseBool(primitiveText(content))
		if err != nil {
			return result, fmt.Errorf("failed to parse content as bool: %w", err)
		}
		out.SetBool(val)
		return result, nil

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(primitiveText(content), 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		out.SetFloat(val)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(primitiveText(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		out.SetInt(val)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(primitiveText(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as uint: %w", err)
		}
		out.SetUint(val)
		return result, nil

	default:
		if err := json.Unmarshal([]byte(content), &result); err == nil {
			return result, nil
		} else if repaired, repairErr := jsonrepair.JSONRepair(content); repairErr != nil {
			return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
		} else if retryErr := json.Unmarshal([]byte(repaired), &result); retryErr != nil {
			if unwrapped, unwrapErr := unwrapSchemaValues(repaired); unwrapErr == nil {
				if json.Unmarshal([]byte(unwrapped), &result) == nil {
					return result, nil
				}
			}
			return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (original content: %s, repaired: %s)", result, retryErr, content, repaired)
		}
		return result, nil
	}
}

// primitiveText returns the text to hand to strconv: the raw content,
// or the inner value when the content is a schema-wrapped primitive.
func primitiveText(content string) string {
	if len(content) > 0 && content[0] == '{' {
		if inner, err := tryUnwrapPrimitive(content); err == nil {
			return inner
		}
	}
	return content
}

// tryUnwrapPrimitive extracts the value from a {"type": ..., "value": ...}
// object and returns its string form.
func tryUnwrapPrimitive(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}

	if _, hasType := data["type"]; !hasType {
		return "", fmt.Errorf("not a schema-wrapped value")
	}
	value, hasValue := data["value"]
	if !hasValue || len(data) != 2 {
		return "", fmt.Errorf("not a schema-wrapped value")
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprintf("%v", v), nil
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(bytes), nil
	}
}

// unwrapSchemaValues rewrites a JSON document in which field values are
// wrapped in {"type": ..., "value": ...} objects into the plain document
// those wrappers describe:
//
//	{"name": {"type": "string", "value": "John"}}  ->  {"name": "John"}
func unwrapSchemaValues(jsonStr string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", err
	}

	result, err := json.Marshal(recursiveUnwrap(data))
	if err != nil {
		return "", err
	}
	return string(result), nil
}

func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				// The value itself may contain further wrappers.
				return recursiveUnwrap(value)
			}
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val)
		}
		return result

	default:
		return data
	}
}
