package calculator

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/forgeai/forgeai-go/providers/tool"
)

func TestCalc(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  float64
	}{
		{"add", Input{A: 2, B: 3, Op: "add"}, 5},
		{"add symbol", Input{A: 2, B: 3, Op: "+"}, 5},
		{"sub", Input{A: 10, B: 4, Op: "sub"}, 6},
		{"mul", Input{A: 6, B: 7, Op: "mul"}, 42},
		{"div", Input{A: 10, B: 4, Op: "div"}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calc(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Calc() error = %v", err)
			}
			if got.Result != tt.want {
				t.Errorf("Result = %v, want %v", got.Result, tt.want)
			}
		})
	}
}

func TestCalc_DivisionByZero(t *testing.T) {
	_, err := Calc(context.Background(), Input{A: 1, B: 0, Op: "div"})
	if err == nil || !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("err = %v, want division by zero", err)
	}
}

// The zero divisor must surface as a tool execution error rather than a
// marshalling failure on a non-finite result.
func TestCall_DivisionByZeroIsExecutionError(t *testing.T) {
	catalog := tool.NewCatalogWithTools(New())

	_, err := catalog.Call(context.Background(), "calculator", json.RawMessage(`{"a":1,"b":0,"op":"div"}`))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if kind := tool.KindOf(err); kind != tool.ErrExecutionFailed {
		t.Errorf("KindOf(err) = %q, want %q", kind, tool.ErrExecutionFailed)
	}
	if strings.Contains(err.Error(), "cannot marshal output") {
		t.Errorf("err = %v, want a division error, not a marshal failure", err)
	}
}

func TestCalc_UnknownOperation(t *testing.T) {
	_, err := Calc(context.Background(), Input{A: 1, B: 2, Op: "mod"})
	if err == nil || !strings.Contains(err.Error(), "mod") {
		t.Fatalf("err = %v, want unknown operation", err)
	}
}

func TestNew_CallThroughExecutor(t *testing.T) {
	catalog := tool.NewCatalogWithTools(New())

	output, err := catalog.Call(context.Background(), "calculator", json.RawMessage(`{"a":8,"b":2,"op":"div"}`))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	var decoded Output
	if err := json.Unmarshal(output, &decoded); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if decoded.Result != 4 {
		t.Errorf("Result = %v, want 4", decoded.Result)
	}
}

func TestNew_Definition(t *testing.T) {
	definition := New().Definition()
	if definition.Name != "calculator" {
		t.Errorf("Name = %q", definition.Name)
	}
	if definition.InputSchema == nil {
		t.Fatal("InputSchema is nil")
	}
	if _, ok := definition.InputSchema.Properties["op"]; !ok {
		t.Error("schema missing op property")
	}
}
