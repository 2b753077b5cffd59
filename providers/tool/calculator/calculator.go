// Package calculator provides a built-in arithmetic tool, mostly useful as a
// deterministic fixture in tool-loop tests and demos.
package calculator

import (
	"context"
	"fmt"

	"github.com/forgeai/forgeai-go/providers/tool"
)

// New returns a [tool.Tool] performing basic arithmetic over two operands.
func New() *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		"calculator",
		Calc,
		tool.WithDescription("Performs a basic arithmetic operation (add, sub, mul, div) on two numbers."),
	)
}

// Input holds the operands and the operation for [Calc].
type Input struct {
	A  float64 `json:"a"  jsonschema:"description=First operand,required"`
	B  float64 `json:"b"  jsonschema:"description=Second operand,required"`
	Op string  `json:"op" jsonschema:"description=Operation to apply,enum=add,enum=sub,enum=mul,enum=div,required"`
}

// Output carries the result of one calculation.
type Output struct {
	Result float64 `json:"result" jsonschema:"description=The result of the calculation"`
}

// Calc applies Input.Op to the two operands. Division by zero and
// unrecognised operations are reported as errors so the model gets
// actionable feedback instead of a silent zero; a non-finite result
// would not survive JSON encoding anyway.
func Calc(_ context.Context, input Input) (Output, error) {
	switch input.Op {
	case "add", "+":
		return Output{Result: input.A + input.B}, nil
	case "sub", "-":
		return Output{Result: input.A - input.B}, nil
	case "mul", "*":
		return Output{Result: input.A * input.B}, nil
	case "div", "/":
		if input.B == 0 {
			return Output{}, fmt.Errorf("division by zero")
		}
		return Output{Result: input.A / input.B}, nil
	}
	return Output{}, fmt.Errorf("unknown operation %q", input.Op)
}
