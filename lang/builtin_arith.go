package lang

import (
	"context"
	"math"
)

// Arithmetic holds the numeric, comparison, and logical builtins.
var Arithmetic = Library{
	foldBuiltin(opAdd, "Sum of one or more numbers"),
	foldBuiltin(opSub, "Left-to-right difference of one or more numbers"),
	foldBuiltin(opMul, "Product of one or more numbers"),
	foldBuiltin(opDiv, "Left-to-right quotient of one or more numbers"),
	{
		Name: "mod", Min: 2, Max: 2,
		Usage: "Remainder of dividing two numbers",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			return opMod.apply(args[0], args[1])
		},
	},
	{
		Name: "==", Min: 2, Max: 2,
		Usage: "1 if two values are structurally equal, else 0",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			return BoolValue(args[0].Equal(args[1])), nil
		},
	},
	compareBuiltin("<", "1 if the first integer is less than the second", func(a, b int) bool { return a < b }),
	compareBuiltin(">", "1 if the first integer is greater than the second", func(a, b int) bool { return a > b }),
	{
		Name: "not", Min: 1, Max: 1,
		Usage: "1 if the integer is 0, else 0",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			n, err := intArg("not", args, 0)
			if err != nil {
				return Unit, err
			}

			return BoolValue(n == 0), nil
		},
	},
	logicBuiltin("and", "1 if both booleans are 1", func(a, b bool) bool { return a && b }),
	logicBuiltin("or", "1 if either boolean is 1", func(a, b bool) bool { return a || b }),
}

// Constants holds the predefined constant bindings.
var Constants = map[string]Value{
	"pi": FloatValue(math.Pi),
}

func foldBuiltin(op numericOp, usage string) *Builtin {
	return &Builtin{
		Name: op.name, Min: 1, Max: Variadic, Usage: usage,
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			return op.fold(args)
		},
	}
}

func compareBuiltin(name, usage string, cmp func(a, b int) bool) *Builtin {
	return &Builtin{
		Name: name, Min: 2, Max: 2, Usage: usage,
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			a, err := intArg(name, args, 0)
			if err != nil {
				return Unit, err
			}

			b, err := intArg(name, args, 1)
			if err != nil {
				return Unit, err
			}

			return BoolValue(cmp(a, b)), nil
		},
	}
}

func logicBuiltin(name, usage string, op func(a, b bool) bool) *Builtin {
	return &Builtin{
		Name: name, Min: 2, Max: 2, Usage: usage,
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			a, err := boolArg(name, args, 0)
			if err != nil {
				return Unit, err
			}

			b, err := boolArg(name, args, 1)
			if err != nil {
				return Unit, err
			}

			return BoolValue(op(a, b)), nil
		},
	}
}
