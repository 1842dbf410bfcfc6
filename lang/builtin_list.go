package lang

import (
	"context"
	"log/slog"
)

// Lists holds the list builtins.
var Lists = Library{
	{
		Name: "list", Min: 0, Max: Variadic,
		Usage: "List of the operands",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			return ListValue(append([]Value{}, args...)...), nil
		},
	},
	{
		Name: "car", Min: 1, Max: 1,
		Usage: "First element of a non-empty list",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			l, err := listArg("car", args, 0)
			if err != nil {
				return Unit, err
			}

			if len(l) == 0 {
				return Unit, ErrBinding.With(slog.String("proc", "car")).
					Wrapf("car: list has no first element")
			}

			return l[0], nil
		},
	},
	{
		Name: "cdr", Min: 1, Max: 1,
		Usage: "All but the first element of a list",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			l, err := listArg("cdr", args, 0)
			if err != nil {
				return Unit, err
			}

			if len(l) == 0 {
				return ListValue(), nil
			}

			return ListValue(l[1:]...), nil
		},
	},
	{
		Name: "cons", Min: 2, Max: 2,
		Usage: "List with an element prepended",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			l, err := listArg("cons", args, 1)
			if err != nil {
				return Unit, err
			}

			out := make([]Value, 0, len(l)+1)

			return ListValue(append(append(out, args[0]), l...)...), nil
		},
	},
	{
		Name: "length", Min: 1, Max: 1,
		Usage: "Element count of a list, byte length of a string, 0 for unit",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			switch v := args[0]; v.kind {
			case KindUnit:
				return IntValue(0), nil
			case KindString:
				return IntValue(len(v.text)), nil
			case KindList:
				return IntValue(len(v.list)), nil
			default:
				return Unit, operandError("length", 0, v, "unit, string, or list")
			}
		},
	},
	{
		Name: "endp", Min: 1, Max: 1,
		Usage: "1 if the list is empty, else 0",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			l, err := listArg("endp", args, 0)
			if err != nil {
				return Unit, err
			}

			return BoolValue(len(l) == 0), nil
		},
	},
	{
		Name: "begin", Min: 0, Max: Variadic,
		Usage: "Last operand, or unit if none",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			if len(args) == 0 {
				return Unit, nil
			}

			return args[len(args)-1], nil
		},
	},
}
