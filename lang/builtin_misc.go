package lang

import (
	"context"
	"log/slog"
)

// Introspection holds the diagnostic, reflection, and assertion builtins.
var Introspection = Library{
	{
		Name: "debug", Min: 0, Max: Variadic,
		Usage: "Print an indexed diagnostic dump of the operands",
		Fn: func(_ context.Context, env *Environment, args []Value) (Value, error) {
			if err := debugWrite(env.rt.cfg.stdout, args); err != nil {
				return Unit, ErrBinding.With(slog.String("proc", "debug")).Wrap(err)
			}

			return Unit, nil
		},
	},
	{
		Name: "type-of", Min: 1, Max: Variadic,
		Usage: "Type name of a value, or a list of type names",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			return mapOperands(args, func(v Value) Value {
				return StringValue(v.kind.String())
			}), nil
		},
	},
	{
		Name: "local-env", Min: 0, Max: 0,
		Usage: "Names bound in the current scope",
		Fn: func(_ context.Context, env *Environment, _ []Value) (Value, error) {
			return stringList(env.Local()), nil
		},
	},
	{
		Name: "global-env", Min: 0, Max: 0,
		Usage: "Names visible from the current scope, innermost scope first",
		Fn: func(_ context.Context, env *Environment, _ []Value) (Value, error) {
			var names []string
			for name := range env.All() {
				names = append(names, name)
			}

			return stringList(names), nil
		},
	},
	{
		Name: "error", Min: 1, Max: 1,
		Usage: "Error value carrying a message",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			msg, err := stringArg("error", args, 0)
			if err != nil {
				return Unit, err
			}

			return ErrorValue(msg), nil
		},
	},
	{
		Name: "assert", Min: 0, Max: Variadic,
		Usage: "Fail unless every operand is 1",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			for i, v := range args {
				if !v.IsTrue() {
					return Unit, ErrAssert.With(
						slog.String("proc", "assert"),
						slog.Int("operand", i),
						slog.String("value", v.GoString()),
					)
				}
			}

			return Unit, nil
		},
	},
	{
		Name: "assert-eq", Min: 2, Max: 2,
		Usage: "Fail unless two values are structurally equal",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			if !args[0].Equal(args[1]) {
				return Unit, ErrAssert.With(
					slog.String("proc", "assert-eq"),
					slog.String("lhs", args[0].GoString()),
					slog.String("rhs", args[1].GoString()),
				)
			}

			return Unit, nil
		},
	},
}
