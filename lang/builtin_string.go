package lang

import (
	"context"
	"strings"
)

// Strings holds the string builtins.
var Strings = Library{
	{
		Name: "str-split", Min: 2, Max: 2,
		Usage: "Substrings of a string separated by a separator",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			s, err := stringArg("str-split", args, 0)
			if err != nil {
				return Unit, err
			}

			sep, err := stringArg("str-split", args, 1)
			if err != nil {
				return Unit, err
			}

			return stringList(strings.Split(s, sep)), nil
		},
	},
	{
		Name: "str-lines", Min: 1, Max: 1,
		Usage: "Lines of a string without line terminators",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			s, err := stringArg("str-lines", args, 0)
			if err != nil {
				return Unit, err
			}

			return stringList(lines(s)), nil
		},
	},
	{
		Name: "str-concat", Min: 0, Max: Variadic,
		Usage: "Concatenation of strings",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			var sb strings.Builder

			for i := range args {
				s, err := stringArg("str-concat", args, i)
				if err != nil {
					return Unit, err
				}

				sb.WriteString(s)
			}

			return StringValue(sb.String()), nil
		},
	},
	{
		Name: "str-join", Min: 2, Max: 2,
		Usage: "Strings of a list joined by a separator",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			sep, err := stringArg("str-join", args, 0)
			if err != nil {
				return Unit, err
			}

			l, err := listArg("str-join", args, 1)
			if err != nil {
				return Unit, err
			}

			parts := make([]string, len(l))
			for i, item := range l {
				s, ok := item.AsString()
				if !ok {
					return Unit, operandError("str-join", 1, args[1], "list of strings")
				}

				parts[i] = s
			}

			return StringValue(strings.Join(parts, sep)), nil
		},
	},
	{
		Name: "to-string", Min: 1, Max: Variadic,
		Usage: "Text form of a value, or a list of text forms",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			return mapOperands(args, func(v Value) Value {
				return StringValue(v.String())
			}), nil
		},
	},
}

// mapOperands applies fn to a single operand, or to each of several
// operands collecting the results into a list.
func mapOperands(args []Value, fn func(Value) Value) Value {
	if len(args) == 1 {
		return fn(args[0])
	}

	out := make([]Value, len(args))
	for i, v := range args {
		out[i] = fn(v)
	}

	return ListValue(out...)
}

func stringList(ss []string) Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = StringValue(s)
	}

	return ListValue(out...)
}

// lines splits s on "\n", dropping a trailing "\r" from each line and
// the empty line after a final terminator.
func lines(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}

	return parts
}
