package lang

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"
)

// Host holds builtins backed by host libraries.
var Host = Library{
	{
		Name: "expr", Min: 1, Max: 1,
		Usage: "Result of an expr-lang expression over the visible constants",
		Fn:    evalExpr,
	},
	{
		Name: "path-prefix", Min: 1, Max: Variadic,
		Usage: "PATH-like list with items prepended, without duplicates",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			subject, err := stringArg("path-prefix", args, 0)
			if err != nil {
				return Unit, err
			}

			prefix := make([]string, 0, len(args)-1)
			for i := 1; i < len(args); i++ {
				s, err := stringArg("path-prefix", args, i)
				if err != nil {
					return Unit, err
				}

				prefix = append(prefix, s)
			}

			return StringValue(mung.Make(
				mung.WithSubjectItems(subject),
				mung.WithDelim(string(os.PathListSeparator)),
				mung.WithPrefixItems(prefix...),
			).String()), nil
		},
	},
}

// evalExpr compiles and runs an expr-lang expression. Every constant
// binding visible from env whose value has a native form is available to
// the expression by name; inner scopes shadow outer ones.
func evalExpr(_ context.Context, env *Environment, args []Value) (Value, error) {
	src, err := stringArg("expr", args, 0)
	if err != nil {
		return Unit, err
	}

	vars := map[string]any{}
	seen := map[string]struct{}{}

	for name, b := range env.All() {
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}

		if v, ok := b.Constant(); ok {
			if native, ok := v.Native(); ok {
				vars[name] = native
			}
		}
	}

	program, err := expr.Compile(src, expr.Env(vars))
	if err != nil {
		return Unit, ErrBinding.With(
			slog.String("proc", "expr"),
			slog.String("source", src),
		).Wrap(err)
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return Unit, ErrBinding.With(
			slog.String("proc", "expr"),
			slog.String("source", src),
		).Wrap(err)
	}

	v, err := FromNative(out)
	if err != nil {
		return Unit, ErrBinding.With(
			slog.String("proc", "expr"),
			slog.String("source", src),
		).Wrap(err)
	}

	return v, nil
}

// Native returns v as a Go value: nil, string, int, float64, or []any.
// Lambdas, symbol references, and errors have no native form.
func (v Value) Native() (any, bool) {
	switch v.kind {
	case KindUnit:
		return nil, true
	case KindString:
		return v.text, true
	case KindInteger:
		return v.num, true
	case KindFloat:
		return v.flt, true
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			n, ok := item.Native()
			if !ok {
				return nil, false
			}

			out[i] = n
		}

		return out, true
	default:
		return nil, false
	}
}

// FromNative converts a Go value to a Value. Booleans become Integer 0 or
// 1, every integer and float type is accepted, and slices and arrays
// become lists.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Unit, nil
	case Value:
		return t, nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case int:
		return IntValue(t), nil
	case float64:
		return FloatValue(t), nil
	case []any:
		out := make([]Value, len(t))
		for i, item := range t {
			v, err := FromNative(item)
			if err != nil {
				return Unit, err
			}

			out[i] = v
		}

		return ListValue(out...), nil
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(int(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return IntValue(int(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return FloatValue(rv.Float()), nil
	case reflect.String:
		return StringValue(rv.String()), nil
	case reflect.Slice, reflect.Array:
		out := make([]Value, rv.Len())
		for i := range out {
			v, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return Unit, err
			}

			out[i] = v
		}

		return ListValue(out...), nil
	default:
		return Unit, fmt.Errorf("no value for %T", x)
	}
}
