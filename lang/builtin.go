package lang

import (
	"context"
	"log/slog"
)

// Variadic is the Max of a builtin accepting any number of operands
// beyond its Min.
const Variadic = -1

// BuiltinFunc implements a builtin. env is the calling scope and args
// have already been evaluated and counted against the builtin's arity.
type BuiltinFunc func(ctx context.Context, env *Environment, args []Value) (Value, error)

// Builtin is a named host operation.
type Builtin struct {
	Fn BuiltinFunc
	// Name is the symbol the builtin is bound to.
	Name string
	// Usage is a one-line description shown by interactive sessions.
	Usage string
	// Min and Max bound the operand count. Max is [Variadic] for no upper
	// bound.
	Min, Max int
}

func (b *Builtin) call(ctx context.Context, env *Environment, args []Value) (Value, error) {
	if n := len(args); n < b.Min || (b.Max != Variadic && n > b.Max) {
		return Unit, &ArgumentCountError{
			Name:     b.Name,
			Expected: b.expected(n),
			Actual:   n,
			AtLeast:  b.Max == Variadic,
		}
	}

	return b.Fn(ctx, env, args)
}

// expected returns the bound violated by n operands.
func (b *Builtin) expected(n int) int {
	if n < b.Min {
		return b.Min
	}

	return b.Max
}

// Library is a set of builtins installed together.
type Library []*Builtin

// Install binds every builtin of l in env.
func (l Library) Install(env *Environment) {
	for _, b := range l {
		env.DefineBuiltin(b)
	}
}

// operandError reports operand i of proc having the wrong kind.
func operandError(proc string, i int, v Value, want string) error {
	return ErrBinding.With(
		slog.String("proc", proc),
		slog.Int("operand", i),
		slog.String("value", v.GoString()),
	).Wrapf("%s: operand %d: expected %s, got %s", proc, i, want, v.kind)
}

func stringArg(proc string, args []Value, i int) (string, error) {
	s, ok := args[i].AsString()
	if !ok {
		return "", operandError(proc, i, args[i], KindString.String())
	}

	return s, nil
}

func intArg(proc string, args []Value, i int) (int, error) {
	n, ok := args[i].AsInt()
	if !ok {
		return 0, operandError(proc, i, args[i], KindInteger.String())
	}

	return n, nil
}

func listArg(proc string, args []Value, i int) ([]Value, error) {
	l, ok := args[i].AsList()
	if !ok {
		return nil, operandError(proc, i, args[i], KindList.String())
	}

	return l, nil
}

// boolArg returns an integer operand that must be 0 or 1.
func boolArg(proc string, args []Value, i int) (bool, error) {
	n, err := intArg(proc, args, i)
	if err != nil {
		return false, err
	}

	if n != 0 && n != 1 {
		return false, operandError(proc, i, args[i], "boolean 0 or 1")
	}

	return n == 1, nil
}
