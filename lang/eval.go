package lang

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/frisp/log"
)

// Special form names.
const (
	formIf      = "if"
	formDefine  = "define"
	formLambda  = "lambda"
	formProgn   = "progn"
	formEval    = "eval"
	formInclude = "include"
)

// SpecialForms returns the names of the special forms enabled in e,
// including the optional ones permitted by its capabilities.
func (e *Environment) SpecialForms() []string {
	forms := []string{formDefine, formIf, formLambda, formProgn}

	if e.Capabilities().Has(CapEval) {
		forms = append(forms, formEval)
	}

	if e.Capabilities().Has(CapInclude) {
		forms = append(forms, formInclude)
	}

	return forms
}

// maxRefHops bounds SymbolRef forwarding so a self-referential chain of
// references fails instead of looping.
const maxRefHops = 64

// Eval evaluates n in e.
//
// Recursion is bounded only by the Go stack; unbounded script recursion
// is a fatal condition, not an error.
func (e *Environment) Eval(ctx context.Context, n Node) (Value, error) {
	switch n.Kind {
	case NodeValue:
		return n.Value, nil

	case NodeSymbol:
		b, ok := e.Lookup(n.Name)
		if !ok {
			return Unit, ErrEval.WithPosition(n.Pos).
				With(slog.String("symbol", n.Name)).
				Wrapf("symbol not found: %s", n.Name)
		}

		if v, ok := b.Constant(); ok {
			return v, nil
		}

		return SymbolRefValue(n.Name), nil

	case NodeList:
		return e.evalList(ctx, n)

	default:
		return Unit, ErrEval.WithPosition(n.Pos).Wrapf("invalid node kind %s", n.Kind)
	}
}

func (e *Environment) evalList(ctx context.Context, n Node) (Value, error) {
	if len(n.List) == 0 {
		return Unit, nil
	}

	name, ok := n.Head()
	if !ok {
		return Unit, ErrEval.WithPosition(n.Pos).
			With(slog.String("form", n.String())).
			Wrapf("list head is not a symbol: %s", n.List[0])
	}

	args := n.List[1:]

	switch name {
	case formIf:
		return e.evalIf(ctx, n, args)
	case formDefine:
		return e.evalDefine(ctx, n, args)
	case formLambda:
		return e.evalLambda(n, args)
	case formProgn:
		return e.evalProgn(ctx, n, args)
	case formEval:
		if e.rt.cfg.caps.Has(CapEval) {
			return e.evalEval(ctx, n, args)
		}
	case formInclude:
		if e.rt.cfg.caps.Has(CapInclude) {
			return e.evalInclude(ctx, n, args)
		}
	}

	vals := make([]Value, len(args))
	for i, arg := range args {
		v, err := e.Eval(ctx, arg)
		if err != nil {
			return Unit, err
		}

		vals[i] = v
	}

	b, ok := e.Lookup(name)
	if !ok {
		return Unit, ErrEval.WithPosition(n.Pos).
			With(slog.String("proc", name)).
			Wrapf("proc not found: %s", name)
	}

	return e.invoke(ctx, name, b, vals)
}

// formArity reports a special form used with the wrong number of
// operands.
func formArity(n Node, form string, want string, got int) error {
	return ErrEval.WithPosition(n.Pos).With(
		slog.String("form", form),
		slog.String("expected", want),
		slog.Int("actual", got),
	).Wrapf("%s requires %s operand(s), got %d", form, want, got)
}

func (e *Environment) evalIf(ctx context.Context, n Node, args []Node) (Value, error) {
	if len(args) != 3 {
		return Unit, formArity(n, formIf, "3", len(args))
	}

	test, err := e.Eval(ctx, args[0])
	if err != nil {
		return Unit, err
	}

	if test.IsTrue() {
		return e.Eval(ctx, args[1])
	}

	return e.Eval(ctx, args[2])
}

// evalDefine binds a symbol in the current scope. A target that is not a
// symbol yields Unit without evaluating the value or binding anything.
func (e *Environment) evalDefine(ctx context.Context, n Node, args []Node) (Value, error) {
	if len(args) != 2 {
		return Unit, formArity(n, formDefine, "2", len(args))
	}

	if args[0].Kind != NodeSymbol {
		e.logger().DebugContext(ctx, "define target is not a symbol",
			slog.String("target", args[0].String()),
			slog.String("pos", n.Pos.String()))

		return Unit, nil
	}

	v, err := e.Eval(ctx, args[1])
	if err != nil {
		return Unit, err
	}

	e.Define(args[0].Name, v)

	e.logger().TraceContext(ctx, "define",
		slog.String("name", args[0].Name),
		slog.String("kind", v.kind.String()),
		slog.Int("scope", e.id))

	return Unit, nil
}

func (e *Environment) evalLambda(n Node, args []Node) (Value, error) {
	if len(args) < 1 {
		return Unit, formArity(n, formLambda, "at least 1", len(args))
	}

	if args[0].Kind != NodeList {
		return Unit, ErrEval.WithPosition(args[0].Pos).
			Wrapf("lambda parameters must be a list, got %s", args[0])
	}

	params := make([]string, len(args[0].List))
	for i, p := range args[0].List {
		if p.Kind != NodeSymbol {
			return Unit, ErrEval.WithPosition(p.Pos).
				Wrapf("lambda parameter is not a symbol: %s", p)
		}

		params[i] = p.Name
	}

	fn := &Lambda{Params: params, Body: args[1:]}

	if e.rt.cfg.scoping == ScopeLexical {
		e.rt.pin(e.id)
		fn.closure = e
	}

	return Value{kind: KindLambda, fn: fn}, nil
}

func (e *Environment) evalProgn(ctx context.Context, n Node, args []Node) (Value, error) {
	if len(args) == 0 {
		return Unit, formArity(n, formProgn, "at least 1", 0)
	}

	var last Value

	for _, arg := range args {
		var err error
		if last, err = e.Eval(ctx, arg); err != nil {
			return Unit, err
		}
	}

	return last, nil
}

// stringOperand returns the text of a special form's single string
// literal operand.
func stringOperand(n Node, form string, args []Node) (string, error) {
	if len(args) != 1 {
		return "", formArity(n, form, "1", len(args))
	}

	if s, ok := args[0].Value.AsString(); ok && args[0].Kind == NodeValue {
		return s, nil
	}

	return "", ErrEval.WithPosition(args[0].Pos).
		Wrapf("%s requires a string literal, got %s", form, args[0])
}

// evalEval runs script text in the current scope and returns the value of
// its last form.
func (e *Environment) evalEval(ctx context.Context, n Node, args []Node) (Value, error) {
	src, err := stringOperand(n, formEval, args)
	if err != nil {
		return Unit, err
	}

	return e.run(ctx, strings.NewReader(src))
}

// evalInclude runs the forms of a file in the current scope.
func (e *Environment) evalInclude(ctx context.Context, n Node, args []Node) (Value, error) {
	path, err := stringOperand(n, formInclude, args)
	if err != nil {
		return Unit, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Unit, ErrEval.WithPosition(n.Pos).
			With(slog.String("path", path)).Wrap(err)
	}
	defer f.Close()

	e.logger().DebugContext(ctx, "include", slog.String("path", path))

	if _, err := e.run(ctx, f); err != nil {
		return Unit, err
	}

	return Unit, nil
}

// invoke dispatches a call to a resolved binding.
func (e *Environment) invoke(ctx context.Context, name string, b Binding, args []Value) (Value, error) {
	for range maxRefHops {
		if fn, ok := b.Builtin(); ok {
			return fn.call(ctx, e, args)
		}

		v := b.value

		switch v.kind {
		case KindLambda:
			return e.apply(ctx, name, v.fn, args)

		case KindSymbolRef:
			var ok bool
			if b, ok = e.Lookup(v.text); !ok {
				return Unit, ErrEval.With(slog.String("proc", name)).
					Wrapf("unknown symbol: %s", v.text)
			}

			name = v.text

		default:
			if len(args) > 0 {
				return Unit, &ArgumentCountError{Name: name, Expected: 0, Actual: len(args)}
			}

			return v, nil
		}
	}

	return Unit, ErrEval.With(slog.String("proc", name)).
		Wrapf("symbol reference cycle through %s", name)
}

// apply calls a lambda in a new scope whose parent is the calling scope,
// or the defining scope under lexical scoping.
func (e *Environment) apply(ctx context.Context, name string, fn *Lambda, args []Value) (Value, error) {
	if len(args) != len(fn.Params) {
		return Unit, &ArgumentCountError{
			Name:     name,
			Expected: len(fn.Params),
			Actual:   len(args),
		}
	}

	if len(fn.Body) == 0 {
		return Unit, ErrEval.With(slog.String("proc", name)).
			Wrapf("lambda %s has an empty body", name)
	}

	if err := ctx.Err(); err != nil {
		return Unit, ErrEval.With(slog.String("proc", name)).Wrap(err)
	}

	parent := e.id
	if fn.closure != nil && fn.closure.rt == e.rt {
		parent = fn.closure.id
	}

	frame := &Environment{rt: e.rt, id: e.rt.alloc(parent, false)}
	defer e.rt.release(frame.id)

	for i, p := range fn.Params {
		frame.Define(p, args[i])
	}

	if l := e.logger(); l.Enabled(ctx, log.LevelTrace) {
		l.TraceContext(ctx, "call",
			slog.String("proc", name),
			slog.Int("args", len(args)),
			slog.Int("scope", frame.id),
			slog.Int("parent", parent))
	}

	var last Value

	for _, stmt := range fn.Body {
		var err error
		if last, err = frame.Eval(ctx, stmt); err != nil {
			return Unit, err
		}
	}

	return last, nil
}
