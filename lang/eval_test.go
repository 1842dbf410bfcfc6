package lang

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// evalString runs src in a fresh default environment with silent I/O.
func evalString(t *testing.T, src string, opts ...Option) (Value, error) {
	t.Helper()

	base := []Option{WithOutput(io.Discard), WithInput(strings.NewReader(""))}

	return Run(t.Context(), src, append(base, opts...)...)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Value
	}{
		{"empty", "", Unit},
		{"comment only", "# nothing here\n", Unit},
		{"sum", "(+ 1 2)", IntValue(3)},
		{"define then use", "(define r 10) (* r r)", IntValue(100)},
		{"if true", "(if (== 1 1) 7 8)", IntValue(7)},
		{"if false", "(if (== 1 2) 7 8)", IntValue(8)},
		{"if only 1 is true", "(if 2 7 8)", IntValue(8)},
		{"join", `(str-join "," (list "a" "b" "c"))`, StringValue("a,b,c")},
		{
			"fib",
			`(define fib (lambda (n)
			   (if (< n 2) n (+ (fib (- n 1)) (fib (- n 2))))))
			 (fib 10)`,
			IntValue(55),
		},
		{
			"gcd",
			`(define gcd (lambda (a b) (if (== b 0) a (gcd b (mod a b)))))
			 (gcd 48 18)`,
			IntValue(6),
		},
		{"last form wins", "1 2 3", IntValue(3)},
		{"define yields unit", "(define x 1)", Unit},
		{"empty list", "()", Unit},
		{"progn", "(progn (define x 4) (+ x 1))", IntValue(5)},
		{"lambda body sequence", "(define f (lambda (x) (define y 2) (* x y))) (f 21)", IntValue(42)},
		{"symbol ref", "(define add +) (add 1 2)", IntValue(3)},
		{"symbol ref chain", "(define add +) (define plus add) (plus 2 2)", IntValue(4)},
		{"builtin by name", "(type-of +)", StringValue("symbol-ref")},
		{"constant call", "(define r 10) (r)", IntValue(10)},
		{"lambda as value", "(define f (lambda (x) x)) (type-of f)", StringValue("lambda")},
		{"define non-symbol", `(define "x" (no-such-proc))`, Unit},
		{"shadow in lambda", "(define x 1) (define f (lambda (x) x)) (+ (f 5) x)", IntValue(6)},
		{"pi", "(> (parse-int 4) (if (== (type-of pi) \"float\") 3 9))", IntValue(1)},
		{
			"shadowing",
			"(begin (define x 1) (define f (lambda () x)) (define x 2) (f))",
			IntValue(2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalString(t, tt.src)
			if err != nil {
				t.Fatalf("Run(%q) error: %v", tt.src, err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("Run(%q) = %#v, want %#v", tt.src, got, tt.want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unterminated string", `(print "abc`, ErrLex},
		{"missing close", "(+ 1 2", ErrParse},
		{"extra close", "(+ 1 2))", ErrParse},
		{"unknown symbol", "x", ErrEval},
		{"unknown proc", "(no-such-proc 1)", ErrEval},
		{"non-symbol head", "(1 2)", ErrEval},
		{"list head", "((lambda (x) x) 1)", ErrEval},
		{"if arity", "(if 1 2)", ErrEval},
		{"if extra", "(if 1 2 3 4)", ErrEval},
		{"define arity", "(define x)", ErrEval},
		{"lambda arity", "(lambda)", ErrEval},
		{"lambda params", "(lambda x x)", ErrEval},
		{"lambda param kind", "(lambda (1) 1)", ErrEval},
		{"empty body", "(define f (lambda ())) (f)", ErrEval},
		{"progn arity", "(progn)", ErrEval},
		{"eval needs literal", `(define s "1") (eval s)`, ErrEval},
		{"include missing", `(include "/nonexistent/frisp/file.lisp")`, ErrEval},
		{"error in argument", "(+ 1 (car (list)))", ErrBinding},
		{"type mismatch", `(+ 1 "a")`, ErrBinding},
		{"first operand", `(+ "a" 1)`, ErrBinding},
		{"divide by zero", "(/ 1 0)", ErrBinding},
		{"lambda arity mismatch", "(define f (lambda (a b) a)) (f 1)", ErrArgumentCount},
		{"builtin arity", "(car)", ErrArgumentCount},
		{"constant with args", "(define r 1) (r 2)", ErrArgumentCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evalString(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run(%q) error = %v, want %v", tt.src, err, tt.want)
			}
		})
	}
}

func TestArgumentCountError(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ArgumentCountError
	}{
		{
			"too few",
			"(define f (lambda (a b) a)) (f 1)",
			ArgumentCountError{Name: "f", Expected: 2, Actual: 1},
		},
		{
			"too many",
			"(define f (lambda (a b) a)) (f 1 2 3)",
			ArgumentCountError{Name: "f", Expected: 2, Actual: 3},
		},
		{
			"builtin",
			"(cons 1)",
			ArgumentCountError{Name: "cons", Expected: 2, Actual: 1},
		},
		{
			"variadic",
			"(+)",
			ArgumentCountError{Name: "+", Expected: 1, Actual: 0, AtLeast: true},
		},
		{
			"constant",
			"(define r 1) (r 2 3)",
			ArgumentCountError{Name: "r", Expected: 0, Actual: 2},
		},
		{
			"through symbol ref",
			"(define first car) (first)",
			ArgumentCountError{Name: "car", Expected: 1, Actual: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evalString(t, tt.src)

			var ace *ArgumentCountError
			if !errors.As(err, &ace) {
				t.Fatalf("Run(%q) error = %v, want *ArgumentCountError", tt.src, err)
			}

			if *ace != tt.want {
				t.Errorf("got %+v, want %+v", *ace, tt.want)
			}
		})
	}
}

func TestArgumentCountError_Message(t *testing.T) {
	err := &ArgumentCountError{Name: "+", Expected: 1, Actual: 0, AtLeast: true}

	want := "argument count mismatch: +: expected at least 1, got 0"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestEval_ErrorPosition(t *testing.T) {
	_, err := evalString(t, "(define x 1)\n  (no-such-proc x)")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v, want *Error", err)
	}

	attrs := map[string]string{}
	for _, a := range e.Attrs() {
		attrs[a.Key] = a.Value.String()
	}

	if attrs["line"] != "2" || attrs["column"] != "3" || attrs["proc"] != "no-such-proc" {
		t.Errorf("attrs = %v", attrs)
	}
}

func TestScoping(t *testing.T) {
	const (
		caller = `(define x 1)
			(define f (lambda () x))
			(define g (lambda (x) (f)))
			(g 5)`
		adder = `(define make-adder (lambda (n) (lambda (x) (+ x n))))
			(define add5 (make-adder 5))
			(add5 10)`
	)

	t.Run("dynamic", func(t *testing.T) {
		got, err := evalString(t, caller)
		if err != nil {
			t.Fatal(err)
		}

		if !got.Equal(IntValue(5)) {
			t.Errorf("free name resolved to %#v, want the caller's binding", got)
		}

		if _, err := evalString(t, adder); !errors.Is(err, ErrEval) {
			t.Errorf("closure over returned scope: error = %v, want ErrEval", err)
		}
	})

	t.Run("lexical", func(t *testing.T) {
		got, err := evalString(t, caller, WithScoping(ScopeLexical))
		if err != nil {
			t.Fatal(err)
		}

		if !got.Equal(IntValue(1)) {
			t.Errorf("free name resolved to %#v, want the defining binding", got)
		}

		got, err = evalString(t, adder, WithScoping(ScopeLexical))
		if err != nil {
			t.Fatal(err)
		}

		if !got.Equal(IntValue(15)) {
			t.Errorf("(add5 10) = %#v, want 15", got)
		}
	})

	t.Run("shadowing", func(t *testing.T) {
		const src = "(begin (define x 1) (define f (lambda () x)) (define x 2) (f))"

		for _, s := range []Scoping{ScopeDynamic, ScopeLexical} {
			got, err := evalString(t, src, WithScoping(s))
			if err != nil {
				t.Fatal(err)
			}

			// The redefinition replaces x in the only scope either strategy
			// can reach.
			if !got.Equal(IntValue(2)) {
				t.Errorf("%s: (f) = %#v, want 2", s, got)
			}
		}
	})
}

func TestEnvironment_FramesRecycled(t *testing.T) {
	env := DefaultEnvironment(WithOutput(io.Discard))

	_, err := RunWithEnv(t.Context(), `
		(define fib (lambda (n) (if (< n 2) n (+ (fib (- n 1)) (fib (- n 2))))))
		(fib 15)`, env)
	if err != nil {
		t.Fatal(err)
	}

	// One root plus at most one frame per level of recursion.
	if n := len(env.rt.scopes); n > 17 {
		t.Errorf("arena holds %d scopes after recursion", n)
	}
}

func TestEnvironment_Persistence(t *testing.T) {
	env := DefaultEnvironment(WithOutput(io.Discard))

	if _, err := RunWithEnv(t.Context(), "(define x 40)", env); err != nil {
		t.Fatal(err)
	}

	got, err := RunWithEnv(t.Context(), "(+ x 2)", env)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Equal(IntValue(42)) {
		t.Errorf("got %#v, want 42", got)
	}
}

func TestEnvironment_Sub(t *testing.T) {
	root := NewEnvironment()
	root.Define("x", IntValue(1))

	child := root.Sub()
	child.Define("x", IntValue(2))
	child.Define("y", IntValue(3))

	if b, _ := root.Lookup("x"); !b.value.Equal(IntValue(1)) {
		t.Errorf("child definition leaked into parent: %#v", b.value)
	}

	if _, ok := root.Lookup("y"); ok {
		t.Error("parent resolved a child binding")
	}

	if b, _ := child.Lookup("x"); !b.value.Equal(IntValue(2)) {
		t.Errorf("child lookup = %#v, want shadowing binding", b.value)
	}

	if p, ok := child.Parent(); !ok || p.id != root.id {
		t.Error("Parent() does not return the enclosing scope")
	}

	if _, ok := root.Parent(); ok {
		t.Error("root has a parent")
	}

	var names []string
	for name := range child.All() {
		names = append(names, name)
	}

	if got, want := strings.Join(names, " "), "x y x"; got != want {
		t.Errorf("All() = %q, want %q", got, want)
	}

	if got, want := strings.Join(child.Visible(), " "), "x y"; got != want {
		t.Errorf("Visible() = %q, want %q", got, want)
	}
}

func TestEnvironment_Invoke(t *testing.T) {
	env := DefaultEnvironment()

	got, err := env.Invoke(t.Context(), "+", IntValue(1), FloatValue(0.5))
	if err != nil {
		t.Fatal(err)
	}

	if !got.Equal(FloatValue(1.5)) {
		t.Errorf("got %#v, want 1.5", got)
	}

	env.Define("a", SymbolRefValue("b"))
	env.Define("b", SymbolRefValue("a"))

	if _, err := env.Invoke(t.Context(), "a"); !errors.Is(err, ErrEval) {
		t.Errorf("reference cycle error = %v, want ErrEval", err)
	}

	if _, err := env.Invoke(t.Context(), "missing"); !errors.Is(err, ErrEval) {
		t.Errorf("missing proc error = %v, want ErrEval", err)
	}
}

func TestEval_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Run(ctx, "(define f (lambda () 1)) (f)")
	if !errors.Is(err, context.Canceled) || !errors.Is(err, ErrEval) {
		t.Errorf("error = %v, want canceled evaluation", err)
	}
}

func TestCapabilities(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.lisp")

	if err := os.WriteFile(lib, []byte("(define inc (lambda (x) (+ x 1)))\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	include := "(include " + quote(lib) + ") (inc 41)"

	tests := []struct {
		name string
		src  string
		caps Capability
		want Value
		err  error
	}{
		{"eval", `(eval "(define y 2) (* y 3)")`, CapAll, IntValue(6), nil},
		{"eval defines in scope", `(eval "(define y 2)") y`, CapEval, IntValue(2), nil},
		{"eval disabled", `(eval "(+ 1 2)")`, CapInclude, Unit, ErrEval},
		{"include", include, CapAll, IntValue(42), nil},
		{"include only", include, CapInclude, IntValue(42), nil},
		{"include disabled", include, CapNone, Unit, ErrEval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalString(t, tt.src, WithCapabilities(tt.caps))
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("error = %v, want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRun_ParsesBeforeEvaluating(t *testing.T) {
	var out bytes.Buffer

	_, err := Run(t.Context(), `(print "side effect") (+ 1`, WithOutput(&out))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("error = %v, want ErrParse", err)
	}

	if out.Len() != 0 {
		t.Errorf("malformed input was partially evaluated: %q", out.String())
	}
}

func TestParseCapability(t *testing.T) {
	tests := []struct {
		in   string
		want Capability
		ok   bool
	}{
		{"eval", CapEval, true},
		{" Include ", CapInclude, true},
		{"all", CapAll, true},
		{"none", CapNone, true},
		{"exec", CapNone, false},
	}

	for _, tt := range tests {
		got, ok := ParseCapability(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCapability(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	if !CapAll.Has(CapEval | CapInclude) || CapEval.Has(CapInclude) {
		t.Error("Has reports the wrong set")
	}
}

func TestParseScoping(t *testing.T) {
	if s, ok := ParseScoping("LEXICAL"); !ok || s != ScopeLexical {
		t.Errorf("ParseScoping(LEXICAL) = %v, %v", s, ok)
	}

	if s, ok := ParseScoping("dynamic"); !ok || s != ScopeDynamic {
		t.Errorf("ParseScoping(dynamic) = %v, %v", s, ok)
	}

	if _, ok := ParseScoping("static"); ok {
		t.Error("ParseScoping accepted an unknown strategy")
	}
}

func TestEnvironment_SpecialForms(t *testing.T) {
	tests := []struct {
		caps Capability
		want string
	}{
		{CapAll, "define if lambda progn eval include"},
		{CapInclude, "define if lambda progn include"},
		{CapNone, "define if lambda progn"},
	}

	for _, tt := range tests {
		env := NewEnvironment(WithCapabilities(tt.caps))
		if got := strings.Join(env.SpecialForms(), " "); got != tt.want {
			t.Errorf("SpecialForms(%d) = %q, want %q", tt.caps, got, tt.want)
		}
	}
}
