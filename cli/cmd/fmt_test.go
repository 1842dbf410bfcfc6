package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestFmtRun(t *testing.T) {
	t.Parallel()

	const src = "# sum\n(define x   (+ 1\n  2.5))\n(print \"a \\\"b\\\"\")\n"

	dir := t.TempDir()
	path := writeFile(t, dir, "src.lisp", src)

	tests := []struct {
		name  string
		run   func(context.Context) error
		stdin string
		check func(t *testing.T, out string)
	}{
		{
			name:  "native_stdin",
			run:   (&Native{Indent: 2, Source: "-"}).Run,
			stdin: src,
			check: func(t *testing.T, out string) {
				want := "(define x (+ 1 2.5))\n(print \"a \\\"b\\\"\")\n"
				if out != want {
					t.Errorf("output = %q, want %q", out, want)
				}
			},
		},
		{
			name: "native_file",
			run:  (&Native{Indent: 2, Source: path}).Run,
			check: func(t *testing.T, out string) {
				if !strings.HasPrefix(out, "(define x (+ 1 2.5))\n") {
					t.Errorf("output = %q", out)
				}
			},
		},
		{
			name: "json",
			run:  (&JSON{Indent: 2, Source: path}).Run,
			check: func(t *testing.T, out string) {
				var tree []map[string]any
				if err := json.Unmarshal([]byte(out), &tree); err != nil {
					t.Fatalf("output is not JSON: %v\n%s", err, out)
				}

				if len(tree) != 2 {
					t.Errorf("len(tree) = %d, want 2", len(tree))
				}

				if _, ok := tree[0]["list"]; !ok {
					t.Errorf("tree[0] = %v, want list node", tree[0])
				}
			},
		},
		{
			name: "yaml",
			run:  (&YAML{Indent: 2, Source: path}).Run,
			check: func(t *testing.T, out string) {
				for _, want := range []string{"list:", "symbol: define", "float: 2.5"} {
					if !strings.Contains(out, want) {
						t.Errorf("output missing %q:\n%s", want, out)
					}
				}
			},
		},
		{
			name: "ast",
			run:  (&AST{Source: path}).Run,
			check: func(t *testing.T, out string) {
				want := "List[Symbol(define), Symbol(x), List[Symbol(+), Integer(1), Float(2.5)]]\n"
				if !strings.HasPrefix(out, want) {
					t.Errorf("output = %q, want prefix %q", out, want)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, out, _ := testStreams(t.Context(), tt.stdin)

			if err := tt.run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			tt.check(t, out.String())
		})
	}
}

func TestFmtRun_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		stdin  string
	}{
		{name: "missing_file", source: "/nonexistent/src.lisp"},
		{name: "unbalanced", source: "-", stdin: "(define x"},
		{name: "unterminated_string", source: "-", stdin: `(print "x)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, out, _ := testStreams(t.Context(), tt.stdin)

			err := (&Native{Indent: 2, Source: tt.source}).Run(ctx)
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("Run() error = %v, want %v", err, ErrFormat)
			}

			if out.Len() != 0 {
				t.Errorf("Run() wrote %q on error", out.String())
			}
		})
	}
}
