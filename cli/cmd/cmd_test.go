package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/frisp/lang"
)

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// testStreams returns a context whose commands read stdin and write to the
// returned buffers.
func testStreams(ctx context.Context, stdin string) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	var out, errw bytes.Buffer

	return withStreams(ctx, strings.NewReader(stdin), &out, &errw), &out, &errw
}

func TestExpandSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.lisp", "")
	b := writeFile(t, dir, "b.lisp", "")
	writeFile(t, dir, "notes.txt", "")

	link := filepath.Join(dir, "link.lisp")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	missing := filepath.Join(dir, "missing.lisp")

	tests := []struct {
		name     string
		patterns []string
		want     []string
		wantErr  error
	}{
		{
			name:     "literal",
			patterns: []string{b, a},
			want:     []string{b, a},
		},
		{
			name:     "glob_sorted",
			patterns: []string{filepath.Join(dir, "[ab].lisp")},
			want:     []string{a, b},
		},
		{
			name:     "duplicate_path",
			patterns: []string{a, b, a},
			want:     []string{a, b},
		},
		{
			name:     "duplicate_symlink",
			patterns: []string{a, link},
			want:     []string{a},
		},
		{
			name:     "stdin_once",
			patterns: []string{"-", a, "-"},
			want:     []string{"-", a},
		},
		{
			name:     "missing_literal_kept",
			patterns: []string{missing},
			want:     []string{missing},
		},
		{
			name:     "glob_without_match",
			patterns: []string{filepath.Join(dir, "*.scm")},
			wantErr:  ErrNoMatch,
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := expandSources(tt.patterns)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expandSources() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("expandSources() error = %v", err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("expandSources() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithOptions(t *testing.T) {
	t.Parallel()

	ctx := WithOptions(t.Context(), lang.WithCapabilities(lang.CapNone))
	ctx = WithOptions(ctx, lang.WithScoping(lang.ScopeLexical))

	if got := len(optionsFrom(ctx)); got != 2 {
		t.Fatalf("len(optionsFrom()) = %d, want 2", got)
	}

	ctx, _, _ = testStreams(ctx, "")
	env := newEnvironment(ctx, streamsFrom(ctx), []string{"x"})

	if got := env.Capabilities(); got != lang.CapNone {
		t.Errorf("Capabilities() = %v, want %v", got, lang.CapNone)
	}

	if got := env.Scoping(); got != lang.ScopeLexical {
		t.Errorf("Scoping() = %v, want %v", got, lang.ScopeLexical)
	}

	b, ok := env.Lookup(lang.ArgsName)
	if !ok {
		t.Fatalf("Lookup(%q) not found", lang.ArgsName)
	}

	if v, _ := b.Constant(); v.GoString() != `List[String("x")]` {
		t.Errorf("args = %#v, want List[String(\"x\")]", v)
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := ErrScript.With().Wrap(cause)

	if !errors.Is(err, ErrScript) {
		t.Error("errors.Is(err, ErrScript) = false")
	}

	if errors.Is(err, ErrFormat) {
		t.Error("errors.Is(err, ErrFormat) = true")
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}

	if got, want := err.Error(), "evaluate script: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
