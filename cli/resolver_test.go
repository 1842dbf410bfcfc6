package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alecthomas/kong"
)

type resolverCLI struct {
	LogLevel string   `default:"warn"`
	MaxDepth int      `default:"1"`
	Ratio    float64  `default:"1.5"`
	Verbose  bool     `default:"false"`
	Tags     []string `default:"x"`
	Pi       float64  `default:"3"`
}

func TestResolve(t *testing.T) {
	t.Parallel()

	defaults := resolverCLI{
		LogLevel: "warn", MaxDepth: 1, Ratio: 1.5, Tags: []string{"x"}, Pi: 3,
	}

	tests := []struct {
		name   string
		script string
		args   []string
		want   resolverCLI
	}{
		{
			name:   "hyphenated_names",
			script: `(define log-level "debug") (define max-depth (* 2 4))`,
			want: resolverCLI{
				LogLevel: "debug", MaxDepth: 8, Ratio: 1.5, Tags: []string{"x"}, Pi: 3,
			},
		},
		{
			name:   "underscored_names",
			script: `(define log_level "info") (define max_depth 7)`,
			want: resolverCLI{
				LogLevel: "info", MaxDepth: 7, Ratio: 1.5, Tags: []string{"x"}, Pi: 3,
			},
		},
		{
			name:   "float_bool_list",
			script: `(define ratio 0.25) (define verbose 1) (define tags (list "a" "b"))`,
			want: resolverCLI{
				LogLevel: "warn", MaxDepth: 1, Ratio: 0.25, Verbose: true, Tags: []string{"a", "b"}, Pi: 3,
			},
		},
		{
			name:   "flags_override_config",
			script: `(define log-level "debug") (define max-depth 5)`,
			args:   []string{"--log-level=error"},
			want: resolverCLI{
				LogLevel: "error", MaxDepth: 5, Ratio: 1.5, Tags: []string{"x"}, Pi: 3,
			},
		},
		{
			name:   "callables_ignored",
			script: `(define log-level (lambda () "debug")) (define max-depth car)`,
			want:   defaults,
		},
		{
			name:   "builtin_constants_not_flags",
			script: `(define unrelated pi)`,
			want:   defaults,
		},
		{
			name:   "invalid_script_ignored",
			script: `(define log-level "debug")(define max-depth`,
			want:   defaults,
		},
		{
			name:   "include_disabled",
			script: `(define log-level "debug") (include "other.lisp")`,
			want:   defaults,
		},
		{
			name:   "empty",
			script: ``,
			want:   defaults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.lisp")
			if err := os.WriteFile(path, []byte(tt.script), 0o644); err != nil {
				t.Fatal(err)
			}

			var got resolverCLI

			parser, err := kong.New(&got, kong.Configuration(resolve(t.Context()), path))
			if err != nil {
				t.Fatal(err)
			}

			if _, err := parser.Parse(tt.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if got.LogLevel != tt.want.LogLevel ||
				got.MaxDepth != tt.want.MaxDepth ||
				got.Ratio != tt.want.Ratio ||
				got.Verbose != tt.want.Verbose ||
				got.Pi != tt.want.Pi ||
				!slices.Equal(got.Tags, tt.want.Tags) {
				t.Errorf("config = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_MissingFile(t *testing.T) {
	t.Parallel()

	var got resolverCLI

	path := filepath.Join(t.TempDir(), "none.lisp")

	parser, err := kong.New(&got, kong.Configuration(resolve(t.Context()), path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", got.LogLevel, "warn")
	}
}
