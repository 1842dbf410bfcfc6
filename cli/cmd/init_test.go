package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/frisp/lang"
)

type initCLI struct {
	LogLevel       string   `default:"warn"     name:"log-level"`
	LogPretty      bool     `default:"true"     name:"log-pretty"`
	LangCapability []string `default:"eval,all" name:"lang-capability"`
	Depth          int      `default:"3"`
	Unset          string
	PprofMode      string `default:"cpu" name:"pprof-mode"`
	Secret         string `default:"x"   hidden:""`

	Init Init `cmd:""`
}

// parseInit returns the kong context of an init command line whose
// configuration file is confPath.
func parseInit(t *testing.T, confPath string, args ...string) (*initCLI, *kong.Context) {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return &cli, ktx
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		setup   func(t *testing.T, path string) // setup function to prepare test
		wantErr error
	}{
		{
			name: "create_new_config",
		},
		{
			name: "overwrite_existing_with_force",
			args: []string{"--force"},
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "fail_without_force",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.lisp")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			cli, ktx := parseInit(t, confPath, tt.args...)

			err := cli.Init.Run(WithContext(t.Context(), ktx))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				data, _ := os.ReadFile(confPath)
				if string(data) != "existing content" {
					t.Errorf("existing file modified: %q", data)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			want := `# frisp configuration

(define log-level "warn")
(define log-pretty 1)
(define lang-capability (list "eval" "all"))
(define depth 3)
`
			if got := string(data); got != want {
				t.Errorf("config =\n%s\nwant\n%s", got, want)
			}
		})
	}
}

// TestInitRun_Evaluates checks that the generated file is a script whose
// bindings hold the flag values.
func TestInitRun_Evaluates(t *testing.T) {
	t.Parallel()

	confPath := filepath.Join(t.TempDir(), "config.lisp")
	cli, ktx := parseInit(t, confPath, "--log-level=debug", "--depth=9")

	if err := cli.Init.Run(WithContext(t.Context(), ktx)); err != nil {
		t.Fatal(err)
	}

	env := lang.DefaultEnvironment(lang.WithOutput(io.Discard)).Sub()
	if _, err := lang.EvalFileWithEnv(t.Context(), confPath, env); err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"log-level":       `String("debug")`,
		"log-pretty":      "Integer(1)",
		"lang-capability": `List[String("eval"), String("all")]`,
		"depth":           "Integer(9)",
	}

	for name, want := range tests {
		b, ok := env.Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) not found", name)

			continue
		}

		if v, _ := b.Constant(); v.GoString() != want {
			t.Errorf("%s = %#v, want %s", name, v, want)
		}
	}
}

func TestFlagLiteral(t *testing.T) {
	t.Parallel()

	type level string

	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{name: "nil", in: nil},
		{name: "empty_string", in: ""},
		{name: "string", in: "a b", want: `"a b"`, ok: true},
		{name: "named_string", in: level("warn"), want: `"warn"`, ok: true},
		{name: "false", in: false, want: "0", ok: true},
		{name: "uint", in: uint8(7), want: "7", ok: true},
		{name: "float", in: 2.0, want: "2.0", ok: true},
		{name: "empty_slice", in: []string{}},
		{name: "ints", in: []int{1, 2}, want: "(list 1 2)", ok: true},
		{name: "unsupported", in: struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := flagLiteral(tt.in)
			if ok != tt.ok {
				t.Fatalf("flagLiteral(%v) ok = %v, want %v", tt.in, ok, tt.ok)
			}

			if ok && got.String() != tt.want {
				t.Errorf("flagLiteral(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
