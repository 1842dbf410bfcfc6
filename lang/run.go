package lang

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Libraries lists every builtin library installed by
// [DefaultEnvironment].
var Libraries = []Library{Arithmetic, Lists, Strings, IO, Introspection, Host}

// Host-injected binding names.
const (
	ArgsName    = "args"
	EnvironName = "env"
)

// DefaultEnvironment returns a root environment holding every builtin,
// the predefined constants, and any host values supplied with [WithArgs]
// or [WithEnviron].
func DefaultEnvironment(opts ...Option) *Environment {
	env := NewEnvironment(opts...)

	for _, lib := range Libraries {
		lib.Install(env)
	}

	for name, v := range Constants {
		env.Define(name, v)
	}

	cfg := env.rt.cfg

	if cfg.args != nil {
		env.Define(ArgsName, stringList(cfg.args))
	}

	if cfg.environ != nil {
		pairs := make([]Value, 0, len(cfg.environ))

		for _, kv := range cfg.environ {
			name, value, _ := strings.Cut(kv, "=")
			if name == "" {
				continue
			}

			pairs = append(pairs, ListValue(StringValue(name), StringValue(value)))
		}

		env.Define(EnvironName, ListValue(pairs...))
	}

	return env
}

// Run evaluates script text in a fresh default environment and returns
// the value of the last top-level form, or Unit if there is none.
func Run(ctx context.Context, src string, opts ...Option) (Value, error) {
	return RunWithEnv(ctx, src, DefaultEnvironment(opts...))
}

// RunWithEnv evaluates script text in env. Definitions persist in env
// after the call. The whole text is parsed before any form is evaluated,
// so malformed input has no effect.
func RunWithEnv(ctx context.Context, src string, env *Environment) (Value, error) {
	return env.run(ctx, strings.NewReader(src))
}

// EvalFile evaluates the script at path in a fresh default environment.
func EvalFile(ctx context.Context, path string, opts ...Option) (Value, error) {
	return EvalFileWithEnv(ctx, path, DefaultEnvironment(opts...))
}

// EvalFileWithEnv evaluates the script at path in env. A read failure
// matches [ErrEval] and names the path.
func EvalFileWithEnv(ctx context.Context, path string, env *Environment) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unit, ErrEval.With(slog.String("path", path)).Wrap(err)
	}
	defer f.Close()

	env.logger().DebugContext(ctx, "eval file", slog.String("path", path))

	v, err := env.run(ctx, f)
	if err != nil {
		return Unit, WrapError(err).With(slog.String("path", path))
	}

	return v, nil
}

func (e *Environment) run(ctx context.Context, r io.Reader) (Value, error) {
	nodes, err := ParseReader(r)
	if err != nil {
		return Unit, err
	}

	e.logger().TraceContext(ctx, "parsed", slog.Int("forms", len(nodes)))

	last := Unit

	for _, n := range nodes {
		if last, err = e.Eval(ctx, n); err != nil {
			return Unit, err
		}
	}

	return last, nil
}
