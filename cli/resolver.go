package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/frisp/lang"
	"github.com/ardnew/frisp/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written as frisp scripts.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.lisp")
//
// The script is evaluated in a child scope of a default environment with
// every optional special form disabled. Each constant it defines in that
// scope configures the flag of the same name:
//   - Flag names may be written with hyphens (log-level) or underscores
//     (log_level)
//   - Strings are used verbatim
//   - Integers and floats are converted to their decimal text
//   - Booleans are written as 1 or 0
//   - Lists configure repeated flags
//   - Lambdas and other callables are ignored
//
// Example config file:
//
//	(define log-level "debug")
//	(define log-pretty 0)
//	(define capability (list "eval"))
//
// Command-line flags override config file values. A script that fails to
// evaluate is reported and otherwise ignored.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		env := lang.DefaultEnvironment(
			lang.WithCapabilities(lang.CapNone),
			lang.WithOutput(io.Discard),
			lang.WithLogger(log.Default()),
		).Sub()

		if _, err := lang.RunWithEnv(ctx, string(src), env); err != nil {
			log.WarnContext(ctx, "ignoring config script", slog.Any("error", err))

			return lispConfig{}, nil
		}

		return collect(env), nil
	}
}

// lispConfig implements [kong.Resolver] for frisp config scripts.
type lispConfig map[string]any

// collect converts the constants defined in env's own scope to flag values.
func collect(env *lang.Environment) lispConfig {
	cfg := lispConfig{}

	for _, name := range env.Local() {
		b, ok := env.Lookup(name)
		if !ok {
			continue
		}

		v, ok := b.Constant()
		if !ok {
			continue
		}

		if x, ok := flagValue(v); ok {
			cfg[name] = x
		}
	}

	return cfg
}

// flagValue converts v to a form kong can decode. Kong requires numbers
// as strings.
func flagValue(v lang.Value) (any, bool) {
	switch v.Kind() {
	case lang.KindString:
		s, _ := v.AsString()

		return s, true

	case lang.KindInteger:
		i, _ := v.AsInt()

		return strconv.Itoa(i), true

	case lang.KindFloat:
		f, _ := v.AsFloat()

		return strconv.FormatFloat(f, 'f', -1, 64), true

	case lang.KindList:
		items, _ := v.AsList()
		out := make([]any, 0, len(items))

		for _, item := range items {
			x, ok := flagValue(item)
			if !ok {
				return nil, false
			}

			out = append(out, x)
		}

		return out, true

	default:
		return nil, false
	}
}

// Validate implements [kong.Resolver].
func (lispConfig) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c lispConfig) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
