package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/frisp/cli/cmd/repl"
	"github.com/ardnew/frisp/lang"
	"github.com/ardnew/frisp/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type optionsKey struct{}

// WithOptions returns a new context.Context carrying interpreter options
// applied to every environment a command constructs. Options accumulate
// across calls.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, append(optionsFrom(ctx), opts...))
}

// optionsFrom returns a copy of the options stored by [WithOptions].
func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return slices.Clone(opts)
}

// streams are the standard files a command reads and writes.
type streams struct {
	in       *bufio.Reader
	out      *repl.Writer
	err      io.Writer
	terminal bool
}

type streamsKey struct{}

// withStreams returns a new context.Context whose commands read in and
// write out and errw in place of the process's standard files. Input given
// this way is never treated as a terminal.
func withStreams(ctx context.Context, in io.Reader, out, errw io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{
		in:  bufio.NewReader(in),
		out: repl.NewWriter(out),
		err: errw,
	})
}

func streamsFrom(ctx context.Context) streams {
	if s, ok := ctx.Value(streamsKey{}).(streams); ok {
		return s
	}

	return streams{
		in:       bufio.NewReader(os.Stdin),
		out:      repl.NewWriter(os.Stdout),
		err:      os.Stderr,
		terminal: repl.IsTerminal(os.Stdin),
	}
}

// newEnvironment returns a default environment configured with the options
// stored in ctx and bound to the streams in s. The script sees args as its
// args binding and the process environment as its env binding.
func newEnvironment(ctx context.Context, s streams, args []string) *lang.Environment {
	opts := append(optionsFrom(ctx),
		lang.WithOutput(s.out),
		lang.WithInput(s.in),
		lang.WithArgs(args...),
		lang.WithEnviron(os.Environ()),
	)

	return lang.DefaultEnvironment(opts...)
}

// historyPath returns the default session history file in the cache
// directory, or "" if no cache directory is known.
func historyPath(ctx context.Context) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	dir := ktx.Model.Vars()[CacheIdentifier]
	if dir == "" {
		return ""
	}

	return filepath.Join(dir, repl.BaseHistory)
}

// session runs an interactive session in env on the streams in s.
func session(ctx context.Context, env *lang.Environment, s streams, history string, plain bool) error {
	return repl.Run(ctx, env, repl.Config{
		HistoryPath: history,
		Plain:       plain,
		In:          s.in,
		Terminal:    s.terminal,
		Out:         s.out,
		Err:         s.err,
		Output:      s.out,
		Logger:      log.Default(),
	})
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// expandSources resolves script arguments into the ordered list of sources
// to evaluate. Patterns containing glob metacharacters expand to their
// sorted matches and must match at least one file. Other arguments are kept
// as given so that a missing file is reported when it is opened.
//
// Sources naming the same file, through symlinks or differing relative
// paths, are evaluated once at their first position. Every occurrence of
// "-" refers to the same stdin stream.
func expandSources(patterns []string) ([]string, error) {
	var (
		out   []string
		seen  []os.FileInfo
		stdin bool
	)

	unique := func(path string) bool {
		info, err := os.Stat(path)
		if err != nil {
			return true
		}

		if slices.ContainsFunc(seen, func(fi os.FileInfo) bool {
			return os.SameFile(fi, info)
		}) {
			return false
		}

		seen = append(seen, info)

		return true
	}

	for _, pattern := range patterns {
		if pattern == stdinSource {
			if !stdin {
				out = append(out, stdinSource)
			}

			stdin = true

			continue
		}

		paths := []string{pattern}

		if strings.ContainsAny(pattern, "*?[") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, ErrNoMatch.With(slog.String("pattern", pattern)).Wrap(err)
			}

			if len(matches) == 0 {
				return nil, ErrNoMatch.With(slog.String("pattern", pattern))
			}

			paths = matches
		}

		for _, path := range paths {
			if unique(path) {
				out = append(out, path)
			}
		}
	}

	return out, nil
}

// evalSource evaluates one source in env. Stdin is read to its end and
// evaluated as a single script.
func evalSource(ctx context.Context, env *lang.Environment, s streams, source string) (lang.Value, error) {
	if source != stdinSource {
		return lang.EvalFileWithEnv(ctx, source, env)
	}

	src, err := io.ReadAll(s.in)
	if err != nil {
		return lang.Unit, lang.ErrReadInput.With(slog.String("path", stdinSource)).Wrap(err)
	}

	return lang.RunWithEnv(ctx, string(src), env)
}
