package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/frisp/log"
)

// logFormat configures the default logger's format as a side effect of
// parsing via encoding.TextUnmarshaler, so that errors reported while kong is
// still parsing are already rendered in the requested format.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the default logger's level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                      help:"Set timestamp format."`
	Caller     bool      `default:"false"                                        help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                         help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logLevelDefault":  log.DefaultLevel.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed logger setting, including those without a
// TextUnmarshaler hook.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// logFlag describes how the early scan applies one logger flag.
type logFlag struct {
	// boolean flags never consume the following argument.
	boolean bool
	apply   func(f *logConfig, value string)
}

func setBool(dst *bool, negate bool, opt func(bool) log.Option) func(*logConfig, string) {
	return func(_ *logConfig, value string) {
		v := true
		if value != "" {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return
			}

			v = b
		}

		if negate {
			v = !v
		}

		*dst = v
		log.Config(opt(v))
	}
}

func (f *logConfig) flags() map[string]logFlag {
	return map[string]logFlag{
		"--log-level": {apply: func(f *logConfig, v string) {
			_ = f.Level.UnmarshalText([]byte(v))
		}},
		"--log-format": {apply: func(f *logConfig, v string) {
			_ = f.Format.UnmarshalText([]byte(v))
		}},
		"--log-pretty":    {boolean: true, apply: setBool(&f.Pretty, false, log.WithPretty)},
		"--no-log-pretty": {boolean: true, apply: setBool(&f.Pretty, true, log.WithPretty)},
		"--log-caller":    {boolean: true, apply: setBool(&f.Caller, false, log.WithCaller)},
		"--no-log-caller": {boolean: true, apply: setBool(&f.Caller, true, log.WithCaller)},
	}
}

// scan performs an early pass over command-line arguments to apply logger
// flags before kong begins parsing, regardless of their position. Boolean
// flags like --log-pretty do not pass through encoding.TextUnmarshaler, so
// this is the only way they can affect messages emitted during parsing.
func (f *logConfig) scan(args []string) {
	flags := f.flags()

	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		flag, ok := flags[name]
		if !ok {
			continue
		}

		if !assigned && !flag.boolean && i+1 < len(args) &&
			args[i+1] != "" && args[i+1][0] != '-' {
			i++
			value = args[i]
		}

		flag.apply(f, value)
	}
}
