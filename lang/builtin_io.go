package lang

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Shell is the command interpreter used by the system builtin.
var Shell = []string{"sh", "-c"}

// IO holds the builtins that cross the host boundary: output, input,
// files, and subprocesses.
var IO = Library{
	{
		Name: "print", Min: 0, Max: Variadic,
		Usage: "Write the text form of each operand followed by a newline",
		Fn: func(_ context.Context, env *Environment, args []Value) (Value, error) {
			var sb strings.Builder

			for _, v := range args {
				v.writeText(&sb)
			}

			sb.WriteByte('\n')

			if _, err := io.WriteString(env.rt.cfg.stdout, sb.String()); err != nil {
				return Unit, ErrBinding.With(slog.String("proc", "print")).Wrap(err)
			}

			return Unit, nil
		},
	},
	{
		Name: "read-line", Min: 0, Max: 0,
		Usage: "Next input line without its terminator, empty at end of input",
		Fn: func(_ context.Context, env *Environment, _ []Value) (Value, error) {
			line, err := env.rt.cfg.stdin.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return Unit, ErrBinding.With(slog.String("proc", "read-line")).Wrap(err)
			}

			return StringValue(strings.TrimRight(line, "\r\n")), nil
		},
	},
	{
		Name: "read-file", Min: 1, Max: 1,
		Usage: "Contents of a file",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			path, err := stringArg("read-file", args, 0)
			if err != nil {
				return Unit, err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return Unit, ErrBinding.With(
					slog.String("proc", "read-file"),
					slog.String("path", path),
				).Wrap(err)
			}

			return StringValue(string(data)), nil
		},
	},
	{
		Name: "parse-int", Min: 1, Max: 1,
		Usage: "Integer parsed from a string, or the integer itself",
		Fn: func(_ context.Context, _ *Environment, args []Value) (Value, error) {
			switch v := args[0]; v.kind {
			case KindInteger:
				return v, nil
			case KindString:
				n, err := strconv.Atoi(v.text)
				if err != nil {
					return Unit, ErrBinding.With(
						slog.String("proc", "parse-int"),
						slog.String("value", v.GoString()),
					).Wrap(err)
				}

				return IntValue(n), nil
			default:
				return Unit, operandError("parse-int", 0, v, "string or integer")
			}
		},
	},
	{
		Name: "system", Min: 1, Max: 1,
		Usage: "Standard output of a shell command",
		Fn:    system,
	},
}

// system runs a shell command and returns its standard output without
// the trailing newline. Only a failure to launch is an error; a nonzero
// exit status is logged.
func system(ctx context.Context, env *Environment, args []Value) (Value, error) {
	command, err := stringArg("system", args, 0)
	if err != nil {
		return Unit, err
	}

	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, Shell[0], append(Shell[1:], command)...)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()

	var exit *exec.ExitError
	if errors.As(err, &exit) {
		env.logger().DebugContext(ctx, "system",
			slog.String("command", command),
			slog.Int("status", exit.ExitCode()))
	} else if err != nil {
		return Unit, ErrBinding.With(
			slog.String("proc", "system"),
			slog.String("command", command),
		).Wrap(err)
	}

	out := strings.TrimSuffix(stdout.String(), "\n")

	return StringValue(strings.TrimSuffix(out, "\r")), nil
}

// debugWrite prints one indexed diagnostic line per operand.
func debugWrite(w io.Writer, args []Value) error {
	for i, v := range args {
		if _, err := fmt.Fprintf(w, "%d: %#v\n", i, v); err != nil {
			return err
		}
	}

	return nil
}
