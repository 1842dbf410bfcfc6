package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// runPiped evaluates input read line by line from a non-terminal. Each
// result is printed and an error never stops the session. Lines are read
// from the same buffered reader as read-line, so a script may consume the
// lines that follow it.
func runPiped(ctx context.Context, sess *Session, cfg Config) error {
	for {
		if err := context.Cause(ctx); err != nil {
			return err
		}

		line, err := cfg.In.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		eof := err != nil
		if eof && line == "" {
			break
		}

		line = strings.TrimRight(line, "\r\n")

		if sess.Pending() == "" && isCommand(line) {
			out, act, err := sess.Command(ctx, line)

			switch {
			case err != nil:
				fmt.Fprintln(cfg.Err, "error:", err)
			case act == actQuit:
				return nil
			case act == actEdit:
				fmt.Fprintln(cfg.Err, "error:", ErrNotInteractive)
			case out != "":
				fmt.Fprintln(cfg.Out, out)
			}
		} else if res, ok := sess.Feed(ctx, line); ok {
			printResult(cfg, res)
		}

		if eof {
			break
		}
	}

	if res, ok := sess.Flush(ctx); ok {
		printResult(cfg, res)
	}

	return nil
}
