package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
)

// runPlain runs the line-editing front end: prompts, history, and prefix
// completion without full-screen rendering.
func runPlain(ctx context.Context, sess *Session, history *History, cfg Config) error {
	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		if sess.Pending() == "" && isCommand(line) {
			return prefixCompletions(line, prefixed(commandNames()))
		}

		return prefixCompletions(line, sess.candidates())
	})

	for _, line := range history.Lines(modeEval) {
		ln.AppendHistory(line)
	}

	for {
		if err := context.Cause(ctx); err != nil {
			return err
		}

		prompt := evalPrompt
		if sess.Pending() != "" {
			prompt = contPrompt
		}

		line, err := ln.Prompt(prompt)

		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			sess.Take()

			continue

		case errors.Is(err, io.EOF):
			fmt.Fprintln(cfg.Out)

			return nil

		case err != nil:
			return err
		}

		mode := modeEval
		if sess.Pending() == "" && isCommand(line) {
			mode = modeCtrl
		}

		ln.AppendHistory(line)
		_ = history.Add(line, mode)

		if mode == modeEval {
			if res, ok := sess.Feed(ctx, line); ok {
				printResult(cfg, res)
			}

			continue
		}

		out, act, err := sess.Command(ctx, line)
		if err != nil {
			fmt.Fprintln(cfg.Err, "error:", err)

			continue
		}

		if out != "" {
			fmt.Fprintln(cfg.Out, out)
		}

		switch act {
		case actQuit:
			return nil

		case actClear:
			fmt.Fprint(cfg.Out, clearScreen)

		case actEdit:
			src, err := editSource(ctx, cfg.Logger, sess.Take(), os.Stdin, cfg.Out, cfg.Err)

			switch {
			case errors.Is(err, ErrEditDeclined) || (err == nil && src == ""):
				fmt.Fprintln(cfg.Out, "edit cancelled")
			case err != nil:
				fmt.Fprintln(cfg.Err, "error:", err)
			default:
				if res, ok := sess.Feed(ctx, src); ok {
					printResult(cfg, res)
				}
			}
		}
	}
}

// clearScreen homes the cursor and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

// prefixed returns the command names with the command prefix.
func prefixed(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = commandPrefix + name
	}

	return out
}

// printResult writes a result to the configured output, or its error to
// the configured error output.
func printResult(cfg Config, res Result) {
	switch text := res.Text(); {
	case res.Err != nil:
		fmt.Fprintln(cfg.Err, text)
	case text != "":
		fmt.Fprintln(cfg.Out, text)
	}
}
