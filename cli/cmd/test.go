package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ardnew/frisp/lang"
)

// Test runs script test suites.
//
// Every file named with the test suffix under the given paths is evaluated
// in its own scope, and each binding it defines named with the test prefix
// is called with no arguments. A test passes when its call returns without
// error.
type Test struct {
	Verbose bool     `help:"Report passing tests as well as failures"        short:"v"`
	Arg     []string `help:"Append a value to the args binding (repeatable)" placeholder:"VALUE" short:"a"`

	Paths []string `arg:"" default:"." help:"Test files or directories to search" name:"path"`
}

// Run executes the test command.
func (t *Test) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := streamsFrom(ctx)

	results, err := lang.RunSuite(ctx, newEnvironment(ctx, s, t.Arg), t.Paths...)
	if err != nil {
		return ErrScript.Wrap(err)
	}

	if len(results) == 0 {
		fmt.Fprintln(s.out, "no test files")

		return nil
	}

	var (
		failed  int
		elapsed time.Duration
	)

	for _, res := range results {
		elapsed += res.Elapsed

		name := res.Name
		if name == "" {
			name = res.File
		}

		switch {
		case !res.Passed():
			failed++

			fmt.Fprintf(s.out, "--- FAIL: %s (%s)\n    %s: %v\n",
				name, seconds(res.Elapsed), res.File, res.Err)

		case t.Verbose:
			fmt.Fprintf(s.out, "--- PASS: %s (%s)\n", name, seconds(res.Elapsed))
		}
	}

	if failed > 0 {
		fmt.Fprintf(s.out, "FAIL\t%d of %d failed (%s)\n", failed, len(results), seconds(elapsed))

		return ErrTestFailed.With(
			slog.Int("failed", failed),
			slog.Int("total", len(results)),
		)
	}

	fmt.Fprintf(s.out, "ok\t%d passed (%s)\n", len(results), seconds(elapsed))

	return nil
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
