package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/frisp/lang"
	"github.com/ardnew/frisp/log"
)

// Run evaluates scripts and inline forms in one shared environment.
//
// Sources are evaluated first, in order, followed by each --eval form. With
// neither, a terminal starts an interactive session and any other stdin is
// evaluated as a script.
type Run struct {
	Eval        []string `help:"Evaluate forms after any scripts and print the result (repeatable)" placeholder:"FORMS" short:"e"`
	Arg         []string `help:"Append a value to the args binding (repeatable)"                    placeholder:"VALUE" short:"a"`
	Interactive bool     `help:"Start an interactive session after evaluating input"                                    short:"i"`

	Script []string `arg:"" help:"Script files or glob patterns, or '-' for stdin" name:"script" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sources, err := expandSources(r.Script)
	if err != nil {
		return err
	}

	s := streamsFrom(ctx)
	env := newEnvironment(ctx, s, r.Arg)

	if len(sources) == 0 && len(r.Eval) == 0 {
		if s.terminal {
			return session(ctx, env, s, historyPath(ctx), false)
		}

		sources = []string{stdinSource}
	}

	for _, source := range sources {
		log.DebugContext(ctx, "run source", slog.String("source", source))

		if _, err := evalSource(ctx, env, s, source); err != nil {
			return ErrScript.With(slog.String("source", source)).Wrap(err)
		}
	}

	for _, forms := range r.Eval {
		v, err := lang.RunWithEnv(ctx, forms, env)
		if err != nil {
			return ErrScript.With(slog.String("eval", forms)).Wrap(err)
		}

		if !v.IsUnit() {
			fmt.Fprintln(s.out, v.String())
		}
	}

	if r.Interactive {
		return session(ctx, env, s, historyPath(ctx), false)
	}

	return nil
}
