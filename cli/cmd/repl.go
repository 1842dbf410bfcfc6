package cmd

import (
	"context"
)

// Repl starts an interactive session.
type Repl struct {
	Plain   bool     `help:"Use the line-editing session instead of the full-screen one"`
	History string   `help:"Session history file, or empty to keep history in memory" default:"${cache}/history.utf8"`
	Arg     []string `help:"Append a value to the args binding (repeatable)"           placeholder:"VALUE"               short:"a"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := streamsFrom(ctx)

	return session(ctx, newEnvironment(ctx, s, r.Arg), s, r.History, r.Plain)
}
