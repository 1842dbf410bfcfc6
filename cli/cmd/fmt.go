package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/frisp/lang"
)

// Fmt reads a script, parses it, and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native frisp syntax (default)"`
	JSON   JSON   `cmd:""                    help:"Format as JSON"`
	YAML   YAML   `cmd:""                    help:"Format as YAML"`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree"`
}

// formatter writes parsed nodes to w.
type formatter func(ctx context.Context, w io.Writer, nodes []lang.Node, indent int) error

// Native formats input as native frisp syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for nested lists" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context) error {
	return format(ctx, "native", f.Source, f.Indent, lang.Format)
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, "json", j.Source, j.Indent, lang.FormatJSON)
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, "yaml", y.Source, y.Indent, lang.FormatYAML)
}

// AST formats input as an abstract syntax tree representation.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	return format(ctx, "ast", a.Source, 0, lang.FormatAST)
}

// format parses source and writes it to the command output with fn.
// Nothing is written unless the whole source parses.
func format(ctx context.Context, name, source string, indent int, fn formatter) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := streamsFrom(ctx)

	var r io.Reader = s.in

	if source != stdinSource {
		file, err := os.Open(source)
		if err != nil {
			return ErrFormat.With(slog.String("source", source)).Wrap(err)
		}
		defer file.Close()

		r = file
	}

	nodes, err := lang.ParseReader(r)
	if err != nil {
		return ErrFormat.
			With(slog.String("source", source), slog.String("format", name)).
			Wrap(err)
	}

	if err := fn(ctx, s.out, nodes, indent); err != nil {
		return ErrFormat.With(slog.String("format", name)).Wrap(err)
	}

	return nil
}
