package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/frisp/lang"
	"github.com/ardnew/frisp/log"
)

// Session evaluates interactive input against a persistent environment.
// Lines are buffered until they complete one or more top-level forms.
type Session struct {
	env     *lang.Environment
	logger  log.Logger
	pending []string
}

// NewSession returns a session evaluating input in env.
func NewSession(env *lang.Environment, logger log.Logger) *Session {
	return &Session{env: env, logger: logger}
}

// Result is the outcome of evaluating one complete input.
type Result struct {
	Input string
	Value lang.Value
	Err   error
}

// Text renders the result for display. Unit renders as nothing.
func (r Result) Text() string {
	switch {
	case r.Err != nil:
		return "error: " + r.Err.Error()
	case r.Value.IsUnit():
		return ""
	default:
		return r.Value.String()
	}
}

// Pending returns the buffered text of an incomplete form.
func (s *Session) Pending() string { return strings.Join(s.pending, "\n") }

// Take returns and discards the buffered text of an incomplete form.
func (s *Session) Take() string {
	src := s.Pending()
	s.pending = nil

	return src
}

// Feed appends line to the buffered input. Once the buffer holds only
// complete forms they are evaluated and the result is returned with ok set.
// While a list or string is still open, ok is false.
func (s *Session) Feed(ctx context.Context, line string) (res Result, ok bool) {
	s.pending = append(s.pending, line)

	src := s.Pending()
	if lang.Incomplete(src) {
		s.logger.TraceContext(ctx, "repl continue", slog.Int("lines", len(s.pending)))

		return Result{}, false
	}

	s.pending = nil

	return s.eval(ctx, src), true
}

// Flush evaluates whatever is buffered, complete or not, so that an
// unfinished form at end of input is reported.
func (s *Session) Flush(ctx context.Context) (res Result, ok bool) {
	if len(s.pending) == 0 {
		return Result{}, false
	}

	return s.eval(ctx, s.Take()), true
}

func (s *Session) eval(ctx context.Context, src string) Result {
	if strings.TrimSpace(src) == "" {
		return Result{Input: src, Value: lang.Unit}
	}

	v, err := lang.RunWithEnv(ctx, src, s.env)

	s.logger.TraceContext(ctx, "repl eval",
		slog.String("input", src),
		slog.String("kind", v.Kind().String()),
		slog.Bool("error", err != nil),
	)

	return Result{Input: src, Value: v, Err: err}
}

// action is the effect of a session command on the front end.
type action uint8

const (
	actNone action = iota
	actClear
	actEdit
	actQuit
)

// command is a session command entered in command mode or after the
// command prefix.
type command struct {
	name  string
	args  string
	usage string
	run   func(ctx context.Context, s *Session, args []string) (string, action, error)
}

// commandPrefix introduces a session command on an input line.
const commandPrefix = ":"

// commands is assigned in init to break the initialization cycle through
// cmdHelp, which lists commands.
var commands []command

func init() {
	commands = []command{
		{name: "help", usage: "Print this help", run: cmdHelp},
		{name: "env", args: "[prefix]", usage: "List visible bindings", run: cmdEnv},
		{name: "load", args: "<path>", usage: "Evaluate a script file in the session", run: cmdLoad},
		{name: "edit", usage: "Edit input in $EDITOR, then evaluate it", run: cmdAction(actEdit)},
		{name: "clear", usage: "Clear screen", run: cmdAction(actClear)},
		{name: "quit", usage: "Exit the session", run: cmdAction(actQuit)},
	}
}

// commandNames returns the session command names in display order.
var commandNames = sync.OnceValue(func() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
})

// isCommand reports whether line is a session command rather than script
// input.
func isCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), commandPrefix)
}

// Command runs a session command. The command prefix is optional and any
// unambiguous prefix of a command name selects it.
func (s *Session) Command(ctx context.Context, input string) (string, action, error) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(input), commandPrefix))
	if len(fields) == 0 {
		return "", actNone, nil
	}

	name, args := fields[0], fields[1:]

	var found []command

	for _, c := range commands {
		if c.name == name {
			found = []command{c}

			break
		}

		if strings.HasPrefix(c.name, name) {
			found = append(found, c)
		}
	}

	if len(found) != 1 {
		return "", actNone, fmt.Errorf("%w: %s (try %shelp)", ErrUnknownCommand, name, commandPrefix)
	}

	s.logger.TraceContext(ctx, "repl command",
		slog.String("command", found[0].name),
		slog.Any("args", args),
	)

	return found[0].run(ctx, s, args)
}

func cmdAction(act action) func(context.Context, *Session, []string) (string, action, error) {
	return func(context.Context, *Session, []string) (string, action, error) {
		return "", act, nil
	}
}

func cmdHelp(context.Context, *Session, []string) (string, action, error) {
	return helpMessage(), actNone, nil
}

func cmdEnv(_ context.Context, s *Session, args []string) (string, action, error) {
	var sb strings.Builder

	for _, name := range s.candidates() {
		if len(args) > 0 && !strings.HasPrefix(name, args[0]) {
			continue
		}

		fmt.Fprintf(&sb, "  %s %s\n", name, hintStyle.Render(s.describe(name)))
	}

	return strings.TrimSuffix(sb.String(), "\n"), actNone, nil
}

func cmdLoad(ctx context.Context, s *Session, args []string) (string, action, error) {
	if len(args) != 1 {
		return "", actNone, fmt.Errorf("usage: %sload <path>", commandPrefix)
	}

	v, err := lang.EvalFileWithEnv(ctx, args[0], s.env)
	if err != nil {
		return "", actNone, err
	}

	return Result{Value: v}.Text(), actNone, nil
}

// candidates returns every name input may refer to: special forms and the
// bindings visible in the session environment.
func (s *Session) candidates() []string {
	names := append(s.env.SpecialForms(), s.env.Visible()...)
	slices.Sort(names)

	return slices.Compact(names)
}

// describe returns a short description of name for listings and hints.
func (s *Session) describe(name string) string {
	if sig, ok := lookupSignature(s.env, name); ok {
		if sig.usage != "" {
			return sig.String() + "  " + sig.usage
		}

		return sig.String()
	}

	b, ok := s.env.Lookup(name)
	if !ok {
		return ""
	}

	v, _ := b.Constant()

	return preview(v.GoString())
}

// preview shortens s to a single line of bounded width.
func preview(s string) string {
	const width = 40

	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "..."
	}

	if len(s) > width {
		s = s[:width-3] + "..."
	}

	return s
}

func helpMessage() string {
	var sb strings.Builder

	sb.WriteString("\nCommands (press Esc to toggle command mode, or prefix with " + commandPrefix + "):\n\n")

	for _, c := range commands {
		fmt.Fprintf(&sb, "  %-16s %s\n", strings.TrimSpace(c.name+" "+c.args), c.usage)
	}

	sb.WriteString(`
Usage:
  Type forms to evaluate them; an unclosed list or string continues
    on the next line
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C to discard input, and on an empty line or Ctrl+D to exit
`)

	return sb.String()
}

// Writer forwards writes to a destination that a front end may redirect
// while it evaluates a form, so script output can be placed alongside the
// session's own rendering.
type Writer struct {
	mu  sync.Mutex
	dst io.Writer
}

// NewWriter returns a Writer forwarding to w, or to os.Stdout if w is nil.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		w = os.Stdout
	}

	return &Writer{dst: w}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.dst.Write(p)
}

// redirect sends subsequent writes to dst and returns a function restoring
// the previous destination.
func (w *Writer) redirect(dst io.Writer) (restore func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := w.dst
	w.dst = dst

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		w.dst = prev
	}
}
