package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/frisp/lang"
	"github.com/ardnew/frisp/log"
	"github.com/ardnew/frisp/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop.
// It writes the seed text to a temp file, opens the user's editor, and
// checks that the result parses. On a parse error the user is prompted to
// re-edit.
type editCommand struct {
	ctxFunc func() context.Context
	logger  log.Logger
	seed    string
	source  string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run implements [tea.ExecCommand].
func (c *editCommand) Run() (err error) {
	c.source, err = editSource(c.ctxFunc(), c.logger, c.seed, c.stdin, c.stdout, c.stderr)

	return err
}

// editSource opens seed in the user's editor until the saved text parses,
// and returns it. Empty text cancels the edit and returns "". Declining to
// re-edit after a parse error returns [ErrEditDeclined].
func editSource(
	ctx context.Context,
	logger log.Logger,
	seed string,
	stdin io.Reader,
	stdout, stderr io.Writer,
) (string, error) {
	f, err := os.CreateTemp("", pkg.Name+"-repl-*.lisp")
	if err != nil {
		return "", err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return "", err
	}

	content := seed
	answers := bufio.NewReader(stdin)

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return "", err
		}

		if err := runEditor(ctx, stdin, stdout, stderr, tmpPath); err != nil {
			return "", err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return "", err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return "", nil
		}

		_, parseErr := lang.ParseString(content)

		logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			return content, nil
		}

		fmt.Fprintf(stderr, "\nParse error: %s\n", parseErr)
		fmt.Fprint(stdout, "Re-edit? [Y/n] ")

		response, err := answers.ReadString('\n')
		if err != nil && response == "" {
			return "", ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(response)) {
		case "n", "no":
			return "", ErrEditDeclined
		}
	}
}

// runEditor launches the user's editor on the file at path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	// The editor variable may carry arguments, e.g. "code --wait".
	argv := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
