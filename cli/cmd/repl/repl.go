package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/frisp/lang"
	"github.com/ardnew/frisp/log"
)

// editDoneMsg is sent when editing produced text that parses.
type editDoneMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content or
// declined to re-edit.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "λ "
	contPrompt = "… "
	ctrlPrompt = " :"
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Config selects and configures a session front end.
type Config struct {
	// HistoryPath is the history file. Empty keeps history in memory.
	HistoryPath string
	// Plain selects the line-editing front end instead of the full-screen
	// one on a terminal.
	Plain bool
	// In is the session input. It should be the same reader given to the
	// environment with [lang.WithInput] so read-line and the session share
	// buffered input.
	In *bufio.Reader
	// Terminal reports whether In is an interactive terminal. Otherwise
	// input is read line by line without prompts.
	Terminal bool
	// Out and Err receive results and errors. Nil selects os.Stdout and
	// os.Stderr.
	Out, Err io.Writer
	// Output, if non-nil, is the writer the environment prints to. The
	// full-screen front end redirects it while evaluating so script output
	// is printed above the prompt.
	Output *Writer
	Logger log.Logger
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run starts an interactive session evaluating input in env until input
// ends or the user quits.
func Run(ctx context.Context, env *lang.Environment, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.In == nil {
		cfg.In = bufio.NewReader(os.Stdin)
	}

	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}

	sess := NewSession(env, cfg.Logger)

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.HistoryPath),
		slog.Bool("terminal", cfg.Terminal),
		slog.Bool("plain", cfg.Plain),
	)

	if !cfg.Terminal {
		return runPiped(ctx, sess, cfg)
	}

	history := NewHistory(cfg.HistoryPath, 0)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	cfg.Logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	if cfg.Plain {
		return runPlain(ctx, sess, history, cfg)
	}

	m := newModel(ctx, sess, history, cfg.Output, cfg.Logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() == nil {
		return nil
	}

	return err
}

// model is the Bubble Tea model for the full-screen session.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	sess         *Session
	output       *Writer
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	sess *Session,
	history *History,
	output *Writer,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		sess:       sess,
		output:     output,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("content_length", len(msg.source)),
		)

		return m, m.evaluate(msg.source)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	viewingHistory := m.historyIdx < m.history.Len()
	fc := detectCall(m.sess.Pending()+"\n"+input, len(m.sess.Pending())+1+m.input.Position())

	switch {
	case viewingHistory:
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "" && m.mode == modeCtrl:
		b.WriteString(hintStyle.Render(
			"Type: " + strings.Join(commandNames(), ", ") + " (press Esc to return)"))

	case strings.TrimSpace(input) == "" && m.sess.Pending() != "":
		b.WriteString(hintStyle.Render("Continue the open form, or press Ctrl+C to discard it"))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Type a form or press Esc for commands"))

	case len(m.matches) > 0 && (m.tabActive || !fc.inCall):
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case fc.inCall && m.mode == modeEval:
		if sig, ok := lookupSignature(m.sess.env, fc.name); ok {
			b.WriteString(renderSignatureHint(sig, fc.arg))
		} else if len(m.matches) > 0 {
			b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		switch {
		case m.input.Value() != "":
			m.input.SetValue("")
		case m.sess.Pending() != "":
			m.sess.Take()
			m.setPrompt()
		default:
			m.quitting = true

			return m, tea.Quit
		}

		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(+1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyMove(-1, false)

	case tea.KeyDown:
		return m.historyMove(+1, false)

	case tea.KeyShiftUp:
		return m.historyMove(-1, true)

	case tea.KeyShiftDown:
		return m.historyMove(+1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space is the "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows) edits without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step through the candidates.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word in the input with
// replacement and places the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true and the typed word already equals the only
// candidate, the completion is confirmed. autoConfirm is false for
// deletions and cursor movement so that editing never completes
// unexpectedly.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m *model) setPrompt() {
	switch {
	case m.mode == modeCtrl:
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	case m.sess.Pending() != "":
		m.input.Prompt = promptStyle.Render(contPrompt)
	default:
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	line := m.input.Value()
	if strings.TrimSpace(line) == "" && m.sess.Pending() == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	mode := m.mode
	if mode == modeEval && m.sess.Pending() == "" && isCommand(line) {
		mode = modeCtrl
	}

	_ = m.history.Add(line, mode)
	m.historyIdx = m.history.Len()

	if mode == modeCtrl {
		return m.executeCommand(line)
	}

	prompt := evalPrompt
	if m.sess.Pending() != "" {
		prompt = contPrompt
	}

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(line))

	cmd := m.evaluate(line)
	m.setPrompt()

	return m, tea.Sequence(echo, cmd)
}

// evaluate feeds line to the session and returns a command printing any
// script output followed by the result.
func (m model) evaluate(line string) tea.Cmd {
	var out bytes.Buffer

	if m.output != nil {
		defer m.output.redirect(&out)()
	}

	res, ok := m.sess.Feed(m.ctxFunc(), line)
	if !ok {
		return nil
	}

	var cmds []tea.Cmd

	if text := strings.TrimSuffix(out.String(), "\n"); out.Len() > 0 {
		cmds = append(cmds, tea.Println(text))
	}

	switch text := res.Text(); {
	case res.Err != nil:
		cmds = append(cmds, tea.Println(errorStyle.Render(text)))
	case text != "":
		cmds = append(cmds, tea.Println(resultStyle.Render(text)))
	}

	return tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	out, act, err := m.sess.Command(m.ctxFunc(), input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	switch act {
	case actQuit:
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case actClear:
		return m, tea.ClearScreen

	case actEdit:
		return m.handleEdit(echo)
	}

	if out == "" {
		return m, echo
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

// handleEdit suspends the program and edits the pending input.
func (m model) handleEdit(echo tea.Cmd) (model, tea.Cmd) {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
		seed:    m.sess.Take(),
	}

	m.setPrompt()

	return m, tea.Sequence(echo, tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.source == "":
			return editCancelledMsg{}
		default:
			return editDoneMsg{source: cmd.source}
		}
	}))
}

// historyMove steps through history in direction step. With sameMode set
// only entries of the current mode are visited; otherwise the mode follows
// the entry. Moving past the newest entry clears the input.
func (m model) historyMove(step int, sameMode bool) (model, tea.Cmd) {
	var match func(HistoryEntry) bool
	if sameMode {
		mode := m.mode
		match = func(e HistoryEntry) bool { return e.Mode == mode }
	}

	i, ok := m.history.search(m.historyIdx, step, match)
	if !ok {
		if step > 0 && m.historyIdx < m.history.Len() {
			m.historyIdx = m.history.Len()
			m.input.SetValue("")
			refreshMatches(&m, false)
		}

		return m, nil
	}

	entry, err := m.history.Entry(i)
	if err != nil {
		return m, nil
	}

	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m, nil
}

// switchToMode switches to mode, preserving each mode's unsent input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.setPrompt()

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
