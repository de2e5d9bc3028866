package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tinct/lang"
	"github.com/ardnew/tinct/log"
)

// evalMsg carries the outcome of an evaluation run in the background.
type evalMsg struct {
	value lang.Node
	err   error
}

// editScopeMsg is sent when an edit produced a new scope.
type editScopeMsg struct{ scope *lang.Scope }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to edit again after an
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor itself failed.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this help
  list     List bound names and their values
  edit     Edit all bindings in $EDITOR
  reset    Remove all bindings
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type statements separated by ';' to evaluate them in the session scope
  The value of the last statement is printed
  Completions appear as you type; inside d["  they list dictionary keys
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation
  Press Ctrl+C to interrupt an evaluation or clear the line
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	outputStyle     = lipgloss.NewStyle()
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc func() context.Context
	input   textinput.Model
	interp  *lang.Interpreter
	opts    []lang.Option
	out     *bytes.Buffer // receives log() output during evaluation
	logger  log.Logger
	history *History

	historyIdx   int
	matches      fuzzy.Matches
	wordStart    int // byte offset replaced by a completion
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int

	cancelEval context.CancelFunc // non-nil while an evaluation runs
	width      int
	quitting   bool
	mode       inputMode
	evalText   string
	evalCursor int
	ctrlText   string
	ctrlCursor int
}

// Run starts an interactive session that evaluates input in scope with
// opts. History is loaded from and saved to historyPath; an empty path
// disables persistence.
func Run(
	ctx context.Context,
	scope *lang.Scope,
	historyPath string,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if scope == nil {
		return ErrNoScope
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", historyPath),
		slog.Int("bindings", scope.Len()))

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	m := newModel(ctx, scope, history, logger, opts...)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	scope *lang.Scope,
	history *History,
	logger log.Logger,
	opts ...lang.Option,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	// Output written while the UI owns the terminal is printed through it.
	out := new(bytes.Buffer)
	opts = slices.Concat(opts, []lang.Option{lang.WithOutput(out)})

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		interp:     lang.NewInterpreter(scope, opts...),
		opts:       opts,
		out:        out,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
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

	case evalMsg:
		return m.finishEval(msg)

	case editScopeMsg:
		m.interp = lang.NewInterpreter(msg.scope, m.opts...)
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("bindings", msg.scope.Len()))

		return m, tea.Println(resultStyle.Render("scope updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

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
	b.WriteString(m.hintView())
	b.WriteString("\n")

	return b.String()
}

// hintView returns the line shown below the input.
func (m model) hintView() string {
	input := m.input.Value()

	switch {
	case m.cancelEval != nil:
		return hintStyle.Render("evaluating (Ctrl+C to interrupt)")

	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			return hintStyle.Render("Type a statement or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") +
			" (press Esc to return)")

	case len(m.matches) > 0:
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width,
			func(name string) bool { return isFunction(m.interp.Scope(), name) })
	}

	if m.mode == modeEval {
		call := detectFunctionCall(input, byteOffset(input, m.input.Position()))
		if call.inCall {
			if sig, ok := lookupSignature(m.interp.Scope(), call.name); ok {
				return sig.render(call.argIndex)
			}
		}
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.cancelEval != nil {
		// Only an interrupt is accepted while evaluating.
		if msg.Type == tea.KeyCtrlC {
			m.cancelEval()
		}

		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil
	}

	// Any other key keeps the current candidate.
	m.tabActive = false

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(msg.Type == tea.KeyRunes)

	return m, cmd
}

// cycle selects the next (dir > 0) or previous candidate. A single
// candidate is completed immediately.
func (m model) cycle(dir int) model {
	switch len(m.matches) {
	case 0:
		return m

	case 1:
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	n := len(m.matches)

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the completion range of the input with s.
func (m *model) replaceWord(s string) {
	input := m.input.Value()
	input = input[:m.wordStart] + s + input[m.wordEnd:]
	end := m.wordStart + len(s)

	m.input.SetValue(input)
	m.input.SetCursor(utf8.RuneCountInString(input[:end]))
	m.wordEnd = end
}

// refreshMatches recomputes completions. When autoConfirm is set and the
// typed word already equals the only candidate, the completion is dropped
// so that it does not linger after a full word.
func (m *model) refreshMatches(autoConfirm bool) {
	if m.tabActive {
		return
	}

	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1

	if autoConfirm && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Append(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	ctx, cancel := context.WithCancel(m.ctxFunc())
	m.cancelEval = cancel

	interp := m.interp

	return m, tea.Sequence(
		tea.Println(promptStyle.Render(evalPrompt)+inputStyle.Render(input)),
		func() tea.Msg {
			defer cancel()

			v, err := interp.Eval(ctx, input)

			return evalMsg{value: v, err: err}
		},
	)
}

// finishEval prints the output and result of a completed evaluation.
func (m model) finishEval(msg evalMsg) (model, tea.Cmd) {
	m.cancelEval = nil

	var cmds []tea.Cmd

	if out := strings.TrimSuffix(m.out.String(), "\n"); out != "" {
		cmds = append(cmds, tea.Println(outputStyle.Render(out)))
	}

	m.out.Reset()

	switch {
	case errors.Is(msg.err, context.Canceled):
		cmds = append(cmds, tea.Println(hintStyle.Render("interrupted")))

	case msg.err != nil:
		m.logger.TraceContext(m.ctxFunc(), "repl eval failed",
			slog.Any("error", msg.err))

		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+msg.err.Error())))

	case msg.value != nil:
		cmds = append(cmds, tea.Println(resultStyle.Render(lang.Display(msg.value))))
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listScope()))

	case "r", "reset":
		m.interp = lang.NewInterpreter(lang.NewScope(), m.opts...)

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("scope cleared")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editScopeCommand{
		scope:   m.interp.Scope(),
		opts:    m.opts,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.newScope == nil:
			return editCancelledMsg{}
		default:
			return editScopeMsg{scope: cmd.newScope}
		}
	})
}

// historyMove steps through history by delta, switching to the mode each
// entry was entered in. Moving past the newest entry clears the input.
func (m model) historyMove(delta int) model {
	i := m.historyIdx + delta
	if i < 0 {
		return m
	}

	entry, err := m.history.Entry(i)
	if err != nil {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)

		return m
	}

	m.historyIdx = i

	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.CursorEnd()
	m.refreshMatches(false)

	return m
}

func (m model) listScope() string {
	scope := m.interp.Scope()

	names := scope.Names()
	if len(names) == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	var b strings.Builder

	for _, name := range names {
		v, _ := scope.Lookup(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(formatPreview(v)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// switchToMode switches to mode, keeping the input of each mode separately.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.tabActive = false

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	m.refreshMatches(false)

	return m
}
