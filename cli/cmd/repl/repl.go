package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
	"github.com/ardnew/hostscript/log"
)

// editDoneMsg is sent when an edited program is ready to execute.
type editDoneMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content or
// declined to re-edit.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	contPrompt = "… "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (prefix with ':' or press Esc to toggle command mode):

  help     Print this message
  vars     List variables and their values
  types    List host types
  reset    Discard all variables and rerun prelude scripts
  edit     Edit the pending statement in external $EDITOR
  clear    Clear screen
  quit     Exit

Usage:
  Statements end with ';' and may span several lines
  Each statement on a line runs in turn and prints its own result
  Completions appear automatically as you type; '.' starts a host type path
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C to discard input, Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
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
	outputStyle     = lipgloss.NewStyle()
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Option configures the console.
type Option func(*config)

type config struct {
	registry *host.Registry
	output   *bytes.Buffer
	history  string
	logger   log.Logger
	reset    func(context.Context) error
}

// WithRegistry supplies the host types offered for completion.
func WithRegistry(reg *host.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithOutput names the buffer receiving script output. It is flushed above
// the prompt after every statement.
func WithOutput(buf *bytes.Buffer) Option {
	return func(c *config) { c.output = buf }
}

// WithHistory persists input history at path.
func WithHistory(path string) Option {
	return func(c *config) { c.history = path }
}

// WithLogger sets the console logger. The interpreter's logger is used by
// default.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithReset sets a function run after the :reset command clears the
// session, e.g. to rerun prelude scripts.
func WithReset(fn func(context.Context) error) Option {
	return func(c *config) { c.reset = fn }
}

// model is the Bubble Tea model for the console.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	in           *lang.Interpreter
	completer    completer
	config       config
	history      *History
	historyIdx   int
	pending      *pending
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
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

// Run starts the console on the session of in.
func Run(ctx context.Context, in *lang.Interpreter, opts ...Option) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if in == nil {
		return ErrNoInterpreter
	}

	cfg := config{logger: in.Logger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	history := NewHistory(cfg.history)
	if err := history.Load(); err != nil {
		cfg.logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.history),
			slog.String("error", err.Error()))
	}

	cfg.logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.history),
		slog.Int("history_len", history.Len()))

	p := tea.NewProgram(newModel(ctx, in, history, cfg), tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	in *lang.Interpreter,
	history *History,
	cfg config,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		in:         in,
		completer:  completer{env: in.Environment(), reg: cfg.registry},
		config:     cfg,
		history:    history,
		historyIdx: history.Len(),
		pending:    &pending{},
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
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.pending.reset()
		m.setPrompt()

		_ = m.history.Add(msg.source, modeEval)
		m.historyIdx = m.history.Len()

		return m, m.exec(msg.source)

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
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint returns the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		switch {
		case m.mode == modeCtrl:
			return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
		case !m.pending.empty():
			return hintStyle.Render("Statement continues until ';' (Ctrl+C discards)")
		default:
			return hintStyle.Render("Type a statement ending in ';' or :help")
		}
	}

	if m.mode == modeEval {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if sigs := m.completer.signatures(call.name); len(sigs) > 0 {
				return renderSignatureHint(sigs, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && m.pending.empty() {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.pending.reset()
		m.setPrompt()
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
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode(), nil

	case tea.KeyRunes, tea.KeySpace:
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

// cycle moves the tab selection by step, completing immediately when there
// is only one candidate.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input and moves the
// cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state. With
// autoConfirm, a word that already equals the sole candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	if m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	line := m.input.Value()
	input := strings.TrimSpace(line)

	if input == "" && m.pending.empty() {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if m.mode == modeCtrl {
		_ = m.history.Add(input, modeCtrl)
		m.historyIdx = m.history.Len()

		return m.executeCommand(input, formatCtrlCommand(input))
	}

	if cmd, ok := strings.CutPrefix(input, ":"); ok {
		_ = m.history.Add(cmd, modeCtrl)
		m.historyIdx = m.history.Len()

		return m.executeCommand(cmd, formatCommand(m.input.Prompt, input))
	}

	echo := tea.Println(formatCommand(m.input.Prompt, line))

	src, done := m.pending.add(line)
	m.setPrompt()

	if !done {
		return m, echo
	}

	_ = m.history.Add(src, modeEval)
	m.historyIdx = m.history.Len()

	return m, tea.Sequence(echo, m.exec(src))
}

// printed is one line of console feedback from executing input.
type printed struct {
	style lipgloss.Style
	text  string
}

// exec runs src in the session and prints its feedback.
func (m model) exec(src string) tea.Cmd {
	var cmds []tea.Cmd

	for _, p := range m.run(m.ctxFunc(), src) {
		cmds = append(cmds, tea.Println(p.style.Render(p.text)))
	}

	return tea.Sequence(cmds...)
}

// run executes the statements of src one at a time, collecting the script
// output and displayable result of each. It stops at the first error.
// Console input is parsed without the process-wide parse cache, which would
// otherwise retain every line of a long session.
func (m model) run(ctx context.Context, src string) []printed {
	m.config.logger.TraceContext(ctx, "repl exec", slog.Int("length", len(src)))

	prog, err := lang.ParseString(ctx, src, lang.WithParseLogger(m.in.Logger()))
	if err != nil {
		return []printed{{errorStyle, "error: " + err.Error()}}
	}

	var feedback []printed

	for _, stmt := range prog.Statements {
		result, err := m.in.Run(ctx, &lang.Program{Source: src, Statements: []lang.Node{stmt}})

		if out := m.drainOutput(); out != "" {
			feedback = append(feedback, printed{outputStyle, out})
		}

		if err != nil {
			return append(feedback, printed{errorStyle, "error: " + err.Error()})
		}

		if s, ok := lang.Display(result); ok {
			feedback = append(feedback, printed{resultStyle, s})
		}
	}

	return feedback
}

// drainOutput returns and clears the script output written since the last
// call, without its final newline.
func (m model) drainOutput() string {
	if m.config.output == nil {
		return ""
	}

	out := strings.TrimSuffix(m.config.output.String(), "\n")
	m.config.output.Reset()

	return out
}

func (m model) executeCommand(input, echoLine string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(echoLine)

	m.config.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.listVars()))

	case "t", "types":
		return m, tea.Sequence(echo, tea.Println(m.listTypes()))

	case "r", "reset":
		return m, tea.Sequence(echo, m.reset())

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render(
			fmt.Sprintf("%v: %s (try 'help')", ErrUnknownCommand, parts[0]))))
	}
}

func (m model) reset() tea.Cmd {
	ctx := m.ctxFunc()

	m.in.Reset()
	m.pending.reset()

	if m.config.reset != nil {
		if err := m.config.reset(ctx); err != nil {
			return tea.Println(errorStyle.Render("error: " + err.Error()))
		}
	}

	msg := hintStyle.Render("session reset")
	if out := m.drainOutput(); out != "" {
		msg = outputStyle.Render(out) + "\n" + msg
	}

	return tea.Println(msg)
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		initial: m.pending.String(),
		ctxFunc: m.ctxFunc,
		logger:  m.config.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
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
	})
}

func (m model) listVars() string {
	names := m.in.Environment().Names()
	if len(names) == 0 {
		return hintStyle.Render("  (no variables)")
	}

	var b strings.Builder

	for _, name := range names {
		v, _ := m.in.Environment().Lookup(name)
		s, _ := lang.Display(v)

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(s)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) listTypes() string {
	if m.config.registry == nil {
		return hintStyle.Render("  (no host types)")
	}

	var b strings.Builder

	for t := range m.config.registry.All() {
		fmt.Fprintf(&b, "  .%s %s\n", t.Name(),
			hintStyle.Render(preview(strings.Join(t.Members(), " "))))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// preview shortens s to one line of at most 40 runes.
func preview(s string) string {
	s, _, cut := strings.Cut(s, "\n")

	if r := []rune(s); len(r) > 40 {
		return string(r[:37]) + "..."
	}

	if cut {
		return s + "..."
	}

	return s
}

// historyStep moves through history by step. With inMode, entries of other
// modes are skipped; otherwise the mode follows the entry.
func (m model) historyStep(step int, inMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil || (inMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	// Stepping past the newest entry returns to an empty line.
	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// toggleMode switches between eval and control modes.
func (m model) toggleMode() model {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to mode, preserving the input of each mode.
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

// setPrompt selects the prompt for the mode and statement buffer.
func (m *model) setPrompt() {
	switch {
	case m.mode == modeCtrl:
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	case !m.pending.empty():
		m.input.Prompt = promptStyle.Render(contPrompt)
	default:
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}
}

// formatCommand formats an echoed input line after its styled prompt.
func formatCommand(prompt, input string) string {
	return prompt + inputStyle.Render(input)
}

// formatCtrlCommand formats an echoed control command.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}
