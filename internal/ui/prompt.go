package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dshills/cortex/internal/config"
)

// ErrAborted is returned when the operator abandons a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the operator questions on a terminal. When the input is not a
// terminal, questions are asked one line at a time.
type Prompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	lines       *bufio.Reader
	styles      promptStyles
}

type promptStyles struct {
	question lipgloss.Style
	cursor   lipgloss.Style
	choice   lipgloss.Style
}

// NewPrompter returns a Prompter reading from in and writing to out. The
// bubbletea selector is used only when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	r := lipgloss.NewRenderer(out)
	return &Prompter{
		in:          in,
		out:         out,
		interactive: interactive,
		styles: promptStyles{
			question: r.NewStyle().Bold(true),
			cursor:   r.NewStyle().Foreground(lipgloss.Color("14")),
			choice:   r.NewStyle(),
		},
	}
}

// Select asks the operator to pick one of choices.
func (p *Prompter) Select(ctx context.Context, message string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("select %q: no choices", message)
	}
	if p.interactive {
		return p.runSelect(ctx, message, choices)
	}

	fmt.Fprintln(p.out, message)
	for i, c := range choices {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, c)
	}
	fmt.Fprint(p.out, "> ")
	line, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	return pickChoice(line, choices)
}

// pickChoice resolves an answer given by number or by exact name.
func pickChoice(answer string, choices []string) (string, error) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(choices) {
			return "", fmt.Errorf("choice %d out of range 1-%d", n, len(choices))
		}
		return choices[n-1], nil
	}
	for _, c := range choices {
		if c == answer {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown choice %q", answer)
}

// Input asks the operator for a free-text value.
func (p *Prompter) Input(ctx context.Context, message string) (string, error) {
	if p.interactive {
		return p.runInput(ctx, message)
	}
	fmt.Fprint(p.out, message+" ")
	return p.readLine(ctx)
}

// Confirm asks a yes/no question. Only "y" and "yes", in any case, confirm.
func (p *Prompter) Confirm(ctx context.Context, message string) (bool, error) {
	fmt.Fprint(p.out, message)
	answer, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// readLine reads one trimmed line. EOF on an empty line aborts the prompt.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.lines == nil {
		p.lines = bufio.NewReader(p.in)
	}
	line, err := p.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) runSelect(ctx context.Context, message string, choices []string) (string, error) {
	m := newSelectModel(message, choices, p.styles)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", fmt.Errorf("running selector: %w", err)
	}
	sm := final.(selectModel)
	if sm.aborted {
		return "", ErrAborted
	}
	return sm.choices[sm.cursor], nil
}

func (p *Prompter) runInput(ctx context.Context, message string) (string, error) {
	m := newInputModel(message, p.styles)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", fmt.Errorf("running input: %w", err)
	}
	im := final.(inputModel)
	if im.aborted {
		return "", ErrAborted
	}
	return strings.TrimSpace(im.input.Value()), nil
}

var _ config.Prompter = (*Prompter)(nil)

// selectModel is a single-choice list navigated with the arrow keys.
type selectModel struct {
	message string
	choices []string
	cursor  int
	done    bool
	aborted bool
	styles  promptStyles
}

var _ tea.Model = selectModel{}

func newSelectModel(message string, choices []string, styles promptStyles) selectModel {
	return selectModel{message: message, choices: choices, styles: styles}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.question.Render("? "+m.message) + "\n")
	if m.done {
		return strings.TrimRight(b.String(), "\n") + " " + m.choices[m.cursor] + "\n"
	}
	for i, c := range m.choices {
		if i == m.cursor {
			b.WriteString(m.styles.cursor.Render("> "+c) + "\n")
			continue
		}
		b.WriteString(m.styles.choice.Render("  "+c) + "\n")
	}
	return b.String()
}

// inputModel reads a single line of text.
type inputModel struct {
	message string
	input   textinput.Model
	done    bool
	aborted bool
	styles  promptStyles
}

var _ tea.Model = inputModel{}

func newInputModel(message string, styles promptStyles) inputModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	return inputModel{message: message, input: ti, styles: styles}
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	q := m.styles.question.Render("? " + m.message)
	if m.done {
		return q + " " + m.input.Value() + "\n"
	}
	return q + "\n" + m.input.View() + "\n"
}
