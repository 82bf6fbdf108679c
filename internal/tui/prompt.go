package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/drill/internal/model"
)

// Prompter reads one line of input after showing label.
// It returns model.ErrAborted when the user aborts.
type Prompter interface {
	Prompt(label string) (string, error)
}

// TeaPrompter reads input with a short-lived Bubble Tea program per prompt.
// Ctrl+C, Ctrl+D and Esc abort.
type TeaPrompter struct {
	ctx context.Context
	in  io.Reader
	out io.Writer
}

// NewTeaPrompter returns a prompter for an interactive terminal.
func NewTeaPrompter(ctx context.Context, in io.Reader, out io.Writer) *TeaPrompter {
	return &TeaPrompter{ctx: ctx, in: in, out: out}
}

// Prompt implements Prompter.
func (p *TeaPrompter) Prompt(label string) (string, error) {
	program := tea.NewProgram(newPromptModel(label),
		tea.WithContext(p.ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return "", model.ErrAborted
		}
		return "", fmt.Errorf("failed to run prompt: %w", err)
	}
	m, ok := final.(*promptModel)
	if !ok || m.aborted {
		return "", model.ErrAborted
	}
	return m.input.Value(), nil
}

type promptModel struct {
	input   textinput.Model
	done    bool
	aborted bool
}

func newPromptModel(label string) *promptModel {
	ti := textinput.New()
	ti.Prompt = label
	ti.Focus()
	return &promptModel{input: ti}
}

// Init implements tea.Model.
func (m *promptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *promptModel) View() string {
	if m.done || m.aborted {
		return m.input.Prompt + m.input.Value() + "\n"
	}
	return m.input.View()
}

// LinePrompter reads newline-terminated input from a plain reader. End of input
// or a cancelled context aborts.
type LinePrompter struct {
	ctx   context.Context
	in    io.Reader
	out   io.Writer
	once  sync.Once
	lines chan string
}

// NewLinePrompter returns a prompter for piped or non-interactive input.
func NewLinePrompter(ctx context.Context, in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{ctx: ctx, in: in, out: out}
}

func (p *LinePrompter) start() {
	p.lines = make(chan string)
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			select {
			case p.lines <- strings.TrimRight(scanner.Text(), "\r"):
			case <-p.ctx.Done():
				return
			}
		}
	}()
}

// Prompt implements Prompter.
func (p *LinePrompter) Prompt(label string) (string, error) {
	p.once.Do(p.start)
	if _, err := io.WriteString(p.out, label); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	select {
	case <-p.ctx.Done():
		p.newline()
		return "", model.ErrAborted
	case line, ok := <-p.lines:
		if !ok {
			p.newline()
			return "", model.ErrAborted
		}
		return line, nil
	}
}

func (p *LinePrompter) newline() {
	if _, err := io.WriteString(p.out, "\n"); err != nil {
		// Best-effort terminal output.
		_ = err
	}
}
