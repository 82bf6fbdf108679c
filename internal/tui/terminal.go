// Package tui renders the study session and reads user input.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const clearSequence = "\x1b[H\x1b[2J"

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	indexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00"))
	wrongStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4F"))
)

// Terminal writes session output and delegates input to a Prompter.
type Terminal struct {
	out      io.Writer
	prompter Prompter
	width    int
	clear    bool
}

// NewTerminal builds a Terminal. width <= 0 disables wrapping and truncation;
// clear enables screen clearing.
func NewTerminal(out io.Writer, prompter Prompter, width int, clear bool) *Terminal {
	return &Terminal{out: out, prompter: prompter, width: width, clear: clear}
}

// Clear wipes the screen when clearing is enabled.
func (t *Terminal) Clear() {
	if t.clear {
		t.write(clearSequence)
	}
}

// ShowBanner announces the sets being studied.
func (t *Terminal) ShowBanner(titles []string) {
	t.Clear()
	t.writeln("Starting study session for: " + strings.Join(titles, ", "))
}

// ShowProgress prints the completion of the current iteration.
func (t *Terminal) ShowProgress(pct float64) {
	t.writeln(renderProgress(pct))
}

// ShowQuestion prints the question and, for multiple choice, its numbered options.
func (t *Terminal) ShowQuestion(question string, options []string) {
	t.writeln(questionStyle.Render(wrapText(question, t.width)))
	t.writeln("")
	if len(options) == 0 {
		return
	}
	for _, line := range renderOptions(options, t.width) {
		t.writeln(line)
	}
	t.writeln("")
}

// ShowFeedback prints the colored verdict for an answer.
func (t *Terminal) ShowFeedback(correct bool) {
	t.writeln("")
	t.writeln(renderFeedback(correct))
}

// ShowMessage prints a plain line.
func (t *Terminal) ShowMessage(msg string) {
	t.writeln(msg)
}

// Ask prompts for a line of input.
func (t *Terminal) Ask(label string) (string, error) {
	return t.prompter.Prompt(label)
}

func renderProgress(pct float64) string {
	return progressStyle.Render(fmt.Sprintf("Progress %.1f%%", pct))
}

func renderFeedback(correct bool) string {
	if correct {
		return correctStyle.Render("Correct")
	}
	return wrongStyle.Render("Incorrect")
}

func renderOptions(options []string, width int) []string {
	lines := make([]string, 0, len(options))
	for i, opt := range options {
		prefix := fmt.Sprintf("[%d]: ", i)
		text := strings.ReplaceAll(opt, "\n", " ")
		if width > 0 {
			avail := width - runewidth.StringWidth(prefix)
			if avail < 1 {
				avail = 1
			}
			text = runewidth.Truncate(text, avail, "…")
		}
		lines = append(lines, indexStyle.Render(prefix)+text)
	}
	return lines
}

func (t *Terminal) write(s string) {
	if _, err := io.WriteString(t.out, s); err != nil {
		// Best-effort terminal output.
		_ = err
	}
}

func (t *Terminal) writeln(s string) {
	t.write(s + "\n")
}
