// Package statsui provides the Bubble Tea rank report viewer.
package statsui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/drill/internal/model"
	"github.com/verte-zerg/drill/internal/scheduler"
	"github.com/verte-zerg/drill/internal/stats"
)

const (
	tabSets = iota
	tabWeakest
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea report viewer.
type Model struct {
	report  stats.Report
	weakest []model.Question

	tabs      []string
	activeTab int
	tables    []table.Model

	width  int
	height int
}

// NewModel constructs a viewer for report and the weakest questions.
func NewModel(report stats.Report, weakest []model.Question) *Model {
	m := &Model{
		report:  report,
		weakest: weakest,
		tabs:    []string{"Sets", "Weakest"},
	}
	m.tables = []table.Model{
		buildTable(setColumns(), setRows(report)),
		buildTable(weakColumns(), weakRows(weakest, report.Iteration)),
	}
	m.tables[m.activeTab].Focus()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "g", "home":
			m.tables[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.tables[m.activeTab].GotoBottom()
			return m, nil
		default:
			var cmd tea.Cmd
			m.tables[m.activeTab], cmd = m.tables[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.tables[m.activeTab].View(), m.width, bodyHeight)
	footer := fitLines(headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q"), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.tables {
		m.tables[i].SetWidth(m.width)
		m.tables[i].SetHeight(bodyHeight)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.tables[m.activeTab].Blur()
	m.activeTab = (m.activeTab + delta + count) % count
	m.tables[m.activeTab].Focus()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	total := m.report.Total
	summary := fmt.Sprintf("Iteration %d  questions=%d  due=%d  new=%d", m.report.Iteration, total.Total, total.Due, total.New)
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func setColumns() []table.Column {
	return []table.Column{
		{Title: "Set", Width: 28},
		{Title: "Total", Width: 6},
		{Title: "New", Width: 6},
		{Title: "Learning", Width: 9},
		{Title: "Familiar", Width: 9},
		{Title: "Due", Width: 6},
	}
}

func setRows(report stats.Report) []table.Row {
	rows := make([]table.Row, 0, len(report.Rows)+1)
	for _, row := range report.Rows {
		rows = append(rows, rankRow(row))
	}
	if len(report.Rows) > 1 {
		rows = append(rows, rankRow(report.Total))
	}
	return rows
}

func rankRow(row stats.Row) table.Row {
	return table.Row{
		row.Title,
		strconv.Itoa(row.Total),
		strconv.Itoa(row.New),
		strconv.Itoa(row.Learning),
		strconv.Itoa(row.Familiar),
		strconv.Itoa(row.Due),
	}
}

func weakColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 28},
		{Title: "Rank", Width: 5},
		{Title: "Next", Width: 6},
		{Title: "Question", Width: 40},
	}
}

func weakRows(questions []model.Question, iteration int) []table.Row {
	rows := make([]table.Row, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, table.Row{
			q.ID,
			strconv.Itoa(q.Rank),
			strconv.Itoa(scheduler.NextDue(q.Rank, iteration)),
			strings.ReplaceAll(q.Question, "\n", " "),
		})
	}
	return rows
}

func buildTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(max(len(rows), 1)),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
