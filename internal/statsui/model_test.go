package statsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/drill/internal/model"
	"github.com/verte-zerg/drill/internal/stats"
)

func newTestModel() *Model {
	sets := []model.Set{{Name: "math", Title: "Math"}, {Name: "geo", Title: "Geography"}}
	questions := []model.Question{
		{ID: "math/Q0", Set: "math", Question: "2+2", Rank: 0},
		{ID: "geo/Q0", Set: "geo", Question: "Capital of France?", Rank: 3},
	}
	report := stats.BuildReport(sets, questions, 2)
	return NewModel(report, stats.Weakest(questions, 5))
}

func TestViewEmptyBeforeResize(t *testing.T) {
	m := newTestModel()
	if got := m.View(); got != "" {
		t.Fatalf("expected empty view, got %q", got)
	}
}

func TestViewRendersSetsTab(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 16})

	view := m.View()
	if lines := strings.Split(view, "\n"); len(lines) != 16 {
		t.Fatalf("expected view to fill 16 lines, got %d", len(lines))
	}
	for _, want := range []string{"Iteration 2", "Math", "Geography", "Total", "Quit: q"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
}

func TestTabSwitchShowsWeakest(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 16})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	if m.activeTab != tabWeakest {
		t.Fatalf("expected weakest tab, got %d", m.activeTab)
	}
	view := m.View()
	if !strings.Contains(view, "math/Q0") || !strings.Contains(view, "Capital of France?") {
		t.Fatalf("unexpected weakest view: %q", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabSets {
		t.Fatalf("expected tabs to wrap around, got %d", m.activeTab)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		m := newTestModel()
		if _, cmd := m.Update(msg); cmd == nil {
			t.Fatalf("expected quit command for %v", msg)
		}
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
