package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wch1125/proviso/internal/engine"
)

func sampleStatus() engine.Status {
	return engine.Status{
		CurrentPhase: "Construction",
		Covenants: []engine.CovenantResult{
			{Name: "MaxLeverage", Compliant: true, Actual: 4.0, Threshold: 5.0, Headroom: 1.0},
		},
	}
}

func TestNewModelBuildsCovenantRows(t *testing.T) {
	m := NewModel(sampleStatus(), "# Term Loan Agreement")
	if m.active != paneCovenants {
		t.Errorf("expected initial pane to be covenants, got %d", m.active)
	}
	if m.phaseName != "Construction" {
		t.Errorf("expected phaseName Construction, got %q", m.phaseName)
	}
	if len(m.covenants.Rows()) != 1 {
		t.Fatalf("expected 1 covenant row, got %d", len(m.covenants.Rows()))
	}
	if m.covenants.Rows()[0][1] != "compliant" {
		t.Errorf("expected compliant status, got %q", m.covenants.Rows()[0][1])
	}
}

func TestTabTogglesActivePane(t *testing.T) {
	m := NewModel(sampleStatus(), "# doc")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	next := updated.(Model)
	if next.active != paneProse {
		t.Errorf("expected pane to toggle to prose, got %d", next.active)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	back := updated.(Model)
	if back.active != paneCovenants {
		t.Errorf("expected pane to toggle back to covenants, got %d", back.active)
	}
}

func TestQuitKeySendsQuitCommand(t *testing.T) {
	m := NewModel(sampleStatus(), "# doc")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command, got nil")
	}
}

func TestViewRendersHeaderAndFooter(t *testing.T) {
	m := NewModel(sampleStatus(), "# doc")
	view := m.View()
	if !strings.Contains(view, "Construction") {
		t.Error("expected view to contain current phase name")
	}
	if !strings.Contains(view, "tab: switch pane") {
		t.Error("expected view to contain footer hint")
	}
}

func TestWindowSizeResizesProseViewport(t *testing.T) {
	m := NewModel(sampleStatus(), "# doc")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	next := updated.(Model)
	if next.prose.Width != 98 {
		t.Errorf("expected prose viewport width 98, got %d", next.prose.Width)
	}
	if next.prose.Height != 34 {
		t.Errorf("expected prose viewport height 34, got %d", next.prose.Height)
	}
}
