// Package tui renders the local operator dashboard: the current phase
// and a covenant status table from a running interpreter, plus a glamour-
// rendered Markdown preview of generated prose, spec §2.S. It has no
// persistence, auth, or analytics of its own — it only renders what
// GetStatus()/GenerateDocument() already compute.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/wch1125/proviso/internal/engine"
)

// pane enumerates the dashboard's two views, toggled with tab.
type pane int

const (
	paneCovenants pane = iota
	paneProse
)

// Model is the bubbletea model backing `proviso tui`.
type Model struct {
	width, height int

	covenants table.Model
	prose     viewport.Model
	proseMD   string

	active pane
	styles Styles

	status    engine.Status
	phaseName string
}

// NewModel builds the dashboard model from a computed status snapshot
// and a rendered Markdown document, both read once at startup; the
// model never polls the interpreter, and `proviso tui` does not watch
// the source file for changes.
func NewModel(status engine.Status, proseMarkdown string) Model {
	columns := []table.Column{
		{Title: "Covenant", Width: 24},
		{Title: "Status", Width: 10},
		{Title: "Actual", Width: 10},
		{Title: "Threshold", Width: 10},
		{Title: "Headroom", Width: 10},
	}
	rows := make([]table.Row, 0, len(status.Covenants))
	for _, c := range status.Covenants {
		state := "compliant"
		if !c.Compliant {
			state = "BREACH"
		}
		rows = append(rows, table.Row{
			c.Name, state,
			fmt.Sprintf("%.4f", c.Actual),
			fmt.Sprintf("%.4f", c.Threshold),
			fmt.Sprintf("%.4f", c.Headroom),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)

	rendered, err := glamour.Render(proseMarkdown, "dark")
	if err != nil {
		rendered = proseMarkdown
	}
	vp := viewport.New(80, 20)
	vp.SetContent(rendered)

	return Model{
		covenants: t,
		prose:     vp,
		proseMD:   proseMarkdown,
		styles:    DefaultStyles(),
		status:    status,
		phaseName: status.CurrentPhase,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.active == paneCovenants {
				m.active = paneProse
			} else {
				m.active = paneCovenants
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.prose.Width = msg.Width - 2
		m.prose.Height = msg.Height - 6
	}

	var cmd tea.Cmd
	if m.active == paneCovenants {
		m.covenants, cmd = m.covenants.Update(msg)
	} else {
		m.prose, cmd = m.prose.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	header := fmt.Sprintf(" ProViso — phase: %s ", m.phaseName)
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n\n")

	if m.active == paneCovenants {
		b.WriteString(m.covenants.View())
	} else {
		b.WriteString(m.prose.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Dim.Render("tab: switch pane   q: quit"))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
